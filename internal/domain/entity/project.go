package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Origen de una línea del BOM.
const (
	SourceInventory = "Inventory"
	SourcePurchase  = "Purchase"
)

// BomItem línea del Bill of Materials.
// Para Source=Purchase InventoryItemID es sintético (no referencia el ledger).
type BomItem struct {
	InventoryItemID string          `json:"inventory_item_id"`
	Name            string          `json:"name"`
	QuantityNeeded  int64           `json:"quantity_needed"`
	Price           decimal.Decimal `json:"price"`
	Source          string          `json:"source"`
}

// LineCost QuantityNeeded × Price.
func (b BomItem) LineCost() decimal.Decimal {
	return b.Price.Mul(decimal.NewFromInt(b.QuantityNeeded))
}

// Milestone hito del cronograma.
type Milestone struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
	Completed bool   `json:"completed"`
}

// TeamMember referencia a un miembro del equipo o aprobador.
type TeamMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Project proyecto de capital sujeto a revisión y aprobación.
type Project struct {
	ID             string
	Name           string
	CostCenter     string
	Details        string
	DocumentRef    string // referencia opaca al documento de detalle
	CostingRef     string // referencia opaca a la hoja de costos
	BOM            []BomItem
	Timeline       []Milestone
	Team           []TeamMember
	Approvers      []TeamMember
	Status         ApprovalStatus
	SubmittedBy    string // username
	SubmissionDate time.Time
	CheckedBy      string
	ApprovedBy     string
	LastEditor     string
	LastEditorRole string
	LastEditDate   *time.Time
	UpdatedAt      time.Time
}

// TotalCost Σ(QuantityNeeded × Price); se recalcula siempre, nunca se persiste.
func (p *Project) TotalCost() decimal.Decimal {
	total := decimal.Zero
	for _, b := range p.BOM {
		total = total.Add(b.LineCost())
	}
	return total
}

// InventoryDemand cantidad total pedida al ledger por ítem (solo líneas Inventory).
func (p *Project) InventoryDemand() map[string]int64 {
	out := make(map[string]int64)
	for _, b := range p.BOM {
		if b.Source == SourceInventory {
			out[b.InventoryItemID] += b.QuantityNeeded
		}
	}
	return out
}

// ClearLastEdit limpia los datos del desvío de edición por revisor.
func (p *Project) ClearLastEdit() {
	p.LastEditor = ""
	p.LastEditorRole = ""
	p.LastEditDate = nil
}
