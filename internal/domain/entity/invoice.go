package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Destino de una línea de compra.
const (
	PurchaseForGeneralInventory = "General Inventory"
	PurchaseForProject          = "Project"
	PurchaseForExpense          = "Expense" // nunca toca el ledger
)

// ValidPurchaseFor indica si v es un destino conocido.
func ValidPurchaseFor(v string) bool {
	return v == PurchaseForGeneralInventory || v == PurchaseForProject || v == PurchaseForExpense
}

// Invoice cabecera que agrupa las líneas de compra. El estado es común a todas las líneas.
type Invoice struct {
	ID             string
	Vendor         string
	Date           time.Time
	CostCenter     string
	DocumentRef    string
	Status         ApprovalStatus
	SubmittedBy    string
	SubmissionDate time.Time
	CheckedBy      string
	ApprovedBy     string
	UpdatedAt      time.Time
}

// PurchaseRecord línea de factura.
type PurchaseRecord struct {
	ID              string
	InvoiceID       string
	ItemName        string
	Category        string
	InventoryItemID string // ledger o sintético (exp-...) para Expense
	Quantity        int64
	PricePerUnit    decimal.Decimal
	PurchaseFor     string
	CostCenter      string
}

// TotalCost Quantity × PricePerUnit (derivado).
func (r PurchaseRecord) TotalCost() decimal.Decimal {
	return r.PricePerUnit.Mul(decimal.NewFromInt(r.Quantity))
}

// TouchesLedger las líneas Expense no afectan el inventario.
func (r PurchaseRecord) TouchesLedger() bool {
	return r.PurchaseFor != PurchaseForExpense
}

// InvoiceTotal suma de TotalCost de las líneas.
func InvoiceTotal(lines []PurchaseRecord) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.TotalCost())
	}
	return total
}
