package workflow

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// ProjectInput datos editables de un proyecto.
type ProjectInput struct {
	Name       string `validate:"required,max=200"`
	CostCenter string `validate:"required,max=200"`
	Details    string
	BOM        []entity.BomItem
	Timeline   []entity.Milestone
	Team       []entity.TeamMember
	Approvers  []entity.TeamMember
	// Adjuntos opcionales; se suben antes de abrir la transacción.
	DetailsFile *Attachment
	CostingFile *Attachment
}

// InvoiceLineInput línea de compra a registrar.
type InvoiceLineInput struct {
	ItemName        string `validate:"required"`
	Category        string `validate:"required,category"`
	InventoryItemID string
	Quantity        int64 `validate:"gt=0"`
	PricePerUnit    decimal.Decimal
	PurchaseFor     string `validate:"required,purchase_for"`
	CostCenter      string
}

// InvoiceInput factura con sus líneas.
type InvoiceInput struct {
	Vendor     string    `validate:"required,max=200"`
	Date       time.Time `validate:"required"`
	CostCenter string
	Lines      []InvoiceLineInput `validate:"required,min=1,dive"`
	Document   *Attachment
}

// SubmissionInput alta de inventario.
type SubmissionInput struct {
	Name     string `validate:"required,max=200"`
	Category string `validate:"required,category"`
	Quantity int64  `validate:"gt=0"`
	Price    decimal.Decimal
}
