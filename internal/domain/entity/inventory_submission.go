package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventorySubmission alta de stock enviada a revisión. Al aprobarse se fusiona
// en la fila del ledger con el mismo (nombre, categoría).
type InventorySubmission struct {
	ID             string
	Name           string
	Category       string
	Quantity       int64
	Price          decimal.Decimal
	Status         ApprovalStatus
	LedgerItemID   string
	SubmittedBy    string
	SubmissionDate time.Time
	CheckedBy      string
	ApprovedBy     string
	UpdatedAt      time.Time
}
