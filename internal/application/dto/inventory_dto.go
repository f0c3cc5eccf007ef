package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// SubmissionRequest alta de inventario.
type SubmissionRequest struct {
	Name     string          `json:"name"`
	Category string          `json:"category"`
	Quantity int64           `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
}

// SubmissionResponse envío de inventario y acciones disponibles.
type SubmissionResponse struct {
	ID             string                `json:"id"`
	Name           string                `json:"name"`
	Category       string                `json:"category"`
	Quantity       int64                 `json:"quantity"`
	Price          decimal.Decimal       `json:"price"`
	Status         entity.ApprovalStatus `json:"status"`
	LedgerItemID   string                `json:"ledger_item_id,omitempty"`
	SubmittedBy    string                `json:"submitted_by"`
	SubmissionDate time.Time             `json:"submission_date"`
	CheckedBy      string                `json:"checked_by,omitempty"`
	ApprovedBy     string                `json:"approved_by,omitempty"`
	AllowedActions []string              `json:"allowed_actions"`
}

// SubmissionListQuery filtros del listado.
type SubmissionListQuery struct {
	PageRequest
	Status string `query:"status"`
}

// LedgerItemResponse fila del libro. Total = Available + Pending; Value = Available × Price.
// Allocated: unidades pedidas por proyectos aún no aprobados (solo informativo).
type LedgerItemResponse struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	Category  string          `json:"category"`
	Price     decimal.Decimal `json:"price"`
	Available int64           `json:"available"`
	Pending   int64           `json:"pending"`
	Allocated int64           `json:"allocated"`
	Total     int64           `json:"total"`
	Value     decimal.Decimal `json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// LedgerResponse libro completo con totales.
type LedgerResponse struct {
	Items          []LedgerItemResponse `json:"items"`
	TotalAvailable int64                `json:"total_available"`
	TotalPending   int64                `json:"total_pending"`
	TotalAllocated int64                `json:"total_allocated"`
	TotalValue     decimal.Decimal      `json:"total_value"`
}
