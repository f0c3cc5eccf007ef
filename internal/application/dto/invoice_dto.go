package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// InvoiceLineRequest línea de compra.
type InvoiceLineRequest struct {
	ItemName        string          `json:"item_name"`
	Category        string          `json:"category"`
	InventoryItemID string          `json:"inventory_item_id,omitempty"`
	Quantity        int64           `json:"quantity"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	PurchaseFor     string          `json:"purchase_for"`
	CostCenter      string          `json:"cost_center,omitempty"`
}

// InvoiceRequest factura con sus líneas. Date en formato YYYY-MM-DD.
type InvoiceRequest struct {
	Vendor     string               `json:"vendor"`
	Date       string               `json:"date"`
	CostCenter string               `json:"cost_center"`
	Lines      []InvoiceLineRequest `json:"lines"`
}

// PurchaseRecordResponse línea con su costo derivado.
type PurchaseRecordResponse struct {
	ID              string          `json:"id"`
	ItemName        string          `json:"item_name"`
	Category        string          `json:"category"`
	InventoryItemID string          `json:"inventory_item_id"`
	Quantity        int64           `json:"quantity"`
	PricePerUnit    decimal.Decimal `json:"price_per_unit"`
	TotalCost       decimal.Decimal `json:"total_cost"`
	PurchaseFor     string          `json:"purchase_for"`
	CostCenter      string          `json:"cost_center"`
}

// InvoiceResponse cabecera, líneas y acciones disponibles.
type InvoiceResponse struct {
	ID             string                   `json:"id"`
	Vendor         string                   `json:"vendor"`
	Date           string                   `json:"date"`
	CostCenter     string                   `json:"cost_center"`
	DocumentRef    string                   `json:"document_ref,omitempty"`
	Status         entity.ApprovalStatus    `json:"status"`
	SubmittedBy    string                   `json:"submitted_by"`
	SubmissionDate time.Time                `json:"submission_date"`
	CheckedBy      string                   `json:"checked_by,omitempty"`
	ApprovedBy     string                   `json:"approved_by,omitempty"`
	Total          decimal.Decimal          `json:"total"`
	Lines          []PurchaseRecordResponse `json:"lines,omitempty"`
	AllowedActions []string                 `json:"allowed_actions"`
}

// InvoiceListQuery filtros del listado.
type InvoiceListQuery struct {
	PageRequest
	Status      string `query:"status"`
	SubmittedBy string `query:"submitted_by"`
	CostCenter  string `query:"cost_center"`
}
