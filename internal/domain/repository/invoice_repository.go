package repository

import (
	"context"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// InvoiceFilter filtros opcionales de listado.
type InvoiceFilter struct {
	Status      entity.ApprovalStatus
	SubmittedBy string
	CostCenter  string
}

// InvoiceRepository puerto de persistencia para la cabecera y sus líneas de compra.
type InvoiceRepository interface {
	Create(ctx context.Context, inv *entity.Invoice, lines []entity.PurchaseRecord) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	GetLines(ctx context.Context, invoiceID string) ([]entity.PurchaseRecord, error)
	// UpdateStatus persiste status, checked_by y approved_by.
	UpdateStatus(ctx context.Context, inv *entity.Invoice) error
	// Delete elimina cabecera y líneas.
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, f InvoiceFilter, limit, offset int) ([]*entity.Invoice, error)
}
