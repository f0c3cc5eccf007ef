package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo cabecera de factura y sus líneas de compra (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, vendor, date, cost_center, document_ref, status, submitted_by, submission_date,
	checked_by, approved_by, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	var status string
	var docRef, checkedBy, approvedBy *string
	err := row.Scan(&inv.ID, &inv.Vendor, &inv.Date, &inv.CostCenter, &docRef, &status,
		&inv.SubmittedBy, &inv.SubmissionDate, &checkedBy, &approvedBy, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}
	inv.Status = entity.ApprovalStatus(status)
	inv.DocumentRef = deref(docRef)
	inv.CheckedBy = deref(checkedBy)
	inv.ApprovedBy = deref(approvedBy)
	return &inv, nil
}

// Create persiste la cabecera y las líneas en orden (position conserva el orden de captura).
func (r *InvoiceRepo) Create(ctx context.Context, inv *entity.Invoice, lines []entity.PurchaseRecord) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoices (`+invoiceColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		inv.ID, inv.Vendor, inv.Date, inv.CostCenter, nullIfEmpty(inv.DocumentRef), string(inv.Status),
		inv.SubmittedBy, inv.SubmissionDate, nullIfEmpty(inv.CheckedBy), nullIfEmpty(inv.ApprovedBy), inv.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	for i, l := range lines {
		_, err := r.q.Exec(ctx, `
			INSERT INTO purchase_records (id, invoice_id, position, item_name, category, inventory_item_id,
				quantity, price_per_unit, purchase_for, cost_center)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			l.ID, inv.ID, i, l.ItemName, l.Category, l.InventoryItemID,
			l.Quantity, l.PricePerUnit, l.PurchaseFor, l.CostCenter)
		if err != nil {
			return fmt.Errorf("insert purchase record %d: %w", i+1, err)
		}
	}
	return nil
}

func (r *InvoiceRepo) GetByID(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get invoice: %w", notFound(err, domain.ErrNotFound))
	}
	return inv, nil
}

func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	inv, err := scanInvoice(r.q.QueryRow(ctx, `SELECT `+invoiceColumns+` FROM invoices WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get invoice for update: %w", notFound(err, domain.ErrNotFound))
	}
	return inv, nil
}

func (r *InvoiceRepo) GetLines(ctx context.Context, invoiceID string) ([]entity.PurchaseRecord, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, invoice_id, item_name, category, inventory_item_id, quantity, price_per_unit, purchase_for, cost_center
		FROM purchase_records WHERE invoice_id = $1 ORDER BY position`, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list purchase records: %w", err)
	}
	defer rows.Close()
	var lines []entity.PurchaseRecord
	for rows.Next() {
		var l entity.PurchaseRecord
		if err := rows.Scan(&l.ID, &l.InvoiceID, &l.ItemName, &l.Category, &l.InventoryItemID,
			&l.Quantity, &l.PricePerUnit, &l.PurchaseFor, &l.CostCenter); err != nil {
			return nil, fmt.Errorf("scan purchase record: %w", err)
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r *InvoiceRepo) UpdateStatus(ctx context.Context, inv *entity.Invoice) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE invoices SET status = $2, checked_by = $3, approved_by = $4, updated_at = $5
		WHERE id = $1`,
		inv.ID, string(inv.Status), nullIfEmpty(inv.CheckedBy), nullIfEmpty(inv.ApprovedBy), inv.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update invoice status: %w", err)
	}
	return affected(tag)
}

// Delete las líneas caen por ON DELETE CASCADE.
func (r *InvoiceRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete invoice: %w", err)
	}
	return affected(tag)
}

func (r *InvoiceRepo) List(ctx context.Context, f repository.InvoiceFilter, limit, offset int) ([]*entity.Invoice, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+invoiceColumns+` FROM invoices
		WHERE ($1 = '' OR status = $1) AND ($2 = '' OR submitted_by = $2) AND ($3 = '' OR cost_center = $3)
		ORDER BY submission_date DESC
		LIMIT NULLIF($4::int, 0) OFFSET $5`,
		string(f.Status), f.SubmittedBy, f.CostCenter, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}
