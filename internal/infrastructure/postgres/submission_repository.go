package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

var _ repository.InventorySubmissionRepository = (*SubmissionRepo)(nil)

// SubmissionRepo altas de inventario (usable con pool o tx).
type SubmissionRepo struct {
	q Querier
}

// NewSubmissionRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSubmissionRepository(q Querier) *SubmissionRepo {
	return &SubmissionRepo{q: q}
}

const submissionColumns = `id, name, category, quantity, price, status, ledger_item_id, submitted_by,
	submission_date, checked_by, approved_by, updated_at`

func scanSubmission(row pgx.Row) (*entity.InventorySubmission, error) {
	var s entity.InventorySubmission
	var status string
	var checkedBy, approvedBy *string
	err := row.Scan(&s.ID, &s.Name, &s.Category, &s.Quantity, &s.Price, &status, &s.LedgerItemID,
		&s.SubmittedBy, &s.SubmissionDate, &checkedBy, &approvedBy, &s.UpdatedAt)
	if err != nil {
		return nil, err
	}
	s.Status = entity.ApprovalStatus(status)
	s.CheckedBy = deref(checkedBy)
	s.ApprovedBy = deref(approvedBy)
	return &s, nil
}

func (r *SubmissionRepo) Create(ctx context.Context, s *entity.InventorySubmission) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO inventory_submissions (`+submissionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		s.ID, s.Name, s.Category, s.Quantity, s.Price, string(s.Status), s.LedgerItemID,
		s.SubmittedBy, s.SubmissionDate, nullIfEmpty(s.CheckedBy), nullIfEmpty(s.ApprovedBy), s.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert inventory submission: %w", err)
	}
	return nil
}

func (r *SubmissionRepo) GetByID(ctx context.Context, id string) (*entity.InventorySubmission, error) {
	s, err := scanSubmission(r.q.QueryRow(ctx, `SELECT `+submissionColumns+` FROM inventory_submissions WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get inventory submission: %w", notFound(err, domain.ErrNotFound))
	}
	return s, nil
}

func (r *SubmissionRepo) GetForUpdate(ctx context.Context, id string) (*entity.InventorySubmission, error) {
	query := `SELECT ` + submissionColumns + ` FROM inventory_submissions WHERE id = $1 FOR UPDATE`
	s, err := scanSubmission(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("get inventory submission for update: %w", notFound(err, domain.ErrNotFound))
	}
	return s, nil
}

func (r *SubmissionRepo) Update(ctx context.Context, s *entity.InventorySubmission) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_submissions SET
			status = $2, ledger_item_id = $3, checked_by = $4, approved_by = $5, updated_at = $6
		WHERE id = $1`,
		s.ID, string(s.Status), s.LedgerItemID, nullIfEmpty(s.CheckedBy), nullIfEmpty(s.ApprovedBy), s.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update inventory submission: %w", err)
	}
	return affected(tag)
}

func (r *SubmissionRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM inventory_submissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete inventory submission: %w", err)
	}
	return affected(tag)
}

func (r *SubmissionRepo) List(ctx context.Context, status entity.ApprovalStatus, limit, offset int) ([]*entity.InventorySubmission, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+submissionColumns+` FROM inventory_submissions
		WHERE ($1 = '' OR status = $1)
		ORDER BY submission_date DESC
		LIMIT NULLIF($2::int, 0) OFFSET $3`, string(status), limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list inventory submissions: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventorySubmission
	for rows.Next() {
		s, err := scanSubmission(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory submission: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
