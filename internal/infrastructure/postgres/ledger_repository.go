package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo filas del libro de inventario (usable con pool o tx).
type LedgerRepo struct {
	q Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q}
}

const ledgerColumns = `id, name, name_key, category, price, available, pending, created_at, updated_at`

func scanLedger(row pgx.Row) (*entity.LedgerItem, error) {
	var it entity.LedgerItem
	err := row.Scan(&it.ID, &it.Name, &it.NameKey, &it.Category, &it.Price,
		&it.Available, &it.Pending, &it.CreatedAt, &it.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &it, nil
}

func (r *LedgerRepo) GetByID(ctx context.Context, id string) (*entity.LedgerItem, error) {
	it, err := scanLedger(r.q.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM ledger_items WHERE id = $1`, id))
	if err != nil {
		return nil, fmt.Errorf("get ledger item: %w", notFound(err, domain.ErrNotFound))
	}
	return it, nil
}

// GetForUpdate bloquea la fila hasta el fin de la transacción.
func (r *LedgerRepo) GetForUpdate(ctx context.Context, id string) (*entity.LedgerItem, error) {
	it, err := scanLedger(r.q.QueryRow(ctx, `SELECT `+ledgerColumns+` FROM ledger_items WHERE id = $1 FOR UPDATE`, id))
	if err != nil {
		return nil, fmt.Errorf("get ledger item for update: %w", notFound(err, domain.ErrNotFound))
	}
	return it, nil
}

func (r *LedgerRepo) GetByKeyForUpdate(ctx context.Context, nameKey, category string) (*entity.LedgerItem, error) {
	query := `SELECT ` + ledgerColumns + ` FROM ledger_items WHERE name_key = $1 AND category = $2 FOR UPDATE`
	it, err := scanLedger(r.q.QueryRow(ctx, query, nameKey, category))
	if err != nil {
		return nil, fmt.Errorf("get ledger item by key: %w", notFound(err, domain.ErrNotFound))
	}
	return it, nil
}

func (r *LedgerRepo) Create(ctx context.Context, it *entity.LedgerItem) error {
	query := `
		INSERT INTO ledger_items (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, it.ID, it.Name, it.NameKey, it.Category, it.Price,
		it.Available, it.Pending, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert ledger item: %w", err)
	}
	return nil
}

// EnsureByKey usa ON CONFLICT DO NOTHING: si otra transacción inserta la misma clave, el
// INSERT espera su commit y no falla. La lectura posterior (READ COMMITTED) ve la fila ganadora.
func (r *LedgerRepo) EnsureByKey(ctx context.Context, it *entity.LedgerItem) (*entity.LedgerItem, error) {
	query := `
		INSERT INTO ledger_items (` + ledgerColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (name_key, category) DO NOTHING`
	_, err := r.q.Exec(ctx, query, it.ID, it.Name, it.NameKey, it.Category, it.Price,
		it.Available, it.Pending, it.CreatedAt, it.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("ensure ledger item: %w", err)
	}
	query = `SELECT ` + ledgerColumns + ` FROM ledger_items WHERE name_key = $1 AND category = $2`
	out, err := scanLedger(r.q.QueryRow(ctx, query, it.NameKey, it.Category))
	if err != nil {
		return nil, fmt.Errorf("get ledger item by key: %w", notFound(err, domain.ErrNotFound))
	}
	return out, nil
}

func (r *LedgerRepo) Save(ctx context.Context, it *entity.LedgerItem) error {
	tag, err := r.q.Exec(ctx, `
		UPDATE ledger_items SET price = $2, available = $3, pending = $4, updated_at = $5
		WHERE id = $1`, it.ID, it.Price, it.Available, it.Pending, it.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update ledger item: %w", err)
	}
	return affected(tag)
}

// List ordenado por categoría y nombre; category vacío lista todo.
func (r *LedgerRepo) List(ctx context.Context, category string) ([]*entity.LedgerItem, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+ledgerColumns+` FROM ledger_items
		WHERE ($1 = '' OR category = $1)
		ORDER BY category, name_key`, category)
	if err != nil {
		return nil, fmt.Errorf("list ledger: %w", err)
	}
	defer rows.Close()
	var list []*entity.LedgerItem
	for rows.Next() {
		it, err := scanLedger(rows)
		if err != nil {
			return nil, fmt.Errorf("scan ledger item: %w", err)
		}
		list = append(list, it)
	}
	return list, rows.Err()
}
