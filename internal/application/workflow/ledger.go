package workflow

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/ledger"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
)

// ItemRef identifica una fila del ledger por id o por (nombre, categoría).
type ItemRef struct {
	ID       string
	Name     string
	Category string
}

// key orden en que se resuelven (y crean) las filas.
func (r ItemRef) key() string {
	if r.ID != "" {
		return "id:" + r.ID
	}
	return "nk:" + ledger.NameKey(r.Name) + "\x00" + r.Category
}

// Ledger aplica las operaciones del libro de inventario sobre un repositorio atado a la
// transacción en curso. Cada operación relee la fila con SELECT ... FOR UPDATE.
type Ledger struct {
	now func() time.Time
}

// NewLedger construye el servicio; now nil usa time.Now.
func NewLedger(now func() time.Time) *Ledger {
	if now == nil {
		now = time.Now
	}
	return &Ledger{now: now}
}

// Resolve devuelve la fila de ref sin bloquearla: por id y, si no existe o no hay id, por
// (nombre, categoría), creándola vacía cuando falta. El lock se toma después, por id.
func (l *Ledger) Resolve(ctx context.Context, repo repository.LedgerRepository, ref ItemRef, price decimal.Decimal) (*entity.LedgerItem, error) {
	if ref.ID != "" {
		item, err := repo.GetByID(ctx, ref.ID)
		if err == nil {
			return item, nil
		}
		if !errors.Is(err, domain.ErrNotFound) || strings.TrimSpace(ref.Name) == "" {
			return nil, err
		}
	}
	if strings.TrimSpace(ref.Name) == "" || !entity.ValidCategory(ref.Category) {
		return nil, domain.Invalid("item", "requiere id existente o nombre y categoría válidos")
	}
	now := l.now()
	item, err := repo.EnsureByKey(ctx, &entity.LedgerItem{
		ID:        uuid.New().String(),
		Name:      strings.Join(strings.Fields(ref.Name), " "),
		NameKey:   ledger.NameKey(ref.Name),
		Category:  ref.Category,
		Price:     price,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		return nil, fmt.Errorf("crear fila del ledger: %w", err)
	}
	return item, nil
}

func (l *Ledger) save(ctx context.Context, repo repository.LedgerRepository, item *entity.LedgerItem) error {
	if err := ledger.Check(item); err != nil {
		return err
	}
	item.UpdatedAt = l.now()
	return repo.Save(ctx, item)
}

// Reservation cantidad a reservar sobre la fila de Ref.
// Line numera la reserva en los mensajes de error.
type Reservation struct {
	Line  int
	Ref   ItemRef
	Price decimal.Decimal
	Qty   int64
}

// Reserve pending += qty sobre la fila id.
func (l *Ledger) Reserve(ctx context.Context, repo repository.LedgerRepository, id string, qty int64) (*entity.LedgerItem, error) {
	if err := ledger.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	item, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ledger.Reserve(item, qty); err != nil {
		return nil, err
	}
	return item, l.save(ctx, repo, item)
}

// ReserveAll resuelve cada reserva a su fila (las altas en orden de clave) y luego bloquea y
// reserva en orden ascendente de id. Devuelve la fila asignada a cada reserva, en el mismo
// orden de rs.
func (l *Ledger) ReserveAll(ctx context.Context, repo repository.LedgerRepository, rs []Reservation) ([]*entity.LedgerItem, error) {
	order := make([]int, len(rs))
	for i := range rs {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool { return rs[order[a]].Ref.key() < rs[order[b]].Ref.key() })

	ids := make([]string, len(rs))
	demand := make(map[string]int64)
	for _, i := range order {
		if err := ledger.ValidateQuantity(rs[i].Qty); err != nil {
			return nil, fmt.Errorf("línea %d: %w", rs[i].Line, err)
		}
		item, err := l.Resolve(ctx, repo, rs[i].Ref, rs[i].Price)
		if err != nil {
			return nil, fmt.Errorf("línea %d: %w", rs[i].Line, err)
		}
		ids[i] = item.ID
		demand[item.ID] += rs[i].Qty
	}
	locked := make(map[string]*entity.LedgerItem, len(demand))
	for _, id := range sortedIDs(demand) {
		item, err := l.Reserve(ctx, repo, id, demand[id])
		if err != nil {
			return nil, err
		}
		locked[id] = item
	}
	out := make([]*entity.LedgerItem, len(rs))
	for i, id := range ids {
		out[i] = locked[id]
	}
	return out, nil
}

// CommitPending mueve qty de pending a available y fija el último precio de compra.
func (l *Ledger) CommitPending(ctx context.Context, repo repository.LedgerRepository, id string, qty int64, newPrice decimal.Decimal) (*entity.LedgerItem, error) {
	item, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ledger.CommitPending(item, qty, newPrice); err != nil {
		return nil, err
	}
	return item, l.save(ctx, repo, item)
}

// ReleasePending pending -= qty.
func (l *Ledger) ReleasePending(ctx context.Context, repo repository.LedgerRepository, id string, qty int64) (*entity.LedgerItem, error) {
	item, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ledger.ReleasePending(item, qty); err != nil {
		return nil, err
	}
	return item, l.save(ctx, repo, item)
}

// Deduct available -= qty; InsufficientStockError si no alcanza.
func (l *Ledger) Deduct(ctx context.Context, repo repository.LedgerRepository, id string, qty int64) (*entity.LedgerItem, error) {
	item, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ledger.Deduct(item, qty); err != nil {
		return nil, err
	}
	return item, l.save(ctx, repo, item)
}

// Restock available += qty (deshace un Deduct).
func (l *Ledger) Restock(ctx context.Context, repo repository.LedgerRepository, id string, qty int64) (*entity.LedgerItem, error) {
	item, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ledger.Restock(item, qty); err != nil {
		return nil, err
	}
	return item, l.save(ctx, repo, item)
}

// ReverseCommit available -= qty (deshace un CommitPending ya aprobado).
func (l *Ledger) ReverseCommit(ctx context.Context, repo repository.LedgerRepository, id string, qty int64) (*entity.LedgerItem, error) {
	item, err := repo.GetForUpdate(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := ledger.ReverseCommit(item, qty); err != nil {
		return nil, err
	}
	return item, l.save(ctx, repo, item)
}

// MergeOrCreate ubica la fila por (nombre, categoría): si existe mueve qty reservadas a
// available; si no existe la crea con available = qty.
func (l *Ledger) MergeOrCreate(ctx context.Context, repo repository.LedgerRepository, name, category string, qty int64, price decimal.Decimal) (*entity.LedgerItem, error) {
	if err := ledger.ValidateQuantity(qty); err != nil {
		return nil, err
	}
	item, err := repo.GetByKeyForUpdate(ctx, ledger.NameKey(name), category)
	switch {
	case err == nil:
		if err := ledger.CommitPending(item, qty, price); err != nil {
			return nil, err
		}
		return item, l.save(ctx, repo, item)
	case errors.Is(err, domain.ErrNotFound):
		created, err := l.Resolve(ctx, repo, ItemRef{Name: name, Category: category}, price)
		if err != nil {
			return nil, err
		}
		if item, err = repo.GetForUpdate(ctx, created.ID); err != nil {
			return nil, err
		}
		if err := ledger.Restock(item, qty); err != nil {
			return nil, err
		}
		return item, l.save(ctx, repo, item)
	default:
		return nil, err
	}
}

// sortedIDs ids de demand en orden ascendente (orden global de locks).
func sortedIDs(demand map[string]int64) []string {
	ids := make([]string, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// DeductAll descuenta toda la demanda en orden de id. Cualquier fallo aborta la transacción
// completa; el InsufficientStockError lleva el nombre del ítem.
func (l *Ledger) DeductAll(ctx context.Context, repo repository.LedgerRepository, demand map[string]int64) error {
	for _, id := range sortedIDs(demand) {
		if _, err := l.Deduct(ctx, repo, id, demand[id]); err != nil {
			return err
		}
	}
	return nil
}

// RestockAll devuelve la demanda al inventario en orden de id.
func (l *Ledger) RestockAll(ctx context.Context, repo repository.LedgerRepository, demand map[string]int64) error {
	for _, id := range sortedIDs(demand) {
		if _, err := l.Restock(ctx, repo, id, demand[id]); err != nil {
			return err
		}
	}
	return nil
}
