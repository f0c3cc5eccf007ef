package repository

import (
	"context"

	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// LedgerRepository puerto de persistencia del libro de inventario.
// Los métodos ForUpdate bloquean la fila hasta el fin de la transacción (SELECT ... FOR UPDATE).
type LedgerRepository interface {
	GetByID(ctx context.Context, id string) (*entity.LedgerItem, error)
	GetForUpdate(ctx context.Context, id string) (*entity.LedgerItem, error)
	// GetByKeyForUpdate busca por (NameKey, categoría); ErrNotFound si no existe.
	GetByKeyForUpdate(ctx context.Context, nameKey, category string) (*entity.LedgerItem, error)
	Create(ctx context.Context, item *entity.LedgerItem) error
	// EnsureByKey inserta item si no hay fila con su (NameKey, categoría) y devuelve la fila
	// vigente sin bloquearla. Dos altas concurrentes de la misma clave no fallan.
	EnsureByKey(ctx context.Context, item *entity.LedgerItem) (*entity.LedgerItem, error)
	// Save persiste price, available y pending.
	Save(ctx context.Context, item *entity.LedgerItem) error
	List(ctx context.Context, category string) ([]*entity.LedgerItem, error)
}
