package workflow_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/activity"
	"github.com/jhoicas/Aprobaciones-api/internal/application/notification"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/ledger"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/memory"
)

var (
	alice = entity.Actor{ID: "u-alice", Username: "alice", Role: entity.RoleLogger}
	bob   = entity.Actor{ID: "u-bob", Username: "bob", Role: entity.RoleChecker}
	carol = entity.Actor{ID: "u-carol", Username: "carol", Role: entity.RoleAuthorizer}
	root  = entity.Actor{ID: "u-root", Username: "root", Role: entity.RoleSuperAdmin}
)

type fixture struct {
	ctx       context.Context
	store     *memory.Store
	projects  *workflow.ProjectWorkflow
	invoices  *workflow.InvoiceWorkflow
	inventory *workflow.InventoryWorkflow
	inbox     *notification.UseCase
	activity  *activity.UseCase
}

func newFixture(t *testing.T, opts ...func(*workflow.Deps)) *fixture {
	t.Helper()
	store := memory.NewStore(nil)
	ctx := context.Background()
	for _, a := range []entity.Actor{alice, bob, carol, root} {
		require.NoError(t, store.Users().Create(ctx, &entity.User{
			ID:       a.ID,
			Email:    a.Username + "@example.com",
			Username: a.Username,
			Role:     a.Role,
			Status:   entity.UserStatusActive,
		}))
	}
	act := activity.NewUseCase(store.Activity())
	inbox := notification.NewUseCase(store.Notifications(), nil, zerolog.Nop())
	deps := workflow.Deps{
		Tx:       memory.NewTxRunner(store),
		Users:    store.Users(),
		Activity: act,
		Notifier: inbox,
		Logger:   zerolog.Nop(),
	}
	for _, o := range opts {
		o(&deps)
	}
	return &fixture{
		ctx:       ctx,
		store:     store,
		projects:  workflow.NewProjectWorkflow(deps),
		invoices:  workflow.NewInvoiceWorkflow(deps),
		inventory: workflow.NewInventoryWorkflow(deps),
		inbox:     inbox,
		activity:  act,
	}
}

func (f *fixture) seed(t *testing.T, name, category string, available int64, price string) string {
	t.Helper()
	now := time.Now()
	item := &entity.LedgerItem{
		ID:        uuid.New().String(),
		Name:      name,
		NameKey:   ledger.NameKey(name),
		Category:  category,
		Price:     decimal.RequireFromString(price),
		Available: available,
		CreatedAt: now,
		UpdatedAt: now,
	}
	require.NoError(t, f.store.Ledger().Create(f.ctx, item))
	return item.ID
}

func (f *fixture) item(t *testing.T, id string) *entity.LedgerItem {
	t.Helper()
	it, err := f.store.Ledger().GetByID(f.ctx, id)
	require.NoError(t, err)
	return it
}

func (f *fixture) inboxOf(t *testing.T, a entity.Actor) []*entity.Notification {
	t.Helper()
	ns, err := f.inbox.Inbox(f.ctx, a.ID, false, 100)
	require.NoError(t, err)
	return ns
}

func inventoryLine(id, name string, qty int64, price string) entity.BomItem {
	return entity.BomItem{
		InventoryItemID: id,
		Name:            name,
		QuantityNeeded:  qty,
		Price:           decimal.RequireFromString(price),
		Source:          entity.SourceInventory,
	}
}

func projectInput(name string, items ...entity.BomItem) workflow.ProjectInput {
	return workflow.ProjectInput{Name: name, CostCenter: "CC-" + name, BOM: items}
}
