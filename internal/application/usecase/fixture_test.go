package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/activity"
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

type env struct {
	ctx       context.Context
	store     *memory.Store
	activity  *activity.UseCase
	projects  *workflow.ProjectWorkflow
	invoices  *workflow.InvoiceWorkflow
	inventory *workflow.InventoryWorkflow
}

func newEnv(t *testing.T) *env {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(nil)
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
	deps := workflow.Deps{
		Tx:       memory.NewTxRunner(store),
		Users:    store.Users(),
		Activity: act,
		Logger:   zerolog.Nop(),
	}
	return &env{
		ctx:       ctx,
		store:     store,
		activity:  act,
		projects:  workflow.NewProjectWorkflow(deps),
		invoices:  workflow.NewInvoiceWorkflow(deps),
		inventory: workflow.NewInventoryWorkflow(deps),
	}
}

func (e *env) seed(t *testing.T, name, category string, available int64, price string) string {
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
	require.NoError(t, e.store.Ledger().Create(e.ctx, item))
	return item.ID
}

func (e *env) project(t *testing.T, actor entity.Actor, name string, bom ...entity.BomItem) *entity.Project {
	t.Helper()
	p, _, err := e.projects.Create(e.ctx, actor, workflow.ProjectInput{Name: name, CostCenter: "CC-" + name, BOM: bom})
	require.NoError(t, err)
	return p
}

func bomLine(id, name string, qty int64, price, source string) entity.BomItem {
	return entity.BomItem{
		InventoryItemID: id,
		Name:            name,
		QuantityNeeded:  qty,
		Price:           decimal.RequireFromString(price),
		Source:          source,
	}
}

func day(s string) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d
}
