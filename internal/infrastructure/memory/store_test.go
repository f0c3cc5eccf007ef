package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/feed"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/memory"
)

func ledgerRow(id, name string, available int64) *entity.LedgerItem {
	return &entity.LedgerItem{
		ID:        id,
		Name:      name,
		NameKey:   name,
		Category:  entity.CategorySensors,
		Price:     decimal.NewFromInt(1),
		Available: available,
	}
}

func TestTxRunner_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(nil)
	require.NoError(t, s.Ledger().Create(ctx, ledgerRow("a", "a", 10)))

	boom := errors.New("boom")
	err := memory.NewTxRunner(s).Run(ctx, func(r workflow.Repos) error {
		it, err := r.Ledger.GetForUpdate(ctx, "a")
		require.NoError(t, err)
		it.Available = 3
		require.NoError(t, r.Ledger.Save(ctx, it))
		require.NoError(t, r.Ledger.Create(ctx, ledgerRow("b", "b", 1)))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	it, err := s.Ledger().GetByID(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, int64(10), it.Available)
	_, err = s.Ledger().GetByID(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTxRunner_PublishesOnlyAfterCommit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	b := feed.NewBroadcaster()
	defer b.Close()
	s := memory.NewStore(b)
	ch, err := b.Subscribe(ctx, workflow.CollectionLedger, workflow.ChangeFilter{})
	require.NoError(t, err)

	runner := memory.NewTxRunner(s)
	_ = runner.Run(ctx, func(r workflow.Repos) error {
		require.NoError(t, r.Ledger.Create(ctx, ledgerRow("x", "x", 1)))
		return errors.New("abort")
	})
	require.NoError(t, runner.Run(ctx, func(r workflow.Repos) error {
		return r.Ledger.Create(ctx, ledgerRow("y", "y", 1))
	}))

	select {
	case ev := <-ch:
		assert.Equal(t, "y", ev.ID)
		assert.Equal(t, workflow.OpInsert, ev.Op)
	case <-time.After(time.Second):
		t.Fatal("no llegó el evento")
	}
	select {
	case ev := <-ch:
		t.Fatalf("evento inesperado %+v", ev)
	default:
	}
}

func TestTxRunner_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := memory.NewTxRunner(memory.NewStore(nil)).Run(ctx, func(workflow.Repos) error { return nil })
	assert.ErrorIs(t, err, context.Canceled)
}

func TestLedger_DuplicateKey(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(nil)
	require.NoError(t, s.Ledger().Create(ctx, ledgerRow("a", "dht22", 1)))
	assert.ErrorIs(t, s.Ledger().Create(ctx, ledgerRow("b", "dht22", 1)), domain.ErrDuplicate)
}

func TestTxRunner_PanicRollsBackAndReleases(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(nil)
	runner := memory.NewTxRunner(s)
	require.NoError(t, s.Ledger().Create(ctx, ledgerRow("a", "a", 10)))

	assert.Panics(t, func() {
		_ = runner.Run(ctx, func(r workflow.Repos) error {
			it, err := r.Ledger.GetForUpdate(ctx, "a")
			require.NoError(t, err)
			it.Available = 0
			require.NoError(t, r.Ledger.Save(ctx, it))
			panic("handler roto")
		})
	})

	done := make(chan error, 1)
	go func() {
		done <- runner.Run(ctx, func(r workflow.Repos) error {
			it, err := r.Ledger.GetForUpdate(ctx, "a")
			if err != nil {
				return err
			}
			assert.Equal(t, int64(10), it.Available)
			return nil
		})
	}()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("el store quedó bloqueado tras el pánico")
	}
}

func TestLedger_EnsureByKey(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(nil)
	first, err := s.Ledger().EnsureByKey(ctx, ledgerRow("a", "dht22", 0))
	require.NoError(t, err)
	assert.Equal(t, "a", first.ID)

	again, err := s.Ledger().EnsureByKey(ctx, ledgerRow("b", "dht22", 0))
	require.NoError(t, err)
	assert.Equal(t, "a", again.ID)
	_, err = s.Ledger().GetByID(ctx, "b")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestUsers_ListByRoleSkipsInactive(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore(nil)
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "1", Email: "a@x.io", Username: "a",
		Role: entity.RoleAuthorizer, Status: entity.UserStatusActive}))
	require.NoError(t, s.Users().Create(ctx, &entity.User{ID: "2", Email: "b@x.io", Username: "b",
		Role: entity.RoleAuthorizer, Status: entity.UserStatusInactive}))
	assert.ErrorIs(t, s.Users().Create(ctx, &entity.User{ID: "3", Email: "A@x.io", Username: "c"}),
		domain.ErrEmailAlreadyExists)

	got, err := s.Users().ListByRole(ctx, entity.RoleAuthorizer)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].Username)
}
