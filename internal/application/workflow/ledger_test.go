package workflow_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/ledger"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/repository"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/memory"
)

// lockRecorder registra el orden en que se bloquean filas del ledger.
type lockRecorder struct {
	repository.LedgerRepository
	locked    []string
	keyLocks  int
	beforeAdd func(ctx context.Context, item *entity.LedgerItem)
}

func (r *lockRecorder) GetForUpdate(ctx context.Context, id string) (*entity.LedgerItem, error) {
	r.locked = append(r.locked, id)
	return r.LedgerRepository.GetForUpdate(ctx, id)
}

func (r *lockRecorder) GetByKeyForUpdate(ctx context.Context, nameKey, category string) (*entity.LedgerItem, error) {
	r.keyLocks++
	return r.LedgerRepository.GetByKeyForUpdate(ctx, nameKey, category)
}

func (r *lockRecorder) EnsureByKey(ctx context.Context, item *entity.LedgerItem) (*entity.LedgerItem, error) {
	if r.beforeAdd != nil {
		r.beforeAdd(ctx, item)
	}
	return r.LedgerRepository.EnsureByKey(ctx, item)
}

func (f *fixture) seedID(t *testing.T, id, name, category string, available int64) {
	t.Helper()
	require.NoError(t, f.store.Ledger().Create(f.ctx, &entity.LedgerItem{
		ID:        id,
		Name:      name,
		NameKey:   ledger.NameKey(name),
		Category:  category,
		Price:     decimal.NewFromInt(1),
		Available: available,
		CreatedAt: time.Now(),
	}))
}

func TestLedger_ReserveAllLocksInIDOrder(t *testing.T) {
	f := newFixture(t)
	f.seedID(t, "a-row", "Zener 5V1", entity.CategoryPassiveComponents, 0)
	f.seedID(t, "m-row", "Header 2x20", entity.CategoryConnectors, 0)

	// la fila por nombre tiene el id menor; la fila por id tiene la clave menor
	rs := []workflow.Reservation{
		{Line: 1, Ref: workflow.ItemRef{ID: "m-row"}, Price: decimal.NewFromInt(1), Qty: 2},
		{Line: 2, Ref: workflow.ItemRef{Name: "zener 5v1", Category: entity.CategoryPassiveComponents}, Price: decimal.NewFromInt(1), Qty: 3},
		{Line: 3, Ref: workflow.ItemRef{Name: "Buzzer", Category: entity.CategoryModules}, Price: decimal.NewFromInt(4), Qty: 1},
		{Line: 4, Ref: workflow.ItemRef{ID: "a-row"}, Price: decimal.NewFromInt(1), Qty: 1},
	}
	var rec *lockRecorder
	var items []*entity.LedgerItem
	require.NoError(t, memory.NewTxRunner(f.store).Run(f.ctx, func(r workflow.Repos) error {
		rec = &lockRecorder{LedgerRepository: r.Ledger}
		var err error
		items, err = workflow.NewLedger(nil).ReserveAll(f.ctx, rec, rs)
		return err
	}))

	assert.Zero(t, rec.keyLocks)
	require.Len(t, rec.locked, 3)
	assert.True(t, sort.StringsAreSorted(rec.locked), rec.locked)

	require.Len(t, items, 4)
	assert.Equal(t, "m-row", items[0].ID)
	assert.Equal(t, "a-row", items[1].ID)
	assert.Equal(t, "a-row", items[3].ID)
	assert.Equal(t, int64(4), f.item(t, "a-row").Pending)
	assert.Equal(t, int64(2), f.item(t, "m-row").Pending)
	assert.Equal(t, int64(1), f.item(t, items[2].ID).Pending)
}

func TestLedger_ReserveReusesRowCreatedConcurrently(t *testing.T) {
	f := newFixture(t)
	rs := []workflow.Reservation{
		{Line: 1, Ref: workflow.ItemRef{Name: "DHT22", Category: entity.CategorySensors}, Price: decimal.NewFromInt(9), Qty: 5},
	}
	var items []*entity.LedgerItem
	require.NoError(t, memory.NewTxRunner(f.store).Run(f.ctx, func(r workflow.Repos) error {
		rec := &lockRecorder{LedgerRepository: r.Ledger}
		// otra transacción crea la misma fila entre la búsqueda y el alta
		rec.beforeAdd = func(ctx context.Context, item *entity.LedgerItem) {
			require.NoError(t, r.Ledger.Create(ctx, &entity.LedgerItem{
				ID: "winner", Name: "DHT22", NameKey: item.NameKey, Category: item.Category, Pending: 2,
			}))
		}
		var err error
		items, err = workflow.NewLedger(nil).ReserveAll(f.ctx, rec, rs)
		return err
	}))
	require.Len(t, items, 1)
	assert.Equal(t, "winner", items[0].ID)
	assert.Equal(t, int64(7), f.item(t, "winner").Pending)
}

func TestInvoice_MixedRefsShareRows(t *testing.T) {
	f := newFixture(t)
	f.seedID(t, "a-row", "Zener 5V1", entity.CategoryPassiveComponents, 0)
	f.seedID(t, "m-row", "Header 2x20", entity.CategoryConnectors, 0)

	line := func(id, name, category string, qty int64) workflow.InvoiceLineInput {
		return workflow.InvoiceLineInput{InventoryItemID: id, ItemName: name, Category: category, Quantity: qty,
			PricePerUnit: decimal.NewFromInt(1), PurchaseFor: entity.PurchaseForGeneralInventory}
	}
	first := workflow.InvoiceInput{Vendor: "A", Date: time.Now(), Lines: []workflow.InvoiceLineInput{
		line("m-row", "Header 2x20", entity.CategoryConnectors, 1),
		line("", "zener 5v1", entity.CategoryPassiveComponents, 1),
	}}
	second := workflow.InvoiceInput{Vendor: "B", Date: time.Now(), Lines: []workflow.InvoiceLineInput{
		line("a-row", "Zener 5V1", entity.CategoryPassiveComponents, 2),
		line("", "HEADER 2x20", entity.CategoryConnectors, 2),
	}}
	_, l1, err := f.invoices.Submit(f.ctx, alice, first)
	require.NoError(t, err)
	_, l2, err := f.invoices.Submit(f.ctx, alice, second)
	require.NoError(t, err)

	assert.Equal(t, "m-row", l1[0].InventoryItemID)
	assert.Equal(t, "a-row", l1[1].InventoryItemID)
	assert.Equal(t, "a-row", l2[0].InventoryItemID)
	assert.Equal(t, "m-row", l2[1].InventoryItemID)
	assert.Equal(t, int64(3), f.item(t, "a-row").Pending)
	assert.Equal(t, int64(3), f.item(t, "m-row").Pending)
}
