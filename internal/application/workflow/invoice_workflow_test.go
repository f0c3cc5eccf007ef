package workflow_test

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/ledger"
)

func twoLineInvoice() workflow.InvoiceInput {
	return workflow.InvoiceInput{
		Vendor:     "Digi-Key",
		Date:       time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		CostCenter: "LAB",
		Lines: []workflow.InvoiceLineInput{
			{ItemName: "DHT22", Category: entity.CategorySensors, Quantity: 5,
				PricePerUnit: decimal.NewFromInt(10), PurchaseFor: entity.PurchaseForGeneralInventory},
			{ItemName: "ESP32 DevKit", Category: entity.CategoryDevelopmentBoards, Quantity: 3,
				PricePerUnit: decimal.NewFromInt(20), PurchaseFor: entity.PurchaseForProject},
		},
	}
}

func (f *fixture) byKey(t *testing.T, name, category string) *entity.LedgerItem {
	t.Helper()
	items, err := f.store.Ledger().List(f.ctx, category)
	require.NoError(t, err)
	for _, it := range items {
		if it.NameKey == ledger.NameKey(name) {
			return it
		}
	}
	t.Fatalf("no hay fila para %s/%s", name, category)
	return nil
}

func TestInvoice_SubmitReservesThenRejectReleases(t *testing.T) {
	f := newFixture(t)

	inv, lines, err := f.invoices.Submit(f.ctx, alice, twoLineInvoice())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingReview, inv.Status)
	require.Len(t, lines, 2)
	assert.Equal(t, "110.00", entity.InvoiceTotal(lines).StringFixed(2))

	dht := f.byKey(t, "dht22", entity.CategorySensors)
	esp := f.byKey(t, "esp32 devkit", entity.CategoryDevelopmentBoards)
	assert.Equal(t, int64(5), dht.Pending)
	assert.Equal(t, int64(0), dht.Available)
	assert.Equal(t, int64(3), esp.Pending)
	assert.Equal(t, dht.ID, lines[0].InventoryItemID)

	_, err = f.invoices.Reject(f.ctx, inv.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.item(t, dht.ID).Pending)
	assert.Equal(t, int64(0), f.item(t, esp.ID).Pending)
	assert.Equal(t, int64(0), f.item(t, esp.ID).Available)
	assert.Len(t, f.inboxOf(t, alice), 1)
}

func TestInvoice_ApproveCommitsAtLastPrice(t *testing.T) {
	f := newFixture(t)
	dht := f.seed(t, "DHT22", entity.CategorySensors, 4, "9")

	inv, _, err := f.invoices.Submit(f.ctx, alice, twoLineInvoice())
	require.NoError(t, err)
	_, err = f.invoices.SubmitForApproval(f.ctx, inv.ID, bob)
	require.NoError(t, err)
	inv, err = f.invoices.Approve(f.ctx, inv.ID, carol)
	require.NoError(t, err)
	assert.Equal(t, "carol", inv.ApprovedBy)

	got := f.item(t, dht)
	assert.Equal(t, int64(9), got.Available)
	assert.Equal(t, int64(0), got.Pending)
	assert.True(t, got.Price.Equal(decimal.NewFromInt(10)))

	_, err = f.invoices.Approve(f.ctx, inv.ID, carol)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	assert.Equal(t, int64(9), f.item(t, dht).Available)
}

func TestInvoice_ExpenseLinesNeverTouchLedger(t *testing.T) {
	f := newFixture(t)
	in := workflow.InvoiceInput{
		Vendor: "Courier",
		Date:   time.Now(),
		Lines: []workflow.InvoiceLineInput{
			{ItemName: "Shipping", Category: entity.CategoryMiscellaneous, Quantity: 1,
				PricePerUnit: decimal.NewFromInt(25), PurchaseFor: entity.PurchaseForExpense},
		},
	}

	_, lines, err := f.invoices.Submit(f.ctx, root, in)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(lines[0].InventoryItemID, workflow.ExpensePrefix))
	items, err := f.store.Ledger().List(f.ctx, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInvoice_FastPathCommitsOnSubmit(t *testing.T) {
	f := newFixture(t)

	inv, _, err := f.invoices.Submit(f.ctx, carol, twoLineInvoice())
	require.NoError(t, err)
	assert.Equal(t, entity.StatusApproved, inv.Status)
	dht := f.byKey(t, "DHT22", entity.CategorySensors)
	assert.Equal(t, int64(5), dht.Available)
	assert.Equal(t, int64(0), dht.Pending)
}

func TestInvoice_SuperAdminDeleteReversesOnce(t *testing.T) {
	f := newFixture(t)
	inv, _, err := f.invoices.Submit(f.ctx, carol, twoLineInvoice())
	require.NoError(t, err)
	dht := f.byKey(t, "DHT22", entity.CategorySensors)

	assert.ErrorIs(t, f.invoices.Delete(f.ctx, inv.ID, carol), domain.ErrUnauthorized)
	require.NoError(t, f.invoices.Delete(f.ctx, inv.ID, root))
	assert.Equal(t, int64(0), f.item(t, dht.ID).Available)

	assert.ErrorIs(t, f.invoices.Delete(f.ctx, inv.ID, root), domain.ErrNotFound)
	assert.Equal(t, int64(0), f.item(t, dht.ID).Available)
}

func TestInvoice_ReverseFailsWhenUnitsConsumed(t *testing.T) {
	f := newFixture(t)
	inv, _, err := f.invoices.Submit(f.ctx, carol, twoLineInvoice())
	require.NoError(t, err)
	dht := f.byKey(t, "DHT22", entity.CategorySensors)
	_, _, err = f.projects.Create(f.ctx, carol, projectInput("P", inventoryLine(dht.ID, "DHT22", 5, "10")))
	require.NoError(t, err)

	err = f.invoices.Delete(f.ctx, inv.ID, root)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	_, err = f.store.Invoices().GetByID(f.ctx, inv.ID)
	assert.NoError(t, err)
}

func TestInvoice_DeletePendingReleases(t *testing.T) {
	f := newFixture(t)
	inv, _, err := f.invoices.Submit(f.ctx, alice, twoLineInvoice())
	require.NoError(t, err)
	dht := f.byKey(t, "DHT22", entity.CategorySensors)

	require.NoError(t, f.invoices.Delete(f.ctx, inv.ID, bob))
	assert.Equal(t, int64(0), f.item(t, dht.ID).Pending)
}

func TestInvoice_Validation(t *testing.T) {
	f := newFixture(t)
	in := twoLineInvoice()
	in.Lines[0].Quantity = 0
	_, _, err := f.invoices.Submit(f.ctx, alice, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = twoLineInvoice()
	in.Lines[1].Category = "Snacks"
	_, _, err = f.invoices.Submit(f.ctx, alice, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	in = twoLineInvoice()
	in.Lines[0].PricePerUnit = decimal.NewFromInt(-1)
	_, _, err = f.invoices.Submit(f.ctx, alice, in)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	items, err := f.store.Ledger().List(f.ctx, "")
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestInvoice_ApproveTwiceIsInvalidState(t *testing.T) {
	f := newFixture(t)
	inv, lines, err := f.invoices.Submit(f.ctx, alice, twoLineInvoice())
	require.NoError(t, err)
	_, err = f.invoices.SubmitForApproval(f.ctx, inv.ID, bob)
	require.NoError(t, err)
	_, err = f.invoices.Approve(f.ctx, inv.ID, carol)
	require.NoError(t, err)

	_, err = f.invoices.Approve(f.ctx, inv.ID, carol)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
	dht := f.item(t, lines[0].InventoryItemID)
	assert.Equal(t, int64(5), dht.Available)
	assert.Equal(t, int64(0), dht.Pending)
}
