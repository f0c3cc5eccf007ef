package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/usecase"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

func TestProjectUseCase_AllowedActionsDependOnActor(t *testing.T) {
	e := newEnv(t)
	mcu := e.seed(t, "STM32F4", entity.CategoryICsSemiconductors, 10, "8")
	p := e.project(t, alice, "Estación", bomLine(mcu, "STM32F4", 2, "8", entity.SourceInventory))
	uc := usecase.NewProjectUseCase(e.store.Projects())

	asOwner, err := uc.Get(e.ctx, p.ID, alice)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusPendingReview, asOwner.Status)
	assert.Equal(t, []string{"edit-by-owner"}, asOwner.AllowedActions)
	assert.True(t, decimal.NewFromInt(16).Equal(asOwner.TotalCost))

	asChecker, err := uc.Get(e.ctx, p.ID, bob)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"submit-for-approval", "reject", "edit-by-reviewer", "delete"}, asChecker.AllowedActions)

	_, err = uc.Get(e.ctx, "no-existe", bob)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestProjectUseCase_ListFilters(t *testing.T) {
	e := newEnv(t)
	e.project(t, alice, "A")
	e.project(t, root, "B")
	uc := usecase.NewProjectUseCase(e.store.Projects())

	all, err := uc.List(e.ctx, dto.ProjectListQuery{}, bob)
	require.NoError(t, err)
	assert.Len(t, all.Items, 2)
	assert.Equal(t, 50, all.Page.Limit)

	approved, err := uc.List(e.ctx, dto.ProjectListQuery{Status: string(entity.StatusApproved)}, bob)
	require.NoError(t, err)
	require.Len(t, approved.Items, 1)
	assert.Equal(t, "B", approved.Items[0].Name)
	assert.NotNil(t, approved.Items[0].BOM)

	_, err = uc.List(e.ctx, dto.ProjectListQuery{Status: "Aprobado"}, bob)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestInvoiceUseCase_TotalsAndLines(t *testing.T) {
	e := newEnv(t)
	inv, _, err := e.invoices.Submit(e.ctx, alice, workflow.InvoiceInput{
		Vendor: "Mouser",
		Date:   day("2024-03-01"),
		Lines: []workflow.InvoiceLineInput{
			{ItemName: "DHT22", Category: entity.CategorySensors, Quantity: 5, PricePerUnit: decimal.NewFromInt(10), PurchaseFor: entity.PurchaseForGeneralInventory},
			{ItemName: "Envío", Category: entity.CategoryMiscellaneous, Quantity: 1, PricePerUnit: decimal.RequireFromString("7.5"), PurchaseFor: entity.PurchaseForExpense},
		},
	})
	require.NoError(t, err)
	uc := usecase.NewInvoiceUseCase(e.store.Invoices())

	got, err := uc.Get(e.ctx, inv.ID, bob)
	require.NoError(t, err)
	assert.Equal(t, "57.5", got.Total.String())
	assert.Equal(t, "2024-03-01", got.Date)
	require.Len(t, got.Lines, 2)
	assert.Contains(t, got.AllowedActions, "submit-for-approval")
	assert.NotContains(t, got.AllowedActions, "edit-by-reviewer")

	list, err := uc.List(e.ctx, dto.InvoiceListQuery{SubmittedBy: "alice"}, alice)
	require.NoError(t, err)
	require.Len(t, list.Items, 1)
	assert.Empty(t, list.Items[0].Lines)
	assert.Equal(t, "57.5", list.Items[0].Total.String())
	assert.Empty(t, list.Items[0].AllowedActions)
}

func TestInventoryUseCase_LedgerTotals(t *testing.T) {
	e := newEnv(t)
	dht := e.seed(t, "DHT22", entity.CategorySensors, 4, "10")
	e.seed(t, "ESP32", entity.CategoryDevelopmentBoards, 2, "20.50")
	e.project(t, alice, "Estación", bomLine(dht, "DHT22", 2, "10", entity.SourceInventory))
	_, err := e.inventory.Submit(e.ctx, alice, workflow.SubmissionInput{Name: "dht22", Category: entity.CategorySensors, Quantity: 3, Price: decimal.NewFromInt(11)})
	require.NoError(t, err)
	uc := usecase.NewInventoryUseCase(e.store.Ledger(), e.store.Submissions(), e.store.Projects())

	l, err := uc.Ledger(e.ctx, "")
	require.NoError(t, err)
	require.Len(t, l.Items, 2)
	assert.Equal(t, int64(6), l.TotalAvailable)
	assert.Equal(t, int64(3), l.TotalPending)
	assert.Equal(t, "81", l.TotalValue.String())
	assert.Equal(t, int64(2), l.TotalAllocated)

	item, err := uc.LedgerItem(e.ctx, dht)
	require.NoError(t, err)
	assert.Equal(t, int64(2), item.Allocated)

	sensors, err := uc.Ledger(e.ctx, entity.CategorySensors)
	require.NoError(t, err)
	require.Len(t, sensors.Items, 1)
	assert.Equal(t, int64(7), sensors.Items[0].Total)

	_, err = uc.Ledger(e.ctx, "Juguetes")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	subs, err := uc.ListSubmissions(e.ctx, dto.SubmissionListQuery{Status: string(entity.StatusPendingReview)}, carol)
	require.NoError(t, err)
	require.Len(t, subs.Items, 1)
	assert.Contains(t, subs.Items[0].AllowedActions, "reject")
}
