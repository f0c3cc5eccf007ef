package usecase_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/usecase"
	"github.com/jhoicas/Aprobaciones-api/internal/application/workflow"
	"github.com/jhoicas/Aprobaciones-api/internal/domain"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

type captureRenderer struct {
	sheet  usecase.CostSheet
	ledger dto.LedgerResponse
}

func (c *captureRenderer) RenderCostSheet(_ context.Context, s usecase.CostSheet) ([]byte, error) {
	c.sheet = s
	return []byte("%PDF"), nil
}

func (c *captureRenderer) ExportLedger(_ context.Context, l dto.LedgerResponse) ([]byte, error) {
	c.ledger = l
	return []byte("PK"), nil
}

func projectLine(name string, qty int64, price, costCenter string) workflow.InvoiceLineInput {
	return workflow.InvoiceLineInput{
		ItemName:     name,
		Category:     entity.CategoryModules,
		Quantity:     qty,
		PricePerUnit: decimal.RequireFromString(price),
		PurchaseFor:  entity.PurchaseForProject,
		CostCenter:   costCenter,
	}
}

func TestTimeLogAndReports(t *testing.T) {
	e := newEnv(t)
	mcu := e.seed(t, "STM32F4", entity.CategoryICsSemiconductors, 10, "8")
	p := e.project(t, root, "Riego",
		bomLine(mcu, "STM32F4", 2, "8", entity.SourceInventory),
		bomLine("new-1", "Carcasa", 1, "30", entity.SourcePurchase),
	)

	// aprobada y del centro de costo: cuenta
	_, _, err := e.invoices.Submit(e.ctx, root, workflow.InvoiceInput{
		Vendor: "DigiKey", Date: day("2024-04-02"), CostCenter: p.CostCenter,
		Lines: []workflow.InvoiceLineInput{projectLine("Relé 4ch", 2, "12.5", ""), projectLine("LoRa", 1, "40", "CC-otro")},
	})
	require.NoError(t, err)
	// pendiente: no cuenta
	_, _, err = e.invoices.Submit(e.ctx, alice, workflow.InvoiceInput{
		Vendor: "DigiKey", Date: day("2024-04-03"), CostCenter: p.CostCenter,
		Lines: []workflow.InvoiceLineInput{projectLine("Relé 4ch", 5, "12.5", "")},
	})
	require.NoError(t, err)

	logs := usecase.NewTimeLogUseCase(e.store.TimeLogs(), e.store.Projects(), e.activity, zerolog.Nop())
	_, err = logs.Log(e.ctx, alice, dto.TimeLogRequest{ProjectID: p.ID, Date: "2024-04-05", Hours: decimal.RequireFromString("2.5"), Description: "montaje"})
	require.NoError(t, err)
	_, err = logs.Log(e.ctx, bob, dto.TimeLogRequest{ProjectID: p.ID, Date: "2024-04-05", Hours: decimal.NewFromInt(3), Description: "pruebas"})
	require.NoError(t, err)
	_, err = logs.Log(e.ctx, alice, dto.TimeLogRequest{ProjectID: p.ID, Date: "2024-04-06", Hours: decimal.NewFromInt(1), Description: "ajustes"})
	require.NoError(t, err)

	renderer := &captureRenderer{}
	reports := usecase.NewReportUseCase(e.store.Projects(), e.store.Invoices(), e.store.TimeLogs(), e.store.Ledger(), renderer, renderer)

	cost, err := reports.ProjectCost(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "16", cost.BOM.Inventory.String())
	assert.Equal(t, "30", cost.BOM.Purchase.String())
	assert.Equal(t, "25", cost.InvoicedTotal.String())
	assert.Equal(t, 1, cost.InvoiceLines)
	assert.Equal(t, "6.5", cost.Hours.String())
	assert.Equal(t, "71", cost.Total.String())

	hours, err := reports.ProjectHours(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "6.5", hours.TotalHours.String())
	require.Len(t, hours.ByUser, 2)
	assert.Equal(t, "alice", hours.ByUser[0].Username)
	assert.Equal(t, "3.5", hours.ByUser[0].Hours.String())
	assert.Len(t, hours.Entries, 3)

	pdf, err := reports.CostSheetPDF(e.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdf))
	assert.Equal(t, p.ID, renderer.sheet.Project.ID)
	assert.Equal(t, "71", renderer.sheet.Cost.Total.String())

	xlsx, err := reports.LedgerXLSX(e.ctx, "")
	require.NoError(t, err)
	assert.Equal(t, "PK", string(xlsx))
	assert.NotEmpty(t, renderer.ledger.Items)

	_, err = reports.ProjectCost(e.ctx, "no-existe")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestTimeLogUseCase_Validation(t *testing.T) {
	e := newEnv(t)
	p := e.project(t, alice, "Riego")
	logs := usecase.NewTimeLogUseCase(e.store.TimeLogs(), e.store.Projects(), nil, zerolog.Nop())

	cases := []struct {
		name string
		in   dto.TimeLogRequest
		want error
	}{
		{"sin horas", dto.TimeLogRequest{ProjectID: p.ID, Date: "2024-04-05", Description: "x"}, domain.ErrInvalidInput},
		{"horas negativas", dto.TimeLogRequest{ProjectID: p.ID, Date: "2024-04-05", Hours: decimal.NewFromInt(-1), Description: "x"}, domain.ErrInvalidInput},
		{"más de un día", dto.TimeLogRequest{ProjectID: p.ID, Date: "2024-04-05", Hours: decimal.NewFromInt(25), Description: "x"}, domain.ErrInvalidInput},
		{"sin descripción", dto.TimeLogRequest{ProjectID: p.ID, Date: "2024-04-05", Hours: decimal.NewFromInt(1)}, domain.ErrInvalidInput},
		{"fecha inválida", dto.TimeLogRequest{ProjectID: p.ID, Date: "05/04/2024", Hours: decimal.NewFromInt(1), Description: "x"}, domain.ErrInvalidInput},
		{"proyecto inexistente", dto.TimeLogRequest{ProjectID: "p-x", Date: "2024-04-05", Hours: decimal.NewFromInt(1), Description: "x"}, domain.ErrNotFound},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := logs.Log(e.ctx, alice, tc.in)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	mine, err := logs.ByUser(e.ctx, alice.ID, dto.PageRequest{})
	require.NoError(t, err)
	assert.Empty(t, mine)
}
