package excel_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/infrastructure/excel"
)

func TestExportLedger(t *testing.T) {
	l := dto.LedgerResponse{
		Items: []dto.LedgerItemResponse{
			{Name: "DHT22", Category: "Sensors", Price: decimal.NewFromInt(10), Available: 4, Pending: 3, Total: 7, Value: decimal.NewFromInt(40), UpdatedAt: time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)},
			{Name: "ESP32", Category: "Development Boards", Price: decimal.RequireFromString("20.5"), Available: 2, Total: 2, Value: decimal.NewFromInt(41)},
		},
		TotalAvailable: 6,
		TotalPending:   3,
		TotalValue:     decimal.NewFromInt(81),
	}

	data, err := excel.NewLedgerExporter().ExportLedger(context.Background(), l)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(excel.SheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, "Nombre", rows[0][0])
	assert.Equal(t, []string{"DHT22", "Sensors", "10", "4", "3", "7", "40", "2024-03-01 09:30"}, rows[1])
	assert.Equal(t, "20.5", rows[2][2])
	assert.Equal(t, "Totales", rows[3][0])
	assert.Equal(t, "81", rows[3][6])
}
