// Package excel exporta el libro de inventario a XLSX.
package excel

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/usecase"
)

// SheetName hoja con el libro.
const SheetName = "Inventario"

var ledgerHeaders = []string{"Nombre", "Categoría", "Precio", "Disponible", "Pendiente", "Total", "Valor", "Actualizado"}

// LedgerExporter implementa usecase.LedgerExporter con excelize.
type LedgerExporter struct{}

var _ usecase.LedgerExporter = (*LedgerExporter)(nil)

// NewLedgerExporter construye el exportador.
func NewLedgerExporter() *LedgerExporter { return &LedgerExporter{} }

// ExportLedger una fila por ítem y una fila final de totales.
func (e *LedgerExporter) ExportLedger(_ context.Context, l dto.LedgerResponse) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("xlsx: renombrar hoja: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("xlsx: estilo: %w", err)
	}

	for i, h := range ledgerHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(SheetName, cell, h)
	}
	_ = f.SetCellStyle(SheetName, "A1", "H1", bold)

	for i, it := range l.Items {
		r := i + 2
		values := []interface{}{
			it.Name,
			it.Category,
			it.Price.InexactFloat64(),
			it.Available,
			it.Pending,
			it.Total,
			it.Value.InexactFloat64(),
			it.UpdatedAt.Format("2006-01-02 15:04"),
		}
		for c, v := range values {
			cell, _ := excelize.CoordinatesToCellName(c+1, r)
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("xlsx: celda %s: %w", cell, err)
			}
		}
	}

	totalRow := len(l.Items) + 2
	_ = f.SetCellValue(SheetName, fmt.Sprintf("A%d", totalRow), "Totales")
	_ = f.SetCellValue(SheetName, fmt.Sprintf("D%d", totalRow), l.TotalAvailable)
	_ = f.SetCellValue(SheetName, fmt.Sprintf("E%d", totalRow), l.TotalPending)
	_ = f.SetCellValue(SheetName, fmt.Sprintf("F%d", totalRow), l.TotalAvailable+l.TotalPending)
	_ = f.SetCellValue(SheetName, fmt.Sprintf("G%d", totalRow), l.TotalValue.InexactFloat64())
	_ = f.SetCellStyle(SheetName, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("H%d", totalRow), bold)

	for i, w := range []float64{28, 22, 10, 11, 11, 9, 12, 17} {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(SheetName, col, col, w)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir: %w", err)
	}
	return buf.Bytes(), nil
}
