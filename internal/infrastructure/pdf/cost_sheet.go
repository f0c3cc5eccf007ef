// Package pdf genera la hoja de costos de un proyecto.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Proyecto + centro de costo │ Estado + fecha         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESPONSABLES: autor / revisó / aprobó                       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  BOM: Cant | Descripción | Origen | P.Unit | Subtotal        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  HORAS: usuario | horas                                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: inventario / compras / facturado / TOTAL           │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Aprobaciones-api/internal/application/dto"
	"github.com/jhoicas/Aprobaciones-api/internal/application/usecase"
	"github.com/jhoicas/Aprobaciones-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// CostSheetGenerator implementa usecase.CostSheetRenderer usando Maroto v2.
type CostSheetGenerator struct{}

var _ usecase.CostSheetRenderer = (*CostSheetGenerator)(nil)

// NewCostSheetGenerator construye el generador.
func NewCostSheetGenerator() *CostSheetGenerator { return &CostSheetGenerator{} }

// RenderCostSheet genera el PDF y devuelve sus bytes.
func (g *CostSheetGenerator) RenderCostSheet(_ context.Context, s usecase.CostSheet) ([]byte, error) {
	if s.Project == nil {
		return nil, fmt.Errorf("pdf: hoja de costos sin proyecto")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Hoja de costos - "+s.Project.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(s))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(peopleRow(s.Project))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("BILL OF MATERIALS"))
	m.AddRows(bomHeaderRow())
	m.AddRows(bomRows(s.Project.BOM)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("HORAS REGISTRADAS"))
	m.AddRows(hoursRows(s.Hours)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(s.Cost))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(s usecase.CostSheet) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(s.Project.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Centro de costo: "+s.Project.CostCenter, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("HOJA DE COSTOS", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
				Color: colorPrimary, Top: 1,
			}),
			text.New(string(s.Project.Status), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Generada: "+s.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
	)
}

func peopleRow(p *entity.Project) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("RESPONSABLES", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("Registró: %s (%s)   |   Revisó: %s   |   Aprobó: %s",
				nonEmpty(p.SubmittedBy, "—"),
				p.SubmissionDate.Format("02/01/2006"),
				nonEmpty(p.CheckedBy, "—"),
				nonEmpty(p.ApprovedBy, "—"),
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func bomHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1, Left: 1, Right: 1,
		}))
	}
	return row.New(6).Add(
		h("Cant.", 1, align.Center),
		h("Descripción", 5, align.Left),
		h("Origen", 2, align.Center),
		h("Precio Unit.", 2, align.Right),
		h("Subtotal", 2, align.Right),
	)
}

func bomRows(items []entity.BomItem) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Sin materiales.", props.Text{Size: 8, Top: 1, Color: colorGray}),
		))}
	}
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		source := "Inventario"
		if it.Source == entity.SourcePurchase {
			source = "Compra"
		}
		result = append(result, row.New(6).Add(
			col.New(1).Add(text.New(fmt.Sprint(it.QuantityNeeded), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(5).Add(text.New(it.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(source, props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(money(it.Price), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(money(it.LineCost()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return result
}

func hoursRows(h dto.ProjectHoursResponse) []core.Row {
	rows := make([]core.Row, 0, len(h.ByUser)+1)
	for _, u := range h.ByUser {
		rows = append(rows, row.New(5).Add(
			col.New(8).Add(text.New(u.Username, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(u.Hours.StringFixed(2)+" h", props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	rows = append(rows, row.New(6).Add(
		col.New(8).Add(text.New("Total horas", props.Text{Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1})),
		col.New(4).Add(text.New(h.TotalHours.StringFixed(2)+" h", props.Text{Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 1, Right: 1})),
	))
	return rows
}

func totalsRow(c dto.ProjectCostResponse) core.Row {
	label := func(s string) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2})
	}
	value := func(s string) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1})
	}
	grand := func(s string, right float64) core.Component {
		return text.New(s, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Right: right, Top: 15,
		})
	}
	return row.New(24).Add(
		col.New(4),
		col.New(4).Add(
			label("BOM inventario:"),
			text.New("BOM compras:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 5}),
			text.New("Facturado:", props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: 10}),
			grand("TOTAL:", 2),
		),
		col.New(4).Add(
			value(money(c.BOM.Inventory)),
			text.New(money(c.BOM.Purchase), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 5}),
			text.New(money(c.InvoicedTotal), props.Text{Size: 9, Align: align.Right, Right: 1, Top: 10}),
			grand(money(c.Total), 1),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// money "$1.234,50": puntos de miles y coma decimal.
func money(d decimal.Decimal) string {
	s := d.StringFixed(2)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	intPart, frac := s[:len(s)-3], s[len(s)-2:]
	out := "$" + groupThousands(intPart) + "," + frac
	if neg {
		out = "-" + out
	}
	return out
}

// groupThousands inserta puntos de miles en un string numérico sin decimales.
// Ej: "25000" → "25.000", "1000000" → "1.000.000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return string(buf)
}
