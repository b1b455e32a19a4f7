// Package pdf genera el reporte imprimible del plan de producción sugerido.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + fábrica   │  Fecha de generación          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Código | Producto | Cant. | V. Unit | Total         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTAL DEL PLAN                                             │
//	│  Leyenda                                                    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
	"time"

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

	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/application/production"
)

var _ production.PlanPDFGenerator = (*MarotoPlanGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPlanGenerator implementa production.PlanPDFGenerator usando Maroto v2.
type MarotoPlanGenerator struct {
	factoryName string
}

// NewMarotoPlanGenerator construye el generador; factoryName aparece en el encabezado.
func NewMarotoPlanGenerator(factoryName string) *MarotoPlanGenerator {
	return &MarotoPlanGenerator{factoryName: factoryName}
}

// GeneratePlanPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPlanGenerator) GeneratePlanPDF(
	_ context.Context,
	plan *dto.ProductionSuggestionResponse,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Plan de producción sugerido", true).
		WithAuthor(g.factoryName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.factoryName, generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	if len(plan.Suggestions) == 0 {
		m.AddRows(row.New(10).Add(col.New(12).Add(
			text.New("Sin producción posible con el stock actual.", props.Text{
				Size: 9, Align: align.Center, Color: colorGray, Top: 3,
			}),
		)))
	}
	m.AddRows(tableDetailRows(plan.Suggestions)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalRow(plan.TotalValue))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(factoryName string, generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(8).Add(
			text.New("PLAN DE PRODUCCIÓN SUGERIDO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(factoryName, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(4).Add(
			text.New("Generado: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorPrimary, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Código", 2, align.Left),
		h("Producto", 4, align.Left),
		h("Cant.", 2, align.Center),
		h("Valor Unit.", 2, align.Right),
		h("Total", 2, align.Right),
	)
}

// tableDetailRows: una fila por producto, en el orden de decisión del plan.
func tableDetailRows(items []dto.ProductionItem) []core.Row {
	result := make([]core.Row, 0, len(items))
	for _, it := range items {
		result = append(result, row.New(7).Add(
			col.New(2).Add(text.New(it.ProductCode, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(4).Add(text.New(it.ProductName, props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%d", it.QuantityToProduce), props.Text{
				Size: 8, Align: align.Center, Top: 1,
			})),
			col.New(2).Add(text.New("$"+formatMoney(it.UnitValue), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
			col.New(2).Add(text.New("$"+formatMoney(it.TotalItemValue), props.Text{
				Size: 8, Align: align.Right, Top: 1, Right: 1,
			})),
		))
	}
	return result
}

func totalRow(total decimal.Decimal) core.Row {
	return row.New(10).Add(
		col.New(8).Add(text.New("VALOR TOTAL DEL PLAN:", props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 2,
		})),
		col.New(4).Add(text.New("$"+formatMoney(total), props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Right,
			Color: colorPrimary, Top: 2, Right: 1,
		})),
	)
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			"Sugerencia calculada sobre el stock registrado al momento de la consulta. "+
				"Los productos de mayor valor de venta se priorizan primero.",
			props.Text{Size: 6.5, Color: colorGray, Top: 3},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// formatMoney formatea con dos decimales, puntos de miles y coma decimal.
// Ej: 1234567.5 → "1.234.567,50"
func formatMoney(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	n := len(intPart)
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(intPart) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, '.')
		}
		buf = append(buf, c)
	}
	return sign + string(buf) + "," + frac
}
