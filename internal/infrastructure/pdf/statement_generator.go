// Package pdf genera el estado de cuenta del cliente del programa de fidelización.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Marca + título        │  Fecha de emisión           │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CLIENTE: Nombre + móvil       │  Saldo / gasto / niveles    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Tipo | Original | Descuento | Cobrado | Pts  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR de identificación en caja + leyenda              │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
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

	"github.com/jhoicas/payloop-api/internal/application/ports"
	"github.com/jhoicas/payloop-api/internal/domain/entity"
	"github.com/jhoicas/payloop-api/pkg/money"
)

var _ ports.StatementGenerator = (*StatementGenerator)(nil)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
	colorRedeem  = &props.Color{Red: 170, Green: 40, Blue: 40}
)

// StatementGenerator implementa ports.StatementGenerator usando Maroto v2.
type StatementGenerator struct {
	brand    string
	currency string
	format   *money.Formatter
}

// NewStatementGenerator construye el generador con la marca y el símbolo de moneda.
func NewStatementGenerator(brand, currency string) *StatementGenerator {
	return &StatementGenerator{brand: brand, currency: currency, format: money.NewFormatter("en")}
}

// GenerateStatementPDF genera el PDF y devuelve sus bytes. El historial se lista del más reciente al más antiguo.
func (g *StatementGenerator) GenerateStatementPDF(
	_ context.Context,
	customer *entity.Customer,
	effectiveTier entity.Tier,
	generatedAt time.Time,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Estado de cuenta "+g.brand, true).
		WithAuthor(g.brand, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(generatedAt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.customerRow(customer, effectiveTier))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	m.AddRows(g.historyRows(customer.History)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(customer))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

func (g *StatementGenerator) headerRow(generatedAt time.Time) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New(g.brand, props.Text{Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 1}),
			text.New("Programa de fidelización", props.Text{Size: 9, Top: 9, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("ESTADO DE CUENTA", props.Text{
				Style: fontstyle.Bold, Size: 9, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Emitido: "+generatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 9, Color: colorGray,
			}),
		),
	)
}

func (g *StatementGenerator) customerRow(c *entity.Customer, effective entity.Tier) core.Row {
	return row.New(22).Add(
		col.New(6).Add(
			text.New("CLIENTE", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(c.Name, props.Text{Style: fontstyle.Bold, Size: 11, Top: 6}),
			text.New("Móvil: "+c.Mobile, props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
		col.New(6).Add(
			text.New("Saldo: "+g.format.Points(c.Points)+" pts", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Top: 1,
			}),
			text.New("Gasto acumulado: "+g.currency+g.format.Amount(c.TotalSpent), props.Text{
				Size: 8, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("Nivel gasto: %s | Nivel puntos: %s", c.SpendingTier, c.PointsTier), props.Text{
				Size: 8, Align: align.Right, Top: 12, Color: colorGray,
			}),
			text.New("Nivel efectivo: "+string(effective), props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 17, Color: colorPrimary,
			}),
		),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Fecha", 2, align.Left),
		h("Tipo", 2, align.Center),
		h("Original", 2, align.Right),
		h("Descuento", 2, align.Right),
		h("Cobrado", 2, align.Right),
		h("Puntos", 2, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func (g *StatementGenerator) historyRows(history []entity.HistoryEntry) []core.Row {
	if len(history) == 0 {
		return []core.Row{row.New(8).Add(col.New(12).Add(
			text.New("Sin movimientos registrados.", props.Text{Size: 8, Align: align.Center, Top: 2, Color: colorGray}),
		))}
	}
	rows := make([]core.Row, 0, len(history))
	for i := len(history) - 1; i >= 0; i-- {
		h := history[i]
		pointsProps := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
		if h.Type == entity.EntryRedeem {
			pointsProps.Color = colorRedeem
		}
		rows = append(rows, row.New(7).Add(
			col.New(2).Add(text.New(h.Date.Format("02/01/2006"), props.Text{Size: 8, Top: 1, Left: 1})),
			col.New(2).Add(text.New(string(h.Type), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(2).Add(text.New(g.currency+g.format.Amount(h.OriginalBill()), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.currency+g.format.Amount(h.DiscountApplied), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(g.currency+g.format.Amount(h.Bill), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(2).Add(text.New(fmt.Sprintf("%+d", h.Points), pointsProps)),
		))
	}
	return rows
}

// footerRow: QR con el móvil para identificar al cliente en caja.
func (g *StatementGenerator) footerRow(c *entity.Customer) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(c.Mobile, props.Rect{Percent: 90, Center: true})),
		col.New(9).Add(
			text.New("Presenta este código en caja para identificarte.", props.Text{
				Size: 8, Top: 6, Left: 3, Color: colorGray,
			}),
			text.New("Los puntos se acreditan sobre el cambio entregado y se canjean 1 a 1 contra el total.", props.Text{
				Size: 7, Top: 14, Left: 3, Color: colorGray,
			}),
		),
	)
}
