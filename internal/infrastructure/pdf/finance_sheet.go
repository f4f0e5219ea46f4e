// Package pdf implementa la ficha financiera de un producto en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + SKU + categoría  │  Estado + fecha + QR    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRECIO: SRP + base de cálculo + inventario                  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  COGS: Ítem | Cant. | Unidad | Costo unit. | Subtotal        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: Ingresos / COGS / Utilidad (bruto, neto, margen)   │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PLAN DE ABASTECIMIENTO: Mes | Capacidad                     │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strings"
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

	"github.com/jhoicas/product-engine/internal/domain/capacity"
	"github.com/jhoicas/product-engine/internal/domain/entity"
	"github.com/jhoicas/product-engine/internal/domain/finance"
	"github.com/jhoicas/product-engine/internal/domain/money"
	"github.com/jhoicas/product-engine/pkg/clock"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary  = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray     = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorNegative = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// FinanceSheetGenerator implementa report.FinanceSheetGenerator usando Maroto v2.
type FinanceSheetGenerator struct {
	title  string
	author string
	clock  clock.Clock
}

// NewFinanceSheetGenerator construye el generador. title y author van a los metadatos del PDF.
func NewFinanceSheetGenerator(title, author string, clk clock.Clock) *FinanceSheetGenerator {
	if clk == nil {
		clk = clock.System{}
	}
	return &FinanceSheetGenerator{title: title, author: author, clock: clk}
}

// GenerateFinanceSheet genera el PDF y devuelve sus bytes.
func (g *FinanceSheetGenerator) GenerateFinanceSheet(_ context.Context, product *entity.Product) ([]byte, error) {
	if product == nil {
		return nil, fmt.Errorf("pdf: producto requerido")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(nonEmpty(g.title, product.Name), true).
		WithAuthor(nonEmpty(g.author, "product-engine"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(product, g.clock.Now()))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(pricingRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(sectionTitle("COSTO DE LOS BIENES VENDIDOS (COGS)"))
	m.AddRows(cogsHeaderRow())
	m.AddRows(cogsRows(product.Metadata.COGS())...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(sectionTitle("RESUMEN FINANCIERO"))
	m.AddRows(summaryHeaderRow())
	m.AddRows(summaryRows(product.Metadata.Finance())...)

	if plan := product.Metadata.SupplyPlan(); len(plan) > 0 {
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
		m.AddRows(sectionTitle(fmt.Sprintf("PLAN DE ABASTECIMIENTO (%d meses, total %d)", len(plan), capacity.Total(plan))))
		m.AddRows(planRows(plan)...)
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: nombre + SKU (izq), estado + fecha + QR con el id (der).
func headerRow(product *entity.Product, now time.Time) core.Row {
	sku := nonEmpty(product.Metadata.SKU, "—")
	return row.New(24).Add(
		col.New(7).Add(
			text.New(product.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("SKU: %s   |   Categoría: %s", sku, product.Metadata.Category), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
			text.New(fmt.Sprintf("Tipo: %s   |   Visibilidad: %s", product.Metadata.Type(), product.Settings.Visibility), props.Text{
				Size: 8, Top: 15, Color: colorGray,
			}),
		),
		col.New(3).Add(
			text.New("FICHA FINANCIERA", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(string(product.Status()), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 7,
			}),
			text.New("Fecha: "+now.Format("02/01/2006"), props.Text{
				Size: 8, Align: align.Right, Top: 14, Color: colorGray,
			}),
		),
		col.New(2).Add(code.NewQr(product.ID, props.Rect{Percent: 90, Center: true})),
	)
}

// pricingRow: SRP, base de cálculo e inventario.
func pricingRow(product *entity.Product) core.Row {
	stock := "sin control"
	if s := product.Metadata.Stock(); s != nil {
		stock = fmt.Sprintf("%d", *s)
	}
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PRECIO SUGERIDO", props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1,
			}),
			text.New(fmt.Sprintf("SRP: %s   |   Costo unit. promedio: %s   |   Unidades base: %s   |   Inventario: %s",
				formatAmount(product.Metadata.SRP()),
				formatAmount(finance.WeightedUnitCost(product.Metadata.SRP(), product.Metadata.COGS())),
				product.FinanceBasis().String(),
				stock,
			), props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

func sectionTitle(label string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func headerCol(label string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(label, props.Text{
		Style: fontstyle.Bold, Size: 8, Align: a, Top: 2, Left: 1, Right: 1,
	}))
}

func cellCol(value string, size int, a align.Type) core.Col {
	return col.New(size).Add(text.New(value, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1}))
}

func cogsHeaderRow() core.Row {
	return row.New(7).Add(
		headerCol("Ítem", 5, align.Left),
		headerCol("Cant.", 1, align.Center),
		headerCol("Unidad", 2, align.Center),
		headerCol("Costo unit.", 2, align.Right),
		headerCol("Subtotal", 2, align.Right),
	)
}

// cogsRows: una fila por línea de costo más el total.
func cogsRows(items []finance.COGSItem) []core.Row {
	if len(items) == 0 {
		return []core.Row{row.New(6).Add(col.New(12).Add(
			text.New("Sin líneas de costo registradas.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		))}
	}
	rows := make([]core.Row, 0, len(items)+1)
	total := items[0].Subtotal.Zero()
	for _, it := range items {
		total = total.Add(it.Subtotal)
		rows = append(rows, row.New(6).Add(
			cellCol(it.Item, 5, align.Left),
			cellCol(it.Quantity.String(), 1, align.Center),
			cellCol(nonEmpty(it.Unit, "—"), 2, align.Center),
			cellCol(formatAmount(it.UnitCost), 2, align.Right),
			cellCol(formatAmount(it.Subtotal), 2, align.Right),
		))
	}
	rows = append(rows, row.New(7).Add(
		col.New(8),
		headerCol("Total COGS:", 2, align.Right),
		headerCol(formatAmount(total), 2, align.Right),
	))
	return rows
}

func summaryHeaderRow() core.Row {
	return row.New(7).Add(
		headerCol("Concepto", 4, align.Left),
		headerCol("Bruto", 2, align.Right),
		headerCol("Margen", 2, align.Right),
		headerCol("Neto", 2, align.Right),
		headerCol("Margen", 2, align.Right),
	)
}

// summaryRows: ingresos, ingreso, COGS y utilidad en ambas vías.
func summaryRows(f finance.ProductFinance) []core.Row {
	lines := []struct {
		label string
		track finance.Track
	}{
		{"Ingresos (Revenue)", f.Revenue},
		{"Ingreso (Income)", f.Income},
		{"Costo (COGS)", f.COGS},
		{"Utilidad (Profit)", f.Profit},
	}
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(6).Add(
			cellCol(l.label, 4, align.Left),
			amountCol(l.track.Gross.Value, 2),
			cellCol(formatRatio(l.track.Gross.MarginRatio), 2, align.Right),
			amountCol(l.track.Net.Value, 2),
			cellCol(formatRatio(l.track.Net.MarginRatio), 2, align.Right),
		))
	}
	return rows
}

// amountCol resalta en rojo los montos negativos (p. ej. utilidad con pérdida).
func amountCol(m money.Money, size int) core.Col {
	p := props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1}
	if m.IsNegative() {
		p.Color = colorNegative
		p.Style = fontstyle.Bold
	}
	return col.New(size).Add(text.New(formatAmount(m), p))
}

// planRows: el plan en filas de hasta cuatro meses.
func planRows(plan []capacity.MonthlyCapacity) []core.Row {
	const perRow = 4
	var rows []core.Row
	for i := 0; i < len(plan); i += perRow {
		r := row.New(6)
		for j := i; j < i+perRow && j < len(plan); j++ {
			r = r.Add(cellCol(fmt.Sprintf("%s: %d", plan[j].Month, plan[j].Capacity), 3, align.Left))
		}
		rows = append(rows, r)
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if strings.TrimSpace(s) != "" {
		return s
	}
	return fallback
}

// formatAmount antepone la moneda e inserta comas de miles.
// Ej: PHP 1559.88 → "PHP 1,559.88", JPY -25000 → "JPY -25,000"
func formatAmount(m money.Money) string {
	s := m.Amount().StringFixed(m.Scale())
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, hasFrac := strings.Cut(s, ".")
	out := sign + groupThousands(intPart)
	if hasFrac {
		out += "." + frac
	}
	return m.Currency().String() + " " + out
}

// groupThousands inserta comas de miles en un string numérico sin signo.
// Ej: "25000" → "25,000", "1000000" → "1,000,000"
func groupThousands(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	buf := make([]byte, 0, n+n/3)
	for i, c := range []byte(s) {
		if i > 0 && (n-i)%3 == 0 {
			buf = append(buf, ',')
		}
		buf = append(buf, c)
	}
	return string(buf)
}

func formatRatio(r float64) string {
	return fmt.Sprintf("%.2f%%", r*100)
}
