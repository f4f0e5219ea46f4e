// Package xlsx exporta costos, resumen financiero y plan de abastecimiento a Excel.
package xlsx

import (
	"context"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/product-engine/internal/domain/capacity"
	"github.com/jhoicas/product-engine/internal/domain/entity"
	"github.com/jhoicas/product-engine/internal/domain/finance"
)

// Nombres de hojas del libro.
const (
	SheetCOGS    = "COGS"
	SheetSummary = "Resumen"
	SheetPlan    = "Plan"
)

// WorkbookExporter implementa report.WorkbookExporter usando excelize.
type WorkbookExporter struct{}

// NewWorkbookExporter construye el exportador.
func NewWorkbookExporter() *WorkbookExporter { return &WorkbookExporter{} }

// ExportWorkbook genera el libro y devuelve sus bytes.
func (e *WorkbookExporter) ExportWorkbook(_ context.Context, product *entity.Product) ([]byte, error) {
	if product == nil {
		return nil, fmt.Errorf("xlsx: producto requerido")
	}
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", SheetCOGS)
	f.NewSheet(SheetSummary)
	f.NewSheet(SheetPlan)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "#000000", Style: 1},
		},
	})
	summaryStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	writeCOGS(f, product.Metadata.COGS(), boldStyle, summaryStyle)
	writeSummary(f, product, boldStyle)
	writePlan(f, product.Metadata.SupplyPlan(), boldStyle, summaryStyle)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx: escribir libro: %w", err)
	}
	return buf.Bytes(), nil
}

func writeHeader(f *excelize.File, sheet string, headers []string, widths []float64, style int) {
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := fmt.Sprintf("%s1", col)
		f.SetCellValue(sheet, cell, h)
		f.SetCellStyle(sheet, cell, cell, style)
	}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, col, col, w)
	}
}

// writeCOGS: una fila por línea de costo y la fila de total al final.
func writeCOGS(f *excelize.File, items []finance.COGSItem, headerStyle, summaryStyle int) {
	sheet := SheetCOGS
	writeHeader(f, sheet,
		[]string{"ID", "Ítem", "Cantidad", "Unidad", "Moneda", "Costo unitario", "Subtotal"},
		[]float64{38, 30, 10, 10, 8, 14, 14},
		headerStyle)

	row := 2
	for _, it := range items {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), it.ID)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), it.Item)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), it.Quantity.InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), it.Unit)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), it.UnitCost.Currency().String())
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), it.UnitCost.Amount().InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), it.Subtotal.Amount().InexactFloat64())
		row++
	}

	// Fila resumen
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), fmt.Sprintf("Líneas: %d", len(items)))
	if len(items) > 0 {
		f.SetCellFormula(sheet, fmt.Sprintf("G%d", row), fmt.Sprintf("SUM(G2:G%d)", row-1))
	} else {
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), 0)
	}
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("G%d", row), summaryStyle)
}

// writeSummary: datos del producto y las cuatro métricas en bruto y neto.
func writeSummary(f *excelize.File, product *entity.Product, headerStyle int) {
	sheet := SheetSummary
	writeHeader(f, sheet,
		[]string{"Concepto", "Bruto", "Margen bruto", "Neto", "Margen neto"},
		[]float64{24, 14, 14, 14, 14},
		headerStyle)

	fin := product.Metadata.Finance()
	tracks := []struct {
		label string
		track finance.Track
	}{
		{"Revenue", fin.Revenue},
		{"Income", fin.Income},
		{"COGS", fin.COGS},
		{"Profit", fin.Profit},
	}
	row := 2
	for _, t := range tracks {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), t.label)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), t.track.Gross.Value.Amount().InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), t.track.Gross.MarginRatio)
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), t.track.Net.Value.Amount().InexactFloat64())
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), t.track.Net.MarginRatio)
		row++
	}

	row++
	info := [][2]any{
		{"Producto", product.Name},
		{"ID", product.ID},
		{"SKU", product.Metadata.SKU},
		{"Estado", string(product.Status())},
		{"Moneda", product.Metadata.SRP().Currency().String()},
		{"SRP", product.Metadata.SRP().Amount().InexactFloat64()},
		{"Costo unitario promedio", finance.WeightedUnitCost(product.Metadata.SRP(), product.Metadata.COGS()).Amount().InexactFloat64()},
		{"Unidades base", product.FinanceBasis().InexactFloat64()},
	}
	for _, kv := range info {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), kv[0])
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), kv[1])
		row++
	}
}

// writePlan: un mes por fila y la capacidad total al final.
func writePlan(f *excelize.File, plan []capacity.MonthlyCapacity, headerStyle, summaryStyle int) {
	sheet := SheetPlan
	writeHeader(f, sheet,
		[]string{"Mes", "Capacidad", "Ajuste"},
		[]float64{12, 12, 12},
		headerStyle)

	row := 2
	for _, m := range plan {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), m.Month.String())
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), m.Capacity)
		if m.Adjustment != nil {
			f.SetCellValue(sheet, fmt.Sprintf("C%d", row), *m.Adjustment)
		}
		row++
	}
	f.SetCellValue(sheet, fmt.Sprintf("A%d", row), "Total")
	f.SetCellValue(sheet, fmt.Sprintf("B%d", row), capacity.Total(plan))
	f.SetCellStyle(sheet, fmt.Sprintf("A%d", row), fmt.Sprintf("C%d", row), summaryStyle)
}
