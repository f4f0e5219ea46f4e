package xlsx_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jhoicas/product-engine/internal/domain/capacity"
	"github.com/jhoicas/product-engine/internal/domain/entity"
	"github.com/jhoicas/product-engine/internal/domain/finance"
	"github.com/jhoicas/product-engine/internal/domain/money"
	"github.com/jhoicas/product-engine/internal/infrastructure/xlsx"
)

func newProduct(t *testing.T) *entity.Product {
	t.Helper()
	units := int64(5)
	p, err := entity.NewProduct(entity.NewProductParams{
		ID:       "prod-1",
		Slug:     "cafe-molido",
		Name:     "Café molido",
		Category: "Bebidas",
		Type:     entity.ProductTypePhysical,
		SRP:      money.MustParse("10", "PHP"),
		Stock:    &units,
	}, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, p.SetCOGS([]finance.COGSItem{{
		ID:       "beans",
		Item:     "Granos",
		UnitCost: money.MustParse("4", "PHP"),
		Quantity: decimal.NewFromInt(1),
		Unit:     "kg",
	}}))
	require.NoError(t, p.SetSupplyPlan(capacity.Generate(capacity.MustParseYearMonth("2024-01"), 3, 100)))
	return p
}

func open(t *testing.T, data []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestExportWorkbook_Hojas(t *testing.T) {
	data, err := xlsx.NewWorkbookExporter().ExportWorkbook(context.Background(), newProduct(t))
	require.NoError(t, err)

	f := open(t, data)
	assert.Equal(t, []string{xlsx.SheetCOGS, xlsx.SheetSummary, xlsx.SheetPlan}, f.GetSheetList())
}

func TestExportWorkbook_COGS(t *testing.T) {
	data, err := xlsx.NewWorkbookExporter().ExportWorkbook(context.Background(), newProduct(t))
	require.NoError(t, err)
	f := open(t, data)

	header, _ := f.GetCellValue(xlsx.SheetCOGS, "B1")
	assert.Equal(t, "Ítem", header)
	id, _ := f.GetCellValue(xlsx.SheetCOGS, "A2")
	assert.Equal(t, "beans", id)
	unit, _ := f.GetCellValue(xlsx.SheetCOGS, "D2")
	assert.Equal(t, "kg", unit)
	total, _ := f.GetCellValue(xlsx.SheetCOGS, "A3")
	assert.Equal(t, "Total", total)
	formula, _ := f.GetCellFormula(xlsx.SheetCOGS, "G3")
	assert.Equal(t, "SUM(G2:G2)", formula)
}

func TestExportWorkbook_ResumenYPlan(t *testing.T) {
	data, err := xlsx.NewWorkbookExporter().ExportWorkbook(context.Background(), newProduct(t))
	require.NoError(t, err)
	f := open(t, data)

	label, _ := f.GetCellValue(xlsx.SheetSummary, "A5")
	assert.Equal(t, "Profit", label)
	profit, _ := f.GetCellValue(xlsx.SheetSummary, "B5")
	assert.Equal(t, "46", profit)

	month, _ := f.GetCellValue(xlsx.SheetPlan, "A2")
	assert.Equal(t, "2024-01", month)
	last, _ := f.GetCellValue(xlsx.SheetPlan, "A4")
	assert.Equal(t, "2024-03", last)
	total, _ := f.GetCellValue(xlsx.SheetPlan, "B5")
	assert.Equal(t, "300", total)
}

func TestExportWorkbook_SinCOGSNiPlan(t *testing.T) {
	p, err := entity.NewProduct(entity.NewProductParams{
		ID:       "prod-2",
		Name:     "Curso",
		Category: "Cursos",
		Type:     entity.ProductTypeDigital,
		SRP:      money.MustParse("499", "PHP"),
	}, time.Now())
	require.NoError(t, err)

	data, err := xlsx.NewWorkbookExporter().ExportWorkbook(context.Background(), p)
	require.NoError(t, err)
	f := open(t, data)

	total, _ := f.GetCellValue(xlsx.SheetCOGS, "A2")
	assert.Equal(t, "Total", total)
	planTotal, _ := f.GetCellValue(xlsx.SheetPlan, "B2")
	assert.Equal(t, "0", planTotal)
}

func TestExportWorkbook_ProductoNil(t *testing.T) {
	_, err := xlsx.NewWorkbookExporter().ExportWorkbook(context.Background(), nil)
	assert.Error(t, err)
}
