package pdf_test

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-engine/internal/domain/capacity"
	"github.com/jhoicas/product-engine/internal/domain/entity"
	"github.com/jhoicas/product-engine/internal/domain/finance"
	"github.com/jhoicas/product-engine/internal/domain/money"
	"github.com/jhoicas/product-engine/internal/infrastructure/pdf"
	"github.com/jhoicas/product-engine/pkg/clock"
)

func TestGenerateFinanceSheet(t *testing.T) {
	now := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	units := int64(5)
	p, err := entity.NewProduct(entity.NewProductParams{
		ID:       "prod-1",
		Name:     "Café molido",
		Category: "Bebidas",
		Type:     entity.ProductTypePhysical,
		SRP:      money.MustParse("10", "PHP"),
		Stock:    &units,
	}, now)
	require.NoError(t, err)
	require.NoError(t, p.SetCOGS([]finance.COGSItem{{
		ID: "beans", Item: "Granos", UnitCost: money.MustParse("60", "PHP"), Quantity: decimal.NewFromInt(1),
	}}))
	require.NoError(t, p.SetSupplyPlan(capacity.Generate(capacity.MustParseYearMonth("2024-01"), 6, 40)))

	gen := pdf.NewFinanceSheetGenerator("Ficha", "Compras", clock.NewFakeClock(now))
	doc, err := gen.GenerateFinanceSheet(context.Background(), p)

	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(doc, []byte("%PDF")), "el documento debe ser un PDF")
}

func TestGenerateFinanceSheet_ProductoNil(t *testing.T) {
	_, err := pdf.NewFinanceSheetGenerator("", "", nil).GenerateFinanceSheet(context.Background(), nil)
	assert.Error(t, err)
}
