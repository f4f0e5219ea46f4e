package finance

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-engine/internal/domain/money"
)

// WeightedUnitCost costo unitario promedio ponderado de las líneas COGS.
// Promedio = Σ(CostoUnitario * Cantidad) / Σ Cantidad
// Sin cantidad total devuelve cero en la moneda de zero.
func WeightedUnitCost(zero money.Money, items []COGSItem) money.Money {
	qty := decimal.Zero
	for _, item := range items {
		qty = qty.Add(item.Quantity)
	}
	if qty.LessThanOrEqual(decimal.Zero) {
		return zero.Zero()
	}
	return TotalCOGS(zero, items).Div(qty)
}
