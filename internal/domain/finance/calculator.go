package finance

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-engine/internal/domain"
	"github.com/jhoicas/product-engine/internal/domain/money"
)

// Adjustment descuentos que separan la vía neta de la bruta.
// Returns reduce el ingreso; Fees se suma al costo. Ambos no negativos.
type Adjustment struct {
	Returns money.Money
	Fees    money.Money
}

// Option configura Compute.
type Option func(*options)

type options struct {
	adjustment *Adjustment
}

// WithNetAdjustment aplica devoluciones y comisiones a la vía neta.
func WithNetAdjustment(returns, fees money.Money) Option {
	return func(o *options) {
		o.adjustment = &Adjustment{Returns: returns, Fees: fees}
	}
}

// TotalCOGS suma UnitCost * Quantity de cada línea (nunca lee Subtotal).
func TotalCOGS(zero money.Money, items []COGSItem) money.Money {
	total := zero.Zero()
	for _, item := range items {
		total = total.Add(item.UnitCost.Mul(item.Quantity))
	}
	return total
}

// Compute deriva ProductFinance para quantitySold unidades vendidas.
//
// Convención de costos: las líneas COGS ya describen la base de costo de quantitySold,
// no una tarifa por unidad a multiplicar de nuevo.
//
//	revenue.gross = srp * quantitySold
//	cogs.gross    = Σ unitCost * quantity
//	profit.gross  = revenue.gross - cogs.gross
//
// Sin ajuste, la vía neta es igual a la bruta.
func Compute(srp money.Money, items []COGSItem, quantitySold decimal.Decimal, opts ...Option) (ProductFinance, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if err := validate(srp, items, quantitySold, o.adjustment); err != nil {
		return ProductFinance{}, err
	}

	grossRevenue := srp.Mul(quantitySold)
	grossCOGS := TotalCOGS(srp, items)

	netRevenue, netCOGS := grossRevenue, grossCOGS
	if o.adjustment != nil {
		netRevenue = netRevenue.Sub(o.adjustment.Returns)
		netCOGS = netCOGS.Add(o.adjustment.Fees)
	}

	grossProfit := grossRevenue.Sub(grossCOGS)
	netProfit := netRevenue.Sub(netCOGS)

	// Sin datos de gastos operativos, income coincide con revenue en cada vía.
	// Es un valor por defecto interpretativo, no una regla de negocio verificada.
	grossIncome, netIncome := grossRevenue, netRevenue

	return ProductFinance{
		Profit: Track{
			Gross: ratioOver(grossProfit, grossRevenue),
			Net:   ratioOver(netProfit, netRevenue),
		},
		Revenue: Track{
			Gross: ratioOver(grossRevenue, grossRevenue),
			Net:   ratioOver(netRevenue, netRevenue),
		},
		Income: Track{
			Gross: ratioOver(grossIncome, grossRevenue),
			Net:   ratioOver(netIncome, netRevenue),
		},
		COGS: Track{
			Gross: ratioOver(grossCOGS, grossRevenue),
			Net:   ratioOver(netCOGS, netRevenue),
		},
	}, nil
}

// Empty resumen en cero para la moneda indicada.
func Empty(zero money.Money) ProductFinance {
	vr := ValueRatio{Value: zero.Zero()}
	t := Track{Gross: vr, Net: vr}
	return ProductFinance{Profit: t, Revenue: t, Income: t, COGS: t}
}

func ratioOver(value, revenue money.Money) ValueRatio {
	r, _ := value.Ratio(revenue).Float64()
	return ValueRatio{Value: value, MarginRatio: r}
}

func validate(srp money.Money, items []COGSItem, quantitySold decimal.Decimal, adj *Adjustment) error {
	if srp.IsNegative() {
		return fmt.Errorf("%w: srp negativo (%s)", domain.ErrInvalidInput, srp)
	}
	if quantitySold.IsNegative() {
		return fmt.Errorf("%w: cantidad vendida negativa (%s)", domain.ErrInvalidInput, quantitySold)
	}
	for i, item := range items {
		if item.UnitCost.IsNegative() {
			return fmt.Errorf("%w: cogs[%d] %q costo unitario negativo", domain.ErrInvalidInput, i, item.ID)
		}
		if item.Quantity.IsNegative() {
			return fmt.Errorf("%w: cogs[%d] %q cantidad negativa", domain.ErrInvalidInput, i, item.ID)
		}
		if err := srp.SameCurrency(item.UnitCost); err != nil {
			return fmt.Errorf("cogs[%d] %q: %w", i, item.ID, err)
		}
	}
	if adj != nil {
		if adj.Returns.IsNegative() || adj.Fees.IsNegative() {
			return fmt.Errorf("%w: ajuste neto negativo", domain.ErrInvalidInput)
		}
		if err := srp.SameCurrency(adj.Returns, adj.Fees); err != nil {
			return fmt.Errorf("ajuste neto: %w", err)
		}
	}
	return nil
}
