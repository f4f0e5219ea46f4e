// Package finance deriva el resumen financiero de un producto a partir del precio sugerido (SRP)
// y del desglose de costos (COGS). Funciones puras: sin I/O ni estado compartido.
package finance

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-engine/internal/domain/money"
)

// COGSItem es una línea de costo del producto.
// Subtotal siempre es UnitCost * Quantity; un valor recibido de fuera es sólo informativo.
type COGSItem struct {
	ID       string          `json:"id"`
	Item     string          `json:"item"`
	UnitCost money.Money     `json:"unitCost"`
	Quantity decimal.Decimal `json:"quantity"`
	Subtotal money.Money     `json:"subtotal"`
	Unit     string          `json:"unit,omitempty"`
}

// Recalculate devuelve la línea con el subtotal recalculado.
func (c COGSItem) Recalculate() COGSItem {
	c.Subtotal = c.UnitCost.Mul(c.Quantity)
	return c
}

// MarshalJSON escribe quantity como número JSON ("quantity":2), no como texto.
func (c COGSItem) MarshalJSON() ([]byte, error) {
	type plain COGSItem
	return json.Marshal(struct {
		plain
		Quantity json.RawMessage `json:"quantity"`
	}{
		plain:    plain(c),
		Quantity: json.RawMessage(c.Quantity.String()),
	})
}

// ValueRatio monto y razón de margen (adimensional, sin recorte: puede ser negativa o > 1).
type ValueRatio struct {
	Value       money.Money `json:"value"`
	MarginRatio float64     `json:"marginRatio"`
}

// Track par bruto / neto.
type Track struct {
	Gross ValueRatio `json:"gross"`
	Net   ValueRatio `json:"net"`
}

// ProductFinance resumen derivado (caché). Se recalcula en cada cambio de sus fuentes.
type ProductFinance struct {
	Profit  Track `json:"profit"`
	Revenue Track `json:"revenue"`
	Income  Track `json:"income"`
	COGS    Track `json:"cogs"`
}
