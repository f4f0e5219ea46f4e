package dto

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-engine/internal/domain/capacity"
	"github.com/jhoicas/product-engine/internal/domain/finance"
	"github.com/jhoicas/product-engine/internal/domain/money"
)

// CreateProductRequest entrada para crear un producto (queda en Draft + Private).
type CreateProductRequest struct {
	Name             string          `json:"name"`
	Category         string          `json:"category"`
	Type             string          `json:"type"`
	SKU              string          `json:"sku,omitempty"`
	Description      string          `json:"description,omitempty"`
	Photos           []string        `json:"photos,omitempty"`
	SRP              decimal.Decimal `json:"srp"`
	Currency         string          `json:"currency,omitempty"` // vacío = moneda por defecto
	Stock            *int64          `json:"stock,omitempty"`    // nil = sin control de inventario
	SupplyPlanMonths int             `json:"supply_plan_months,omitempty"`
	SupplyPlanStart  string          `json:"supply_plan_start,omitempty"` // YYYY-MM, vacío = mes actual
}

// UpdatePricingRequest cambio de precio sugerido.
type UpdatePricingRequest struct {
	SRP      decimal.Decimal `json:"srp"`
	Currency string          `json:"currency,omitempty"` // vacío = moneda actual del producto
}

// COGSItemRequest línea de costo nueva. ID vacío = se genera.
type COGSItemRequest struct {
	ID       string          `json:"id,omitempty"`
	Item     string          `json:"item"`
	UnitCost decimal.Decimal `json:"unit_cost"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit,omitempty"`
}

// UpdateCOGSItemRequest cambio parcial de una línea de costo.
type UpdateCOGSItemRequest struct {
	Item     *string          `json:"item,omitempty"`
	UnitCost *decimal.Decimal `json:"unit_cost,omitempty"`
	Quantity *decimal.Decimal `json:"quantity,omitempty"`
	Unit     *string          `json:"unit,omitempty"`
}

// ResizeSupplyPlanRequest redimensiona el plan mensual.
type ResizeSupplyPlanRequest struct {
	Length     int    `json:"length"`
	Mode       string `json:"mode,omitempty"`        // default | distribute; vacío = configuración
	StartMonth string `json:"start_month,omitempty"` // YYYY-MM
}

// SupplyPlanResponse plan resultante.
type SupplyPlanResponse struct {
	ProductID string                     `json:"product_id"`
	Mode      string                     `json:"mode"`
	Months    []capacity.MonthlyCapacity `json:"months"`
	Total     int64                      `json:"total"`
}

// FinanceRequest consulta financiera. QuantitySold nil = usar la caché del producto.
type FinanceRequest struct {
	QuantitySold *decimal.Decimal `json:"quantity_sold,omitempty"`
	Returns      *decimal.Decimal `json:"returns,omitempty"`
	Fees         *decimal.Decimal `json:"fees,omitempty"`
}

// FinanceResponse resumen financiero y la cantidad usada como base.
type FinanceResponse struct {
	ProductID       string                 `json:"product_id"`
	Currency        string                 `json:"currency"`
	QuantitySold    decimal.Decimal        `json:"quantity_sold"`
	Cached          bool                   `json:"cached"`
	AverageUnitCost money.Money            `json:"average_unit_cost"`
	Finance         finance.ProductFinance `json:"finance"`
}
