package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/product-engine/internal/domain"
	"github.com/jhoicas/product-engine/internal/domain/capacity"
	"github.com/jhoicas/product-engine/internal/domain/finance"
	"github.com/jhoicas/product-engine/internal/domain/money"
)

// Product agregado del catálogo.
// SRP, COGS, stock y plan de abastecimiento sólo cambian vía métodos, y cada cambio
// recalcula el resumen financiero en caché (Metadata.Finance()).
type Product struct {
	ID        string
	Slug      string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
	Metadata  ProductMetadata
	Settings  ProductSettings
}

// Description texto del producto (html y seo opcionales).
type Description struct {
	Text string `json:"text"`
	HTML string `json:"html,omitempty"`
	SEO  string `json:"seo,omitempty"`
}

// ProductMetadata datos comerciales del producto.
type ProductMetadata struct {
	SKU         string
	Description Description
	Photos      []string
	Category    string

	productType ProductType
	srp         money.Money
	cogs        []finance.COGSItem
	stock       *int64 // nil = sin control de inventario
	supplyPlan  []capacity.MonthlyCapacity
	finance     finance.ProductFinance
}

// ProductSettings estado, visibilidad y restricciones del sistema.
type ProductSettings struct {
	Status     ProductStatus
	Visibility ProductVisibility
	System     *SystemSettings
}

// SystemSettings restricción administrativa (opcional).
type SystemSettings struct {
	IsRestricted    bool
	RestrictedUntil *time.Time
}

// NewProductParams datos mínimos para crear un producto.
type NewProductParams struct {
	ID          string
	Slug        string
	Name        string
	Category    string
	Type        ProductType
	SRP         money.Money
	SKU         string
	Description Description
	Photos      []string
	Stock       *int64
}

// NewProduct crea un producto en Draft + Private con COGS vacío.
func NewProduct(p NewProductParams, now time.Time) (*Product, error) {
	if strings.TrimSpace(p.ID) == "" {
		return nil, fmt.Errorf("%w: id requerido", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, fmt.Errorf("%w: nombre requerido", domain.ErrInvalidInput)
	}
	if !p.Type.Valid() {
		return nil, fmt.Errorf("%w: tipo de producto %q", domain.ErrInvalidInput, p.Type)
	}
	if p.SRP.IsNegative() {
		return nil, fmt.Errorf("%w: srp negativo", domain.ErrInvalidInput)
	}
	if err := checkStock(p.Type, p.Stock); err != nil {
		return nil, err
	}

	product := &Product{
		ID:        p.ID,
		Slug:      p.Slug,
		Name:      strings.TrimSpace(p.Name),
		CreatedAt: now,
		UpdatedAt: now,
		Metadata: ProductMetadata{
			SKU:         p.SKU,
			Description: p.Description,
			Photos:      p.Photos,
			Category:    p.Category,
			productType: p.Type,
			srp:         p.SRP,
			cogs:        []finance.COGSItem{},
			stock:       cloneStock(p.Stock),
		},
		Settings: ProductSettings{
			Status:     ProductStatusDraft,
			Visibility: ProductVisibilityPrivate,
		},
	}
	if err := product.recompute(); err != nil {
		return nil, err
	}
	return product, nil
}

// ── lectura ───────────────────────────────────────────────────────────────────

func (m *ProductMetadata) Type() ProductType                      { return m.productType }
func (m *ProductMetadata) SRP() money.Money                       { return m.srp }
func (m *ProductMetadata) Finance() finance.ProductFinance        { return m.finance }
func (m *ProductMetadata) Stock() *int64                          { return cloneStock(m.stock) }
func (m *ProductMetadata) SupplyPlan() []capacity.MonthlyCapacity { return capacity.Clone(m.supplyPlan) }

// COGS devuelve una copia de las líneas de costo.
func (m *ProductMetadata) COGS() []finance.COGSItem {
	out := make([]finance.COGSItem, len(m.cogs))
	copy(out, m.cogs)
	return out
}

// StockTracked reporta si el inventario se controla (stock != nil).
func (m *ProductMetadata) StockTracked() bool { return m.stock != nil }

// Status atajo a Settings.Status.
func (p *Product) Status() ProductStatus { return p.Settings.Status }

// IsRestricted reporta si hay una restricción vigente en now.
func (p *Product) IsRestricted(now time.Time) bool {
	sys := p.Settings.System
	if sys == nil || !sys.IsRestricted {
		return false
	}
	return sys.RestrictedUntil == nil || now.Before(*sys.RestrictedUntil)
}

// Touch actualiza la marca de última modificación.
func (p *Product) Touch(now time.Time) { p.UpdatedAt = now }

// ── finanzas ──────────────────────────────────────────────────────────────────

// FinanceBasis cantidad usada para el resumen en caché: el stock controlado,
// o 1 unidad (economía unitaria) cuando el stock no se controla.
func (p *Product) FinanceBasis() decimal.Decimal {
	if p.Metadata.stock == nil {
		return decimal.NewFromInt(1)
	}
	return decimal.NewFromInt(*p.Metadata.stock)
}

// FinanceFor calcula el resumen para una cantidad vendida arbitraria sin tocar la caché.
func (p *Product) FinanceFor(quantitySold decimal.Decimal, opts ...finance.Option) (finance.ProductFinance, error) {
	return finance.Compute(p.Metadata.srp, p.Metadata.cogs, quantitySold, opts...)
}

// Recompute vuelve a derivar la caché financiera desde sus fuentes.
func (p *Product) Recompute() error { return p.recompute() }

func (p *Product) recompute() error {
	f, err := finance.Compute(p.Metadata.srp, p.Metadata.cogs, p.FinanceBasis())
	if err != nil {
		return err
	}
	p.Metadata.finance = f
	return nil
}

// SetSRP cambia el precio sugerido de venta. La moneda del COGS debe coincidir.
func (p *Product) SetSRP(srp money.Money) error {
	return p.mutate(func(m *ProductMetadata) error {
		if srp.IsNegative() {
			return fmt.Errorf("%w: srp negativo", domain.ErrInvalidInput)
		}
		m.srp = srp
		return nil
	})
}

// ── COGS ──────────────────────────────────────────────────────────────────────

// SetCOGS reemplaza todas las líneas de costo (ids únicos, subtotales recalculados).
func (p *Product) SetCOGS(items []finance.COGSItem) error {
	return p.mutate(func(m *ProductMetadata) error {
		seen := make(map[string]struct{}, len(items))
		next := make([]finance.COGSItem, 0, len(items))
		for i, item := range items {
			if strings.TrimSpace(item.ID) == "" {
				return fmt.Errorf("%w: cogs[%d] sin id", domain.ErrInvalidInput, i)
			}
			if _, dup := seen[item.ID]; dup {
				return fmt.Errorf("%w: %w: cogs id %q", domain.ErrInvalidInput, domain.ErrDuplicate, item.ID)
			}
			seen[item.ID] = struct{}{}
			next = append(next, item.Recalculate())
		}
		m.cogs = next
		return nil
	})
}

// AddCOGSItem agrega una línea de costo.
func (p *Product) AddCOGSItem(item finance.COGSItem) error {
	return p.SetCOGS(append(p.Metadata.COGS(), item))
}

// COGSPatch cambios parciales a una línea de costo (nil = sin cambio).
type COGSPatch struct {
	Item     *string
	UnitCost *money.Money
	Quantity *decimal.Decimal
	Unit     *string
}

// UpdateCOGSItem aplica un cambio parcial a la línea id.
func (p *Product) UpdateCOGSItem(id string, patch COGSPatch) error {
	items := p.Metadata.COGS()
	idx := indexOfCOGS(items, id)
	if idx < 0 {
		return fmt.Errorf("%w: cogs id %q", domain.ErrNotFound, id)
	}
	if patch.Item != nil {
		items[idx].Item = *patch.Item
	}
	if patch.UnitCost != nil {
		items[idx].UnitCost = *patch.UnitCost
	}
	if patch.Quantity != nil {
		items[idx].Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		items[idx].Unit = *patch.Unit
	}
	return p.SetCOGS(items)
}

// RemoveCOGSItem elimina la línea id.
func (p *Product) RemoveCOGSItem(id string) error {
	items := p.Metadata.COGS()
	idx := indexOfCOGS(items, id)
	if idx < 0 {
		return fmt.Errorf("%w: cogs id %q", domain.ErrNotFound, id)
	}
	return p.SetCOGS(append(items[:idx], items[idx+1:]...))
}

func indexOfCOGS(items []finance.COGSItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// ── inventario y plan ─────────────────────────────────────────────────────────

// SetStock cambia el stock (nil = sin control) y sincroniza Active/OutOfStock en físicos.
func (p *Product) SetStock(stock *int64) error {
	if err := p.mutate(func(m *ProductMetadata) error {
		if err := checkStock(m.productType, stock); err != nil {
			return err
		}
		m.stock = cloneStock(stock)
		return nil
	}); err != nil {
		return err
	}
	p.syncStockStatus()
	return nil
}

// SetSupplyPlan reemplaza el plan mensual (meses crecientes, capacidades >= 0).
func (p *Product) SetSupplyPlan(plan []capacity.MonthlyCapacity) error {
	return p.mutate(func(m *ProductMetadata) error {
		if err := capacity.Validate(plan); err != nil {
			return err
		}
		m.supplyPlan = capacity.Clone(plan)
		return nil
	})
}

// ResizeSupplyPlan cambia la cantidad de meses del plan según el modo.
func (p *Product) ResizeSupplyPlan(targetLength int, mode capacity.ResizeMode, startMonth *capacity.YearMonth) error {
	next, err := capacity.Resize(p.Metadata.supplyPlan, targetLength, mode, startMonth)
	if err != nil {
		return err
	}
	p.Metadata.supplyPlan = next
	return nil
}

// mutate aplica fn sobre una copia y sólo la confirma si el recálculo financiero es válido,
// de modo que un error nunca deja el producto a medio aplicar.
func (p *Product) mutate(fn func(m *ProductMetadata) error) error {
	prev := p.Metadata
	if err := fn(&p.Metadata); err != nil {
		p.Metadata = prev
		return err
	}
	if err := p.recompute(); err != nil {
		p.Metadata = prev
		return err
	}
	return nil
}

func checkStock(t ProductType, stock *int64) error {
	if !t.Valid() {
		return fmt.Errorf("%w: tipo de producto %q", domain.ErrInvalidInput, t)
	}
	if stock == nil {
		return nil
	}
	if !t.StockLimited() {
		return fmt.Errorf("%w: un producto %s no controla inventario", domain.ErrInvalidInput, t)
	}
	if *stock < 0 {
		return fmt.Errorf("%w: stock negativo (%d)", domain.ErrInvalidInput, *stock)
	}
	return nil
}

func cloneStock(stock *int64) *int64 {
	if stock == nil {
		return nil
	}
	v := *stock
	return &v
}
