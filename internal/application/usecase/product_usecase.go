package usecase

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/jhoicas/product-engine/internal/application/dto"
	"github.com/jhoicas/product-engine/internal/domain"
	"github.com/jhoicas/product-engine/internal/domain/capacity"
	"github.com/jhoicas/product-engine/internal/domain/entity"
	"github.com/jhoicas/product-engine/internal/domain/finance"
	"github.com/jhoicas/product-engine/internal/domain/money"
	"github.com/jhoicas/product-engine/pkg/clock"
	"github.com/jhoicas/product-engine/pkg/logger"
)

// ProductDefaults valores por defecto tomados de la configuración.
type ProductDefaults struct {
	Currency   string
	ResizeMode string
}

// ProductUseCase casos de uso del catálogo. No persiste: el llamador carga y guarda el documento
// y serializa las escrituras concurrentes sobre un mismo producto.
type ProductUseCase struct {
	clock    clock.Clock
	log      *logger.Logger
	defaults ProductDefaults
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(clk clock.Clock, log *logger.Logger, defaults ProductDefaults) *ProductUseCase {
	if clk == nil {
		clk = clock.System{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &ProductUseCase{clock: clk, log: log.Named("product"), defaults: defaults}
}

// Create crea un producto nuevo en Draft + Private con id y slug generados.
func (uc *ProductUseCase) Create(in dto.CreateProductRequest) (*entity.Product, error) {
	kind, err := entity.ParseProductType(in.Type)
	if err != nil {
		return nil, err
	}
	srp, err := uc.money(in.SRP.String(), in.Currency)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	product, err := entity.NewProduct(entity.NewProductParams{
		ID:          uuid.New().String(),
		Slug:        slug.Make(in.Name),
		Name:        in.Name,
		Category:    in.Category,
		Type:        kind,
		SRP:         srp,
		SKU:         in.SKU,
		Description: entity.Description{Text: in.Description},
		Photos:      in.Photos,
		Stock:       in.Stock,
	}, now)
	if err != nil {
		return nil, err
	}

	if in.SupplyPlanMonths < 0 {
		return nil, fmt.Errorf("%w: meses de plan negativos", domain.ErrInvalidInput)
	}
	if in.SupplyPlanMonths > 0 {
		start := capacity.YearMonthOf(now)
		if in.SupplyPlanStart != "" {
			if start, err = capacity.ParseYearMonth(in.SupplyPlanStart); err != nil {
				return nil, err
			}
		}
		if err := product.SetSupplyPlan(capacity.Generate(start, in.SupplyPlanMonths, 0)); err != nil {
			return nil, err
		}
	}

	uc.log.Debug().Str("product_id", product.ID).Str("slug", product.Slug).Msg("producto creado")
	return product, nil
}

// Import decodifica un documento JSON; subtotales y finanzas se recalculan.
func (uc *ProductUseCase) Import(data []byte) (*entity.Product, error) {
	var product entity.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

// Export serializa el producto con la caché financiera vigente.
func (uc *ProductUseCase) Export(product *entity.Product) ([]byte, error) {
	return json.MarshalIndent(product, "", "  ")
}

// UpdatePricing cambia el SRP. Sin moneda explícita se conserva la del producto.
func (uc *ProductUseCase) UpdatePricing(product *entity.Product, in dto.UpdatePricingRequest) error {
	code := in.Currency
	if code == "" {
		code = product.Metadata.SRP().Currency().String()
	}
	srp, err := uc.money(in.SRP.String(), code)
	if err != nil {
		return err
	}
	return uc.apply(product, "srp", func() error { return product.SetSRP(srp) })
}

// AddCOGSItem agrega una línea de costo en la moneda del SRP y devuelve la línea guardada.
func (uc *ProductUseCase) AddCOGSItem(product *entity.Product, in dto.COGSItemRequest) (*finance.COGSItem, error) {
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.New().String()
	}
	item := finance.COGSItem{
		ID:       id,
		Item:     in.Item,
		UnitCost: money.New(in.UnitCost, product.Metadata.SRP().Currency()),
		Quantity: in.Quantity,
		Unit:     in.Unit,
	}
	if err := uc.apply(product, "cogs.add", func() error { return product.AddCOGSItem(item) }); err != nil {
		return nil, err
	}
	saved := item.Recalculate()
	return &saved, nil
}

// UpdateCOGSItem aplica un cambio parcial a una línea de costo.
func (uc *ProductUseCase) UpdateCOGSItem(product *entity.Product, id string, in dto.UpdateCOGSItemRequest) error {
	patch := entity.COGSPatch{Item: in.Item, Quantity: in.Quantity, Unit: in.Unit}
	if in.UnitCost != nil {
		cost := money.New(*in.UnitCost, product.Metadata.SRP().Currency())
		patch.UnitCost = &cost
	}
	return uc.apply(product, "cogs.update", func() error { return product.UpdateCOGSItem(id, patch) })
}

// RemoveCOGSItem elimina una línea de costo.
func (uc *ProductUseCase) RemoveCOGSItem(product *entity.Product, id string) error {
	return uc.apply(product, "cogs.remove", func() error { return product.RemoveCOGSItem(id) })
}

// SetStock cambia el stock (nil = sin control).
func (uc *ProductUseCase) SetStock(product *entity.Product, stock *int64) error {
	return uc.apply(product, "stock", func() error { return product.SetStock(stock) })
}

// ChangeStatus aplica una transición del ciclo de vida.
func (uc *ProductUseCase) ChangeStatus(product *entity.Product, status string) error {
	target, err := entity.ParseProductStatus(status)
	if err != nil {
		return err
	}
	return uc.apply(product, "status", func() error { return product.TransitionTo(target) })
}

// ChangeVisibility cambia la visibilidad en el catálogo.
func (uc *ProductUseCase) ChangeVisibility(product *entity.Product, visibility string) error {
	v, err := entity.ParseProductVisibility(visibility)
	if err != nil {
		return err
	}
	return uc.apply(product, "visibility", func() error { return product.SetVisibility(v) })
}

// ResizeSupplyPlan redimensiona el plan mensual del producto.
func (uc *ProductUseCase) ResizeSupplyPlan(product *entity.Product, in dto.ResizeSupplyPlanRequest) (*dto.SupplyPlanResponse, error) {
	modeText := in.Mode
	if modeText == "" {
		modeText = uc.defaults.ResizeMode
	}
	mode, err := capacity.ParseResizeMode(modeText)
	if err != nil {
		return nil, err
	}
	var start *capacity.YearMonth
	if in.StartMonth != "" {
		ym, err := capacity.ParseYearMonth(in.StartMonth)
		if err != nil {
			return nil, err
		}
		start = &ym
	}

	before := len(product.Metadata.SupplyPlan())
	if err := uc.apply(product, "supply_plan", func() error {
		return product.ResizeSupplyPlan(in.Length, mode, start)
	}); err != nil {
		return nil, err
	}

	plan := product.Metadata.SupplyPlan()
	if mode == capacity.ResizeDistribute && in.Length == 0 && before > 0 {
		uc.log.Warn().Str("product_id", product.ID).Int("months_before", before).
			Msg("plan redistribuido a cero meses: capacidad descartada")
	}
	return &dto.SupplyPlanResponse{
		ProductID: product.ID,
		Mode:      string(mode),
		Months:    plan,
		Total:     capacity.Total(plan),
	}, nil
}

// Finance devuelve la caché del producto, o un cálculo ad hoc si se indica cantidad o ajustes.
func (uc *ProductUseCase) Finance(product *entity.Product, in dto.FinanceRequest) (*dto.FinanceResponse, error) {
	cur := product.Metadata.SRP().Currency()
	resp := &dto.FinanceResponse{
		ProductID:       product.ID,
		Currency:        cur.String(),
		AverageUnitCost: finance.WeightedUnitCost(money.Zero(cur), product.Metadata.COGS()),
	}

	if in.QuantitySold == nil && in.Returns == nil && in.Fees == nil {
		resp.QuantitySold = product.FinanceBasis()
		resp.Cached = true
		resp.Finance = product.Metadata.Finance()
		return resp, nil
	}

	qty := product.FinanceBasis()
	if in.QuantitySold != nil {
		qty = *in.QuantitySold
	}
	var opts []finance.Option
	if in.Returns != nil || in.Fees != nil {
		returns, fees := money.Zero(cur), money.Zero(cur)
		if in.Returns != nil {
			returns = money.New(*in.Returns, cur)
		}
		if in.Fees != nil {
			fees = money.New(*in.Fees, cur)
		}
		opts = append(opts, finance.WithNetAdjustment(returns, fees))
	}
	f, err := product.FinanceFor(qty, opts...)
	if err != nil {
		return nil, err
	}
	resp.QuantitySold = qty
	resp.Finance = f
	return resp, nil
}

// apply ejecuta una mutación, actualiza last_update y registra el resultado.
func (uc *ProductUseCase) apply(product *entity.Product, field string, fn func() error) error {
	if err := fn(); err != nil {
		uc.log.Debug().Err(err).Str("product_id", product.ID).Str("field", field).Msg("cambio rechazado")
		return err
	}
	product.Touch(uc.clock.Now())
	f := product.Metadata.Finance()
	uc.log.Debug().
		Str("product_id", product.ID).
		Str("field", field).
		Str("status", string(product.Status())).
		Str("profit_gross", f.Profit.Gross.Value.String()).
		Float64("margin_gross", f.Profit.Gross.MarginRatio).
		Msg("producto actualizado")
	return nil
}

func (uc *ProductUseCase) money(amount, code string) (money.Money, error) {
	if code == "" {
		code = uc.defaults.Currency
	}
	return money.Parse(amount, code)
}
