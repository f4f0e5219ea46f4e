package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/pflag"

	"github.com/jhoicas/product-engine/internal/application/dto"
)

// cmdNew emite un producto nuevo en Draft + Private.
func cmdNew(a *app, fs *pflag.FlagSet, args []string) error {
	var srp decimalFlag
	name := fs.String("name", "", "nombre del producto")
	category := fs.String("category", "", "categoría")
	kind := fs.String("type", "Physical", "Physical | Digital")
	currency := fs.String("currency", "", "moneda ISO-4217 (por defecto PRODUCT_DEFAULT_CURRENCY)")
	sku := fs.String("sku", "", "SKU")
	description := fs.String("description", "", "descripción")
	stock := fs.Int64("stock", 0, "stock inicial (omitir = sin control)")
	months := fs.Int("plan-months", a.cfg.Product.PlanHorizonMonths, "meses del plan de abastecimiento inicial")
	start := fs.String("plan-start", "", "primer mes del plan YYYY-MM (por defecto el actual)")
	fs.Var(&srp, "srp", "precio sugerido de venta")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *name == "" || !srp.set {
		return fmt.Errorf("%w: --name y --srp son requeridos", errUsage)
	}

	in := dto.CreateProductRequest{
		Name:             *name,
		Category:         *category,
		Type:             *kind,
		SKU:              *sku,
		Description:      *description,
		SRP:              srp.value,
		Currency:         *currency,
		SupplyPlanMonths: *months,
		SupplyPlanStart:  *start,
	}
	if fs.Changed("stock") {
		in.Stock = stock
	}
	p, err := a.product.Create(in)
	if err != nil {
		return err
	}
	a.log.Info().Str("product_id", p.ID).Str("slug", p.Slug).Msg("producto creado")
	return a.emitProduct(p)
}

// cmdFinance imprime el resumen financiero en caché o para una cantidad vendida.
func cmdFinance(a *app, fs *pflag.FlagSet, args []string) error {
	var sold, returns, fees decimalFlag
	file := fs.String("file", "", "documento de producto (- = stdin)")
	fs.Var(&sold, "sold", "cantidad vendida (por defecto el stock o 1)")
	fs.Var(&returns, "returns", "devoluciones restadas del ingreso neto")
	fs.Var(&fees, "fees", "comisiones sumadas al costo neto")
	if err := parse(fs, args); err != nil {
		return err
	}
	p, err := a.load(*file)
	if err != nil {
		return err
	}
	resp, err := a.product.Finance(p, dto.FinanceRequest{
		QuantitySold: sold.ptr(),
		Returns:      returns.ptr(),
		Fees:         fees.ptr(),
	})
	if err != nil {
		return err
	}
	return a.emit(resp)
}

// cmdResize reescribe el plan de abastecimiento.
func cmdResize(a *app, fs *pflag.FlagSet, args []string) error {
	file := fs.String("file", "", "documento de producto (- = stdin)")
	length := fs.Int("length", 0, "cantidad de meses del plan resultante")
	mode := fs.String("mode", "", "default | distribute (por defecto PRODUCT_RESIZE_MODE)")
	start := fs.String("start", "", "primer mes YYYY-MM")
	if err := parse(fs, args); err != nil {
		return err
	}
	if !fs.Changed("length") {
		return fmt.Errorf("%w: --length requerido", errUsage)
	}
	p, err := a.load(*file)
	if err != nil {
		return err
	}
	resp, err := a.product.ResizeSupplyPlan(p, dto.ResizeSupplyPlanRequest{
		Length:     *length,
		Mode:       *mode,
		StartMonth: *start,
	})
	if err != nil {
		return err
	}
	a.log.Info().Str("product_id", p.ID).Str("mode", resp.Mode).
		Int("months", len(resp.Months)).Int64("total", resp.Total).Msg("plan redimensionado")
	return a.emitProduct(p)
}

// cmdStatus aplica stock, estado y visibilidad en ese orden.
func cmdStatus(a *app, fs *pflag.FlagSet, args []string) error {
	file := fs.String("file", "", "documento de producto (- = stdin)")
	to := fs.String("to", "", "Draft | Active | Out Of Stock | Discontinued")
	visibility := fs.String("visibility", "", "Private | Public")
	stock := fs.Int64("stock", 0, "nuevo stock")
	untracked := fs.Bool("untracked", false, "deja de controlar el stock")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *to == "" && *visibility == "" && !fs.Changed("stock") && !*untracked {
		return fmt.Errorf("%w: indique --to, --visibility, --stock o --untracked", errUsage)
	}
	if fs.Changed("stock") && *untracked {
		return fmt.Errorf("%w: --stock y --untracked son excluyentes", errUsage)
	}
	p, err := a.load(*file)
	if err != nil {
		return err
	}
	switch {
	case *untracked:
		err = a.product.SetStock(p, nil)
	case fs.Changed("stock"):
		err = a.product.SetStock(p, stock)
	}
	if err != nil {
		return err
	}
	if *to != "" {
		if err := a.product.ChangeStatus(p, *to); err != nil {
			return err
		}
	}
	if *visibility != "" {
		if err := a.product.ChangeVisibility(p, *visibility); err != nil {
			return err
		}
	}
	return a.emitProduct(p)
}

// cmdCOGS agrega, modifica o elimina una línea de costo.
func cmdCOGS(a *app, fs *pflag.FlagSet, args []string) error {
	var unitCost, qty decimalFlag
	file := fs.String("file", "", "documento de producto (- = stdin)")
	add := fs.String("add", "", "nombre de la línea a agregar")
	update := fs.String("update", "", "id de la línea a modificar")
	remove := fs.String("remove", "", "id de la línea a eliminar")
	id := fs.String("id", "", "id de la línea nueva (por defecto se genera)")
	item := fs.String("item", "", "nuevo nombre (con --update)")
	unit := fs.String("unit", "", "unidad de medida")
	fs.Var(&unitCost, "unit-cost", "costo unitario")
	fs.Var(&qty, "qty", "cantidad")
	if err := parse(fs, args); err != nil {
		return err
	}
	actions := 0
	for _, s := range []string{*add, *update, *remove} {
		if s != "" {
			actions++
		}
	}
	if actions != 1 {
		return fmt.Errorf("%w: indique exactamente uno de --add, --update o --remove", errUsage)
	}
	p, err := a.load(*file)
	if err != nil {
		return err
	}

	switch {
	case *add != "":
		if !unitCost.set || !qty.set {
			return fmt.Errorf("%w: --add requiere --unit-cost y --qty", errUsage)
		}
		_, err = a.product.AddCOGSItem(p, dto.COGSItemRequest{
			ID:       *id,
			Item:     *add,
			UnitCost: unitCost.value,
			Quantity: qty.value,
			Unit:     *unit,
		})
	case *update != "":
		in := dto.UpdateCOGSItemRequest{UnitCost: unitCost.ptr(), Quantity: qty.ptr()}
		if fs.Changed("item") {
			in.Item = item
		}
		if fs.Changed("unit") {
			in.Unit = unit
		}
		err = a.product.UpdateCOGSItem(p, *update, in)
	default:
		err = a.product.RemoveCOGSItem(p, *remove)
	}
	if err != nil {
		return err
	}
	return a.emitProduct(p)
}

// cmdExport escribe la ficha PDF y/o el libro XLSX. Si la ruta es un directorio
// se usa el nombre sugerido (producto_<slug>.pdf).
func cmdExport(a *app, fs *pflag.FlagSet, args []string) error {
	file := fs.String("file", "", "documento de producto (- = stdin)")
	pdfPath := fs.String("pdf", "", "ruta de la ficha financiera PDF")
	xlsxPath := fs.String("xlsx", "", "ruta del libro XLSX")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *pdfPath == "" && *xlsxPath == "" {
		return fmt.Errorf("%w: indique --pdf y/o --xlsx", errUsage)
	}
	p, err := a.load(*file)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if *pdfPath != "" {
		doc, name, err := a.reports.FinanceSheet(ctx, p)
		if err != nil {
			return err
		}
		if err := a.writeFile(*pdfPath, name, doc); err != nil {
			return err
		}
	}
	if *xlsxPath != "" {
		doc, name, err := a.reports.Workbook(ctx, p)
		if err != nil {
			return err
		}
		if err := a.writeFile(*xlsxPath, name, doc); err != nil {
			return err
		}
	}
	return nil
}

func (a *app) writeFile(path, name string, data []byte) error {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, name)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("escribir %s: %w", path, err)
	}
	a.log.Info().Str("path", path).Int("bytes", len(data)).Msg("archivo exportado")
	return nil
}
