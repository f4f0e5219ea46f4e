package report

import (
	"context"
	"fmt"

	"github.com/jhoicas/product-engine/internal/domain"
	"github.com/jhoicas/product-engine/internal/domain/entity"
	"github.com/jhoicas/product-engine/pkg/logger"
)

// ReportUseCase genera los documentos exportables de un producto.
// Recalcula la caché financiera antes de exportar.
type ReportUseCase struct {
	sheet    FinanceSheetGenerator
	workbook WorkbookExporter
	log      *logger.Logger
}

// NewReportUseCase construye el caso de uso inyectando los generadores.
func NewReportUseCase(sheet FinanceSheetGenerator, workbook WorkbookExporter, log *logger.Logger) *ReportUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ReportUseCase{sheet: sheet, workbook: workbook, log: log.Named("report")}
}

// FinanceSheet devuelve (pdfBytes, filename, err).
func (uc *ReportUseCase) FinanceSheet(ctx context.Context, product *entity.Product) ([]byte, string, error) {
	if err := uc.prepare(product); err != nil {
		return nil, "", err
	}
	doc, err := uc.sheet.GenerateFinanceSheet(ctx, product)
	if err != nil {
		return nil, "", fmt.Errorf("report: ficha financiera: %w", err)
	}
	uc.log.Info().Str("product_id", product.ID).Int("bytes", len(doc)).Msg("ficha financiera generada")
	return doc, filename(product, "pdf"), nil
}

// Workbook devuelve (xlsxBytes, filename, err).
func (uc *ReportUseCase) Workbook(ctx context.Context, product *entity.Product) ([]byte, string, error) {
	if err := uc.prepare(product); err != nil {
		return nil, "", err
	}
	doc, err := uc.workbook.ExportWorkbook(ctx, product)
	if err != nil {
		return nil, "", fmt.Errorf("report: libro xlsx: %w", err)
	}
	uc.log.Info().Str("product_id", product.ID).Int("bytes", len(doc)).Msg("libro xlsx generado")
	return doc, filename(product, "xlsx"), nil
}

func (uc *ReportUseCase) prepare(product *entity.Product) error {
	if product == nil {
		return fmt.Errorf("%w: producto requerido", domain.ErrInvalidInput)
	}
	return product.Recompute()
}

func filename(product *entity.Product, ext string) string {
	name := product.Slug
	if name == "" {
		name = product.ID
	}
	return fmt.Sprintf("producto_%s.%s", name, ext)
}
