package report

import (
	"context"

	"github.com/jhoicas/product-engine/internal/domain/entity"
)

// FinanceSheetGenerator genera la ficha financiera (PDF) de un producto.
type FinanceSheetGenerator interface {
	GenerateFinanceSheet(ctx context.Context, product *entity.Product) ([]byte, error)
}

// WorkbookExporter exporta costos y plan de abastecimiento a un libro XLSX.
type WorkbookExporter interface {
	ExportWorkbook(ctx context.Context, product *entity.Product) ([]byte, error)
}
