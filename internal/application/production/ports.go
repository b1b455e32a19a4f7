package production

import (
	"context"
	"time"

	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/domain/entity"
)

// CatalogReader lee el catálogo completo en orden de catálogo.
// repository.ProductRepository lo satisface vía List(ctx, 0, 0).
type CatalogReader interface {
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}

// PlanPDFGenerator genera la representación en PDF de un plan de producción.
type PlanPDFGenerator interface {
	GeneratePlanPDF(ctx context.Context, plan *dto.ProductionSuggestionResponse, generatedAt time.Time) ([]byte, error)
}
