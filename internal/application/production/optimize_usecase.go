package production

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/VictorDevvs/factory-api/internal/application/dto"
	engine "github.com/VictorDevvs/factory-api/internal/domain/production"
	"github.com/VictorDevvs/factory-api/pkg/logger"
)

var errNoPDFGenerator = errors.New("generador PDF no configurado")

// OptimizeUseCase calcula el plan de producción sugerido sobre el stock actual.
// Cada llamada lee el catálogo de nuevo y trabaja sobre su propio snapshot.
type OptimizeUseCase struct {
	catalog CatalogReader
	pdf     PlanPDFGenerator
	log     *logger.Logger
	now     func() time.Time
}

// NewOptimizeUseCase construye el caso de uso. pdf puede ser nil si no se expone el reporte.
func NewOptimizeUseCase(catalog CatalogReader, pdf PlanPDFGenerator, log *logger.Logger) *OptimizeUseCase {
	return &OptimizeUseCase{
		catalog: catalog,
		pdf:     pdf,
		log:     log.Component("production"),
		now:     time.Now,
	}
}

// Optimize devuelve la sugerencia de producción. Catálogo vacío -> sugerencias vacías y total 0.
func (uc *OptimizeUseCase) Optimize(ctx context.Context) (*dto.ProductionSuggestionResponse, error) {
	products, err := uc.catalog.List(ctx, 0, 0)
	if err != nil {
		return nil, fmt.Errorf("leer catálogo: %w", err)
	}

	start := uc.now()
	plan := engine.Optimize(products)

	uc.log.Info().
		Int("products", len(products)).
		Int("items", len(plan.Items)).
		Str("total_value", plan.TotalValue.String()).
		Dur("elapsed", uc.now().Sub(start)).
		Msg("plan de producción calculado")

	return toSuggestionResponse(plan), nil
}

// OptimizePDF calcula el plan y lo entrega como PDF.
func (uc *OptimizeUseCase) OptimizePDF(ctx context.Context) ([]byte, error) {
	if uc.pdf == nil {
		return nil, errNoPDFGenerator
	}
	suggestion, err := uc.Optimize(ctx)
	if err != nil {
		return nil, err
	}
	return uc.RenderPDF(ctx, suggestion)
}

// RenderPDF genera el PDF de un plan ya calculado, sin volver a leer el catálogo.
func (uc *OptimizeUseCase) RenderPDF(ctx context.Context, plan *dto.ProductionSuggestionResponse) ([]byte, error) {
	if uc.pdf == nil {
		return nil, errNoPDFGenerator
	}
	return uc.pdf.GeneratePlanPDF(ctx, plan, uc.now())
}

func toSuggestionResponse(plan engine.Plan) *dto.ProductionSuggestionResponse {
	items := make([]dto.ProductionItem, 0, len(plan.Items))
	for _, it := range plan.Items {
		items = append(items, dto.ProductionItem{
			ProductCode:       it.ProductCode,
			ProductName:       it.ProductName,
			QuantityToProduce: it.Quantity,
			UnitValue:         it.UnitValue,
			TotalItemValue:    it.TotalValue,
		})
	}
	return &dto.ProductionSuggestionResponse{
		Suggestions: items,
		TotalValue:  plan.TotalValue,
	}
}
