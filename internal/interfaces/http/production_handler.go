package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VictorDevvs/factory-api/internal/application/production"
)

// ProductionHandler expone el plan de producción sugerido.
type ProductionHandler struct {
	uc *production.OptimizeUseCase
}

// NewProductionHandler construye el handler.
func NewProductionHandler(uc *production.OptimizeUseCase) *ProductionHandler {
	return &ProductionHandler{uc: uc}
}

// Optimize godoc
// @Summary      Sugerencia de producción
// @Description  Prioriza los productos de mayor valor de venta y calcula cuántas unidades fabricar con el stock actual.
// @Tags         production
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ProductionSuggestionResponse
// @Router       /api/v1/production/optimize [get]
func (h *ProductionHandler) Optimize(c *fiber.Ctx) error {
	out, err := h.uc.Optimize(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// OptimizePDF godoc
// @Summary      Sugerencia de producción en PDF
// @Tags         production
// @Security     Bearer
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/v1/production/optimize/pdf [get]
func (h *ProductionHandler) OptimizePDF(c *fiber.Ctx) error {
	doc, err := h.uc.OptimizePDF(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="plan-produccion.pdf"`)
	return c.Send(doc)
}
