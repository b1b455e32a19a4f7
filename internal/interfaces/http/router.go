package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/VictorDevvs/factory-api/internal/application/auth"
	"github.com/VictorDevvs/factory-api/internal/application/catalog"
	"github.com/VictorDevvs/factory-api/internal/application/production"
	"github.com/VictorDevvs/factory-api/internal/application/usecase"
	"github.com/VictorDevvs/factory-api/pkg/logger"
	"github.com/VictorDevvs/factory-api/pkg/validator"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ServiceName   string
	RawMaterialUC *usecase.RawMaterialUseCase
	ProductUC     *usecase.ProductUseCase
	CsvImportUC   *catalog.CsvImportUseCase
	OptimizeUC    *production.OptimizeUseCase
	AuthUC        *auth.AuthUseCase // nil si JWTSecret está vacío
	JWTSecret     string
}

// NewApp crea la aplicación Fiber con el ErrorHandler y el log de peticiones.
func NewApp(name string, bodyLimit int, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		BodyLimit:             bodyLimit,
		ErrorHandler:          ErrorHandler(log),
		DisableStartupMessage: true,
	})
	app.Use(RequestLogger(log.Component("http")))
	return app
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": deps.ServiceName})
	})

	v := validator.New()
	api := app.Group("/api/v1")

	// Con JWTSecret vacío la API queda abierta y no hay login.
	var guard []fiber.Handler
	if deps.JWTSecret != "" && deps.AuthUC != nil {
		authHandler := NewAuthHandler(deps.AuthUC, v)
		api.Post("/auth/login", authHandler.Login)
		guard = append(guard, AuthMiddleware(deps.JWTSecret))
	}

	rawMaterials := api.Group("/raw-materials", guard...)
	rawHandler := NewRawMaterialHandler(deps.RawMaterialUC, deps.CsvImportUC, v)
	rawMaterials.Get("/", rawHandler.List)
	rawMaterials.Post("/", rawHandler.Create)
	rawMaterials.Post("/import/simple", rawHandler.Import)
	rawMaterials.Get("/:id", rawHandler.GetByID)
	rawMaterials.Put("/:id", rawHandler.Update)
	rawMaterials.Delete("/:id", rawHandler.Delete)

	products := api.Group("/products", guard...)
	productHandler := NewProductHandler(deps.ProductUC, v)
	products.Get("/", productHandler.List)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Update)
	products.Delete("/:id", productHandler.Delete)

	prod := api.Group("/production", guard...)
	productionHandler := NewProductionHandler(deps.OptimizeUC)
	prod.Get("/optimize", productionHandler.Optimize)
	prod.Get("/optimize/pdf", productionHandler.OptimizePDF)
}
