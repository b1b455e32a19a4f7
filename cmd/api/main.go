package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	_ "github.com/VictorDevvs/factory-api/docs"
	"github.com/VictorDevvs/factory-api/internal/application/auth"
	"github.com/VictorDevvs/factory-api/internal/application/catalog"
	"github.com/VictorDevvs/factory-api/internal/application/production"
	"github.com/VictorDevvs/factory-api/internal/application/usecase"
	infrapdf "github.com/VictorDevvs/factory-api/internal/infrastructure/pdf"
	"github.com/VictorDevvs/factory-api/internal/infrastructure/postgres"
	httpRouter "github.com/VictorDevvs/factory-api/internal/interfaces/http"
	"github.com/VictorDevvs/factory-api/pkg/config"
	"github.com/VictorDevvs/factory-api/pkg/logger"
)

const swaggerFile = "./docs/swagger.json"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Bool("auth", cfg.JWT.Enabled()).
		Msg("iniciando aplicación")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		applied, err := postgres.Migrate(ctx, pool)
		if err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
		log.Info().Strs("applied", applied).Msg("migraciones al día")
	}

	rawRepo := postgres.NewRawMaterialRepository(pool)
	productRepo := postgres.NewProductRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	deps := httpRouter.RouterDeps{
		ServiceName:   cfg.App.Name,
		RawMaterialUC: usecase.NewRawMaterialUseCase(rawRepo),
		ProductUC:     usecase.NewProductUseCase(productRepo, txRunner),
		CsvImportUC:   catalog.NewCsvImportUseCase(txRunner, log),
		OptimizeUC:    production.NewOptimizeUseCase(productRepo, infrapdf.NewMarotoPlanGenerator(cfg.App.Name), log),
		JWTSecret:     cfg.JWT.Secret,
	}
	if cfg.JWT.Enabled() {
		deps.AuthUC = auth.NewAuthUseCase(
			auth.Credentials{Username: cfg.Auth.Username, PasswordHash: cfg.Auth.PasswordHash},
			auth.JWTConfig{Secret: cfg.JWT.Secret, ExpMinutes: cfg.JWT.Expiration, Issuer: cfg.JWT.Issuer},
		)
	} else {
		log.Warn().Msg("JWT_SECRET vacío: API sin autenticación")
	}

	app := httpRouter.NewApp(cfg.App.Name, cfg.HTTP.BodyLimit(), log)
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	if _, err := os.Stat(swaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: swaggerFile,
			Path:     "docs",
			Title:    cfg.App.Name,
		}))
	}

	httpRouter.Router(app, deps)

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}
