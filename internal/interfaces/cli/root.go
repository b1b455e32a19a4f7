// Package cli implementa factoryctl: tareas de operación sobre el catálogo
// (migraciones, importación CSV) y cálculo del plan de producción desde la
// base de datos o desde un catálogo JSON sin conexión.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/VictorDevvs/factory-api/internal/infrastructure/postgres"
	"github.com/VictorDevvs/factory-api/pkg/config"
	"github.com/VictorDevvs/factory-api/pkg/logger"
)

type rootOptions struct {
	logLevel string
}

// NewRootCommand crea el comando raíz de factoryctl.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "factoryctl",
		Short: "factoryctl - operación del catálogo y plan de producción",
		Long: `factoryctl opera sobre la misma base de datos que la API (variables DB_* o DATABASE_URL).

Ejemplos:
  factoryctl migrate
  factoryctl import materias.csv
  factoryctl optimize --format json
  factoryctl plan --catalog catalogo.json --pdf plan.pdf`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "warn",
		"Nivel de log (trace, debug, info, warn, error)")

	rootCmd.AddCommand(newMigrateCommand(opts))
	rootCmd.AddCommand(newImportCommand(opts))
	rootCmd.AddCommand(newOptimizeCommand(opts))
	rootCmd.AddCommand(newPlanCommand(opts))

	return rootCmd
}

// Execute ejecuta el comando raíz y termina el proceso con código 1 si falla.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger escribe en stderr para no mezclar logs con la salida del comando.
func (o *rootOptions) newLogger(cmd *cobra.Command) *logger.Logger {
	return logger.New(logger.Config{
		Env:   "development",
		Level: o.logLevel,
		Out:   cmd.ErrOrStderr(),
	})
}

// connect carga la configuración y abre el pool. El llamador cierra el pool.
func connect(ctx context.Context) (*config.Config, *pgxpool.Pool, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
	}
	return cfg, pool, nil
}
