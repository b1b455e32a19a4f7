package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/VictorDevvs/factory-api/internal/application/catalog"
	"github.com/VictorDevvs/factory-api/internal/application/production"
	infrapdf "github.com/VictorDevvs/factory-api/internal/infrastructure/pdf"
	"github.com/VictorDevvs/factory-api/internal/infrastructure/postgres"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := postgres.Migrate(ctx, pool)
			if err != nil {
				return err
			}
			opts.newLogger(cmd).Info().Strs("applied", applied).Msg("migraciones al día")

			out := cmd.OutOrStdout()
			if len(applied) == 0 {
				fmt.Fprintln(out, "Sin migraciones pendientes")
				return nil
			}
			for _, name := range applied {
				fmt.Fprintf(out, "✓ %s\n", name)
			}
			return nil
		},
	}
}

func newImportCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "import <archivo.csv>",
		Short: "Importa materias primas desde un CSV (upsert por código)",
		Long: `Columnas: code,name,stockQuantity,unit. La primera fila es cabecera.
Acepta UTF-8 (con o sin BOM) e ISO-8859-1. Las líneas inválidas se omiten y se reportan.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("leer %s: %w", args[0], err)
			}

			ctx := cmd.Context()
			_, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := catalog.NewCsvImportUseCase(postgres.NewTxRunner(pool), opts.newLogger(cmd))
			res, err := uc.ImportRawMaterials(ctx, data)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Importadas: %d\n", res.RecordsImported)
			fmt.Fprintf(out, "Omitidas:   %d\n", res.RecordsSkipped)
			for _, e := range res.Errors {
				fmt.Fprintf(out, "  - %s\n", e)
			}
			return nil
		},
	}
}

func newOptimizeCommand(opts *rootOptions) *cobra.Command {
	var (
		format  string
		pdfPath string
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Calcula el plan de producción con el stock de la base de datos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			ctx := cmd.Context()
			cfg, pool, err := connect(ctx)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := production.NewOptimizeUseCase(
				postgres.NewProductRepository(pool),
				infrapdf.NewMarotoPlanGenerator(cfg.App.Name),
				opts.newLogger(cmd),
			)
			return runPlan(cmd, uc, format, pdfPath)
		},
	}

	cmd.Flags().StringVar(&format, "format", formatTable, "Formato de salida: table o json")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Además escribe el plan en PDF en esta ruta")

	return cmd
}
