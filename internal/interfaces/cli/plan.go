package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/application/production"
	"github.com/VictorDevvs/factory-api/internal/application/usecase"
	"github.com/VictorDevvs/factory-api/internal/infrastructure/memory"
	infrapdf "github.com/VictorDevvs/factory-api/internal/infrastructure/pdf"
	"github.com/VictorDevvs/factory-api/pkg/validator"
)

// catalogFile es el formato del catálogo para planificación sin conexión.
// Las composiciones referencian materias primas por código.
//
//	{
//	  "raw_materials": [{"code": "FL", "name": "Harina", "stock_quantity": "10", "unit": "kg"}],
//	  "products": [{"code": "CAKE", "name": "Torta", "sale_value": "30",
//	                "compositions": [{"raw_material_code": "FL", "required_quantity": "2"}]}]
//	}
type catalogFile struct {
	RawMaterials []dto.RawMaterialRequest `json:"raw_materials"`
	Products     []catalogProduct         `json:"products"`
}

type catalogProduct struct {
	Code         string               `json:"code" validate:"required,max=50"`
	Name         string               `json:"name" validate:"required,max=200"`
	SaleValue    *decimal.Decimal     `json:"sale_value" validate:"required,dmin=0.01"`
	Compositions []catalogComposition `json:"compositions" validate:"required,min=1,dive"`
}

type catalogComposition struct {
	RawMaterialCode  string           `json:"raw_material_code" validate:"required"`
	RequiredQuantity *decimal.Decimal `json:"required_quantity" validate:"required,dmin=0.01"`
}

func newPlanCommand(opts *rootOptions) *cobra.Command {
	var (
		catalogPath string
		format      string
		pdfPath     string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Calcula el plan de producción desde un catálogo JSON (sin base de datos)",
		Long: `Carga el catálogo en memoria y calcula el plan sugerido.
Sirve para simular escenarios de stock sin tocar la base de datos.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			f, err := os.Open(catalogPath)
			if err != nil {
				return fmt.Errorf("abrir catálogo: %w", err)
			}
			defer f.Close()

			store, err := loadCatalog(cmd.Context(), f)
			if err != nil {
				return err
			}

			uc := production.NewOptimizeUseCase(
				store.Products(),
				infrapdf.NewMarotoPlanGenerator("factoryctl"),
				opts.newLogger(cmd),
			)
			return runPlan(cmd, uc, format, pdfPath)
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "Ruta del catálogo JSON")
	cmd.Flags().StringVar(&format, "format", formatTable, "Formato de salida: table o json")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Además escribe el plan en PDF en esta ruta")
	_ = cmd.MarkFlagRequired("catalog")

	return cmd
}

// loadCatalog valida el catálogo y lo carga en un store en memoria usando los
// mismos casos de uso que la API, así duplicados y referencias rotas fallan igual.
func loadCatalog(ctx context.Context, r io.Reader) (*memory.Store, error) {
	var file catalogFile
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("catálogo JSON inválido: %w", err)
	}

	v := validator.New()
	store := memory.NewStore()
	rawUC := usecase.NewRawMaterialUseCase(store.RawMaterials())
	productUC := usecase.NewProductUseCase(store.Products(), store)

	idByCode := make(map[string]string, len(file.RawMaterials))
	for i, in := range file.RawMaterials {
		if err := v.Struct(in); err != nil {
			return nil, fmt.Errorf("materia prima #%d: %w", i+1, err)
		}
		created, err := rawUC.Create(ctx, in)
		if err != nil {
			return nil, fmt.Errorf("materia prima %s: %w", in.Code, err)
		}
		idByCode[created.Code] = created.ID
	}

	for i, p := range file.Products {
		if err := v.Struct(p); err != nil {
			return nil, fmt.Errorf("producto #%d: %w", i+1, err)
		}
		req := dto.ProductRequest{
			Code:         p.Code,
			Name:         p.Name,
			SaleValue:    p.SaleValue,
			Compositions: make([]dto.ProductCompositionRequest, 0, len(p.Compositions)),
		}
		for _, c := range p.Compositions {
			id, ok := idByCode[c.RawMaterialCode]
			if !ok {
				return nil, fmt.Errorf("producto %s: materia prima desconocida %q", p.Code, c.RawMaterialCode)
			}
			req.Compositions = append(req.Compositions, dto.ProductCompositionRequest{
				RawMaterialID:    id,
				RequiredQuantity: c.RequiredQuantity,
			})
		}
		if _, err := productUC.Create(ctx, req); err != nil {
			return nil, fmt.Errorf("producto %s: %w", p.Code, err)
		}
	}

	return store, nil
}
