package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/VictorDevvs/factory-api/internal/application/catalog"
	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/domain"
	"github.com/VictorDevvs/factory-api/internal/domain/entity"
	"github.com/VictorDevvs/factory-api/internal/domain/repository"
)

const productResource = "producto"

// ProductUseCase casos de uso CRUD para productos y su BOM.
// Crear y actualizar corren en una transacción junto con la verificación de materias primas.
type ProductUseCase struct {
	repo     repository.ProductRepository
	txRunner catalog.TxRunner
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(repo repository.ProductRepository, txRunner catalog.TxRunner) *ProductUseCase {
	return &ProductUseCase{repo: repo, txRunner: txRunner}
}

// Create crea un producto con sus composiciones.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.ProductRequest) (*dto.ProductResponse, error) {
	now := time.Now()
	product := &entity.Product{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		SaleValue: *in.SaleValue,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := uc.txRunner.Run(ctx, func(rawRepo repository.RawMaterialRepository, productRepo repository.ProductRepository) error {
		if err := ensureCodeFree(ctx, productRepo, in.Code, ""); err != nil {
			return err
		}
		comps, err := buildCompositions(ctx, rawRepo, product.ID, in.Compositions)
		if err != nil {
			return err
		}
		product.Compositions = comps
		return productRepo.Create(ctx, product)
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// GetByID obtiene un producto con sus composiciones.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.NewNotFound(productResource, id)
	}
	return toProductResponse(product), nil
}

// Update reemplaza datos y composiciones del producto.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.ProductRequest) (*dto.ProductResponse, error) {
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(rawRepo repository.RawMaterialRepository, productRepo repository.ProductRepository) error {
		current, err := productRepo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NewNotFound(productResource, id)
		}
		if err := ensureCodeFree(ctx, productRepo, in.Code, id); err != nil {
			return err
		}
		comps, err := buildCompositions(ctx, rawRepo, id, in.Compositions)
		if err != nil {
			return err
		}
		current.Code = in.Code
		current.Name = in.Name
		current.SaleValue = *in.SaleValue
		current.Compositions = comps
		current.UpdatedAt = time.Now()
		if err := productRepo.Update(ctx, current); err != nil {
			return err
		}
		product = current
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toProductResponse(product), nil
}

// List lista productos en orden de catálogo.
func (uc *ProductUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ProductListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ProductResponse, 0, len(list))
	for _, p := range list {
		items = append(items, *toProductResponse(p))
	}
	return &dto.ProductListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Delete elimina un producto; sus composiciones se eliminan con él.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	product, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if product == nil {
		return domain.NewNotFound(productResource, id)
	}
	return uc.repo.Delete(ctx, id)
}

func ensureCodeFree(ctx context.Context, repo repository.ProductRepository, code, exceptID string) error {
	existing, err := repo.GetByCode(ctx, code)
	if err != nil {
		return err
	}
	if existing != nil && existing.ID != exceptID {
		return domain.ErrDuplicate
	}
	return nil
}

// buildCompositions resuelve cada materia prima; la primera inexistente corta con NotFoundError.
// Una materia prima repetida en el mismo producto es un ValidationError.
func buildCompositions(
	ctx context.Context,
	rawRepo repository.RawMaterialRepository,
	productID string,
	in []dto.ProductCompositionRequest,
) ([]entity.Composition, error) {
	comps := make([]entity.Composition, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for i, c := range in {
		if _, dup := seen[c.RawMaterialID]; dup {
			return nil, domain.NewValidation(
				fmt.Sprintf("compositions[%d].raw_material_id: materia prima repetida en el producto", i))
		}
		seen[c.RawMaterialID] = struct{}{}

		material, err := rawRepo.GetByID(ctx, c.RawMaterialID)
		if err != nil {
			return nil, err
		}
		if material == nil {
			return nil, domain.NewNotFound(rawMaterialResource, c.RawMaterialID)
		}
		comps = append(comps, entity.Composition{
			ID:               uuid.New().String(),
			ProductID:        productID,
			RawMaterial:      *material,
			RequiredQuantity: *c.RequiredQuantity,
		})
	}
	return comps, nil
}

func toProductResponse(p *entity.Product) *dto.ProductResponse {
	comps := make([]dto.CompositionResponse, 0, len(p.Compositions))
	for _, c := range p.Compositions {
		comps = append(comps, dto.CompositionResponse{
			ID:               c.ID,
			RawMaterialID:    c.RawMaterial.ID,
			RawMaterialCode:  c.RawMaterial.Code,
			RawMaterialName:  c.RawMaterial.Name,
			Unit:             c.RawMaterial.Unit,
			RequiredQuantity: c.RequiredQuantity,
		})
	}
	return &dto.ProductResponse{
		ID:           p.ID,
		Code:         p.Code,
		Name:         p.Name,
		SaleValue:    p.SaleValue,
		Compositions: comps,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}
