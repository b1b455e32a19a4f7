package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/VictorDevvs/factory-api/internal/application/dto"
	"github.com/VictorDevvs/factory-api/internal/domain"
	"github.com/VictorDevvs/factory-api/internal/domain/entity"
	"github.com/VictorDevvs/factory-api/internal/domain/repository"
)

const rawMaterialResource = "materia prima"

// RawMaterialUseCase casos de uso CRUD para materias primas.
type RawMaterialUseCase struct {
	repo repository.RawMaterialRepository
}

// NewRawMaterialUseCase construye el caso de uso.
func NewRawMaterialUseCase(repo repository.RawMaterialRepository) *RawMaterialUseCase {
	return &RawMaterialUseCase{repo: repo}
}

// Create crea una materia prima. Código repetido -> domain.ErrDuplicate.
func (uc *RawMaterialUseCase) Create(ctx context.Context, in dto.RawMaterialRequest) (*dto.RawMaterialResponse, error) {
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicate
	}
	now := time.Now()
	material := &entity.RawMaterial{
		ID:            uuid.New().String(),
		Code:          in.Code,
		Name:          in.Name,
		StockQuantity: *in.StockQuantity,
		Unit:          in.Unit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, material); err != nil {
		return nil, err
	}
	return toRawMaterialResponse(material), nil
}

// GetByID obtiene una materia prima; si no existe devuelve un NotFoundError.
func (uc *RawMaterialUseCase) GetByID(ctx context.Context, id string) (*dto.RawMaterialResponse, error) {
	material, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	return toRawMaterialResponse(material), nil
}

// Update reemplaza todos los campos editables.
func (uc *RawMaterialUseCase) Update(ctx context.Context, id string, in dto.RawMaterialRequest) (*dto.RawMaterialResponse, error) {
	material, err := uc.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Code != material.Code {
		other, err := uc.repo.GetByCode(ctx, in.Code)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.ErrDuplicate
		}
	}
	material.Code = in.Code
	material.Name = in.Name
	material.StockQuantity = *in.StockQuantity
	material.Unit = in.Unit
	material.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, material); err != nil {
		return nil, err
	}
	return toRawMaterialResponse(material), nil
}

// List lista materias primas ordenadas por código.
func (uc *RawMaterialUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.RawMaterialListResponse, error) {
	page.Normalize()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.RawMaterialResponse, 0, len(list))
	for _, m := range list {
		items = append(items, *toRawMaterialResponse(m))
	}
	return &dto.RawMaterialListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	}, nil
}

// Delete elimina una materia prima. Si alguna composición la usa -> domain.ErrConflict.
func (uc *RawMaterialUseCase) Delete(ctx context.Context, id string) error {
	if _, err := uc.find(ctx, id); err != nil {
		return err
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *RawMaterialUseCase) find(ctx context.Context, id string) (*entity.RawMaterial, error) {
	material, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if material == nil {
		return nil, domain.NewNotFound(rawMaterialResource, id)
	}
	return material, nil
}

func toRawMaterialResponse(m *entity.RawMaterial) *dto.RawMaterialResponse {
	return &dto.RawMaterialResponse{
		ID:            m.ID,
		Code:          m.Code,
		Name:          m.Name,
		StockQuantity: m.StockQuantity,
		Unit:          m.Unit,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
}
