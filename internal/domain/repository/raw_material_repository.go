package repository

import (
	"context"

	"github.com/VictorDevvs/factory-api/internal/domain/entity"
)

// RawMaterialRepository define el puerto de persistencia para materias primas.
type RawMaterialRepository interface {
	Create(ctx context.Context, material *entity.RawMaterial) error
	// GetByID y GetByCode devuelven (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.RawMaterial, error)
	GetByCode(ctx context.Context, code string) (*entity.RawMaterial, error)
	Update(ctx context.Context, material *entity.RawMaterial) error
	// UpsertByCode inserta o, si el código ya existe, actualiza nombre, stock y unidad.
	UpsertByCode(ctx context.Context, material *entity.RawMaterial) error
	// Delete devuelve domain.ErrConflict si la materia prima está en uso por alguna composición.
	Delete(ctx context.Context, id string) error
	// List ordena por código. limit <= 0 = todos.
	List(ctx context.Context, limit, offset int) ([]*entity.RawMaterial, error)
}
