package repository

import (
	"context"

	"github.com/VictorDevvs/factory-api/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product y su BOM (DIP).
// Los productos se devuelven siempre con sus composiciones y la materia prima de cada una.
type ProductRepository interface {
	// Create persiste el producto y sus composiciones.
	Create(ctx context.Context, product *entity.Product) error
	// GetByID y GetByCode devuelven (nil, nil) si no existe.
	GetByID(ctx context.Context, id string) (*entity.Product, error)
	GetByCode(ctx context.Context, code string) (*entity.Product, error)
	// Update actualiza los datos del producto y reemplaza sus composiciones.
	Update(ctx context.Context, product *entity.Product) error
	Delete(ctx context.Context, id string) error
	// List devuelve productos en orden de catálogo (created_at, code). limit <= 0 = todos.
	List(ctx context.Context, limit, offset int) ([]*entity.Product, error)
}
