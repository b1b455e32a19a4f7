package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRequest entrada para crear o reemplazar un producto con su BOM.
type ProductRequest struct {
	Code         string                      `json:"code" validate:"required,max=50"`
	Name         string                      `json:"name" validate:"required,max=200"`
	SaleValue    *decimal.Decimal            `json:"sale_value" validate:"required,dmin=0.01"`
	Compositions []ProductCompositionRequest `json:"compositions" validate:"required,min=1,dive"`
}

// ProductCompositionRequest una línea de la BOM.
type ProductCompositionRequest struct {
	RawMaterialID    string           `json:"raw_material_id" validate:"required"`
	RequiredQuantity *decimal.Decimal `json:"required_quantity" validate:"required,dmin=0.01"`
}

// ProductResponse salida de un producto.
type ProductResponse struct {
	ID           string                `json:"id"`
	Code         string                `json:"code"`
	Name         string                `json:"name"`
	SaleValue    decimal.Decimal       `json:"sale_value"`
	Compositions []CompositionResponse `json:"compositions"`
	CreatedAt    time.Time             `json:"created_at"`
	UpdatedAt    time.Time             `json:"updated_at"`
}

// CompositionResponse línea de BOM con datos de la materia prima.
type CompositionResponse struct {
	ID               string          `json:"id"`
	RawMaterialID    string          `json:"raw_material_id"`
	RawMaterialCode  string          `json:"raw_material_code"`
	RawMaterialName  string          `json:"raw_material_name"`
	Unit             string          `json:"unit"`
	RequiredQuantity decimal.Decimal `json:"required_quantity"`
}

// ProductListResponse lista de productos.
type ProductListResponse struct {
	Items []ProductResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
