package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterialRequest entrada para crear o reemplazar una materia prima.
type RawMaterialRequest struct {
	Code          string           `json:"code" validate:"required,max=50"`
	Name          string           `json:"name" validate:"required,max=200"`
	StockQuantity *decimal.Decimal `json:"stock_quantity" validate:"required,dgte0"`
	Unit          string           `json:"unit" validate:"required,max=20"`
}

// RawMaterialResponse salida de una materia prima.
type RawMaterialResponse struct {
	ID            string          `json:"id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	StockQuantity decimal.Decimal `json:"stock_quantity"`
	Unit          string          `json:"unit"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

// RawMaterialListResponse lista de materias primas.
type RawMaterialListResponse struct {
	Items []RawMaterialResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}
