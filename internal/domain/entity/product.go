package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product representa un producto fabricable con su lista de materiales (BOM).
// SaleValue es el valor de venta por unidad; Compositions mantiene el orden de registro.
type Product struct {
	ID           string
	Code         string // código único
	Name         string
	SaleValue    decimal.Decimal
	Compositions []Composition
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Composition indica cuánta materia prima consume una unidad de producto.
// RawMaterial es una copia desnormalizada leída junto al producto (incluye su stock).
type Composition struct {
	ID               string
	ProductID        string
	RawMaterial      RawMaterial
	RequiredQuantity decimal.Decimal
}
