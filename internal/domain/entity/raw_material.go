package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// RawMaterial representa una materia prima con su stock actual.
type RawMaterial struct {
	ID            string
	Code          string // código único
	Name          string
	StockQuantity decimal.Decimal
	Unit          string // g, kg, un, ml...
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
