package production

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/VictorDevvs/factory-api/internal/domain/entity"
)

// MaxProducible calcula cuántas unidades enteras del producto se pueden fabricar
// con el stock actual. El límite es el mínimo entre todas sus composiciones:
//
//	unidades = min( trunc(disponible / requerido) )
//
// Un producto sin composiciones nunca se sugiere (0). Una composición con cantidad
// requerida cero también deja el producto en 0, en lugar de tratarla como ilimitada.
func MaxProducible(product *entity.Product, stock StockSnapshot) int64 {
	if len(product.Compositions) == 0 {
		return 0
	}
	var bound int64
	for i, c := range product.Compositions {
		units := unitsFor(stock.Available(c.RawMaterial.ID), c.RequiredQuantity)
		if i == 0 || units < bound {
			bound = units
		}
	}
	return bound
}

var maxUnits = decimal.NewFromInt(math.MaxInt64)

// unitsFor divide con cociente entero exacto (trunca hacia cero).
// Un cociente que no entra en int64 se satura en math.MaxInt64.
func unitsFor(available, required decimal.Decimal) int64 {
	if required.IsZero() {
		return 0
	}
	q, _ := available.QuoRem(required, 0)
	if q.GreaterThan(maxUnits) {
		return math.MaxInt64
	}
	return q.IntPart()
}
