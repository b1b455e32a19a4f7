// Package production implementa el motor de optimización de producción:
// dado el stock de materias primas y la BOM de cada producto, sugiere cuántas
// unidades fabricar de cada uno priorizando el mayor valor de venta unitario.
//
// Es un servicio de dominio puro (sin I/O). Usa aritmética decimal exacta.
// El algoritmo es greedy de una sola pasada y no busca el óptimo global.
package production

import (
	"github.com/shopspring/decimal"

	"github.com/VictorDevvs/factory-api/internal/domain/entity"
)

// StockSnapshot es el stock disponible por ID de materia prima durante una corrida.
// Pertenece a una sola corrida; no es seguro para uso concurrente.
type StockSnapshot map[string]decimal.Decimal

// BuildStockSnapshot toma el stock de cada materia prima la primera vez que aparece
// en el catálogo. Apariciones posteriores (copias desnormalizadas) no lo sobrescriben.
func BuildStockSnapshot(products []*entity.Product) StockSnapshot {
	stock := make(StockSnapshot)
	for _, p := range products {
		for _, c := range p.Compositions {
			if _, seen := stock[c.RawMaterial.ID]; !seen {
				stock[c.RawMaterial.ID] = c.RawMaterial.StockQuantity
			}
		}
	}
	return stock
}

// Available devuelve el stock disponible; cero si la materia prima no está en el snapshot.
func (s StockSnapshot) Available(rawMaterialID string) decimal.Decimal {
	if q, ok := s[rawMaterialID]; ok {
		return q
	}
	return decimal.Zero
}

// Consume descuenta requiredQuantity × units de cada materia prima del producto.
func (s StockSnapshot) Consume(product *entity.Product, units int64) {
	n := decimal.NewFromInt(units)
	for _, c := range product.Compositions {
		id := c.RawMaterial.ID
		s[id] = s.Available(id).Sub(c.RequiredQuantity.Mul(n))
	}
}
