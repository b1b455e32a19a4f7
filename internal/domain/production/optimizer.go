package production

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/VictorDevvs/factory-api/internal/domain/entity"
)

// Item es una línea del plan: qué producto fabricar y cuántas unidades.
type Item struct {
	ProductCode string
	ProductName string
	Quantity    int64
	UnitValue   decimal.Decimal
	TotalValue  decimal.Decimal // UnitValue × Quantity
}

// Plan es el resultado de una corrida: ítems en orden de decisión y valor total.
type Plan struct {
	Items      []Item
	TotalValue decimal.Decimal
}

// Optimize genera el plan de producción para el catálogo dado.
//
//  1. Snapshot de stock (primera aparición de cada materia prima).
//  2. Productos ordenados por valor de venta descendente; empates conservan el orden del catálogo.
//  3. Para cada producto: máximo producible contra el stock ya descontado; si es > 0
//     se consume el stock y se agrega la línea.
//
// No modifica products ni sus materias primas.
func Optimize(products []*entity.Product) Plan {
	stock := BuildStockSnapshot(products)

	sorted := make([]*entity.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SaleValue.GreaterThan(sorted[j].SaleValue)
	})

	plan := Plan{Items: []Item{}, TotalValue: decimal.Zero}
	for _, p := range sorted {
		units := MaxProducible(p, stock)
		if units <= 0 {
			continue
		}
		stock.Consume(p, units)

		total := p.SaleValue.Mul(decimal.NewFromInt(units))
		plan.Items = append(plan.Items, Item{
			ProductCode: p.Code,
			ProductName: p.Name,
			Quantity:    units,
			UnitValue:   p.SaleValue,
			TotalValue:  total,
		})
		plan.TotalValue = plan.TotalValue.Add(total)
	}
	return plan
}
