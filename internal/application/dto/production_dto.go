package dto

import "github.com/shopspring/decimal"

// ProductionSuggestionResponse plan de producción sugerido para el stock actual.
type ProductionSuggestionResponse struct {
	Suggestions []ProductionItem `json:"suggestions"`
	TotalValue  decimal.Decimal  `json:"total_value"`
}

// ProductionItem una línea del plan.
type ProductionItem struct {
	ProductCode       string          `json:"product_code"`
	ProductName       string          `json:"product_name"`
	QuantityToProduce int64           `json:"quantity_to_produce"`
	UnitValue         decimal.Decimal `json:"unit_value"`
	TotalItemValue    decimal.Decimal `json:"total_item_value"`
}
