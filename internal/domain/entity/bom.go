package entity

import "github.com/shopspring/decimal"

// BOMLine es una línea de la lista de materiales (receta estática, solo lectura
// para este núcleo): cuánto de cada componente requiere una unidad del modelo.
type BOMLine struct {
	ModelID         string
	ComponentItemID string
	QuantityPerUnit decimal.Decimal
}
