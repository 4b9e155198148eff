package costing

import (
	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/domain"
)

// Precisión monetaria: 2 decimales, redondeo half-up aplicado una sola vez
// al final para no acumular error de redondeo en pasos intermedios.
const currencyPrecision = 2

// RecomputeWeightedAverage implementa la lógica de costo promedio ponderado (servicio de dominio).
// NuevoCosto = ((StockActual * CostoActual) + (CantEntrada * CostoEntrada)) / (StockActual + CantEntrada)
//
// Reglas:
//   - CantEntrada debe ser > 0; si no, ErrInvalidQuantity.
//   - Si StockActual + CantEntrada == 0 (stock totalmente agotado en negativo),
//     el resultado es CostoEntrada: evita la división por cero.
//   - StockActual negativo (sobreventa sin corregir) se acepta; la fórmula aplica
//     igual y produce el costo de la posición mezclada. Es una decisión de política,
//     no un defecto.
func RecomputeWeightedAverage(existingQty, existingCost, incomingQty, incomingUnitCost decimal.Decimal) (decimal.Decimal, error) {
	if incomingQty.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, domain.ErrInvalidQuantity
	}
	sum := existingQty.Add(incomingQty)
	if sum.IsZero() {
		return incomingUnitCost.Round(currencyPrecision), nil
	}
	num := existingQty.Mul(existingCost).Add(incomingQty.Mul(incomingUnitCost))
	return num.Div(sum).Round(currencyPrecision), nil
}
