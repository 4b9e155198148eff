package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InventoryItem representa un artículo de inventario con su caché denormalizado
// de cantidad disponible y costo promedio ponderado.
//
// Invariante (verificado por reconciliación, no impuesto en cada lectura):
// QuantityOnHand == suma con signo de todas las transacciones confirmadas del artículo.
// UnitCost solo cambia con entradas que traen costo (PURCHASE, ADJUSTMENT con costo,
// PRODUCTION al completar lote); las salidas nunca lo modifican.
type InventoryItem struct {
	ID             string
	SKU            string
	Name           string
	QuantityOnHand decimal.Decimal // caché; puede ser negativo tras un ajuste/corrección
	UnitCost       decimal.Decimal // costo promedio ponderado; una posición mezclada (cantidad negativa con entrada posterior) puede dejarlo negativo
	IsActive       bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
