package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados de un lote de producción.
const (
	BatchStatusPLANNED    = "PLANNED"
	BatchStatusINPROGRESS = "IN_PROGRESS"
	BatchStatusDONE       = "DONE"
	BatchStatusCANCELLED  = "CANCELLED"
)

// ProductionBatch representa un lote de producción de un producto terminado.
// ModelID es el artículo de inventario del producto terminado; la receta
// (BOM) se expande contra PlannedQty para obtener los componentes requeridos.
type ProductionBatch struct {
	ID               string
	ModelID          string // artículo del producto terminado
	Status           string
	PlannedQty       decimal.Decimal
	ProducedQty      decimal.Decimal
	AllocatedCharges decimal.Decimal // cargos asignados (mano de obra, fletes) sumados al costo realizado
	RealizedUnitCost decimal.Decimal // costo unitario realizado, fijado al completar
	Consumptions     []BatchConsumption
	CreatedAt        time.Time
	UpdatedAt        time.Time
	CompletedAt      *time.Time
}

// BatchConsumption registra el consumo de un componente al costo promedio
// vigente en el momento del consumo (desglose del costo realizado).
type BatchConsumption struct {
	ID         string
	BatchID    string
	ItemID     string
	Quantity   decimal.Decimal
	UnitCost   decimal.Decimal // costo promedio del componente al consumir
	TotalCost  decimal.Decimal
	ConsumedAt time.Time
}

// ConsumedValue suma el valor de todos los consumos del lote.
func (b *ProductionBatch) ConsumedValue() decimal.Decimal {
	total := decimal.Zero
	for _, c := range b.Consumptions {
		total = total.Add(c.TotalCost)
	}
	return total
}

// Previewable indica si el lote admite previsualización de consumo.
func (b *ProductionBatch) Previewable() bool {
	return b.Status == BatchStatusPLANNED || b.Status == BatchStatusINPROGRESS
}
