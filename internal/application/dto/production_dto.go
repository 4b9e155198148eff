package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/domain/entity"
)

// CompleteBatchRequest body para cerrar un lote de producción.
type CompleteBatchRequest struct {
	ProducedQty decimal.Decimal `json:"produced_qty"`
}

// BatchConsumptionResponse consumo de un componente al costo promedio vigente.
type BatchConsumptionResponse struct {
	ItemID     string          `json:"item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	TotalCost  decimal.Decimal `json:"total_cost"`
	ConsumedAt time.Time       `json:"consumed_at"`
}

// ProductionBatchResponse lote con su desglose de consumos y costo realizado.
type ProductionBatchResponse struct {
	ID               string                     `json:"id"`
	ModelID          string                     `json:"model_id"`
	Status           string                     `json:"status"`
	PlannedQty       decimal.Decimal            `json:"planned_qty"`
	ProducedQty      decimal.Decimal            `json:"produced_qty"`
	AllocatedCharges decimal.Decimal            `json:"allocated_charges"`
	RealizedUnitCost decimal.Decimal            `json:"realized_unit_cost"`
	Consumptions     []BatchConsumptionResponse `json:"consumptions"`
	CompletedAt      *time.Time                 `json:"completed_at,omitempty"`
}

// NewProductionBatchResponse mapea el lote a su representación JSON.
func NewProductionBatchResponse(b *entity.ProductionBatch) ProductionBatchResponse {
	resp := ProductionBatchResponse{
		ID:               b.ID,
		ModelID:          b.ModelID,
		Status:           b.Status,
		PlannedQty:       b.PlannedQty,
		ProducedQty:      b.ProducedQty,
		AllocatedCharges: b.AllocatedCharges,
		RealizedUnitCost: b.RealizedUnitCost,
		CompletedAt:      b.CompletedAt,
	}
	for _, c := range b.Consumptions {
		resp.Consumptions = append(resp.Consumptions, BatchConsumptionResponse{
			ItemID:     c.ItemID,
			Quantity:   c.Quantity,
			UnitCost:   c.UnitCost,
			TotalCost:  c.TotalCost,
			ConsumedAt: c.ConsumedAt,
		})
	}
	return resp
}
