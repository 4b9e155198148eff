package repository

import "github.com/lataller/inventario-api/internal/domain/entity"

// BatchRepository define el puerto de persistencia para lotes de producción.
type BatchRepository interface {
	// GetByID devuelve el lote con su desglose de consumos; nil si no existe.
	GetByID(id string) (*entity.ProductionBatch, error)
	GetForUpdate(id string) (*entity.ProductionBatch, error)
	UpdateStatus(batchID, status string) error
	AddConsumption(c *entity.BatchConsumption) error
	// Complete fija ProducedQty, RealizedUnitCost, CompletedAt y estado DONE.
	Complete(batch *entity.ProductionBatch) error
}
