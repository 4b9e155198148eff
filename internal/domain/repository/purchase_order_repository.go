package repository

import (
	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/domain/entity"
)

// PurchaseOrderRepository define el puerto de persistencia para órdenes de compra.
type PurchaseOrderRepository interface {
	// GetByID devuelve la orden con sus líneas; nil si no existe.
	GetByID(id string) (*entity.PurchaseOrder, error)
	// GetForUpdate bloquea la fila de la orden mientras se actualizan sus líneas.
	GetForUpdate(id string) (*entity.PurchaseOrder, error)
	// UpdateLineReceived fija la cantidad recibida acumulada de una línea.
	UpdateLineReceived(lineID string, receivedQty decimal.Decimal) error
	UpdateStatus(orderID, status string) error
}
