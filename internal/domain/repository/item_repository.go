package repository

import (
	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para artículos de inventario.
// El caché (QuantityOnHand, UnitCost) solo se actualiza dentro de transacciones.
type ItemRepository interface {
	GetByID(id string) (*entity.InventoryItem, error)
	// GetForUpdate bloquea la fila del artículo (SELECT FOR UPDATE): es el
	// bloqueo exclusivo por artículo que serializa las mutaciones del caché.
	GetForUpdate(id string) (*entity.InventoryItem, error)
	// UpdateCache escribe QuantityOnHand y UnitCost del artículo.
	UpdateCache(id string, quantityOnHand, unitCost decimal.Decimal) error
	ListActive() ([]*entity.InventoryItem, error)
}
