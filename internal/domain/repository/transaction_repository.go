package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/domain/entity"
)

// ItemBalance balance teórico de un artículo: suma con signo de su libro.
type ItemBalance struct {
	ItemID  string
	Balance decimal.Decimal
}

// TransactionRepository define el puerto de persistencia del libro de transacciones.
// La tabla es append-only: no existen Update ni Delete.
type TransactionRepository interface {
	Create(txn *entity.StockTransaction) error
	GetByID(id string) (*entity.StockTransaction, error)
	ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error)
	// TheoreticalBalances devuelve, por artículo, la suma de entradas menos
	// salidas de todo el libro (para reconciliación).
	TheoreticalBalances() ([]ItemBalance, error)
}
