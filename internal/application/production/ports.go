package production

import (
	"context"

	"github.com/lataller/inventario-api/internal/domain/repository"
)

// ProductionTxRunner inicia una transacción con los repositorios del flujo de
// producción. El consumo de un lote es todo-o-nada: todas sus salidas de
// componentes confirman o ninguna, dentro de una sola transacción de BD.
type ProductionTxRunner interface {
	RunProduction(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		txnRepo repository.TransactionRepository,
		batchRepo repository.BatchRepository,
		bomRepo repository.BOMRepository,
	) error) error
}
