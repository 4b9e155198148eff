package inventory

import (
	"context"

	"github.com/lataller/inventario-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de BD, pasando repositorios
// atados a esa tx. Garantiza atomicidad para el libro de inventario: la secuencia
// leer-estado → calcular → escribir-transacción-y-caché es una sola unidad aislada.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		txnRepo repository.TransactionRepository,
	) error) error
}
