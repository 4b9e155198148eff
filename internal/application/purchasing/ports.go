package purchasing

import (
	"context"

	"github.com/lataller/inventario-api/internal/domain/repository"
)

// PurchasingTxRunner inicia una transacción con repositorios de inventario y de
// órdenes de compra: cada línea recibida confirma su movimiento de stock y la
// actualización de la línea como una sola unidad.
type PurchasingTxRunner interface {
	RunPurchasing(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		txnRepo repository.TransactionRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error) error
}
