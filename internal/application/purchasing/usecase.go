package purchasing

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/application/inventory"
	"github.com/lataller/inventario-api/internal/domain"
	"github.com/lataller/inventario-api/internal/domain/costing"
	"github.com/lataller/inventario-api/internal/domain/entity"
	"github.com/lataller/inventario-api/internal/domain/repository"
)

// ReceiveUseCase implementa la recepción de órdenes de compra: previsualización
// del impacto en costos (solo lectura) y confirmación línea a línea contra el
// libro de inventario.
type ReceiveUseCase struct {
	txRunner  PurchasingTxRunner
	orderRepo repository.PurchaseOrderRepository // atado al pool, solo lecturas
	itemRepo  repository.ItemRepository          // atado al pool, solo lecturas
	ledger    *inventory.LedgerUseCase
}

// NewReceiveUseCase construye el caso de uso.
func NewReceiveUseCase(
	txRunner PurchasingTxRunner,
	orderRepo repository.PurchaseOrderRepository,
	itemRepo repository.ItemRepository,
	ledger *inventory.LedgerUseCase,
) *ReceiveUseCase {
	return &ReceiveUseCase{txRunner: txRunner, orderRepo: orderRepo, itemRepo: itemRepo, ledger: ledger}
}

// ReceiveLine una línea a recibir. UnitCost nil usa el costo pactado en la orden.
type ReceiveLine struct {
	LineID   string
	Quantity decimal.Decimal
	UnitCost *decimal.Decimal
}

// LinePreview impacto previsto de recibir una línea contra el estado cacheado actual.
type LinePreview struct {
	LineID     string          `json:"line_id"`
	ItemID     string          `json:"item_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	UnitCost   decimal.Decimal `json:"unit_cost"`
	QtyBefore  decimal.Decimal `json:"qty_before"`
	QtyAfter   decimal.Decimal `json:"qty_after"`
	CostBefore decimal.Decimal `json:"cost_before"`
	CostAfter  decimal.Decimal `json:"cost_after"`
}

// ReceivePreview resultado de PreviewReceive.
type ReceivePreview struct {
	OrderID   string          `json:"order_id"`
	Status    string          `json:"status"`
	Lines     []LinePreview   `json:"lines"`
	CostDelta decimal.Decimal `json:"cost_delta"` // variación agregada del valor de inventario
}

// LineResult resultado por línea de ReceivePurchase. Las líneas fallidas
// reportan Err; las previas quedan confirmadas (no hay rollback entre líneas).
type LineResult struct {
	LineID      string
	ItemID      string
	Quantity    decimal.Decimal
	Transaction *entity.StockTransaction
	Err         error
}

// ReceiveOutcome resultado agregado de una recepción.
type ReceiveOutcome struct {
	OrderID string
	Status  string // estado derivado tras la recepción
	Lines   []LineResult
}

// PreviewReceive calcula, sin escribir nada, el costo promedio resultante de
// recibir las líneas indicadas contra el estado cacheado actual. No toma
// bloqueos: tolera leer un estado ligeramente desfasado porque es consultivo.
func (uc *ReceiveUseCase) PreviewReceive(ctx context.Context, orderID string, lines []ReceiveLine) (*ReceivePreview, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}

	preview := &ReceivePreview{OrderID: order.ID, Status: order.DerivedStatus(), CostDelta: decimal.Zero}
	for _, in := range lines {
		line := findLine(order, in.LineID)
		if line == nil {
			return nil, domain.ErrInvalidInput
		}
		if !in.Quantity.GreaterThan(decimal.Zero) {
			return nil, domain.ErrInvalidQuantity
		}
		item, err := uc.itemRepo.GetByID(line.ItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrItemNotFound
		}
		unitCost := line.UnitCost
		if in.UnitCost != nil {
			unitCost = *in.UnitCost
		}
		costAfter, err := costing.RecomputeWeightedAverage(item.QuantityOnHand, item.UnitCost, in.Quantity, unitCost)
		if err != nil {
			return nil, err
		}
		qtyAfter := item.QuantityOnHand.Add(in.Quantity)
		preview.Lines = append(preview.Lines, LinePreview{
			LineID:     line.ID,
			ItemID:     line.ItemID,
			Quantity:   in.Quantity,
			UnitCost:   unitCost,
			QtyBefore:  item.QuantityOnHand,
			QtyAfter:   qtyAfter,
			CostBefore: item.UnitCost,
			CostAfter:  costAfter,
		})
		before := item.QuantityOnHand.Mul(item.UnitCost)
		after := qtyAfter.Mul(costAfter)
		preview.CostDelta = preview.CostDelta.Add(after.Sub(before))
	}
	return preview, nil
}

// ReceivePurchase confirma la recepción de las líneas indicadas. Cada línea se
// confirma de forma independiente (movimiento IN/PURCHASE + acumulado recibido
// en una misma transacción de BD por línea); si una línea falla, las anteriores
// quedan confirmadas y el fallo se reporta por línea — coherente con la
// filosofía append-only del libro. El caller decide las compensaciones.
//
// La validación de sobre-recepción se hace dentro de la transacción de cada
// línea, contra la orden releída con bloqueo de fila: dos recepciones
// concurrentes de la misma línea se serializan en ese bloqueo y la segunda ve
// el acumulado ya confirmado por la primera.
func (uc *ReceiveUseCase) ReceivePurchase(ctx context.Context, orderID string, lines []ReceiveLine) (*ReceiveOutcome, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	if !order.Receivable() {
		return nil, domain.ErrOrderNotReceivable
	}

	outcome := &ReceiveOutcome{OrderID: order.ID}
	now := time.Now()
	for _, in := range lines {
		result := LineResult{LineID: in.LineID, Quantity: in.Quantity}
		if !in.Quantity.GreaterThan(decimal.Zero) {
			result.Err = domain.ErrInvalidQuantity
			outcome.Lines = append(outcome.Lines, result)
			continue
		}

		err := uc.txRunner.RunPurchasing(ctx, func(
			itemRepo repository.ItemRepository,
			txnRepo repository.TransactionRepository,
			orderRepo repository.PurchaseOrderRepository,
		) error {
			// Relee la orden bloqueando su fila: el snapshot inicial puede estar
			// desfasado frente a recepciones o cancelaciones concurrentes
			locked, err := orderRepo.GetForUpdate(orderID)
			if err != nil {
				return err
			}
			if locked == nil {
				return domain.ErrOrderNotFound
			}
			if !locked.Receivable() {
				return domain.ErrOrderNotReceivable
			}
			line := findLine(locked, in.LineID)
			if line == nil {
				return domain.ErrInvalidInput
			}
			result.ItemID = line.ItemID
			newReceived := line.ReceivedQty.Add(in.Quantity)
			if newReceived.GreaterThan(line.OrderedQty) {
				return domain.ErrOverReceipt
			}
			unitCost := line.UnitCost
			if in.UnitCost != nil {
				unitCost = *in.UnitCost
			}
			txn, err := uc.ledger.AppendInTx(itemRepo, txnRepo, inventory.AppendTransactionInput{
				ItemID:      line.ItemID,
				Direction:   entity.DirectionIN,
				Type:        entity.TransactionTypePURCHASE,
				Quantity:    in.Quantity,
				UnitCost:    &unitCost,
				ReferenceID: locked.ID,
			}, now)
			if err != nil {
				return err
			}
			if err := orderRepo.UpdateLineReceived(line.ID, newReceived); err != nil {
				return err
			}
			result.Transaction = txn
			return nil
		})
		if err != nil {
			result.Err = err
		}
		outcome.Lines = append(outcome.Lines, result)
	}

	// Estado derivado del acumulado realmente confirmado, no del snapshot inicial
	final, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if final != nil {
		outcome.Status = final.DerivedStatus()
	}
	return outcome, nil
}

// PlaceOrder pasa la orden de DRAFT a ORDERED. La transición se decide sobre la
// fila bloqueada para no pisar un cambio de estado concurrente.
func (uc *ReceiveUseCase) PlaceOrder(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.RunPurchasing(ctx, func(
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		locked, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrOrderNotFound
		}
		if locked.Status != entity.OrderStatusDRAFT {
			return domain.ErrOrderNotReceivable
		}
		if err := orderRepo.UpdateStatus(locked.ID, entity.OrderStatusORDERED); err != nil {
			return err
		}
		locked.Status = entity.OrderStatusORDERED
		order = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// CancelOrder cancela una orden. Solo es alcanzable desde DRAFT u ORDERED sin
// recepciones: una orden PARTIAL o RECEIVED ya movió inventario y no se cancela.
// El estado se deriva de la fila bloqueada: una recepción en vuelo sobre la
// misma orden espera el bloqueo o ya lo soltó con su acumulado confirmado.
func (uc *ReceiveUseCase) CancelOrder(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	var order *entity.PurchaseOrder
	err := uc.txRunner.RunPurchasing(ctx, func(
		_ repository.ItemRepository,
		_ repository.TransactionRepository,
		orderRepo repository.PurchaseOrderRepository,
	) error {
		locked, err := orderRepo.GetForUpdate(orderID)
		if err != nil {
			return err
		}
		if locked == nil {
			return domain.ErrOrderNotFound
		}
		s := locked.DerivedStatus()
		if s != entity.OrderStatusDRAFT && s != entity.OrderStatusORDERED {
			return domain.ErrOrderNotReceivable
		}
		if err := orderRepo.UpdateStatus(locked.ID, entity.OrderStatusCANCELLED); err != nil {
			return err
		}
		locked.Status = entity.OrderStatusCANCELLED
		order = locked
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder devuelve la orden con su estado derivado de las líneas.
func (uc *ReceiveUseCase) GetOrder(ctx context.Context, orderID string) (*entity.PurchaseOrder, error) {
	order, err := uc.orderRepo.GetByID(orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func findLine(order *entity.PurchaseOrder, lineID string) *entity.PurchaseOrderLine {
	for i := range order.Lines {
		if order.Lines[i].ID == lineID {
			return &order.Lines[i]
		}
	}
	return nil
}
