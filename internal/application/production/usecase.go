package production

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/application/inventory"
	"github.com/lataller/inventario-api/internal/domain"
	"github.com/lataller/inventario-api/internal/domain/entity"
	"github.com/lataller/inventario-api/internal/domain/repository"
)

// ConsumeUseCase implementa el flujo de producción: previsualización de
// factibilidad, consumo de componentes según la lista de materiales y cierre
// del lote con su costo realizado.
type ConsumeUseCase struct {
	txRunner  ProductionTxRunner
	batchRepo repository.BatchRepository // atado al pool, solo lecturas
	bomRepo   repository.BOMRepository   // atado al pool, solo lecturas
	itemRepo  repository.ItemRepository  // atado al pool, solo lecturas
	ledger    *inventory.LedgerUseCase
}

// NewConsumeUseCase construye el caso de uso.
func NewConsumeUseCase(
	txRunner ProductionTxRunner,
	batchRepo repository.BatchRepository,
	bomRepo repository.BOMRepository,
	itemRepo repository.ItemRepository,
	ledger *inventory.LedgerUseCase,
) *ConsumeUseCase {
	return &ConsumeUseCase{txRunner: txRunner, batchRepo: batchRepo, bomRepo: bomRepo, itemRepo: itemRepo, ledger: ledger}
}

// RequirementLine requerimiento de un componente para el lote.
type RequirementLine struct {
	ItemID     string          `json:"item_id"`
	Required   decimal.Decimal `json:"required"` // cantidad por unidad × cantidad planificada
	OnHand     decimal.Decimal `json:"on_hand"`
	Sufficient bool            `json:"sufficient"`
}

// ConsumptionPreview factibilidad del consumo de un lote.
// La insuficiencia se reporta como dato (Sufficient=false), no como error:
// los errores quedan reservados para entradas estructuralmente inválidas.
type ConsumptionPreview struct {
	BatchID  string            `json:"batch_id"`
	Feasible bool              `json:"feasible"`
	Lines    []RequirementLine `json:"lines"`
}

// PreviewConsumption expande la BOM × cantidad planificada y verifica cada
// componente contra el stock cacheado actual. Solo lectura, sin bloqueos.
func (uc *ConsumeUseCase) PreviewConsumption(ctx context.Context, batchID string) (*ConsumptionPreview, error) {
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrBatchNotFound
	}
	if !batch.Previewable() {
		return nil, domain.ErrInvalidBatchStatus
	}
	bom, err := uc.bomRepo.ListByModel(batch.ModelID)
	if err != nil {
		return nil, err
	}

	preview := &ConsumptionPreview{BatchID: batch.ID, Feasible: true}
	for _, line := range bom {
		required := line.QuantityPerUnit.Mul(batch.PlannedQty)
		item, err := uc.itemRepo.GetByID(line.ComponentItemID)
		if err != nil {
			return nil, err
		}
		if item == nil {
			return nil, domain.ErrItemNotFound
		}
		sufficient := item.QuantityOnHand.GreaterThanOrEqual(required)
		if !sufficient {
			preview.Feasible = false
		}
		preview.Lines = append(preview.Lines, RequirementLine{
			ItemID:     line.ComponentItemID,
			Required:   required,
			OnHand:     item.QuantityOnHand,
			Sufficient: sufficient,
		})
	}
	return preview, nil
}

// ConsumeProduction descuenta todos los componentes del lote según la BOM en
// una sola transacción de BD. A diferencia de la recepción de compras, el
// consumo es todo-o-nada: una BOM consumida a medias deja un lote inconstruible
// e inconsistente, así que el primer componente insuficiente aborta todo sin
// confirmar ningún movimiento. Si el lote estaba PLANNED pasa a IN_PROGRESS.
func (uc *ConsumeUseCase) ConsumeProduction(ctx context.Context, batchID string) error {
	return uc.txRunner.RunProduction(ctx, func(
		itemRepo repository.ItemRepository,
		txnRepo repository.TransactionRepository,
		batchRepo repository.BatchRepository,
		bomRepo repository.BOMRepository,
	) error {
		batch, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrBatchNotFound
		}
		if batch.Status != entity.BatchStatusPLANNED && batch.Status != entity.BatchStatusINPROGRESS {
			return domain.ErrInvalidBatchStatus
		}
		bom, err := bomRepo.ListByModel(batch.ModelID)
		if err != nil {
			return err
		}
		if len(bom) == 0 {
			return fmt.Errorf("modelo %s sin lista de materiales: %w", batch.ModelID, domain.ErrInvalidInput)
		}

		now := time.Now()
		for _, line := range bom {
			required := line.QuantityPerUnit.Mul(batch.PlannedQty)
			if _, err := uc.ledger.AppendInTx(itemRepo, txnRepo, inventory.AppendTransactionInput{
				ItemID:      line.ComponentItemID,
				Direction:   entity.DirectionOUT,
				Type:        entity.TransactionTypePRODUCTION,
				Quantity:    required,
				ReferenceID: batch.ID,
			}, now); err != nil {
				// El error nombra el primer componente bloqueante; el rollback
				// de la transacción deja el stock de todos intacto
				return err
			}
			// Costo promedio del componente leído después del bloqueo de su fila:
			// refleja cualquier compra confirmada antes del consumo, y la salida
			// no modifica el promedio
			comp, err := itemRepo.GetByID(line.ComponentItemID)
			if err != nil {
				return err
			}
			if comp == nil {
				return domain.ErrItemNotFound
			}
			if err := batchRepo.AddConsumption(&entity.BatchConsumption{
				ID:         uuid.New().String(),
				BatchID:    batch.ID,
				ItemID:     line.ComponentItemID,
				Quantity:   required,
				UnitCost:   comp.UnitCost,
				TotalCost:  required.Mul(comp.UnitCost),
				ConsumedAt: now,
			}); err != nil {
				return err
			}
		}
		if batch.Status == entity.BatchStatusPLANNED {
			return batchRepo.UpdateStatus(batch.ID, entity.BatchStatusINPROGRESS)
		}
		return nil
	})
}

// CompleteBatch cierra un lote IN_PROGRESS: calcula el costo unitario realizado
// = (valor consumido + cargos asignados) / cantidad producida, da de alta el
// producto terminado con una entrada PRODUCTION a ese costo (realimentando el
// promedio ponderado del artículo) y marca el lote DONE.
func (uc *ConsumeUseCase) CompleteBatch(ctx context.Context, batchID string, producedQty decimal.Decimal) (*entity.ProductionBatch, error) {
	if !producedQty.GreaterThan(decimal.Zero) {
		return nil, domain.ErrInvalidQuantity
	}
	var completed *entity.ProductionBatch
	err := uc.txRunner.RunProduction(ctx, func(
		itemRepo repository.ItemRepository,
		txnRepo repository.TransactionRepository,
		batchRepo repository.BatchRepository,
		bomRepo repository.BOMRepository,
	) error {
		batch, err := batchRepo.GetForUpdate(batchID)
		if err != nil {
			return err
		}
		if batch == nil {
			return domain.ErrBatchNotFound
		}
		if batch.Status != entity.BatchStatusINPROGRESS {
			return domain.ErrInvalidBatchStatus
		}

		realized := batch.ConsumedValue().Add(batch.AllocatedCharges).Div(producedQty).Round(2)
		now := time.Now()
		if _, err := uc.ledger.AppendInTx(itemRepo, txnRepo, inventory.AppendTransactionInput{
			ItemID:      batch.ModelID,
			Direction:   entity.DirectionIN,
			Type:        entity.TransactionTypePRODUCTION,
			Quantity:    producedQty,
			UnitCost:    &realized,
			ReferenceID: batch.ID,
		}, now); err != nil {
			return err
		}

		batch.Status = entity.BatchStatusDONE
		batch.ProducedQty = producedQty
		batch.RealizedUnitCost = realized
		batch.CompletedAt = &now
		if err := batchRepo.Complete(batch); err != nil {
			return err
		}
		completed = batch
		return nil
	})
	if err != nil {
		return nil, err
	}
	return completed, nil
}

// CancelBatch cancela un lote PLANNED o IN_PROGRESS. No repone componentes ya
// consumidos: eso exige transacciones CORRECTION explícitas para mantener la
// auditoría en el libro.
func (uc *ConsumeUseCase) CancelBatch(ctx context.Context, batchID string) error {
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return err
	}
	if batch == nil {
		return domain.ErrBatchNotFound
	}
	if batch.Status != entity.BatchStatusPLANNED && batch.Status != entity.BatchStatusINPROGRESS {
		return domain.ErrInvalidBatchStatus
	}
	return uc.batchRepo.UpdateStatus(batch.ID, entity.BatchStatusCANCELLED)
}

// GetBatch devuelve el lote con su desglose de consumos.
func (uc *ConsumeUseCase) GetBatch(ctx context.Context, batchID string) (*entity.ProductionBatch, error) {
	batch, err := uc.batchRepo.GetByID(batchID)
	if err != nil {
		return nil, err
	}
	if batch == nil {
		return nil, domain.ErrBatchNotFound
	}
	return batch, nil
}
