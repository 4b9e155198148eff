package inventory

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/domain"
	"github.com/lataller/inventario-api/internal/domain/costing"
	"github.com/lataller/inventario-api/internal/domain/entity"
	"github.com/lataller/inventario-api/internal/domain/repository"
)

// LedgerUseCase es el único punto de mutación del inventario: registra
// transacciones en el libro y mantiene el caché (cantidad, costo promedio)
// de forma transaccional con bloqueo de fila (SELECT FOR UPDATE).
type LedgerUseCase struct {
	txRunner TxRunner
	itemRepo repository.ItemRepository        // atado al pool, solo lecturas
	txnRepo  repository.TransactionRepository // atado al pool, solo lecturas
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(txRunner TxRunner, itemRepo repository.ItemRepository, txnRepo repository.TransactionRepository) *LedgerUseCase {
	return &LedgerUseCase{txRunner: txRunner, itemRepo: itemRepo, txnRepo: txnRepo}
}

// AppendTransactionInput entrada para registrar una transacción de stock.
// UnitCost es obligatorio en entradas con costo (PURCHASE, INITIAL, ADJUSTMENT
// de entrada) y debe ser nil en salidas y en RELEASE.
type AppendTransactionInput struct {
	ItemID      string
	Direction   string // IN | OUT
	Type        string
	Quantity    decimal.Decimal
	UnitCost    *decimal.Decimal
	ReferenceID string
	Reason      string
	UserID      string
}

// validate aplica las reglas estructurales de la entrada.
//   - Cantidad estrictamente positiva.
//   - ADJUSTMENT exige motivo; CORRECTION exige referencia a la transacción
//     errónea que compensa (así el "quién y por qué" queda en el propio libro).
func (in *AppendTransactionInput) validate() error {
	if in.ItemID == "" || !entity.ValidDirection(in.Direction) || !entity.ValidTransactionType(in.Type) {
		return domain.ErrInvalidInput
	}
	if !in.Quantity.GreaterThan(decimal.Zero) {
		return domain.ErrInvalidQuantity
	}
	if in.UnitCost != nil && in.UnitCost.LessThan(decimal.Zero) {
		return domain.ErrInvalidInput
	}
	if in.Type == entity.TransactionTypeADJUSTMENT && in.Reason == "" {
		return domain.ErrInvalidInput
	}
	if in.Type == entity.TransactionTypeCORRECTION && in.ReferenceID == "" {
		return domain.ErrInvalidInput
	}
	if in.Direction == entity.DirectionOUT && in.UnitCost != nil {
		return domain.ErrInvalidInput
	}
	return nil
}

// AppendTransaction registra una transacción de stock de forma atómica.
// Inicia una transacción de BD, bloquea la fila del artículo, valida la regla
// de stock no negativo, actualiza caché y costo promedio, y persiste el registro.
// Dos llamadas concurrentes sobre el mismo artículo se serializan en el bloqueo.
func (uc *LedgerUseCase) AppendTransaction(ctx context.Context, input AppendTransactionInput) (*entity.StockTransaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	var txn *entity.StockTransaction
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		txnRepo repository.TransactionRepository,
	) error {
		var err error
		txn, err = uc.AppendInTx(itemRepo, txnRepo, input, time.Now())
		return err
	})
	if err != nil {
		return nil, err
	}
	return txn, nil
}

// AppendInTx ejecuta el registro usando los repositorios proporcionados (misma
// transacción del caller). Lo usan los flujos de compra y producción para
// componer varios pasos dentro de una unidad atómica propia.
func (uc *LedgerUseCase) AppendInTx(
	itemRepo repository.ItemRepository,
	txnRepo repository.TransactionRepository,
	input AppendTransactionInput,
	now time.Time,
) (*entity.StockTransaction, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	// Bloquea la fila del artículo: serializa mutaciones concurrentes del caché
	item, err := itemRepo.GetForUpdate(input.ItemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}

	newQty := item.QuantityOnHand
	newCost := item.UnitCost
	var storedCost *decimal.Decimal
	totalCost := decimal.Zero

	switch input.Direction {
	case entity.DirectionIN:
		newQty = newQty.Add(input.Quantity)
		if input.UnitCost != nil {
			// Entrada con costo: recalcular el promedio ponderado
			newCost, err = costing.RecomputeWeightedAverage(item.QuantityOnHand, item.UnitCost, input.Quantity, *input.UnitCost)
			if err != nil {
				return nil, err
			}
			c := *input.UnitCost
			storedCost = &c
			totalCost = input.Quantity.Mul(c)
		}
		// Entrada sin costo (RELEASE): solo cambia la cantidad
	case entity.DirectionOUT:
		if item.QuantityOnHand.LessThan(input.Quantity) && !entity.AllowsNegativeStock(input.Type) {
			return nil, fmt.Errorf("artículo %s: %w", input.ItemID, domain.ErrInsufficientStock)
		}
		newQty = newQty.Sub(input.Quantity)
		// La salida se valora al costo promedio vigente, sin modificarlo
		totalCost = input.Quantity.Mul(item.UnitCost)
	}

	if err := itemRepo.UpdateCache(input.ItemID, newQty, newCost); err != nil {
		return nil, err
	}
	txn := &entity.StockTransaction{
		ID:          uuid.New().String(),
		ItemID:      input.ItemID,
		Direction:   input.Direction,
		Type:        input.Type,
		Quantity:    input.Quantity,
		UnitCost:    storedCost,
		TotalCost:   totalCost,
		ReferenceID: input.ReferenceID,
		Reason:      input.Reason,
		CreatedAt:   now,
		CreatedBy:   input.UserID,
	}
	if err := txnRepo.Create(txn); err != nil {
		return nil, err
	}
	return txn, nil
}

// GetItem devuelve un artículo con su caché de cantidad y costo.
func (uc *LedgerUseCase) GetItem(ctx context.Context, itemID string) (*entity.InventoryItem, error) {
	item, err := uc.itemRepo.GetByID(itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}

// ListTransactions lista el libro de un artículo en un rango de fechas.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	if itemID == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.txnRepo.ListByItem(itemID, from, to, limit, offset)
}
