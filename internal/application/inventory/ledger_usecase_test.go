package inventory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appinv "github.com/lataller/inventario-api/internal/application/inventory"
	"github.com/lataller/inventario-api/internal/domain"
	"github.com/lataller/inventario-api/internal/domain/entity"
	"github.com/lataller/inventario-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
//
// memStore simula la tabla de artículos y el libro append-only. El TxRunner fake
// mantiene el mutex del store durante todo el callback: equivale al bloqueo de
// fila (SELECT FOR UPDATE) que serializa las mutaciones sobre un mismo artículo.
// ──────────────────────────────────────────────────────────────────────────────

type memStore struct {
	mu    sync.Mutex
	items map[string]*entity.InventoryItem
	txns  []*entity.StockTransaction
}

func newMemStore(items ...*entity.InventoryItem) *memStore {
	s := &memStore{items: map[string]*entity.InventoryItem{}}
	for _, it := range items {
		s.items[it.ID] = it
	}
	return s
}

type memItemRepo struct{ s *memStore }

func (r *memItemRepo) GetByID(id string) (*entity.InventoryItem, error) {
	it, ok := r.s.items[id]
	if !ok {
		return nil, nil
	}
	cp := *it
	return &cp, nil
}

func (r *memItemRepo) GetForUpdate(id string) (*entity.InventoryItem, error) {
	return r.GetByID(id)
}

func (r *memItemRepo) UpdateCache(id string, qty, cost decimal.Decimal) error {
	it, ok := r.s.items[id]
	if !ok {
		return domain.ErrItemNotFound
	}
	it.QuantityOnHand = qty
	it.UnitCost = cost
	it.UpdatedAt = time.Now()
	return nil
}

func (r *memItemRepo) ListActive() ([]*entity.InventoryItem, error) {
	var out []*entity.InventoryItem
	for _, it := range r.s.items {
		if it.IsActive {
			cp := *it
			out = append(out, &cp)
		}
	}
	return out, nil
}

type memTxnRepo struct{ s *memStore }

func (r *memTxnRepo) Create(txn *entity.StockTransaction) error {
	r.s.txns = append(r.s.txns, txn)
	return nil
}

func (r *memTxnRepo) GetByID(id string) (*entity.StockTransaction, error) {
	for _, t := range r.s.txns {
		if t.ID == id {
			return t, nil
		}
	}
	return nil, nil
}

func (r *memTxnRepo) ListByItem(itemID string, from, to *time.Time, limit, offset int) ([]*entity.StockTransaction, error) {
	var out []*entity.StockTransaction
	for _, t := range r.s.txns {
		if t.ItemID == itemID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (r *memTxnRepo) TheoreticalBalances() ([]repository.ItemBalance, error) {
	sums := map[string]decimal.Decimal{}
	for _, t := range r.s.txns {
		sums[t.ItemID] = sums[t.ItemID].Add(t.SignedQuantity())
	}
	var out []repository.ItemBalance
	for id, b := range sums {
		out = append(out, repository.ItemBalance{ItemID: id, Balance: b})
	}
	return out, nil
}

type memTxRunner struct{ s *memStore }

func (r *memTxRunner) Run(ctx context.Context, fn func(repository.ItemRepository, repository.TransactionRepository) error) error {
	// El mutex cubre todo el callback: leer-calcular-escribir es una unidad aislada
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return fn(&memItemRepo{s: r.s}, &memTxnRepo{s: r.s})
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func dp(s string) *decimal.Decimal {
	v := decimal.RequireFromString(s)
	return &v
}

func newItem(id string, qty, cost string) *entity.InventoryItem {
	return &entity.InventoryItem{
		ID:             id,
		SKU:            "SKU-" + id,
		Name:           "artículo " + id,
		QuantityOnHand: d(qty),
		UnitCost:       d(cost),
		IsActive:       true,
	}
}

func newLedger(s *memStore) *appinv.LedgerUseCase {
	return appinv.NewLedgerUseCase(&memTxRunner{s: s}, &memItemRepo{s: s}, &memTxnRepo{s: s})
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestAppendTransaction_EntradaConCosto(t *testing.T) {
	s := newMemStore(newItem("tela", "0", "0"))
	uc := newLedger(s)

	txn, err := uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
		ItemID:      "tela",
		Direction:   entity.DirectionIN,
		Type:        entity.TransactionTypePURCHASE,
		Quantity:    d("10"),
		UnitCost:    dp("100"),
		ReferenceID: "oc-1",
	})
	require.NoError(t, err)
	require.NotNil(t, txn)
	assert.Equal(t, entity.DirectionIN, txn.Direction)
	require.NotNil(t, txn.UnitCost)
	assert.True(t, txn.UnitCost.Equal(d("100")))

	item := s.items["tela"]
	assert.True(t, item.QuantityOnHand.Equal(d("10")), "cantidad: %s", item.QuantityOnHand)
	assert.True(t, item.UnitCost.Equal(d("100")), "costo: %s", item.UnitCost)
}

func TestAppendTransaction_PromedioEnSegundaEntrada(t *testing.T) {
	s := newMemStore(newItem("tela", "10", "100"))
	uc := newLedger(s)

	_, err := uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
		ItemID:    "tela",
		Direction: entity.DirectionIN,
		Type:      entity.TransactionTypePURCHASE,
		Quantity:  d("10"),
		UnitCost:  dp("200"),
	})
	require.NoError(t, err)
	assert.True(t, s.items["tela"].UnitCost.Equal(d("150")), "costo: %s", s.items["tela"].UnitCost)
}

func TestAppendTransaction_CantidadNoPositiva(t *testing.T) {
	s := newMemStore(newItem("tela", "5", "10"))
	uc := newLedger(s)

	_, err := uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
		ItemID:    "tela",
		Direction: entity.DirectionIN,
		Type:      entity.TransactionTypePURCHASE,
		Quantity:  d("0"),
		UnitCost:  dp("10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestAppendTransaction_SalidaSinStockRechazada(t *testing.T) {
	s := newMemStore(newItem("tela", "2", "10"))
	uc := newLedger(s)

	// SALE que dejaría el stock en negativo: rechazada
	_, err := uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
		ItemID:    "tela",
		Direction: entity.DirectionOUT,
		Type:      entity.TransactionTypeSALE,
		Quantity:  d("3"),
	})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, s.items["tela"].QuantityOnHand.Equal(d("2")), "el stock no debe cambiar")

	// El mismo movimiento como ADJUSTMENT (override explícito) sí pasa y deja negativo
	_, err = uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
		ItemID:    "tela",
		Direction: entity.DirectionOUT,
		Type:      entity.TransactionTypeADJUSTMENT,
		Quantity:  d("3"),
		Reason:    "merma detectada en conteo físico",
	})
	require.NoError(t, err)
	assert.True(t, s.items["tela"].QuantityOnHand.Equal(d("-1")), "stock: %s", s.items["tela"].QuantityOnHand)
}

func TestAppendTransaction_SalidaNoCambiaCosto(t *testing.T) {
	s := newMemStore(newItem("tela", "10", "37.50"))
	uc := newLedger(s)

	txn, err := uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
		ItemID:    "tela",
		Direction: entity.DirectionOUT,
		Type:      entity.TransactionTypeSALE,
		Quantity:  d("4"),
	})
	require.NoError(t, err)
	assert.Nil(t, txn.UnitCost, "las salidas se guardan sin costo unitario")
	assert.True(t, txn.TotalCost.Equal(d("150")), "valorada al promedio vigente: %s", txn.TotalCost)
	assert.True(t, s.items["tela"].UnitCost.Equal(d("37.50")), "el costo promedio no cambia en salidas")
}

func TestAppendTransaction_ReleaseSinCosto(t *testing.T) {
	s := newMemStore(newItem("tela", "8", "20"))
	uc := newLedger(s)

	// RELEASE devuelve cantidad reservada sin tocar el costo promedio
	_, err := uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
		ItemID:      "tela",
		Direction:   entity.DirectionIN,
		Type:        entity.TransactionTypeRELEASE,
		Quantity:    d("2"),
		ReferenceID: "reserva-9",
	})
	require.NoError(t, err)
	assert.True(t, s.items["tela"].QuantityOnHand.Equal(d("10")))
	assert.True(t, s.items["tela"].UnitCost.Equal(d("20")))
}

func TestAppendTransaction_ReglasDeAuditoria(t *testing.T) {
	s := newMemStore(newItem("tela", "10", "20"))
	uc := newLedger(s)

	// ADJUSTMENT sin motivo: rechazado
	_, err := uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
		ItemID:    "tela",
		Direction: entity.DirectionOUT,
		Type:      entity.TransactionTypeADJUSTMENT,
		Quantity:  d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	// CORRECTION sin referencia a la transacción errónea: rechazada
	_, err = uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
		ItemID:    "tela",
		Direction: entity.DirectionOUT,
		Type:      entity.TransactionTypeCORRECTION,
		Quantity:  d("1"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAppendTransaction_ArticuloInexistente(t *testing.T) {
	s := newMemStore()
	uc := newLedger(s)

	_, err := uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
		ItemID:    "no-existe",
		Direction: entity.DirectionIN,
		Type:      entity.TransactionTypeINITIAL,
		Quantity:  d("1"),
		UnitCost:  dp("5"),
	})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
}

// TestAppendTransaction_ConcurrenciaSinPerdidas lanza dos entradas concurrentes
// (5 y 7) sobre el mismo artículo partiendo de 0: el resultado debe ser
// exactamente 12, sin perder ninguna actualización. El TxRunner fake serializa
// igual que el bloqueo de fila en PostgreSQL.
func TestAppendTransaction_ConcurrenciaSinPerdidas(t *testing.T) {
	s := newMemStore(newItem("tela", "0", "0"))
	uc := newLedger(s)

	quantities := []string{"5", "7"}
	var wg sync.WaitGroup
	errs := make([]error, len(quantities))
	for i, q := range quantities {
		wg.Add(1)
		go func(i int, q string) {
			defer wg.Done()
			_, errs[i] = uc.AppendTransaction(context.Background(), appinv.AppendTransactionInput{
				ItemID:    "tela",
				Direction: entity.DirectionIN,
				Type:      entity.TransactionTypePURCHASE,
				Quantity:  d(q),
				UnitCost:  dp("10"),
			})
		}(i, q)
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	assert.True(t, s.items["tela"].QuantityOnHand.Equal(d("12")),
		"cantidad final: %s (debe ser 12, nunca 5 ni 7)", s.items["tela"].QuantityOnHand)
	assert.Len(t, s.txns, 2)
}
