package reconciliation

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/lataller/inventario-api/internal/domain/repository"
)

// Umbral de variación (%) a partir del cual un resultado se clasifica como crítico.
var criticalThreshold = decimal.NewFromInt(10)

// Result compara el balance teórico de un artículo (suma con signo del libro)
// contra su caché. Transitorio: no se persiste; la corrección siempre pasa por
// una transacción CORRECTION explícita en el libro, nunca por auto-reparación.
type Result struct {
	ItemID             string          `json:"item_id"`
	SKU                string          `json:"sku"`
	TheoreticalBalance decimal.Decimal `json:"theoretical_balance"`
	CachedBalance      decimal.Decimal `json:"cached_balance"`
	Variance           decimal.Decimal `json:"variance"`         // caché − teórico
	VariancePercent    decimal.Decimal `json:"variance_percent"` // variance / max(teórico, 1) × 100
}

// Critical indica si la variación supera el umbral del 10%.
func (r Result) Critical() bool {
	return r.VariancePercent.Abs().GreaterThan(criticalThreshold)
}

// UseCase recomputa balances desde el libro y los compara contra el caché.
// Solo lee: nunca muta el libro ni el caché.
type UseCase struct {
	itemRepo repository.ItemRepository
	txnRepo  repository.TransactionRepository
}

// NewUseCase construye el caso de uso de reconciliación.
func NewUseCase(itemRepo repository.ItemRepository, txnRepo repository.TransactionRepository) *UseCase {
	return &UseCase{itemRepo: itemRepo, txnRepo: txnRepo}
}

// ReconcileInventory recorre los artículos activos, suma entradas menos salidas
// del libro y devuelve solo los que presentan variación distinta de cero.
func (uc *UseCase) ReconcileInventory(ctx context.Context) ([]Result, error) {
	items, err := uc.itemRepo.ListActive()
	if err != nil {
		return nil, err
	}
	balances, err := uc.txnRepo.TheoreticalBalances()
	if err != nil {
		return nil, err
	}
	byItem := make(map[string]decimal.Decimal, len(balances))
	for _, b := range balances {
		byItem[b.ItemID] = b.Balance
	}

	one := decimal.NewFromInt(1)
	hundred := decimal.NewFromInt(100)
	var results []Result
	for _, item := range items {
		theoretical := byItem[item.ID] // cero si el artículo no tiene transacciones
		variance := item.QuantityOnHand.Sub(theoretical)
		if variance.IsZero() {
			continue
		}
		denom := theoretical
		if denom.LessThan(one) {
			denom = one
		}
		results = append(results, Result{
			ItemID:             item.ID,
			SKU:                item.SKU,
			TheoreticalBalance: theoretical,
			CachedBalance:      item.QuantityOnHand,
			Variance:           variance,
			VariancePercent:    variance.Div(denom).Mul(hundred).Round(2),
		})
	}
	return results, nil
}
