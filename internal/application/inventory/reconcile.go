package inventory

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
	"github.com/jhoicas/maestranza-stock/internal/domain/stock"
)

// ReconcileReport diferencia entre la cantidad guardada y la suma de deltas del libro.
type ReconcileReport struct {
	ItemID    string
	Stored    decimal.Decimal
	Ledger    decimal.Decimal
	Drift     decimal.Decimal // Stored - Ledger
	Movements int
	Applied   bool
}

// ReconcileUseCase recalcula la cantidad de un ítem desde su libro de movimientos.
// Es el seguimiento manual de las ediciones degradadas.
type ReconcileUseCase struct {
	txRunner TxRunner
}

// NewReconcileUseCase construye el caso de uso.
func NewReconcileUseCase(txRunner TxRunner) *ReconcileUseCase {
	return &ReconcileUseCase{txRunner: txRunner}
}

// Reconcile suma Delta sobre los movimientos actuales del ítem con la fila bloqueada.
// Si apply es true y hay diferencia, escribe la cantidad del libro.
func (uc *ReconcileUseCase) Reconcile(ctx context.Context, itemID string, apply bool) (*ReconcileReport, error) {
	var rep *ReconcileReport
	err := uc.txRunner.Run(ctx, func(itemRepo repository.ItemRepository, movRepo repository.MovementRepository) error {
		item, err := itemRepo.GetForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.ErrNotFound
		}
		movs, err := NewLedger(movRepo).List(ctx, repository.MovementFilter{ItemID: itemID})
		if err != nil {
			return err
		}
		sum := decimal.Zero
		for _, m := range movs {
			eff := stock.EffectOf(m)
			if eff.Validate() != nil {
				return fmt.Errorf("%w: movimiento %s guardado como (%s, %s)",
					domain.ErrInconsistentState, m.ID, m.Type, m.Quantity)
			}
			d, _ := stock.Delta(eff.Type, eff.Quantity)
			sum = sum.Add(d)
		}
		rep = &ReconcileReport{
			ItemID:    itemID,
			Stored:    item.Quantity,
			Ledger:    sum,
			Drift:     item.Quantity.Sub(sum),
			Movements: len(movs),
		}
		if apply && !rep.Drift.IsZero() {
			if err := itemRepo.SetQuantity(ctx, itemID, sum); err != nil {
				return err
			}
			rep.Applied = true
		}
		return nil
	})
	if err != nil {
		return nil, classify(err)
	}
	return rep, nil
}
