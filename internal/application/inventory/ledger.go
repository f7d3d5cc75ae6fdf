package inventory

import (
	"context"
	"fmt"

	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
	"github.com/jhoicas/maestranza-stock/internal/domain/stock"
)

// BeforeState valores persistidos de un movimiento justo antes de editarlo o borrarlo.
type BeforeState struct {
	MovementID string
	ItemID     string
	Effect     stock.Effect
}

// Ledger libro de movimientos. Se construye sobre un MovementRepository atado a la
// transacción en curso, así la lectura del estado previo y la escritura comparten tx.
type Ledger struct {
	movRepo repository.MovementRepository
}

// NewLedger construye el libro sobre el repositorio dado (pool o tx).
func NewLedger(movRepo repository.MovementRepository) *Ledger {
	return &Ledger{movRepo: movRepo}
}

// RecordBeforeUpdate lee el (tipo, cantidad) persistido del movimiento, bloqueando la fila.
// Devuelve (nil, nil) si el movimiento no existe: es una creación, no una edición.
// Si la fila existe pero sus valores no se pueden revertir devuelve domain.ErrInconsistentState.
func (l *Ledger) RecordBeforeUpdate(ctx context.Context, movementID string) (*BeforeState, error) {
	m, err := l.Lock(ctx, movementID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, nil
	}
	return Before(m)
}

// Lock lee la fila persistida del movimiento y la bloquea hasta el fin de la tx.
// (nil, nil) si no existe.
func (l *Ledger) Lock(ctx context.Context, movementID string) (*entity.Movement, error) {
	return l.movRepo.GetForUpdate(ctx, movementID)
}

// Before extrae el estado reversible de una fila ya leída.
func Before(m *entity.Movement) (*BeforeState, error) {
	eff := stock.EffectOf(m)
	if err := eff.Validate(); err != nil {
		return nil, fmt.Errorf("%w: movimiento %s guardado como (%s, %s)",
			domain.ErrInconsistentState, m.ID, m.Type, m.Quantity)
	}
	return &BeforeState{MovementID: m.ID, ItemID: m.ItemID, Effect: eff}, nil
}

// Append persiste un movimiento nuevo.
func (l *Ledger) Append(ctx context.Context, m *entity.Movement) error {
	return l.movRepo.Create(ctx, m)
}

// Replace sobrescribe un movimiento existente. domain.ErrNotFound si el id no existe.
func (l *Ledger) Replace(ctx context.Context, m *entity.Movement) error {
	return l.movRepo.Update(ctx, m)
}

// Remove elimina un movimiento. domain.ErrNotFound si el id no existe.
func (l *Ledger) Remove(ctx context.Context, movementID string) error {
	return l.movRepo.Delete(ctx, movementID)
}

// Get lee un movimiento sin bloquear. (nil, nil) si no existe.
func (l *Ledger) Get(ctx context.Context, movementID string) (*entity.Movement, error) {
	return l.movRepo.GetByID(ctx, movementID)
}

// List historial filtrado de movimientos.
func (l *Ledger) List(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	return l.movRepo.List(ctx, filter)
}
