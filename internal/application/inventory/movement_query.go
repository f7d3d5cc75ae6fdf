package inventory

import (
	"context"

	"github.com/jhoicas/maestranza-stock/internal/domain"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
)

// GetMovement lee un movimiento del libro. domain.ErrNotFound si no existe.
func (e *Engine) GetMovement(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := NewLedger(e.movRepo).Get(ctx, id)
	if err != nil {
		return nil, classify(err)
	}
	if m == nil {
		return nil, domain.ErrNotFound
	}
	return m, nil
}

// ListMovements historial de movimientos (más recientes primero).
func (e *Engine) ListMovements(ctx context.Context, filter repository.MovementFilter) ([]*entity.Movement, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, domain.ErrInvalidInput
	}
	list, err := NewLedger(e.movRepo).List(ctx, filter)
	if err != nil {
		return nil, classify(err)
	}
	return list, nil
}
