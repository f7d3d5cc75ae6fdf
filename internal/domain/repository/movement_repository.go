package repository

import (
	"context"
	"time"

	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
)

// MovementFilter filtros del historial de movimientos. Limit 0 = sin límite.
type MovementFilter struct {
	ItemID string
	Type   entity.MovementType
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

// MovementRepository define el puerto de persistencia para movimientos de inventario (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el movimiento no existe.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	// GetForUpdate lee el estado persistido (no un borrador en memoria) y bloquea la fila.
	GetForUpdate(ctx context.Context, id string) (*entity.Movement, error)
	// Update y Delete devuelven domain.ErrNotFound si el id no existe.
	Update(ctx context.Context, movement *entity.Movement) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter MovementFilter) ([]*entity.Movement, error)
}
