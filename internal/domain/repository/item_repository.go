package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para InventoryItem (DIP).
// GetByID y GetForUpdate devuelven (nil, nil) si el ítem no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id string) (*entity.InventoryItem, error)
	// GetForUpdate lee el ítem y bloquea la fila hasta el fin de la transacción (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.InventoryItem, error)
	// SetQuantity escribe la cantidad autoritativa. Devuelve domain.ErrNotFound si no existe.
	SetQuantity(ctx context.Context, id string, quantity decimal.Decimal) error
	List(ctx context.Context, limit, offset int) ([]*entity.InventoryItem, error)
}
