package inventory

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/maestranza-stock/internal/domain/entity"
	"github.com/jhoicas/maestranza-stock/internal/domain/repository"
	"github.com/jhoicas/maestranza-stock/internal/domain/stock"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Garantiza atomicidad del par lectura/escritura de la cantidad: si fn falla nada queda aplicado.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// ItemSnapshot estado de un ítem con sus alertas derivadas.
type ItemSnapshot struct {
	Item   entity.InventoryItem
	Alerts stock.Alerts
}

// StockEvent lo que el motor entrega al sink después de cada transición confirmada.
type StockEvent struct {
	Item       ItemSnapshot
	MovementID string
	Kind       stock.Kind
	Delta      decimal.Decimal
	Degraded   bool
	Warning    string
	At         time.Time
}

// AlertSink sink de observabilidad provisto por el llamador (log, broker, ...).
// El motor no imprime ni registra nada por su cuenta; Notify no puede fallar la operación.
type AlertSink interface {
	Notify(ctx context.Context, ev StockEvent)
}
