package alerts

import (
	"context"

	"github.com/jhoicas/maestranza-stock/internal/application/inventory"
)

// MultiSink reparte cada evento a varios sinks en orden.
type MultiSink []inventory.AlertSink

// Notify implementa inventory.AlertSink. Ignora entradas nil.
func (m MultiSink) Notify(ctx context.Context, ev inventory.StockEvent) {
	for _, s := range m {
		if s != nil {
			s.Notify(ctx, ev)
		}
	}
}
