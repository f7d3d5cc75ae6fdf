// Package alerts entrega los eventos de stock del motor a log y a RabbitMQ.
package alerts

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/jhoicas/maestranza-stock/internal/application/inventory"
	"github.com/jhoicas/maestranza-stock/pkg/logger"
)

var _ inventory.AlertSink = (*LogSink)(nil)

// LogSink registra cada transición: ERROR si fue degradada, WARN si el ítem quedó
// con alertas activas y DEBUG en el resto.
type LogSink struct {
	log *logger.Logger
}

// NewLogSink construye el sink sobre el logger de la app.
func NewLogSink(log *logger.Logger) *LogSink {
	return &LogSink{log: log}
}

// Notify implementa inventory.AlertSink.
func (s *LogSink) Notify(_ context.Context, ev inventory.StockEvent) {
	if ev.Degraded {
		withEvent(s.log.Error(), ev).
			Str("warning", ev.Warning).
			Msg("edición degradada: conciliar cantidad del ítem")
	}
	if ev.Item.Alerts.Any() {
		withEvent(s.log.Warn(), ev).
			Bool("low_stock", ev.Item.Alerts.LowStock).
			Bool("expired", ev.Item.Alerts.Expired).
			Bool("expiring_soon", ev.Item.Alerts.ExpiringSoon).
			Msg("alerta de inventario")
		return
	}
	if !ev.Degraded {
		withEvent(s.log.Debug(), ev).Msg("stock actualizado")
	}
}

func withEvent(e *zerolog.Event, ev inventory.StockEvent) *zerolog.Event {
	it := ev.Item.Item
	return e.
		Str("item_id", it.ID).
		Str("item_name", it.Name).
		Str("quantity", it.Quantity.String()).
		Str("movement_id", ev.MovementID).
		Str("transition", string(ev.Kind)).
		Str("delta", ev.Delta.String())
}
