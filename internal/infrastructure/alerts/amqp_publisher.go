package alerts

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/jhoicas/maestranza-stock/internal/application/inventory"
	"github.com/jhoicas/maestranza-stock/pkg/logger"
)

// Routing keys publicadas en el exchange topic.
const (
	RoutingLowStock     = "stock.low"
	RoutingExpired      = "stock.expired"
	RoutingExpiringSoon = "stock.expiring"
	RoutingDegraded     = "stock.degraded"
)

const publishTimeout = 5 * time.Second

var _ inventory.AlertSink = (*AMQPPublisher)(nil)

// channel subconjunto de *amqp.Channel usado para publicar.
type channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
}

// AlertMessage cuerpo JSON de cada mensaje.
type AlertMessage struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	ItemID         string    `json:"item_id"`
	ItemName       string    `json:"item_name"`
	Quantity       string    `json:"quantity"`
	Threshold      *string   `json:"low_stock_threshold"`
	ExpirationDate *string   `json:"expiration_date"`
	MovementID     string    `json:"movement_id"`
	Transition     string    `json:"transition"`
	Delta          string    `json:"delta"`
	Degraded       bool      `json:"degraded"`
	Warning        string    `json:"warning,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}

// AMQPPublisher publica las alertas de stock en un exchange topic de RabbitMQ.
// Un fallo al publicar se registra y no afecta la transición ya confirmada.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       channel
	exchange string
	log      *logger.Logger
}

// DialAMQP conecta, abre un canal y declara el exchange (topic, durable).
func DialAMQP(url, exchange string, log *logger.Logger) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("conectar a RabbitMQ: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("abrir canal: %w", err)
	}
	if err := ch.ExchangeDeclare(
		exchange, // name
		"topic",  // type
		true,     // durable
		false,    // auto-deleted
		false,    // internal
		false,    // no-wait
		nil,      // arguments
	); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("declarar exchange %s: %w", exchange, err)
	}
	p := NewAMQPPublisher(ch, exchange, log)
	p.conn = conn
	return p, nil
}

// NewAMQPPublisher construye el publicador sobre un canal ya abierto.
func NewAMQPPublisher(ch channel, exchange string, log *logger.Logger) *AMQPPublisher {
	return &AMQPPublisher{ch: ch, exchange: exchange, log: log}
}

// Notify implementa inventory.AlertSink: un mensaje por cada routing key aplicable.
func (p *AMQPPublisher) Notify(ctx context.Context, ev inventory.StockEvent) {
	for _, key := range RoutingKeys(ev) {
		msg, err := BuildPublishing(key, ev)
		if err != nil {
			p.log.Error().Err(err).Str("routing_key", key).Msg("serializar alerta")
			continue
		}
		pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
		err = p.ch.PublishWithContext(pctx,
			p.exchange, // exchange
			key,        // routing key
			false,      // mandatory
			false,      // immediate
			msg,
		)
		cancel()
		if err != nil {
			p.log.Error().Err(err).
				Str("routing_key", key).
				Str("item_id", ev.Item.Item.ID).
				Msg("publicar alerta")
			continue
		}
		p.log.Debug().
			Str("routing_key", key).
			Str("message_id", msg.MessageId).
			Msg("alerta publicada")
	}
}

// Close cierra la conexión si la abrió DialAMQP.
func (p *AMQPPublisher) Close() error {
	if p.conn == nil {
		return nil
	}
	return p.conn.Close()
}

// RoutingKeys routing keys que corresponden al evento, en orden fijo.
func RoutingKeys(ev inventory.StockEvent) []string {
	var keys []string
	a := ev.Item.Alerts
	if a.LowStock {
		keys = append(keys, RoutingLowStock)
	}
	if a.Expired {
		keys = append(keys, RoutingExpired)
	}
	if a.ExpiringSoon {
		keys = append(keys, RoutingExpiringSoon)
	}
	if ev.Degraded {
		keys = append(keys, RoutingDegraded)
	}
	return keys
}

// BuildPublishing arma el mensaje AMQP (JSON, persistente) para una routing key.
func BuildPublishing(key string, ev inventory.StockEvent) (amqp.Publishing, error) {
	it := ev.Item.Item
	body := AlertMessage{
		ID:         uuid.New().String(),
		Type:       key,
		ItemID:     it.ID,
		ItemName:   it.Name,
		Quantity:   it.Quantity.StringFixed(2),
		MovementID: ev.MovementID,
		Transition: string(ev.Kind),
		Delta:      ev.Delta.StringFixed(2),
		Degraded:   ev.Degraded,
		Warning:    ev.Warning,
		OccurredAt: ev.At.UTC(),
	}
	if it.LowStockThreshold != nil {
		th := it.LowStockThreshold.StringFixed(2)
		body.Threshold = &th
	}
	if it.ExpirationDate != nil {
		d := it.ExpirationDate.Format("2006-01-02")
		body.ExpirationDate = &d
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return amqp.Publishing{}, err
	}
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    body.ID,
		Timestamp:    body.OccurredAt,
		Type:         key,
		Body:         raw,
	}, nil
}
