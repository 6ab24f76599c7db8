package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rabbitmq/amqp091-go"

	"frog-cafe/internal/logger"
	"frog-cafe/internal/models"
)

// OrderEvent is the wire form of an order lifecycle event.
type OrderEvent struct {
	Event     string           `json:"event"`
	Order     models.OrderView `json:"order"`
	Timestamp time.Time        `json:"timestamp"`
}

// Publisher publishes order events to RabbitMQ.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a publisher on top of an established connection.
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// PublishOrderEvent publishes one event to the orders topic exchange and
// mirrors it to the display fanout. Failures are logged, not returned:
// the order is already committed and event delivery is best-effort.
func (p *Publisher) PublishOrderEvent(ctx context.Context, event string, view models.OrderView) {
	msg := OrderEvent{
		Event:     event,
		Order:     view,
		Timestamp: time.Now().UTC(),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		p.logger.Error("event_marshal_failed", "Failed to marshal order event", "", err, map[string]any{
			"event":    event,
			"order_id": view.ID,
		})
		return
	}

	routingKey := fmt.Sprintf("orders.%s", event)
	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp091.Persistent,
		MessageId:    uuid.New().String(),
		Timestamp:    msg.Timestamp,
		Body:         body,
	}

	if err := p.publish(ctx, OrdersExchange, routingKey, publishing); err != nil {
		p.logger.Error("event_publish_failed", "Failed to publish order event", "", err, map[string]any{
			"exchange":    OrdersExchange,
			"routing_key": routingKey,
			"order_id":    view.ID,
		})
		return
	}

	if err := p.publish(ctx, DisplayExchange, "", publishing); err != nil {
		p.logger.Error("event_publish_failed", "Failed to publish display event", "", err, map[string]any{
			"exchange": DisplayExchange,
			"order_id": view.ID,
		})
		return
	}

	p.logger.Debug("event_published", fmt.Sprintf("Published %s event for order %d", event, view.ID), "", map[string]any{
		"routing_key": routingKey,
		"order_id":    view.ID,
	})
}

func (p *Publisher) publish(ctx context.Context, exchange, routingKey string, publishing amqp091.Publishing) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("connection lost and reconnect failed: %w", err)
		}
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.conn.Channel().PublishWithContext(ctx,
		exchange,
		routingKey,
		false, // mandatory
		false, // immediate
		publishing,
	)
}
