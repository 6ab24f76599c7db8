package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rabbitmq/amqp091-go"

	"frog-cafe/internal/logger"
)

// Consumer reads order events off the display queue and hands them to a
// callback. It is the transport half of the notifier mode.
type Consumer struct {
	conn   *Connection
	logger *logger.Logger
}

// NewConsumer creates a consumer on top of an established connection.
func NewConsumer(conn *Connection, log *logger.Logger) *Consumer {
	return &Consumer{
		conn:   conn,
		logger: log,
	}
}

// Consume delivers every event from the display queue to handle until ctx
// is cancelled. Events that fail to decode or handle are rejected without
// requeue so a bad message cannot wedge the queue.
func (c *Consumer) Consume(ctx context.Context, handle func(OrderEvent) error) error {
	deliveries, err := c.conn.Channel().Consume(
		DisplayQueue, // queue
		"",           // consumer tag
		false,        // auto-ack
		false,        // exclusive
		false,        // no-local
		false,        // no-wait
		nil,          // args
	)
	if err != nil {
		return fmt.Errorf("failed to start consuming from %s: %w", DisplayQueue, err)
	}

	c.logger.Info("consumer_started", fmt.Sprintf("Consuming from queue %s", DisplayQueue), "", nil)

	for {
		select {
		case <-ctx.Done():
			return nil
		case delivery, ok := <-deliveries:
			if !ok {
				return fmt.Errorf("delivery channel closed for queue %s", DisplayQueue)
			}
			c.process(delivery, handle)
		}
	}
}

func (c *Consumer) process(delivery amqp091.Delivery, handle func(OrderEvent) error) {
	var event OrderEvent
	if err := json.Unmarshal(delivery.Body, &event); err != nil {
		c.logger.Error("event_decode_failed", "Failed to decode order event", delivery.MessageId, err, nil)
		delivery.Nack(false, false)
		return
	}

	if err := handle(event); err != nil {
		c.logger.Error("event_handle_failed", "Failed to handle order event", delivery.MessageId, err, map[string]any{
			"event":    event.Event,
			"order_id": event.Order.ID,
		})
		delivery.Nack(false, false)
		return
	}

	delivery.Ack(false)
}
