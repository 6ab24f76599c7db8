// Package notifier tails order events and prints board lines, the
// process behind the counter-facing display.
package notifier

import (
	"context"
	"fmt"
	"strings"

	"frog-cafe/internal/logger"
	"frog-cafe/internal/messaging"
)

// Service consumes order events and renders one line per event.
type Service struct {
	consumer *messaging.Consumer
	logger   *logger.Logger
}

// New creates the notifier service.
func New(consumer *messaging.Consumer, log *logger.Logger) *Service {
	return &Service{
		consumer: consumer,
		logger:   log,
	}
}

// Run consumes events until ctx is cancelled.
func (s *Service) Run(ctx context.Context) error {
	return s.consumer.Consume(ctx, s.handle)
}

func (s *Service) handle(event messaging.OrderEvent) error {
	line := renderLine(event)
	fmt.Println(line)

	s.logger.Debug("order_event_received", line, "", map[string]any{
		"event":    event.Event,
		"order_id": event.Order.ID,
		"status":   string(event.Order.Status),
	})
	return nil
}

// renderLine formats one event as a board line, e.g.
// "Order #12 [Preparing] toad 3: 2x Latte, 1x Croissant".
func renderLine(event messaging.OrderEvent) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order #%d", event.Order.ID)
	switch event.Event {
	case "deleted":
		b.WriteString(" closed")
		return b.String()
	default:
		fmt.Fprintf(&b, " [%s]", event.Order.Status)
	}

	if event.Order.ToadID != nil {
		fmt.Fprintf(&b, " toad %d", *event.Order.ToadID)
	}

	if len(event.Order.Items) > 0 {
		b.WriteString(":")
		for i, item := range event.Order.Items {
			if i > 0 {
				b.WriteString(",")
			}
			fmt.Fprintf(&b, " %dx %s", item.Quantity, item.Name)
		}
	}

	return b.String()
}
