package messaging

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"resto-pos/internal/logger"
)

// Event routing keys published on the pos_events exchange.
const (
	RouteOrderCreated         = "order.created"
	RouteOrderStatusUpdated   = "order.status_updated"
	RouteTableReserved        = "table.reserved"
	RouteReservationCancelled = "table.reservation_cancelled"
)

// EventPublisher publishes POS lifecycle events. Implementations must be
// best-effort: a publish failure never fails the originating mutation.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event interface{})
}

// Publisher publishes events to the pos_events topic exchange.
type Publisher struct {
	conn   *Connection
	logger *logger.Logger
}

// NewPublisher creates a new event publisher.
func NewPublisher(conn *Connection, log *logger.Logger) *Publisher {
	return &Publisher{
		conn:   conn,
		logger: log,
	}
}

// Publish serializes the event to JSON and publishes it. Failures are logged
// and swallowed; lifecycle events are advisory and must not block the
// operations that emit them.
func (p *Publisher) Publish(ctx context.Context, routingKey string, event interface{}) {
	if err := p.publish(ctx, routingKey, event); err != nil {
		p.logger.Error("event_publish_failed", "",
			fmt.Sprintf("Failed to publish %s event", routingKey), err,
			map[string]interface{}{"routing_key": routingKey})
	}
}

func (p *Publisher) publish(ctx context.Context, routingKey string, event interface{}) error {
	if p.conn.IsClosed() {
		if err := p.conn.Reconnect(); err != nil {
			return fmt.Errorf("failed to reconnect: %w", err)
		}
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         body,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	err = p.conn.Channel().PublishWithContext(
		ctx,
		ExchangeEvents, // exchange
		routingKey,     // routing key
		false,          // mandatory
		false,          // immediate
		publishing,
	)
	if err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}

	p.logger.Debug("event_published", "", fmt.Sprintf("Published %s event", routingKey),
		map[string]interface{}{"routing_key": routingKey, "message_size": len(body)})

	return nil
}

// Close closes the publisher's connection.
func (p *Publisher) Close() error {
	return p.conn.Close()
}
