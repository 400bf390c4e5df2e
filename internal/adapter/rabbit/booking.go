package rabbit

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"taxihub/internal/domain/models"
	"taxihub/pkg/logger"
	wrap "taxihub/pkg/logger/wrapper"
	"taxihub/pkg/metrics"
	"taxihub/pkg/rabbit"
)

const (
	BookingExchange = "booking_topic"

	QueueStatusUpdates   = "booking_status"
	QueueLocationUpdates = "booking_locations"
)

// BookingBroker publishes booking events to the topic exchange so other
// services (analytics, ETA, receipts) can react without touching the
// in-process hub.
type BookingBroker struct {
	client   *rabbit.RabbitMQ
	exchange string

	l logger.Logger
}

func NewBookingBroker(client *rabbit.RabbitMQ, log logger.Logger) *BookingBroker {
	return &BookingBroker{
		client:   client,
		exchange: BookingExchange,
		l:        log,
	}
}

// PublishStatus sends a status change to the exchange with the key
// 'booking.status.{STATUS}'.
func (b *BookingBroker) PublishStatus(ctx context.Context, msg models.BookingStatusMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_booking_status")

	if err := b.client.EnsureConnection(ctx); err != nil {
		b.l.Error(ctx, "ensure connection failed", err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	key := fmt.Sprintf("booking.status.%s", msg.Status)

	err = retry(5, time.Second, func() error {
		return b.client.Channel.PublishWithContext(
			ctx,
			b.exchange, // exchange
			key,        // routing key
			false,      // mandatory
			false,      // immediate
			amqp091.Publishing{
				ContentType:   "application/json",
				CorrelationId: msg.CorrelationID,
				Body:          body,
				Timestamp:     time.Now(),
			},
		)
	})
	metrics.RecordRabbitMQPublish(b.exchange, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish with context: %w", err))
	}

	return nil
}

// PublishLocation sends a coordinate update to the exchange with the key
// 'booking.location'.
func (b *BookingBroker) PublishLocation(ctx context.Context, msg models.BookingLocationMessage) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_publish_booking_location")

	if err := b.client.EnsureConnection(ctx); err != nil {
		b.l.Error(ctx, "ensure connection failed", err)
		return wrap.Error(ctx, err)
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to marshal message: %w", err))
	}

	err = retry(3, 500*time.Millisecond, func() error {
		return b.client.Channel.PublishWithContext(
			ctx,
			b.exchange,
			"booking.location",
			false,
			false,
			amqp091.Publishing{
				ContentType:   "application/json",
				CorrelationId: msg.CorrelationID,
				Body:          body,
				Timestamp:     time.Now(),
			},
		)
	})
	metrics.RecordRabbitMQPublish(b.exchange, err)
	if err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to publish with context: %w", err))
	}

	return nil
}

// StatusHandler processes one status message from the queue.
type StatusHandler func(ctx context.Context, msg models.BookingStatusMessage) error

// ConsumeStatusUpdates reads status messages from the bound queue and
// hands each to the handler. Blocks until the context is cancelled;
// reconnects on channel loss.
func (b *BookingBroker) ConsumeStatusUpdates(ctx context.Context, handler StatusHandler) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_consume_booking_status")

	for {
		if ctx.Err() != nil {
			b.l.Debug(ctx, "status consumer stopped by context")
			return nil
		}

		if err := b.client.EnsureConnection(ctx); err != nil {
			b.l.Error(ctx, "ensure connection failed", err)
			time.Sleep(2 * time.Second)
			continue
		}

		msgs, err := b.client.Channel.Consume(QueueStatusUpdates, "", false, false, false, false, nil)
		if err != nil {
			b.l.Error(ctx, "consume failed", err)
			time.Sleep(2 * time.Second)
			continue
		}

		b.l.Info(ctx, "start consuming booking status updates", "queue", QueueStatusUpdates)

	consumeLoop:
		for {
			select {
			case <-ctx.Done():
				b.l.Info(ctx, "booking status consumer shutting down")
				return nil

			case msg, ok := <-msgs:
				if !ok {
					b.l.Warn(ctx, "message channel closed, reconnecting...")
					time.Sleep(2 * time.Second)
					break consumeLoop
				}

				go func(d amqp091.Delivery) {
					var req models.BookingStatusMessage
					if err := json.Unmarshal(d.Body, &req); err != nil {
						b.l.Error(ctx, "failed to unmarshal booking status message", err)
						_ = d.Nack(false, false)
						return
					}

					ctxx := wrap.WithRequestID(ctx, d.CorrelationId)

					if err := handler(ctxx, req); err != nil {
						b.l.Error(wrap.ErrorCtx(ctx, err), "failed to handle booking status message", err)
						_ = d.Nack(false, isRecoverableError(err))
						return
					}

					if err := d.Ack(false); err != nil {
						b.l.Error(ctx, "failed to ack message", err)
					}
				}(msg)
			}
		}
	}
}

// Setup declares the exchange, the queues and their bindings. Safe to
// call on every start.
func (b *BookingBroker) Setup(ctx context.Context) error {
	ctx = wrap.WithAction(ctx, "rabbitmq_setup")

	if err := b.client.EnsureConnection(ctx); err != nil {
		return wrap.Error(ctx, err)
	}

	ch := b.client.Channel

	if err := ch.ExchangeDeclare(b.exchange, "topic", true, false, false, false, nil); err != nil {
		return wrap.Error(ctx, fmt.Errorf("failed to declare exchange: %w", err))
	}

	bindings := map[string]string{
		QueueStatusUpdates:   "booking.status.*",
		QueueLocationUpdates: "booking.location",
	}
	for queue, key := range bindings {
		if _, err := ch.QueueDeclare(queue, true, false, false, false, nil); err != nil {
			return wrap.Error(ctx, fmt.Errorf("failed to declare queue %s: %w", queue, err))
		}
		if err := ch.QueueBind(queue, key, b.exchange, false, nil); err != nil {
			return wrap.Error(ctx, fmt.Errorf("failed to bind queue %s: %w", queue, err))
		}
	}

	return nil
}
