package integration

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"screen-star/pkg/utils"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type EventPublisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmed) error
	Close() error
}

// NewEventPublisher returns a RabbitMQ publisher, or one that drops events
// when no broker URL is configured.
func NewEventPublisher(config utils.BrokerConfig, log *zap.Logger) EventPublisher {
	if config.URL == "" {
		log.Info("AMQP_URL not set, integration events are disabled")
		return NopPublisher{}
	}
	return &amqpPublisher{
		url:      config.URL,
		exchange: config.Exchange,
		log:      log.With(zap.String("publisher", "amqp")),
	}
}

type NopPublisher struct{}

func (NopPublisher) PublishBookingConfirmed(context.Context, BookingConfirmed) error { return nil }
func (NopPublisher) Close() error                                                   { return nil }

// amqpPublisher holds one connection and channel, dialing lazily and again
// after the broker drops them.
type amqpPublisher struct {
	url      string
	exchange string
	log      *zap.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

func (p *amqpPublisher) channel() (*amqp.Channel, error) {
	if p.conn != nil && !p.conn.IsClosed() && p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.closeLocked()

	conn, err := amqp.Dial(p.url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open rabbitmq channel: %w", err)
	}

	// durable so events survive a broker restart
	if _, err := ch.QueueDeclare(BookingConfirmedQueue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare queue %s: %w", BookingConfirmedQueue, err)
	}

	p.conn, p.ch = conn, ch
	return ch, nil
}

func (p *amqpPublisher) PublishBookingConfirmed(ctx context.Context, event BookingConfirmed) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal booking confirmed event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.channel()
	if err != nil {
		p.log.Error("Failed to reach broker", zap.Error(err))
		return err
	}

	err = ch.PublishWithContext(ctx,
		p.exchange,
		BookingConfirmedQueue,
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    event.BookingID.String(),
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		p.log.Error("Failed to publish booking confirmed",
			zap.Error(err),
			zap.String("booking_id", event.BookingID.String()),
		)
		return fmt.Errorf("publish booking %s confirmed: %w", event.BookingID.String(), err)
	}

	return nil
}

func (p *amqpPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closeLocked()
	return nil
}

func (p *amqpPublisher) closeLocked() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}
