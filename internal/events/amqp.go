// AngelaMos | 2026
// amqp.go

package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/carterperez-dev/templates/job-board/internal/config"
)

const publishTimeout = 5 * time.Second

var ErrPublisherClosed = errors.New("event publisher closed")

type amqpConn interface {
	IsClosed() bool
	Close() error
}

type amqpChannel interface {
	IsClosed() bool
	ExchangeDeclare(name, kind string, durable, autoDelete, internal, noWait bool, args amqp.Table) error
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// AMQPPublisher sends events to a durable topic exchange, routed by type.
// A channel closed by the broker is reopened on next use.
type AMQPPublisher struct {
	conn        amqpConn
	openChannel func() (amqpChannel, error)
	exchange    string

	mu      sync.Mutex
	channel amqpChannel
}

func NewAMQPPublisher(cfg config.EventsConfig) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("connect to broker: %w", err)
	}

	p := &AMQPPublisher{
		conn: conn,
		openChannel: func() (amqpChannel, error) {
			ch, err := conn.Channel()
			if err != nil {
				return nil, err
			}
			return ch, nil
		},
		exchange: cfg.Exchange,
	}

	p.mu.Lock()
	_, err = p.ensureChannel()
	p.mu.Unlock()
	if err != nil {
		_ = conn.Close() //nolint:errcheck // cleanup on setup failure
		return nil, err
	}

	return p, nil
}

// ensureChannel returns an open channel with the exchange declared. Callers
// hold p.mu.
func (p *AMQPPublisher) ensureChannel() (amqpChannel, error) {
	if p.conn == nil || p.conn.IsClosed() {
		return nil, ErrPublisherClosed
	}
	if p.channel != nil && !p.channel.IsClosed() {
		return p.channel, nil
	}

	ch, err := p.openChannel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		p.exchange,
		amqp.ExchangeTopic,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		_ = ch.Close() //nolint:errcheck // channel is unusable
		return nil, fmt.Errorf("declare exchange %s: %w", p.exchange, err)
	}

	p.channel = ch
	return ch, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, event Event) error {
	body, err := marshalEvent(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	ch, err := p.ensureChannel()
	if err != nil {
		return err
	}

	err = ch.PublishWithContext(
		ctx,
		p.exchange,
		event.Type,
		false,
		false,
		publishing(event, body),
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", event.Type, err)
	}

	return nil
}

// Ping reports whether events can be published right now, reopening the
// channel if the broker closed it.
func (p *AMQPPublisher) Ping(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	_, err := p.ensureChannel()
	return err
}

func (p *AMQPPublisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() {
		return nil
	}

	if p.channel != nil && !p.channel.IsClosed() {
		_ = p.channel.Close() //nolint:errcheck // connection close follows
	}

	if err := p.conn.Close(); err != nil {
		return fmt.Errorf("close broker connection: %w", err)
	}

	return nil
}

func marshalEvent(event Event) ([]byte, error) {
	body, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("marshal event %s: %w", event.Type, err)
	}
	return body, nil
}

func publishing(event Event, body []byte) amqp.Publishing {
	return amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    event.ID,
		Timestamp:    event.OccurredAt,
		Type:         event.Type,
		Body:         body,
	}
}
