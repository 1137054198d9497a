package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const (
	brokerDialTimeout = 2 * time.Second
	brokerRedialAfter = 15 * time.Second
)

var errBrokerCoolingDown = errors.New("broker unreachable, redial deferred")

// Publisher writes events to a durable RabbitMQ queue over one reused channel.
// After a failed dial it refuses to redial for brokerRedialAfter, so callers
// fall back immediately instead of waiting on the broker.
type Publisher struct {
	url    string
	queue  string
	logger *zap.Logger
	dial   func(url string) (*amqp.Connection, error)
	now    func() time.Time

	mu       sync.Mutex
	conn     *amqp.Connection
	ch       *amqp.Channel
	nextDial time.Time
}

func NewPublisher(url, queue string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Publisher{url: url, queue: queue, logger: logger, dial: dialBroker, now: time.Now}
}

func dialBroker(url string) (*amqp.Connection, error) {
	return amqp.DialConfig(url, amqp.Config{
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
		Dial:      amqp.DefaultDial(brokerDialTimeout),
	})
}

func (p *Publisher) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.ensureChannelLocked(); err != nil {
		return err
	}

	err = p.ch.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         string(event.Kind),
		Body:         body,
	})
	if err != nil {
		p.resetLocked()
		return fmt.Errorf("publish %s: %w", event.Kind, err)
	}
	return nil
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resetLocked()
}

func (p *Publisher) ensureChannelLocked() error {
	if p.ch != nil && !p.ch.IsClosed() {
		return nil
	}
	p.resetLocked()

	now := p.now()
	if now.Before(p.nextDial) {
		return errBrokerCoolingDown
	}
	conn, err := p.dial(p.url)
	if err != nil {
		p.nextDial = now.Add(brokerRedialAfter)
		p.logger.Warn("broker dial failed", zap.Duration("retry_in", brokerRedialAfter), zap.Error(err))
		return fmt.Errorf("dial broker: %w", err)
	}
	p.nextDial = time.Time{}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("open channel: %w", err)
	}
	if _, err := ch.QueueDeclare(p.queue, true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("declare queue: %w", err)
	}
	p.conn = conn
	p.ch = ch
	return nil
}

func (p *Publisher) resetLocked() error {
	var errs []error
	if p.ch != nil {
		errs = append(errs, p.ch.Close())
		p.ch = nil
	}
	if p.conn != nil {
		errs = append(errs, p.conn.Close())
		p.conn = nil
	}
	return errors.Join(errs...)
}

// FallbackNotifier prefers the broker and delivers inline when publishing fails.
type FallbackNotifier struct {
	primary  Notifier
	fallback Notifier
	logger   *zap.Logger
}

func NewFallbackNotifier(primary, fallback Notifier, logger *zap.Logger) *FallbackNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FallbackNotifier{primary: primary, fallback: fallback, logger: logger}
}

func (f *FallbackNotifier) Notify(ctx context.Context, event Event) error {
	if f.primary != nil {
		err := f.primary.Notify(ctx, event)
		if err == nil {
			return nil
		}
		f.logger.Warn("event publish failed, delivering inline", zap.String("kind", string(event.Kind)), zap.Error(err))
	}
	if f.fallback == nil {
		return errors.New("no notifier available")
	}
	return f.fallback.Notify(ctx, event)
}
