// Package broker publishes order events to RabbitMQ.
package broker

import (
	"coffeeshop_server/structs"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/MonkyMars/gecho"
	amqp "github.com/rabbitmq/amqp091-go"
)

var ErrNotConnected = errors.New("rabbitmq connection is closed")

// Publisher owns one connection and one channel to RabbitMQ. A closed
// connection is re-dialed on the next publish.
type Publisher struct {
	cfg    *structs.BrokerConfig
	logger *gecho.Logger

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// Connect dials the broker and declares the durable topic exchange.
func Connect(cfg *structs.BrokerConfig, logger *gecho.Logger) (*Publisher, error) {
	p := &Publisher{cfg: cfg, logger: logger}

	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.connect(); err != nil {
		return nil, err
	}

	logger.Info("Connected to RabbitMQ", gecho.Field("exchange", cfg.OrderExchange))
	return p, nil
}

// connect must be called with mu held
func (p *Publisher) connect() error {
	conn, err := amqp.Dial(p.cfg.URL)
	if err != nil {
		return fmt.Errorf("failed to dial rabbitmq: %w", err)
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open rabbitmq channel: %w", err)
	}

	err = ch.ExchangeDeclare(
		p.cfg.OrderExchange, // name
		"topic",             // type
		true,                // durable
		false,               // auto-deleted
		false,               // internal
		false,               // no-wait
		nil,                 // arguments
	)
	if err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", p.cfg.OrderExchange, err)
	}

	p.conn = conn
	p.ch = ch
	return nil
}

// IsAlive reports whether both the connection and the channel are open.
func (p *Publisher) IsAlive() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		return ErrNotConnected
	}
	return nil
}

// Publish sends a persistent JSON message to the order exchange.
func (p *Publisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil || p.conn.IsClosed() || p.ch == nil || p.ch.IsClosed() {
		p.logger.Warn("RabbitMQ connection lost, reconnecting")
		if err := p.connect(); err != nil {
			return errors.Join(ErrNotConnected, err)
		}
	}

	if p.cfg.PublishTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.cfg.PublishTimeout)
		defer cancel()
	}

	return p.ch.PublishWithContext(ctx,
		p.cfg.OrderExchange, // exchange
		routingKey,          // routing key
		false,               // mandatory
		false,               // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			Body:         body,
			Timestamp:    time.Now(),
		})
}

func (p *Publisher) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	if p.ch != nil && !p.ch.IsClosed() {
		if err := p.ch.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq channel: %w", err))
		}
	}
	if p.conn != nil && !p.conn.IsClosed() {
		if err := p.conn.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close rabbitmq connection: %w", err))
		}
	}
	return errors.Join(errs...)
}
