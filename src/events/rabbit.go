// Package events fans inventory state changes out to an AMQP topic exchange.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"milk-admin/src/config"
	"milk-admin/src/interfaces"
	"milk-admin/src/logger"
	"milk-admin/src/models"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

type RabbitPublisher struct {
	Config   *models.MConfig
	Logger   *logger.Logger
	exchange string

	mu   sync.Mutex
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewRabbitPublisher dials the broker and declares a durable topic exchange.
func NewRabbitPublisher(cfg *models.MConfig, log *logger.Logger) (*RabbitPublisher, error) {
	if log == nil {
		log = logger.NewLogger(cfg, "RabbitPublisher")
	}
	exchange := cfg.Events.Exchange
	if exchange == "" {
		exchange = config.DefaultExchange
	}

	conn, err := amqp.Dial(cfg.Events.AMQPURL)
	if err != nil {
		return nil, fmt.Errorf("amqp dial: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		ch.Close()
		conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	log.Info("Publishing events to exchange %s", exchange)
	return &RabbitPublisher{Config: cfg, Logger: log, exchange: exchange, conn: conn, ch: ch}, nil
}

// Publish sends payload as a persistent JSON message.
func (r *RabbitPublisher) Publish(ctx context.Context, routingKey string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch == nil {
		return fmt.Errorf("publisher is closed")
	}
	return r.ch.PublishWithContext(ctx, r.exchange, routingKey, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		MessageId:    uuid.NewString(),
		Timestamp:    time.Now(),
		Body:         body,
	})
}

func (r *RabbitPublisher) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ch != nil {
		_ = r.ch.Close()
		r.ch = nil
	}
	if r.conn != nil {
		err := r.conn.Close()
		r.conn = nil
		return err
	}
	return nil
}

var _ interfaces.IEventPublisher = (*RabbitPublisher)(nil)
