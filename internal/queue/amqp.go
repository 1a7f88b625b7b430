// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queue

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/taibuivan/codesubmit/internal/platform/config"
)

const amqpConnectTimeout = 5 * time.Second

// amqpChannel is the subset of [*amqp.Channel] the publisher uses.
type amqpChannel interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// amqpConnection is the subset of [*amqp.Connection] the publisher uses.
type amqpConnection interface {
	Channel() (amqpChannel, error)
	Close() error
}

// amqpDialer opens a broker connection.
type amqpDialer func(url string) (amqpConnection, error)

// liveConnection adapts [*amqp.Connection] to amqpConnection.
type liveConnection struct {
	*amqp.Connection
}

func (c liveConnection) Channel() (amqpChannel, error) {
	channel, err := c.Connection.Channel()
	if err != nil {
		return nil, err
	}
	return channel, nil
}

func dialAMQP(url string) (amqpConnection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Dial: amqp.DefaultDial(amqpConnectTimeout),
	})
	if err != nil {
		return nil, err
	}
	return liveConnection{conn}, nil
}

// AMQPPublisher publishes to RabbitMQ through the default exchange, using the
// queue name as routing key.
//
// Every call opens and closes its own connection; nothing is pooled.
type AMQPPublisher struct {
	url     string
	queue   string
	durable bool
	dial    amqpDialer
	logger  *slog.Logger
}

// NewAMQPPublisher builds a publisher from the broker and queue settings.
func NewAMQPPublisher(broker config.AMQPConfig, queue config.QueueConfig, logger *slog.Logger) *AMQPPublisher {
	return &AMQPPublisher{
		url:     BrokerURL(broker),
		queue:   queue.Name,
		durable: queue.Durable,
		dial:    dialAMQP,
		logger:  logger,
	}
}

// BrokerURL renders the AMQP URI for the given settings.
func BrokerURL(broker config.AMQPConfig) string {
	return amqp.URI{
		Scheme:   "amqp",
		Host:     broker.Host,
		Port:     broker.Port,
		Username: broker.User,
		Password: broker.Password,
		Vhost:    broker.Vhost,
	}.String()
}

// Publish connects, declares the queue, publishes the envelope and disconnects.
func (p *AMQPPublisher) Publish(ctx context.Context, envelope Envelope) error {
	conn, err := p.dial(p.url)
	if err != nil {
		return fmt.Errorf("queue: amqp connect: %w", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			p.logger.Warn("amqp_connection_close_failed", slog.Any("error", cerr))
		}
	}()

	channel, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("queue: amqp open channel: %w", err)
	}
	defer func() { _ = channel.Close() }()

	if _, err := channel.QueueDeclare(p.queue, p.durable, false, false, false, nil); err != nil {
		return fmt.Errorf("queue: amqp declare %s: %w", p.queue, err)
	}

	deliveryMode := amqp.Transient
	if p.durable {
		deliveryMode = amqp.Persistent
	}

	err = channel.PublishWithContext(ctx, "", p.queue, false, false, amqp.Publishing{
		ContentType:  ContentType,
		DeliveryMode: deliveryMode,
		MessageId:    envelope.MessageID,
		Timestamp:    time.Now().UTC(),
		Body:         envelope.Body,
	})
	if err != nil {
		return fmt.Errorf("queue: amqp publish to %s: %w", p.queue, err)
	}

	p.logger.Debug("amqp_message_published",
		slog.String("queue", p.queue),
		slog.String("message_id", envelope.MessageID),
	)
	return nil
}

// Ping opens and closes a connection.
func (p *AMQPPublisher) Ping(ctx context.Context) error {
	conn, err := p.dial(p.url)
	if err != nil {
		return fmt.Errorf("queue: amqp ping: %w", err)
	}
	return conn.Close()
}
