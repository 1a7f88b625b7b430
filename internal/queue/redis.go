// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/codesubmit/internal/platform/config"
)

// listPusher is the subset of [*redis.Client] the publisher uses.
type listPusher interface {
	RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd
	Ping(ctx context.Context) *redis.StatusCmd
}

// RedisPublisher appends bodies to a Redis list. Workers consume with BLPOP,
// giving FIFO order. Lists need no declaration.
type RedisPublisher struct {
	client listPusher
	queue  string
	logger *slog.Logger
}

// NewRedisPublisher wraps a Redis client.
func NewRedisPublisher(client listPusher, queue config.QueueConfig, logger *slog.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, queue: queue.Name, logger: logger}
}

// Publish pushes the envelope body onto the tail of the list.
func (p *RedisPublisher) Publish(ctx context.Context, envelope Envelope) error {
	length, err := p.client.RPush(ctx, p.queue, envelope.Body).Result()
	if err != nil {
		return fmt.Errorf("queue: redis push to %s: %w", p.queue, err)
	}

	p.logger.Debug("redis_message_published",
		slog.String("queue", p.queue),
		slog.String("message_id", envelope.MessageID),
		slog.Int64("queue_length", length),
	)
	return nil
}

// Ping issues a PING.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("queue: redis ping: %w", err)
	}
	return nil
}
