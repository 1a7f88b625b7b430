// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/taibuivan/codesubmit/internal/platform/config"
	redisstore "github.com/taibuivan/codesubmit/internal/platform/redis"
)

// New builds the publisher selected by QUEUE_BACKEND.
//
// The returned close function releases backend resources (the Redis pool);
// it is never nil.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (Publisher, func() error, error) {
	logger = logger.With(slog.String("component", "queue"), slog.String("backend", cfg.Queue.Backend))
	noop := func() error { return nil }

	switch cfg.Queue.Backend {
	case config.BackendAMQP:
		return NewAMQPPublisher(cfg.AMQP, cfg.Queue, logger), noop, nil

	case config.BackendSQS:
		client, err := NewSQSClient(ctx, cfg.SQS)
		if err != nil {
			return nil, noop, err
		}
		return NewSQSPublisher(client, cfg.Queue, logger), noop, nil

	case config.BackendRedis:
		client, err := redisstore.NewClient(ctx, cfg.RedisURL, logger)
		if err != nil {
			return nil, noop, err
		}
		return NewRedisPublisher(client, cfg.Queue, logger), client.Close, nil

	default:
		return nil, noop, fmt.Errorf("queue: unknown backend %q", cfg.Queue.Backend)
	}
}
