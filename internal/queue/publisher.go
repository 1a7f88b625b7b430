// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package queue hands accepted submissions to a message broker.

# Contract

A [Publisher] declares the configured queue (idempotently) and publishes one
body per call. There is no delivery confirmation and no retry: the first
failure is returned to the caller. Backends:

  - amqp: RabbitMQ, a fresh connection per call, default exchange.
  - sqs: AWS SQS, CreateQueue doubles as the idempotent declare.
  - redis: RPUSH onto a list named after the queue.
*/
package queue

import "context"

// Publisher forwards encoded messages to a broker.
type Publisher interface {
	// Publish declares the queue and sends one envelope.
	Publish(ctx context.Context, envelope Envelope) error

	// Ping checks that the broker is reachable. It is used by /ready.
	Ping(ctx context.Context) error
}
