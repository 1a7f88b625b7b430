// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queue

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"github.com/taibuivan/codesubmit/internal/platform/config"
)

// sqsAPI is the subset of [*sqs.Client] the publisher uses.
type sqsAPI interface {
	CreateQueue(ctx context.Context, params *sqs.CreateQueueInput, optFns ...func(*sqs.Options)) (*sqs.CreateQueueOutput, error)
	GetQueueUrl(ctx context.Context, params *sqs.GetQueueUrlInput, optFns ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error)
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// NewSQSClient loads the default AWS credential chain for the configured region.
// A non-empty endpoint overrides the service URL (LocalStack, ElasticMQ).
func NewSQSClient(ctx context.Context, settings config.SQSConfig) (*sqs.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(settings.Region))
	if err != nil {
		return nil, fmt.Errorf("queue: load aws config: %w", err)
	}

	return sqs.NewFromConfig(awsCfg, func(options *sqs.Options) {
		if settings.Endpoint != "" {
			options.BaseEndpoint = aws.String(settings.Endpoint)
		}
	}), nil
}

// SQSPublisher publishes to an SQS queue. CreateQueue is called before every
// send; SQS returns the existing URL when the queue already exists.
type SQSPublisher struct {
	client sqsAPI
	queue  string
	logger *slog.Logger
}

// NewSQSPublisher wraps an SQS client.
func NewSQSPublisher(client sqsAPI, queue config.QueueConfig, logger *slog.Logger) *SQSPublisher {
	return &SQSPublisher{client: client, queue: queue.Name, logger: logger}
}

// Publish declares the queue and sends the envelope body.
func (p *SQSPublisher) Publish(ctx context.Context, envelope Envelope) error {
	created, err := p.client.CreateQueue(ctx, &sqs.CreateQueueInput{QueueName: aws.String(p.queue)})
	if err != nil {
		return fmt.Errorf("queue: sqs declare %s: %w", p.queue, err)
	}

	_, err = p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    created.QueueUrl,
		MessageBody: aws.String(string(envelope.Body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"content_type": {DataType: aws.String("String"), StringValue: aws.String(ContentType)},
			"message_id":   {DataType: aws.String("String"), StringValue: aws.String(envelope.MessageID)},
		},
	})
	if err != nil {
		return fmt.Errorf("queue: sqs send to %s: %w", p.queue, err)
	}

	p.logger.Debug("sqs_message_published",
		slog.String("queue", p.queue),
		slog.String("message_id", envelope.MessageID),
	)
	return nil
}

// Ping resolves the queue URL.
func (p *SQSPublisher) Ping(ctx context.Context) error {
	if _, err := p.client.GetQueueUrl(ctx, &sqs.GetQueueUrlInput{QueueName: aws.String(p.queue)}); err != nil {
		return fmt.Errorf("queue: sqs ping: %w", err)
	}
	return nil
}
