// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package submission

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/codesubmit/internal/platform/apperr"
	"github.com/taibuivan/codesubmit/internal/platform/config"
	"github.com/taibuivan/codesubmit/internal/platform/ctxutil"
	"github.com/taibuivan/codesubmit/internal/queue"
)

// ServiceOptions configures a [Service].
type ServiceOptions struct {
	Rules Rules

	// DeliveryMode is config.DeliveryInline or config.DeliveryOutbox.
	DeliveryMode string

	// PublishTimeout bounds one inline publish.
	PublishTimeout time.Duration
}

// Service validates, stores and forwards submissions.
type Service struct {
	repo           Repository
	publisher      queue.Publisher
	rules          Rules
	deliveryMode   string
	publishTimeout time.Duration
	logger         *slog.Logger
}

func NewService(repo Repository, publisher queue.Publisher, options ServiceOptions, logger *slog.Logger) *Service {
	if options.DeliveryMode == "" {
		options.DeliveryMode = config.DeliveryInline
	}
	if options.PublishTimeout <= 0 {
		options.PublishTimeout = 10 * time.Second
	}
	return &Service{
		repo:           repo,
		publisher:      publisher,
		rules:          options.Rules,
		deliveryMode:   options.DeliveryMode,
		publishTimeout: options.PublishTimeout,
		logger:         logger,
	}
}

// Rules returns the form rules the service validates against.
func (service *Service) Rules() Rules {
	return service.rules
}

/*
Submit validates the form and stores the submission.

Returns:
  - *Submission: the stored row with its assigned id
  - error: VALIDATION_ERROR (nothing stored) or a storage error
*/
func (service *Service) Submit(context context.Context, form Form) (*Submission, error) {
	cleaned, err := form.Clean(context, service.rules)
	if err != nil {
		return nil, err
	}

	submission := &Submission{Code: cleaned.Code, Language: cleaned.Language}
	if err := service.repo.Create(context, submission); err != nil {
		return nil, err
	}

	service.log(context).InfoContext(context, "submission_stored",
		slog.Int64("submission_id", submission.ID),
		slog.String("language", submission.Language),
	)
	return submission, nil
}

/*
SubmitAndSend validates, stores and forwards the submission to the queue.

Description: In inline mode the row is committed before the publish is
attempted. A publish failure therefore leaves a stored submission with no
queued message; the caller still receives QUEUE_PUBLISH_FAILED. In outbox
mode the row and its message are committed together and the relay publishes
the message later.

Returns:
  - *Submission: the stored row, also returned alongside a publish failure
  - error: VALIDATION_ERROR, a storage error or QUEUE_PUBLISH_FAILED
*/
func (service *Service) SubmitAndSend(context context.Context, form Form) (*Submission, error) {
	if service.deliveryMode == config.DeliveryOutbox {
		return service.submitWithOutbox(context, form)
	}

	submission, err := service.Submit(context, form)
	if err != nil {
		return nil, err
	}

	if err := service.publish(context, submission); err != nil {
		service.log(context).ErrorContext(context, "submission_publish_failed",
			slog.Int64("submission_id", submission.ID),
			slog.String("error", err.Error()),
		)
		return submission, apperr.QueueUnavailable(err)
	}
	return submission, nil
}

func (service *Service) submitWithOutbox(context context.Context, form Form) (*Submission, error) {
	cleaned, err := form.Clean(context, service.rules)
	if err != nil {
		return nil, err
	}

	submission := &Submission{Code: cleaned.Code, Language: cleaned.Language}
	err = service.repo.CreateWithOutbox(context, submission, func(stored *Submission) (queue.Envelope, error) {
		envelope, err := encode(stored)
		if err != nil {
			return queue.Envelope{}, apperr.Internal(err)
		}
		return envelope, nil
	})
	if err != nil {
		return nil, err
	}

	service.log(context).InfoContext(context, "submission_staged",
		slog.Int64("submission_id", submission.ID),
		slog.String("language", submission.Language),
	)
	return submission, nil
}

func (service *Service) publish(ctx context.Context, submission *Submission) error {
	envelope, err := encode(submission)
	if err != nil {
		return err
	}

	publishCtx, cancel := context.WithTimeout(ctx, service.publishTimeout)
	defer cancel()

	if err := service.publisher.Publish(publishCtx, envelope); err != nil {
		return fmt.Errorf("publish submission %d: %w", submission.ID, err)
	}

	service.log(ctx).InfoContext(ctx, "submission_published",
		slog.Int64("submission_id", submission.ID),
		slog.String("message_id", envelope.MessageID),
	)
	return nil
}

func encode(submission *Submission) (queue.Envelope, error) {
	message := queue.NewMessage(submission.ID, submission.Code, submission.Language, submission.CreatedAt)
	return message.Encode()
}

// log prefers the request-scoped logger so entries carry the request id.
func (service *Service) log(ctx context.Context) *slog.Logger {
	if logger, ok := ctxutil.LookupLogger(ctx); ok {
		return logger
	}
	return service.logger
}
