// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/codesubmit/internal/platform/config"
)

type fakeSQS struct {
	created []string
	sent    []*sqs.SendMessageInput
	sendErr error
}

func (f *fakeSQS) CreateQueue(_ context.Context, params *sqs.CreateQueueInput, _ ...func(*sqs.Options)) (*sqs.CreateQueueOutput, error) {
	name := aws.ToString(params.QueueName)
	f.created = append(f.created, name)
	return &sqs.CreateQueueOutput{QueueUrl: aws.String("https://sqs.local/000000000000/" + name)}, nil
}

func (f *fakeSQS) GetQueueUrl(_ context.Context, params *sqs.GetQueueUrlInput, _ ...func(*sqs.Options)) (*sqs.GetQueueUrlOutput, error) {
	if aws.ToString(params.QueueName) == "" {
		return nil, errors.New("missing queue name")
	}
	return &sqs.GetQueueUrlOutput{QueueUrl: aws.String("https://sqs.local/000000000000/" + aws.ToString(params.QueueName))}, nil
}

func (f *fakeSQS) SendMessage(_ context.Context, params *sqs.SendMessageInput, _ ...func(*sqs.Options)) (*sqs.SendMessageOutput, error) {
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, params)
	return &sqs.SendMessageOutput{MessageId: aws.String("sqs-1")}, nil
}

func TestSQSPublisher_Publish(t *testing.T) {
	client := &fakeSQS{}
	publisher := NewSQSPublisher(client, config.QueueConfig{Name: "judge"}, testLogger())

	require.NoError(t, publisher.Publish(context.Background(), Envelope{MessageID: "m-7", Body: []byte(`{"a":1}`)}))

	assert.Equal(t, []string{"judge"}, client.created)
	require.Len(t, client.sent, 1)

	sent := client.sent[0]
	assert.Equal(t, "https://sqs.local/000000000000/judge", aws.ToString(sent.QueueUrl))
	assert.Equal(t, `{"a":1}`, aws.ToString(sent.MessageBody))
	assert.Equal(t, "m-7", aws.ToString(sent.MessageAttributes["message_id"].StringValue))
	assert.Equal(t, ContentType, aws.ToString(sent.MessageAttributes["content_type"].StringValue))

	assert.NoError(t, publisher.Ping(context.Background()))
}

func TestSQSPublisher_SendFailure(t *testing.T) {
	throttled := errors.New("api error RequestThrottled")
	publisher := NewSQSPublisher(&fakeSQS{sendErr: throttled}, config.QueueConfig{Name: "judge"}, testLogger())

	err := publisher.Publish(context.Background(), Envelope{MessageID: "m-7", Body: []byte(`{}`)})
	assert.ErrorIs(t, err, throttled)
}
