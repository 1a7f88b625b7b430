// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package queue

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/codesubmit/internal/platform/config"
)

type fakeList struct {
	lists   map[string][][]byte
	pushErr error
}

func (f *fakeList) RPush(ctx context.Context, key string, values ...interface{}) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx)
	if f.pushErr != nil {
		cmd.SetErr(f.pushErr)
		return cmd
	}
	for _, value := range values {
		f.lists[key] = append(f.lists[key], value.([]byte))
	}
	cmd.SetVal(int64(len(f.lists[key])))
	return cmd
}

func (f *fakeList) Ping(ctx context.Context) *redis.StatusCmd {
	cmd := redis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func TestRedisPublisher_Publish(t *testing.T) {
	client := &fakeList{lists: map[string][][]byte{}}
	publisher := NewRedisPublisher(client, config.QueueConfig{Name: "submissions"}, testLogger())

	require.NoError(t, publisher.Publish(context.Background(), Envelope{MessageID: "a", Body: []byte("first")}))
	require.NoError(t, publisher.Publish(context.Background(), Envelope{MessageID: "b", Body: []byte("second")}))

	assert.Equal(t, [][]byte{[]byte("first"), []byte("second")}, client.lists["submissions"])
	assert.NoError(t, publisher.Ping(context.Background()))
}

func TestRedisPublisher_PushFailure(t *testing.T) {
	down := errors.New("dial tcp: connection refused")
	publisher := NewRedisPublisher(&fakeList{pushErr: down}, config.QueueConfig{Name: "submissions"}, testLogger())

	err := publisher.Publish(context.Background(), Envelope{MessageID: "a", Body: []byte("x")})
	assert.ErrorIs(t, err, down)
}
