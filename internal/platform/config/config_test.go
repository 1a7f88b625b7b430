// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/codesubmit/internal/platform/config"
)

func noEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "missing.env")
}

/*
TestLoad_Defaults verifies that only DATABASE_URL is mandatory.
*/
func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "memory://")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 100, cfg.LanguageMaxLength)
	assert.Equal(t, config.DeliveryInline, cfg.DeliveryMode)
	assert.Equal(t, config.BackendAMQP, cfg.Queue.Backend)
	assert.Equal(t, "submissions", cfg.Queue.Name)
	assert.Equal(t, 10*time.Second, cfg.Queue.PublishTimeout)
	assert.Equal(t, "localhost", cfg.AMQP.Host)
	assert.Equal(t, 5672, cfg.AMQP.Port)
	assert.Equal(t, 2*time.Second, cfg.Outbox.PollInterval)
	assert.True(t, cfg.IsDevelopment())
}

/*
TestLoad_MissingDatabaseURL ensures required fields are enforced.
*/
func TestLoad_MissingDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))

	_, err := config.Load(noEnvFile(t))
	require.Error(t, err)
}

/*
TestLoad_NestedPrefixes checks that broker settings map through their prefixes.
*/
func TestLoad_NestedPrefixes(t *testing.T) {
	t.Setenv("DATABASE_URL", "memory://")
	t.Setenv("QUEUE_BACKEND", "sqs")
	t.Setenv("QUEUE_NAME", "judge")
	t.Setenv("AMQP_HOST", "rabbit")
	t.Setenv("SQS_ENDPOINT", "http://localstack:4566")
	t.Setenv("OUTBOX_BATCH_SIZE", "7")

	cfg, err := config.Load(noEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, config.BackendSQS, cfg.Queue.Backend)
	assert.Equal(t, "judge", cfg.Queue.Name)
	assert.Equal(t, "rabbit", cfg.AMQP.Host)
	assert.Equal(t, "http://localstack:4566", cfg.SQS.Endpoint)
	assert.Equal(t, 7, cfg.Outbox.BatchSize)
}

/*
TestLoad_EnvFile verifies that a .env file feeds the parser.
*/
func TestLoad_EnvFile(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	require.NoError(t, os.Unsetenv("DATABASE_URL"))

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("DATABASE_URL=sqlite:///tmp/x.db\n"), 0o600))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite:///tmp/x.db", cfg.DatabaseURL)
}

/*
TestValidate rejects unknown enum values.
*/
func TestValidate(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			DeliveryMode:      config.DeliveryInline,
			LanguageMaxLength: 100,
			Queue:             config.QueueConfig{Backend: config.BackendAMQP, Name: "q"},
			Outbox:            config.OutboxConfig{BatchSize: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*config.Config)
		isValid bool
	}{
		{"valid", func(*config.Config) {}, true},
		{"unknown_backend", func(c *config.Config) { c.Queue.Backend = "kafka" }, false},
		{"redis_without_url", func(c *config.Config) { c.Queue.Backend = config.BackendRedis }, false},
		{"redis_with_url", func(c *config.Config) {
			c.Queue.Backend = config.BackendRedis
			c.RedisURL = "redis://localhost:6379/0"
		}, true},
		{"unknown_mode", func(c *config.Config) { c.DeliveryMode = "later" }, false},
		{"blank_queue", func(c *config.Config) { c.Queue.Name = " " }, false},
		{"zero_language_bound", func(c *config.Config) { c.LanguageMaxLength = 0 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)

			if tt.isValid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestAllowedOrigins(t *testing.T) {
	cfg := &config.Config{ExtraOrigins: " https://a.example , ,https://b.example"}
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins())
}
