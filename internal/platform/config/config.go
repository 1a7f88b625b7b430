// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
honoured when present so development setups do not need exported variables.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, broker) via constructors.
  - Zero Hidden State: Broker credentials and queue names are never globals.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Queue backends understood by the publisher factory.
const (
	BackendAMQP  = "amqp"
	BackendSQS   = "sqs"
	BackendRedis = "redis"
)

// Delivery modes for the send_code path.
const (
	// DeliveryInline saves the submission and then publishes inside the request.
	DeliveryInline = "inline"
	// DeliveryOutbox stages the message next to the row and lets the relay publish it.
	DeliveryOutbox = "outbox"
)

// # Configuration Schema

// Config holds all runtime configuration for the codesubmit server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational store. Accepts postgres://, sqlite:// or memory://.
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrateOnStart applies the embedded migrations before serving.
	MigrateOnStart bool `env:"MIGRATE_ON_START" envDefault:"true"`

	// Form rules
	LanguageMaxLength int    `env:"LANGUAGE_MAX_LENGTH" envDefault:"100"`
	LanguagesDir      string `env:"LANGUAGES_DIR"`
	MaxFormBytes      int64  `env:"MAX_FORM_BYTES"      envDefault:"5242880"`

	// DefaultLocale is used for acknowledgements when Accept-Language does not match.
	DefaultLocale string `env:"DEFAULT_LOCALE" envDefault:"ko"`

	// DeliveryMode selects inline publishing or the transactional outbox.
	DeliveryMode string `env:"DELIVERY_MODE" envDefault:"inline"`

	Queue  QueueConfig  `envPrefix:"QUEUE_"`
	AMQP   AMQPConfig   `envPrefix:"AMQP_"`
	SQS    SQSConfig    `envPrefix:"SQS_"`
	Outbox OutboxConfig `envPrefix:"OUTBOX_"`

	// Key-Value store used by the redis queue backend.
	RedisURL string `env:"REDIS_URL"`

	// Cross-Origin Resource Sharing
	ExtraOrigins string `env:"EXTRA_ORIGINS"`
}

// QueueConfig describes the destination queue independent of the broker.
type QueueConfig struct {
	Backend        string        `env:"BACKEND"         envDefault:"amqp"`
	Name           string        `env:"NAME"            envDefault:"submissions"`
	Durable        bool          `env:"DURABLE"         envDefault:"false"`
	PublishTimeout time.Duration `env:"PUBLISH_TIMEOUT" envDefault:"10s"`
}

// AMQPConfig holds the RabbitMQ connection parameters.
type AMQPConfig struct {
	Host     string `env:"HOST"     envDefault:"localhost"`
	Port     int    `env:"PORT"     envDefault:"5672"`
	User     string `env:"USER"     envDefault:"guest"`
	Password string `env:"PASSWORD" envDefault:"guest"`
	Vhost    string `env:"VHOST"    envDefault:"/"`
}

// SQSConfig holds the AWS SQS client parameters.
type SQSConfig struct {
	Region   string `env:"REGION"   envDefault:"eu-central-1"`
	Endpoint string `env:"ENDPOINT"`
}

// OutboxConfig tunes the relay worker.
type OutboxConfig struct {
	PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"2s"`
	BatchSize    int           `env:"BATCH_SIZE"    envDefault:"50"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
//
// envFiles are read with godotenv before parsing; variables already present in
// the process environment win. A missing file is not an error. With no
// arguments the conventional ".env" is tried.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", file, err)
		}
	}

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate rejects values the environment parser cannot catch on its own.
func (c *Config) Validate() error {
	switch c.Queue.Backend {
	case BackendAMQP, BackendSQS:
	case BackendRedis:
		if c.RedisURL == "" {
			return errors.New("config: REDIS_URL is required for the redis queue backend")
		}
	default:
		return fmt.Errorf("config: unknown QUEUE_BACKEND %q", c.Queue.Backend)
	}

	switch c.DeliveryMode {
	case DeliveryInline, DeliveryOutbox:
	default:
		return fmt.Errorf("config: unknown DELIVERY_MODE %q", c.DeliveryMode)
	}

	if strings.TrimSpace(c.Queue.Name) == "" {
		return errors.New("config: QUEUE_NAME must not be empty")
	}
	if c.LanguageMaxLength <= 0 {
		return fmt.Errorf("config: LANGUAGE_MAX_LENGTH must be positive, got %d", c.LanguageMaxLength)
	}
	if c.Outbox.BatchSize <= 0 {
		return fmt.Errorf("config: OUTBOX_BATCH_SIZE must be positive, got %d", c.Outbox.BatchSize)
	}

	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// AllowedOrigins returns the extra CORS origins as a trimmed slice.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, origin := range strings.Split(c.ExtraOrigins, ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
