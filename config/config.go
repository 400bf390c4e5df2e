package config

import (
	"fmt"
	"time"

	"taxihub/pkg/configparser"
)

// Config contains all configuration variables of the application
type (
	Config struct {
		Server   ServerConfig
		Database DatabaseConfig
		RabbitMQ RabbitMQConfig
		Hub      HubConfig
		Billing  BillingConfig
		Log      LogConfig
	}

	ServerConfig struct {
		Port string `env:"SERVER_PORT" default:"3000"`
	}

	DatabaseConfig struct {
		Enabled bool `env:"DATABASE_ENABLED" default:"false"`

		Host     string `env:"DATABASE_HOST" default:"localhost"`
		Port     string `env:"DATABASE_PORT" default:"5432"`
		User     string `env:"DATABASE_USER" default:"taxihub_user"`
		Password string `env:"DATABASE_PASSWORD" default:"taxihub_pass"`
		Database string `env:"DATABASE_DATABASE" default:"taxihub_db"`

		MaxConns        int32         `env:"DATABASE_MAXCONNS" default:"20"`
		MinConns        int32         `env:"DATABASE_MINCONNS" default:"2"`
		MaxConnLifetime time.Duration `env:"DATABASE_MAXCONNLIFETIME" default:"30m"`
		MaxConnIdleTime time.Duration `env:"DATABASE_MAXCONNIDLETIME" default:"5m"`
	}

	RabbitMQConfig struct {
		Enabled bool `env:"RABBITMQ_ENABLED" default:"false"`

		Host     string `env:"RABBITMQ_HOST" default:"localhost"`
		Port     string `env:"RABBITMQ_PORT" default:"5672"`
		User     string `env:"RABBITMQ_USER" default:"guest"`
		Password string `env:"RABBITMQ_PASSWORD" default:"guest"`
	}

	// HubConfig bounds the per-booking notification queues.
	HubConfig struct {
		QueueSize  int           `env:"HUB_QUEUE_SIZE" default:"64"`
		MaxRetries int           `env:"HUB_MAX_RETRIES" default:"3"`
		RetryDelay time.Duration `env:"HUB_RETRY_DELAY" default:"100ms"`
	}

	BillingConfig struct {
		RatePerMin float64 `env:"BILLING_RATE_PER_MIN" default:"85.0"`
	}

	LogConfig struct {
		Level string `env:"LOG_LEVEL" default:"info"`
	}
)

func (c DatabaseConfig) GetDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// PoolSettings exposes the pool tuning knobs to the postgres constructor.
func (c DatabaseConfig) PoolSettings() (int32, int32, time.Duration, time.Duration) {
	return c.MaxConns, c.MinConns, c.MaxConnLifetime, c.MaxConnIdleTime
}

func (c RabbitMQConfig) GetDSN() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%s/",
		c.User,
		c.Password,
		c.Host,
		c.Port,
	)
}

func NewConfig(filepath string) (*Config, error) {
	cfg := &Config{}

	// Loading environment variables and parsing into the config struct.
	if err := configparser.LoadAndParseYaml(filepath, cfg); err != nil {
		return nil, fmt.Errorf("failed to load and parse config: %w", err)
	}

	return cfg, nil
}
