package config

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server      ServerConfig
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	Database    DatabaseConfig
	MinIO       MinIOConfig
	Redis       RedisConfig
	Cache       CacheConfig
	RabbitMQ    RabbitMQConfig
	OrphanQueue OrphanQueueConfig
	Reconciler  ReconcilerConfig
}

type ServerConfig struct {
	Port              int           `envconfig:"API_PORT" default:"8081"`
	ReadHeaderTimeout time.Duration `envconfig:"API_READ_HEADER_TIMEOUT" default:"10s"`
	ShutdownTimeout   time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
	// MaxBodyBytes caps every request body except the streaming upload.
	MaxBodyBytes int64 `envconfig:"API_MAX_BODY_BYTES" default:"104857600"`
	// StreamMaxBodyBytes caps the streaming upload; 0 disables the cap.
	StreamMaxBodyBytes int64 `envconfig:"API_STREAM_MAX_BODY_BYTES" default:"0"`
}

type DatabaseConfig struct {
	URL         string `envconfig:"DATABASE_URL" default:"postgres://dbuser:p@localhost:1111/data"`
	MaxConns    int32  `envconfig:"CATALOG_MAX_CONNS" default:"100"`
	AutoMigrate bool   `envconfig:"CATALOG_AUTO_MIGRATE" default:"true"`
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"minio:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"bucket"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
	Region    string `envconfig:"MINIO_REGION" default:"us-east-1"`
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type CacheConfig struct {
	Enabled bool          `envconfig:"CACHE_ENABLED" default:"false"`
	TTL     time.Duration `envconfig:"CACHE_TTL" default:"5m"`
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"guest"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"guest"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

// OrphanQueueConfig controls whether the gateway publishes orphan notices.
type OrphanQueueConfig struct {
	Enabled bool `envconfig:"ORPHAN_QUEUE_ENABLED" default:"false"`
}

type ReconcilerConfig struct {
	MaxRetries      int           `envconfig:"RECONCILER_MAX_RETRIES" default:"5"`
	ShutdownTimeout time.Duration `envconfig:"RECONCILER_SHUTDOWN_TIMEOUT" default:"30s"`
	MetricsPort     int           `envconfig:"RECONCILER_METRICS_PORT" default:"9091"`
}

// SlogLevel maps LogLevel to a slog.Level. Unknown values fall back to info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
