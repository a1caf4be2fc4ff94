package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type Config struct {
	Postgres PostgresConfig `mapstructure:"postgres"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Log      LogConfig      `mapstructure:"log"`
	Seed     SeedConfig     `mapstructure:"seed"`
	QR       QRConfig       `mapstructure:"qr"`
}

type PostgresConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	Name     string `mapstructure:"name"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	SSLMode  string `mapstructure:"sslmode"`
}

// DSN renders the lib/pq connection string.
func (c PostgresConfig) DSN() string {
	return "host=" + c.Host + " port=" + c.Port + " user=" + c.User +
		" password=" + c.Password + " dbname=" + c.Name + " sslmode=" + c.SSLMode
}

type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

// Enabled reports whether a Redis host was configured.
func (c RedisConfig) Enabled() bool { return c.Host != "" }

func (c RedisConfig) Addr() string { return c.Host + ":" + c.Port }

type KafkaConfig struct {
	Broker string `mapstructure:"broker"`
	Topic  string `mapstructure:"topic"`
}

func (c KafkaConfig) Enabled() bool { return c.Broker != "" }

type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// SeedConfig selects where the catalog is loaded from at start-up.
// Source is "file", "postgres" or "none".
type SeedConfig struct {
	Source string `mapstructure:"source"`
	File   string `mapstructure:"file"`
}

type QRConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Size    int    `mapstructure:"size"`
}

var envBindings = map[string]string{
	"postgres.host":     "DB_HOST",
	"postgres.port":     "DB_PORT",
	"postgres.name":     "DB_NAME",
	"postgres.user":     "DB_USER",
	"postgres.password": "DB_PASSWORD",
	"postgres.sslmode":  "DB_SSLMODE",
	"redis.host":        "REDIS_HOST",
	"redis.port":        "REDIS_PORT",
	"kafka.broker":      "KAFKA_BROKER",
	"kafka.topic":       "KAFKA_TOPIC",
	"log.level":         "LOG_LEVEL",
	"log.development":   "LOG_DEV",
	"seed.source":       "SEED_SOURCE",
	"seed.file":         "SEED_FILE",
	"qr.base_url":       "QR_BASE_URL",
	"qr.size":           "QR_SIZE",
}

func SetDefaults(v *viper.Viper) {
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("redis.port", "6379")
	v.SetDefault("kafka.topic", "catalog-events")
	v.SetDefault("log.level", "info")
	v.SetDefault("seed.source", "file")
	v.SetDefault("seed.file", "catalog.yaml")
	v.SetDefault("qr.base_url", "http://localhost")
	v.SetDefault("qr.size", 256)
}

// Load reads the optional config file already set on v, then lets the
// environment variables override it.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return nil, err
		}
	}

	if v.ConfigFileUsed() != "" {
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	switch cfg.Seed.Source {
	case "file", "postgres", "none":
	default:
		return nil, fmt.Errorf("unknown seed source %q", cfg.Seed.Source)
	}
	return &cfg, nil
}

func OpenPostgres(cfg PostgresConfig) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(5)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)
	return db, nil
}

func MustInitRedis(cfg RedisConfig) *redis.Client {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr()})

	if err := client.Ping(context.Background()).Err(); err != nil {
		zap.L().Fatal("failed to connect to Redis", zap.String("addr", cfg.Addr()), zap.Error(err))
	}
	return client
}

// NewKafkaWriter returns an asynchronous writer so publishing never blocks
// catalog operations. Delivery failures surface through logger.
func NewKafkaWriter(cfg KafkaConfig, logger *zap.Logger) *kafka.Writer {
	return &kafka.Writer{
		Addr:                   kafka.TCP(cfg.Broker),
		Topic:                  cfg.Topic,
		Balancer:               &kafka.Hash{},
		Async:                  true,
		AllowAutoTopicCreation: true,
		Completion:             reportDelivery(logger),
	}
}

func reportDelivery(logger *zap.Logger) func([]kafka.Message, error) {
	if logger == nil {
		logger = zap.L()
	}
	return func(msgs []kafka.Message, err error) {
		if err == nil {
			return
		}
		keys := make([]string, len(msgs))
		for i, msg := range msgs {
			keys[i] = string(msg.Key)
		}
		logger.Warn("failed to deliver catalog events",
			zap.Int("count", len(msgs)),
			zap.Strings("keys", keys),
			zap.Error(err),
		)
	}
}
