package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/spacesedan/sentimeter/internal/clients"
	"github.com/spacesedan/sentimeter/internal/db"
	"github.com/spacesedan/sentimeter/internal/sentiment"
)

type Config struct {
	AppEnv   string `validate:"required"`
	LogLevel string `validate:"oneof=debug info warn error"`
	HTTPPort int    `validate:"min=1,max=65535"`

	ModelBackend    string `validate:"oneof=ort xla vader"`
	ModelPath       string `validate:"required_unless=ModelBackend vader"`
	ModelName       string
	OnnxLibraryPath string

	BatchMaxRows   int   `validate:"min=1,max=10000"`
	MaxUploadBytes int64 `validate:"min=1"`

	// An empty DBHost disables storage, statistics and history.
	DBHost     string
	DBPassword string
	DBPort     int    `validate:"min=1,max=65535"`
	DBUser     string `validate:"required_with=DBHost"`
	DBName     string `validate:"required_with=DBHost"`

	ValkeyAddress  string        `validate:"omitempty,hostname_port"`
	ValkeyPassword string        `validate:"-"`
	ValkeyTLS      bool          `validate:"-"`
	CacheTTL       time.Duration `validate:"min=1s"`

	KafkaBroker        string
	KafkaTopicAnalyses string `validate:"required"`
}

// Load reads the configuration from the environment. Call LoadEnv first to pick up env files.
func Load() (*Config, error) {
	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "dev"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		ModelBackend:       getEnv("MODEL_BACKEND", sentiment.BackendORT),
		ModelPath:          getEnv("MODEL_PATH", "./models/sentiment"),
		ModelName:          getEnv("MODEL_NAME", ""),
		OnnxLibraryPath:    getEnv("ONNX_LIBRARY_PATH", ""),
		DBHost:             getEnv("DB_HOST", ""),
		DBUser:             getEnv("DB_USER", "postgres"),
		DBPassword:         getEnv("DB_PASSWORD", ""),
		DBName:             getEnv("DB_NAME", "sentiment"),
		ValkeyAddress:      getEnv("VALKEY_INIT_ADDRESS", ""),
		ValkeyPassword:     getEnv("VALKEY_PASSWORD", ""),
		KafkaBroker:        getEnv("KAFKA_BROKER", ""),
		KafkaTopicAnalyses: getEnv("KAFKA_TOPIC_ANALYSES", clients.KAFKA_TOPIC_ANALYSES),
	}

	var err error
	if cfg.HTTPPort, err = intEnv("HTTP_PORT", 8080); err != nil {
		return nil, err
	}
	if cfg.BatchMaxRows, err = intEnv("BATCH_MAX_ROWS", 100); err != nil {
		return nil, err
	}
	if cfg.DBPort, err = intEnv("DB_PORT", 5432); err != nil {
		return nil, err
	}
	maxUpload, err := intEnv("MAX_UPLOAD_BYTES", 10<<20)
	if err != nil {
		return nil, err
	}
	cfg.MaxUploadBytes = int64(maxUpload)

	ttl, err := intEnv("CACHE_TTL_SECONDS", 86400)
	if err != nil {
		return nil, err
	}
	cfg.CacheTTL = time.Duration(ttl) * time.Second

	if cfg.ValkeyTLS, err = strconv.ParseBool(getEnv("VALKEY_TLS", "false")); err != nil {
		return nil, fmt.Errorf("invalid VALKEY_TLS: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func intEnv(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return value, nil
}

func (c *Config) Runtime() sentiment.RuntimeConfig {
	return sentiment.RuntimeConfig{
		Backend:         c.ModelBackend,
		ModelPath:       c.ModelPath,
		ModelName:       c.ModelName,
		OnnxLibraryPath: c.OnnxLibraryPath,
	}
}

func (c *Config) Postgres() db.PostgresConfig {
	return db.PostgresConfig{
		Host:     c.DBHost,
		Port:     strconv.Itoa(c.DBPort),
		User:     c.DBUser,
		Password: c.DBPassword,
		Name:     c.DBName,
	}
}

func (c *Config) Valkey() clients.ValkeyConfig {
	return clients.ValkeyConfig{
		Address:  c.ValkeyAddress,
		Password: c.ValkeyPassword,
		TLS:      c.ValkeyTLS,
		TTL:      c.CacheTTL,
	}
}

func (c *Config) Kafka() clients.KafkaConfig {
	return clients.KafkaConfig{Broker: c.KafkaBroker, Topic: c.KafkaTopicAnalyses}
}
