package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"APP_ENV", "LOG_LEVEL", "HTTP_PORT", "MODEL_BACKEND", "MODEL_PATH",
		"BATCH_MAX_ROWS", "MAX_UPLOAD_BYTES", "DB_HOST", "VALKEY_INIT_ADDRESS", "CACHE_TTL_SECONDS",
		"KAFKA_BROKER", "KAFKA_TOPIC_ANALYSES", "VALKEY_TLS", "DB_PORT"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, 8080, cfg.HTTPPort)
	assert.Equal(t, "ort", cfg.ModelBackend)
	assert.Equal(t, 100, cfg.BatchMaxRows)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, 24*time.Hour, cfg.CacheTTL)
	assert.Equal(t, "sentiment-analyses", cfg.KafkaTopicAnalyses)
	assert.False(t, cfg.Postgres().Enabled())
	assert.False(t, cfg.Valkey().Enabled())
	assert.False(t, cfg.Kafka().Enabled())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MODEL_BACKEND", "vader")
	t.Setenv("BATCH_MAX_ROWS", "25")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("DB_PORT", "6543")
	t.Setenv("VALKEY_INIT_ADDRESS", "cache:6379")
	t.Setenv("VALKEY_TLS", "true")
	t.Setenv("CACHE_TTL_SECONDS", "60")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "vader", cfg.Runtime().Backend)
	assert.Equal(t, 25, cfg.BatchMaxRows)
	assert.Equal(t, "6543", cfg.Postgres().Port)
	assert.True(t, cfg.Postgres().Enabled())
	assert.True(t, cfg.Valkey().TLS)
	assert.Equal(t, time.Minute, cfg.Valkey().TTL)
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name, key, value string
	}{
		{"unknown backend", "MODEL_BACKEND", "tensorflow"},
		{"port out of range", "HTTP_PORT", "70000"},
		{"non numeric rows", "BATCH_MAX_ROWS", "many"},
		{"zero rows", "BATCH_MAX_ROWS", "0"},
		{"bad log level", "LOG_LEVEL", "verbose"},
		{"bad tls flag", "VALKEY_TLS", "maybe"},
		{"cache address without port", "VALKEY_INIT_ADDRESS", "cache"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			_, err := Load()

			assert.Error(t, err)
		})
	}
}
