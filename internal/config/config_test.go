package config

import (
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{
		"PORT", "APP_ENV", "LOG_LEVEL", "ALLOWED_ORIGINS", "REDIS_ADDR", "REDIS_DB",
		"HISTORIAN_QUEUE_NAME", "HISTORIAN_BATCH_SIZE", "HISTORIAN_FLUSH_MS",
		"GAME_INACTIVITY_TIMEOUT_SEC", "TOKEN_EXPIRE_TIME", "TURN_TIMER_SEC", "BOT_DELAY_MS",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, logrus.DebugLevel, cfg.LogLevel)
	assert.Equal(t, []string{"*"}, cfg.AllowedOrigins)
	assert.Equal(t, "shithead_actions", cfg.HistorianQueue)
	assert.Equal(t, 20, cfg.HistorianBatchSize)
	assert.Equal(t, 500*time.Millisecond, cfg.HistorianFlushDelay)
	assert.Equal(t, 10*time.Minute, cfg.GameInactivity)
	assert.Zero(t, cfg.TokenExpiry)
	assert.Equal(t, 30*time.Second, cfg.TurnTimer)
	assert.Equal(t, 800*time.Millisecond, cfg.BotDelay)
	assert.False(t, cfg.IsProduction())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("TOKEN_EXPIRE_TIME", "72h")
	t.Setenv("TURN_TIMER_SEC", "0")
	t.Setenv("POSTGRES_USER", "u")
	t.Setenv("POSTGRES_PASSWORD", "p")
	t.Setenv("PG_HOST", "db")
	t.Setenv("PG_PORT", "5433")
	t.Setenv("PG_DATABASE", "cards")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, logrus.WarnLevel, cfg.LogLevel)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 72*time.Hour, cfg.TokenExpiry)
	assert.Zero(t, cfg.TurnTimer)
	assert.Equal(t, "postgres://u:p@db:5433/cards", cfg.PostgresURL())
	_, isJSON := cfg.NewLogger().Formatter.(*logrus.JSONFormatter)
	assert.True(t, isJSON)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Setenv("LOG_LEVEL", "loud")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("TOKEN_EXPIRE_TIME", "soon")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("TOKEN_EXPIRE_TIME", "never")
	t.Setenv("HISTORIAN_BATCH_SIZE", "-1")
	_, err = Load()
	assert.Error(t, err)
}
