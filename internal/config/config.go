// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
)

// Config holds every environment-driven setting of the server and the historian.
type Config struct {
	Port           string
	AppEnv         string
	LogLevel       logrus.Level
	AllowedOrigins []string

	PostgresUser     string
	PostgresPassword string
	PGHost           string
	PGPort           string
	PGDatabase       string

	RedisAddr string
	RedisDB   int

	HistorianQueue      string
	HistorianBatchSize  int
	HistorianFlushDelay time.Duration
	GameInactivity      time.Duration

	// TokenExpiry of 0 means tokens never expire.
	TokenExpiry time.Duration
	// Raw ed25519 key files; when unset the server signs with a per-process key.
	PrivateKeyPath string
	PublicKeyPath  string

	TurnTimer time.Duration
	BotDelay  time.Duration
}

// Load reads the configuration from the environment. A .env file, if present, has already been
// loaded by godotenv/autoload.
func Load() (*Config, error) {
	level, err := logrus.ParseLevel(getEnv("LOG_LEVEL", "debug"))
	if err != nil {
		return nil, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	expiry, err := parseTokenExpiry(os.Getenv("TOKEN_EXPIRE_TIME"))
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		AppEnv:              getEnv("APP_ENV", "development"),
		LogLevel:            level,
		AllowedOrigins:      splitList(getEnv("ALLOWED_ORIGINS", "*")),
		PostgresUser:        os.Getenv("POSTGRES_USER"),
		PostgresPassword:    os.Getenv("POSTGRES_PASSWORD"),
		PGHost:              getEnv("PG_HOST", "localhost"),
		PGPort:              getEnv("PG_PORT", "5432"),
		PGDatabase:          getEnv("PG_DATABASE", "shithead"),
		RedisAddr:           getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:             getEnvInt("REDIS_DB", 0),
		HistorianQueue:      getEnv("HISTORIAN_QUEUE_NAME", "shithead_actions"),
		HistorianBatchSize:  getEnvInt("HISTORIAN_BATCH_SIZE", 20),
		HistorianFlushDelay: time.Duration(getEnvInt("HISTORIAN_FLUSH_MS", 500)) * time.Millisecond,
		GameInactivity:      time.Duration(getEnvInt("GAME_INACTIVITY_TIMEOUT_SEC", 600)) * time.Second,
		TokenExpiry:         expiry,
		PrivateKeyPath:      os.Getenv("ED25519_PRIVATE_KEY_PATH"),
		PublicKeyPath:       os.Getenv("ED25519_PUBLIC_KEY_PATH"),
		TurnTimer:           time.Duration(getEnvInt("TURN_TIMER_SEC", 30)) * time.Second,
		BotDelay:            time.Duration(getEnvInt("BOT_DELAY_MS", 800)) * time.Millisecond,
	}
	if cfg.HistorianBatchSize <= 0 {
		return nil, fmt.Errorf("HISTORIAN_BATCH_SIZE must be positive, got %d", cfg.HistorianBatchSize)
	}
	return cfg, nil
}

// PostgresURL builds the pgx connection string.
func (c *Config) PostgresURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s",
		c.PostgresUser, c.PostgresPassword, c.PGHost, c.PGPort, c.PGDatabase)
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.AppEnv, "production")
}

// NewLogger returns a logrus logger at the configured level. Production logs are JSON.
func (c *Config) NewLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(c.LogLevel)
	if c.IsProduction() {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return logger
}

func parseTokenExpiry(raw string) (time.Duration, error) {
	if raw == "" || raw == "never" || raw == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("TOKEN_EXPIRE_TIME: %w", err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

// getEnvInt parses an environment variable as an integer, else returns the default.
func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
