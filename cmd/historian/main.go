// cmd/historian drains game action records from Redis into Postgres.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/jason-s-yu/shithead/internal/cache"
	"github.com/jason-s-yu/shithead/internal/config"
	"github.com/jason-s-yu/shithead/internal/database"
	"github.com/jason-s-yu/shithead/internal/historian"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.ConnectDB(ctx, cfg); err != nil {
		logger.WithError(err).Fatal("database connection failed")
	}
	defer database.Close()
	if err := database.Migrate(ctx); err != nil {
		logger.WithError(err).Fatal("schema migration failed")
	}

	rdb := cache.NewClient(cfg)
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.WithError(err).Fatal("redis connection failed")
	}

	svc := historian.NewService(cfg, rdb, historian.PostgresStore{}, logger)
	svc.Run(ctx)
	logger.Info("historian shutdown complete")
}
