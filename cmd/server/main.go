// cmd/server/main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jason-s-yu/shithead/internal/auth"
	"github.com/jason-s-yu/shithead/internal/cache"
	"github.com/jason-s-yu/shithead/internal/config"
	"github.com/jason-s-yu/shithead/internal/database"
	"github.com/jason-s-yu/shithead/internal/handlers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := cfg.NewLogger()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.PrivateKeyPath != "" && cfg.PublicKeyPath != "" {
		err = auth.InitFromPath(cfg, cfg.PrivateKeyPath, cfg.PublicKeyPath)
	} else {
		err = auth.Init(cfg)
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to initialize auth keys")
	}

	// Postgres and Redis are optional; without them games run in memory and go unrecorded.
	if err := database.ConnectDB(ctx, cfg); err != nil {
		logger.WithError(err).Warn("database unavailable, accounts and results are disabled")
	} else {
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			logger.WithError(err).Fatal("schema migration failed")
		}
	}
	if err := cache.ConnectRedis(cfg); err != nil {
		logger.WithError(err).Warn("redis unavailable, game actions will not be published")
	}

	gs := handlers.NewGameServer(cfg, logger)
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           handlers.NewRouter(cfg, logger, gs),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Infof("Running on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("server exited")
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Warn("graceful shutdown failed")
	}
	logger.Info("server shutdown complete")
}
