// Package main provides the main entry point for the PantrySage API server
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/pantrysage/v1/internal/application/planner"
	"github.com/pantrysage/v1/internal/application/session"
	"github.com/pantrysage/v1/internal/infrastructure/ai"
	"github.com/pantrysage/v1/internal/infrastructure/config"
	"github.com/pantrysage/v1/internal/infrastructure/http/server"
	"github.com/pantrysage/v1/internal/infrastructure/persistence/localstore"
	redisstore "github.com/pantrysage/v1/internal/infrastructure/persistence/redis"
	"github.com/pantrysage/v1/internal/ports/outbound"
	"github.com/pantrysage/v1/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Format:      cfg.App.LogFormat,
		Development: cfg.IsDevelopment(),
	})
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	store, closeStore, err := buildStore(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to initialize collection store", zap.Error(err))
	}
	defer closeStore()

	sessions := session.NewManager(store, zapLogger)
	aiClient := ai.NewClient(cfg.AI, zapLogger)
	svc := planner.NewService(sessions, aiClient, cfg.Billing, zapLogger)

	srv := server.New(cfg, zapLogger, svc)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	case <-ctx.Done():
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Graceful shutdown failed", zap.Error(err))
	}
	zapLogger.Info("Server stopped")
}

// buildStore selects the collection store backend from configuration.
func buildStore(cfg *config.Config, zapLogger *zap.Logger) (outbound.CollectionStore, func(), error) {
	switch cfg.Storage.Driver {
	case "redis":
		store, err := redisstore.New(cfg, zapLogger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() { store.Close() }, nil
	default:
		store, err := localstore.New(cfg.Storage.DataDir, zapLogger)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
