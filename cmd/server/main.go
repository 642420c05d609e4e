package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/quizforge/server/internal/bank"
	"github.com/quizforge/server/internal/config"
	"github.com/quizforge/server/internal/ingest"
	"github.com/quizforge/server/internal/logging"
	"github.com/quizforge/server/internal/question"
	"github.com/quizforge/server/internal/web"
)

func main() {
	// Load .env if present; real environment wins in production.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("configuration error", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("configuration loaded", "config", cfg.String())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, cleanup, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("store initialization failed", "driver", cfg.Store.Driver, "error", err)
		os.Exit(1)
	}
	defer cleanup()

	service := ingest.NewService(store, question.TextEquality{})
	server := web.NewServer(service, cfg)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Server.Addr(), "store", cfg.Store.Driver)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		slog.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	slog.Info("server stopped")
}

// openStore builds the collection store selected by configuration and
// returns a cleanup func to release its resources.
func openStore(ctx context.Context, cfg *config.Config) (bank.Store, func(), error) {
	switch cfg.Store.Driver {
	case "postgres":
		poolCfg, err := pgxpool.ParseConfig(cfg.Store.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		poolCfg.MaxConns = int32(cfg.Store.MaxConns)
		poolCfg.MinConns = int32(cfg.Store.MinConns)
		poolCfg.MaxConnLifetime = cfg.Store.MaxConnLifetime
		poolCfg.MaxConnIdleTime = cfg.Store.MaxConnIdleTime

		pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
		if err != nil {
			return nil, nil, err
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}

		store := bank.NewPGStore(pool)
		if err := store.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return store, pool.Close, nil

	default:
		store, err := bank.NewFileStore(cfg.Store.DataDir, cfg.Store.BackupDir)
		if err != nil {
			return nil, nil, err
		}
		return store, func() {}, nil
	}
}
