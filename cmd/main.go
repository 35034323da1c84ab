// cmd/main.go is the application entry point.
// It wires together all layers and starts the HTTP server.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Shivanand-hulikatti/activity-board/internal/board"
	"github.com/Shivanand-hulikatti/activity-board/internal/client"
	"github.com/Shivanand-hulikatti/activity-board/internal/config"
	"github.com/Shivanand-hulikatti/activity-board/internal/database"
	"github.com/Shivanand-hulikatti/activity-board/internal/handler"
	"github.com/Shivanand-hulikatti/activity-board/internal/logging"
	"github.com/Shivanand-hulikatti/activity-board/internal/metrics"
	"github.com/Shivanand-hulikatti/activity-board/internal/model"
	"github.com/Shivanand-hulikatti/activity-board/internal/repository"
	"github.com/Shivanand-hulikatti/activity-board/internal/service"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "c", "", "path to YAML config file")
	flag.StringVar(&configPath, "config", "", "path to YAML config file")
	flag.Parse()

	if err := run(configPath); err != nil {
		fmt.Fprintf(os.Stderr, "activity-board: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, logCloser, err := logging.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser.Close()
	slog.SetDefault(logger)

	// ── 1. Open storage ───────────────────────────────────────────────────
	repo, err := openRepository(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer repo.Close()

	seed, err := loadSeed(cfg.Storage.SeedFile)
	if err != nil {
		return err
	}
	if err := repo.Seed(ctx, seed); err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	logger.Info("storage ready", "driver", cfg.Storage.Driver)

	// ── 2. Wire up layers ────────────────────────────────────────────────
	reg, err := metrics.NewRegistry()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	activitySvc := service.NewActivityService(repo)
	activityHandler := handler.NewActivityHandler(activitySvc, reg, logger)

	api := client.New(cfg.APIBaseURL(),
		client.WithTimeout(cfg.API.Timeout),
		client.WithLogger(logger),
	)
	sessions := board.NewSessions(func() *board.Controller {
		return board.NewController(api,
			board.WithLogger(logger),
			board.WithRecorder(reg),
			board.WithMessageTimeout(cfg.Board.MessageTimeout),
			board.WithTitle(cfg.Board.Title),
		)
	}, logger)
	defer sessions.Close()

	board.NewCleaner(sessions, cfg.Board.CleanupInterval, cfg.Board.SessionIdle, logger).Start(ctx)

	// ── 3. Build the router ───────────────────────────────────────────────
	router := handler.NewRouter(handler.Routes{
		Activities: activityHandler,
		Board:      handler.NewBoardHandler(sessions, logger),
		Metrics:    reg.Handler(),
		Logger:     logger,
	})

	// ── 4. Start server with graceful shutdown ────────────────────────────
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening", "addr", srv.Addr, "api", cfg.APIBaseURL())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	logger.Info("server stopped")
	return nil
}

func openRepository(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.ActivityRepository, error) {
	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		pool, err := database.NewPool(ctx, database.Config{
			DSN:      cfg.Storage.Postgres.DSN,
			MaxConns: cfg.Storage.Postgres.MaxConns,
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		if err := database.Migrate(ctx, pool, logger); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		logger.Info("connected to PostgreSQL")
		return repository.NewPostgresRepository(pool), nil

	case config.DriverRedis:
		repo, err := repository.NewRedisRepository(ctx, &redis.Options{
			Addr:     cfg.Storage.Redis.Address,
			Password: cfg.Storage.Redis.Password,
			DB:       cfg.Storage.Redis.DB,
		})
		if err != nil {
			return nil, err
		}
		logger.Info("connected to Redis", "addr", cfg.Storage.Redis.Address)
		return repo, nil

	default:
		return repository.NewMemoryRepository(), nil
	}
}

func loadSeed(path string) ([]model.Activity, error) {
	if path == "" {
		return repository.DefaultSeed()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed file: %w", err)
	}
	return repository.ParseSeed(data)
}
