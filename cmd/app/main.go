package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cargo/cmd"
	"cargo/internal/adapters/out/postgres"
	"cargo/internal/adapters/out/postgres/taskqueue"
	"cargo/internal/jobs"

	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gorm_postgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, logger)
	stop()
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// run owns every resource of the process. It returns instead of exiting so that the
// deferred cleanup of brokers, listener and jobs always runs.
func run(ctx context.Context, logger *slog.Logger) error {
	config, err := cmd.LoadConfig(".env")
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	db, err := openDatabase(ctx, config)
	if err != nil {
		return fmt.Errorf("database unavailable: %w", err)
	}

	app, err := cmd.NewCompositionRoot(config, db, logger)
	if err != nil {
		return fmt.Errorf("failed to build application: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("Closing brokers failed", "error", err)
		}
	}()

	// Without LISTEN the dispatcher runs on its tick alone.
	var wakes jobs.WakeSource
	if listener, err := taskqueue.NewListener(config.DSN(), logger); err != nil {
		logger.Warn("Task queue notifications unavailable, dispatching on schedule only", "error", err)
	} else {
		defer func() { _ = listener.Close() }()
		wakes = listener
	}

	jobManager := app.CreateJobManager(wakes)
	if err = jobManager.StartAll(ctx); err != nil {
		return fmt.Errorf("failed to start jobs: %w", err)
	}
	defer jobManager.StopAll()

	server, err := app.CreateHTTPServer(ctx)
	if err != nil {
		return fmt.Errorf("failed to build HTTP server: %w", err)
	}
	return startWebServer(ctx, server.Register, config.HTTPPort, logger)
}

func openDatabase(ctx context.Context, config cmd.Config) (*gorm.DB, error) {
	db, err := gorm.Open(gorm_postgres.Open(config.DSN()), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}
	if err = postgres.Migrate(ctx, db); err != nil {
		return nil, fmt.Errorf("migrate: %w", err)
	}
	if config.SeedReferenceData {
		if err = postgres.SeedReferenceData(ctx, db); err != nil {
			return nil, fmt.Errorf("seed reference data: %w", err)
		}
	}
	return db, nil
}

// startWebServer serves until ctx is cancelled, then shuts down gracefully. It returns
// early with the listen error when the server cannot start.
func startWebServer(ctx context.Context, register func(*echo.Echo), port string, logger *slog.Logger) error {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Logger.SetLevel(log.INFO)
	register(e)

	failed := make(chan error, 1)
	go func() {
		if err := e.Start(fmt.Sprintf("0.0.0.0:%s", port)); err != nil && !errors.Is(err, http.ErrServerClosed) {
			failed <- err
		}
	}()

	select {
	case err := <-failed:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}
	logger.Info("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP shutdown failed", "error", err)
	}
	return nil
}
