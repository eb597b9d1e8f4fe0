package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"

	"github.com/heartmarshall/foodtracker-backend/internal/config"
	"github.com/heartmarshall/foodtracker-backend/internal/service/journal"
	"github.com/heartmarshall/foodtracker-backend/internal/transport/middleware"
	"github.com/heartmarshall/foodtracker-backend/internal/transport/rest"
)

// Run is the application entry point. It loads configuration, initializes
// the logger, opens the meal journal on the configured storage and serves
// the REST API until ctx is canceled.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("storage", cfg.Storage.Driver),
		slog.String("bootstrap", cfg.Bootstrap.Mode),
	)

	svc, storage, closeStorage, err := OpenJournal(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	logger.Info("journal opened", slog.Int("meals", svc.Len()))

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      NewHandler(cfg, logger, svc, storage),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down", slog.Duration("timeout", cfg.Server.ShutdownTimeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}

	logger.Info("stopped")
	return nil
}

// NewHandler wires the REST routes and the middleware chain.
func NewHandler(cfg *config.Config, logger *slog.Logger, svc *journal.Service, storage Storage) http.Handler {
	mux := http.NewServeMux()

	health := rest.NewHealthHandler(storage, cfg.Storage.Driver, svc, BuildVersion())
	mux.HandleFunc("GET /live", health.Live)
	mux.HandleFunc("GET /ready", health.Ready)
	mux.HandleFunc("GET /health", health.Health)

	rest.NewMealHandler(svc, logger).Register(mux)

	return middleware.Standard(logger, cfg.CORS)(mux)
}
