// Package promptservice assembles and runs the prompt HTTP service.
package promptservice

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/promptlab/promptlab/internal/api"
	"github.com/promptlab/promptlab/internal/config"
	"github.com/promptlab/promptlab/internal/health"
	"github.com/promptlab/promptlab/internal/ids"
	"github.com/promptlab/promptlab/internal/logger"
	"github.com/promptlab/promptlab/internal/services"
	"github.com/promptlab/promptlab/internal/store"
	"github.com/promptlab/promptlab/internal/store/memory"
)

// Run starts the prompt service HTTP server and blocks until shutdown or error.
func Run() error {
	log := logger.New("prompt-service")

	cfg, err := config.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to load configuration")
		return err
	}
	lvl, _ := cfg.Level()
	log = log.Level(lvl)

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("http_port", cfg.HTTPPort).
		Msg("Prompt service starting")

	// Create cancellable root context bound to SIGINT/SIGTERM
	ctx, stop := newServerContext()
	defer stop()

	st := memory.New()

	svcHealth := startHealthCheckers(ctx, cfg, log, st)

	// Block startup until dependencies report healthy; fail fast otherwise
	if err := waitUntilHealthy(ctx, cfg, svcHealth); err != nil {
		log.Error().Stack().Err(err).Msg("startup health check failed")
		return err
	}

	router := buildRouter(cfg, st, svcHealth, log)

	server := newHTTPServer(ctx, cfg, router)
	errCh := serveHTTP(server, log, cfg)

	// Graceful shutdown on context cancel or server error
	select {
	case <-ctx.Done():
		return shutdown(server, cfg, log)
	case err := <-errCh:
		log.Error().Stack().Err(err).Msg("HTTP server failed")
		return err
	}
}

// buildRouter wires the HTTP adapter to the store.
func buildRouter(cfg *config.Config, st store.Store, src api.HealthSource, log zerolog.Logger) http.Handler {
	return api.NewRouter(api.RouterConfig{
		Deps: services.Deps{
			Store: st,
			IDs:   ids.UUID{},
			Log:   log,
		},
		Health:       src,
		MaxBodyBytes: cfg.MaxBodyBytes,
	})
}

// startHealthCheckers starts the store checker and the service-level aggregator.
func startHealthCheckers(ctx context.Context, cfg *config.Config, log zerolog.Logger, st store.Store) *health.ServiceHealthChecker {
	interval := cfg.HealthInterval()

	storeChecker := store.NewStoreHealthChecker(st, log, cfg.HealthProbeTimeout())
	go storeChecker.Start(ctx, interval)

	svcHealth := health.NewServiceHealthChecker(log, storeChecker)
	go svcHealth.Start(ctx, interval)
	return svcHealth
}

func newHTTPServer(ctx context.Context, cfg *config.Config, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.GetHTTPAddr(),
		Handler:           handler,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
}

func serveHTTP(server *http.Server, log zerolog.Logger, cfg *config.Config) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- errors.Wrap(err, "listen")
		}
	}()
	return errCh
}

func shutdown(server *http.Server, cfg *config.Config, log zerolog.Logger) error {
	log.Info().Msg("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error().Stack().Err(err).Msg("Server forced to shutdown")
		return err
	}
	log.Info().Msg("Server exited")
	return nil
}

// calculateStartupHealthTimeout returns the startup health timeout in seconds,
// calculated as interval*2 with a minimum of 30 seconds.
func calculateStartupHealthTimeout(healthIntervalSeconds int) int {
	timeout := healthIntervalSeconds * 2
	if timeout < 30 {
		return 30
	}
	return timeout
}

// waitUntilHealthy blocks until service health is healthy or the startup window expires.
// It re-evaluates on every tick so startup does not wait a full health interval.
func waitUntilHealthy(ctx context.Context, cfg *config.Config, svcHealth *health.ServiceHealthChecker) error {
	timeoutSeconds := calculateStartupHealthTimeout(cfg.HealthIntervalSeconds)
	deadline := time.Now().Add(time.Duration(timeoutSeconds) * time.Second)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	for {
		if svcHealth.Evaluate() {
			return nil
		}
		if time.Now().After(deadline) {
			return fmt.Errorf("startup aborted: dependencies not healthy within %d seconds", timeoutSeconds)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// newServerContext returns a cancellable context that is cancelled on SIGINT/SIGTERM.
func newServerContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}
