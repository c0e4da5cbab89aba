package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/campuslabs/nominate-gateway/config"
)

// RunConfig groups dependencies for Run.
type RunConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Server   *http.Server
	Logger   *slog.Logger
}

// Run serves until SIGINT/SIGTERM or a listener failure, then shuts down
// gracefully.
func Run(ctx context.Context, cfg RunConfig) error {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, groupCtx := errgroup.WithContext(signalCtx)

	g.Go(func() error {
		logger.Info("starting HTTP server", slog.String("addr", cfg.Server.Addr))
		if err := cfg.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-groupCtx.Done()
		return ShutdownHTTPServer(context.WithoutCancel(groupCtx), cfg.Server, logger)
	})

	err := g.Wait()

	if metrics := cfg.Services.Metrics; metrics != nil {
		if closeErr := metrics.Close(); closeErr != nil {
			logger.Warn("closing statsd client failed", slog.Any("error", closeErr))
		}
	}
	return err
}
