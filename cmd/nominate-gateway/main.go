package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/campuslabs/nominate-gateway/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}

	logger.InfoContext(ctx, "starting nominate gateway",
		"auth_mode", cfg.Auth.Mode,
		"upstream", cfg.Upstream.BaseURL,
		"audit_enabled", cfg.Postgres.Enabled,
		"dev", cfg.IsDev)

	redisClient, err := bootstrap.ConnectRedis(cfg.Redis)
	if err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}
	defer func() {
		if cerr := redisClient.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close redis failed", "error", cerr)
		}
	}()

	provider, err := bootstrap.BuildAuthProvider(cfg.Auth)
	if err != nil {
		return err
	}

	deps := &bootstrap.ServiceDeps{
		Config:      &cfg,
		RedisClient: redisClient,
		Provider:    provider,
		Logger:      logger,
	}

	if cfg.Postgres.Enabled {
		pgPool, pgErr := bootstrap.ConnectPostgres(ctx, cfg.Postgres)
		if pgErr != nil {
			return fmt.Errorf("connect postgres: %w", pgErr)
		}
		defer pgPool.Close()
		deps.PGPool = pgPool
	}

	services, err := bootstrap.NewServices(deps)
	if err != nil {
		return err
	}

	if services.Audit != nil {
		if schemaErr := services.Audit.EnsureSchema(ctx); schemaErr != nil {
			return fmt.Errorf("ensure audit schema: %w", schemaErr)
		}
	}

	server := bootstrap.NewHTTPServer(&bootstrap.HTTPServerConfig{
		Config:   &cfg,
		Services: services,
		Logger:   logger,
	})

	return bootstrap.Run(ctx, bootstrap.RunConfig{
		Config:   &cfg,
		Services: services,
		Server:   server,
		Logger:   logger,
	})
}
