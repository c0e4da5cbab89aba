package bootstrap

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/campuslabs/nominate-gateway/config"
	httpx "github.com/campuslabs/nominate-gateway/internal/http"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Logger   *slog.Logger
}

// NewHTTPServer builds the gateway's HTTP server. The router carries the
// full middleware chain (recover, logging, session hydration).
func NewHTTPServer(cfg *HTTPServerConfig) *http.Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	handler := httpx.NewRouter(httpx.RouterServices{
		Sessions: cfg.Services.Sessions,
		Upstream: cfg.Services.Upstream,
		Cookie: httpx.CookieConfig{
			Name:   appCfg.Auth.SessionCookie,
			Domain: appCfg.HTTP.CookieDomain,
		},
		ProviderLogin: appCfg.Auth.Mode != config.AuthModeSSO,
		Logger:        logger,
	})

	addr := appCfg.HTTP.Addr
	if addr == "" {
		addr = ":8080"
	}
	return &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(ctx context.Context, server *http.Server, logger *slog.Logger) error {
	if server == nil {
		return nil
	}
	if logger != nil {
		logger.Info("shutting down HTTP server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
