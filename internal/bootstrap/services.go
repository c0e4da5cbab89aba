package bootstrap

import (
	"context"
	"log/slog"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"

	"github.com/campuslabs/nominate-gateway/config"
	"github.com/campuslabs/nominate-gateway/internal/adapters/postgres"
	redisadapter "github.com/campuslabs/nominate-gateway/internal/adapters/redis"
	"github.com/campuslabs/nominate-gateway/internal/observability/statsd"
	"github.com/campuslabs/nominate-gateway/internal/ports"
	"github.com/campuslabs/nominate-gateway/internal/service"
	"github.com/campuslabs/nominate-gateway/internal/upstream"
)

// ServiceDeps groups external dependencies for service construction.
type ServiceDeps struct {
	Config      *config.AppConfig
	RedisClient goredis.UniversalClient
	PGPool      *pgxpool.Pool // nil when the audit log is disabled
	Provider    ports.AuthProvider
	Logger      *slog.Logger
}

// ServiceContainer holds the constructed service graph.
type ServiceContainer struct {
	Sessions *service.SessionService
	Upstream *upstream.Client
	Metrics  *statsd.Client
	Audit    *postgres.AuditRepo // nil when disabled
}

// NewServices wires the session subsystem: Redis-backed store, metered
// upstream client with the credential/forced-logout interceptor chain, the
// optional Postgres audit trail, and the session service on top.
func NewServices(deps *ServiceDeps) (ServiceContainer, error) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config

	metrics, err := statsd.NewClient(statsd.Config{
		Enabled: cfg.Observability.Metrics.IsEnabled(),
		Address: cfg.Observability.Metrics.StatsdAddress,
		Prefix:  "nominate",
		Logger:  logger,
	})
	if err != nil {
		return ServiceContainer{}, err
	}

	store := redisadapter.NewSessionStore(deps.RedisClient)

	var audit *postgres.AuditRepo
	if deps.PGPool != nil {
		audit = postgres.NewAuditRepo(deps.PGPool)
	}

	// The session service and the transport hook are mutually referential:
	// the transport clears the store and notifies the service, the service
	// calls upstream through the transport. Construct the service first with
	// the hook wired afterward via TransportOptions.
	var sessions *service.SessionService

	transport := upstream.NewTransport(upstream.TransportOptions{
		Credentials:         store,
		Revoker:             store,
		PassthroughPrefixes: cfg.Upstream.Passthrough401Prefixes,
		OnForcedLogout: func(ctx context.Context, sessionID, path string) {
			if sessions != nil {
				sessions.ForcedLogoutHook()(ctx, sessionID, path)
			}
		},
		Logger: logger,
	})
	client := upstream.NewClient(upstream.ClientOptions{
		BaseURL:   cfg.Upstream.BaseURL,
		Timeout:   cfg.Upstream.Timeout,
		Transport: transport,
		Logger:    logger,
	})

	sessions = service.NewSessionService(service.SessionServiceOptions{
		Store:      store,
		Upstream:   client,
		Provider:   deps.Provider,
		Audit:      auditOrNil(audit),
		Metrics:    metrics,
		Logger:     logger,
		SessionTTL: cfg.Auth.SessionTTL,
	})

	return ServiceContainer{
		Sessions: sessions,
		Upstream: client,
		Metrics:  metrics,
		Audit:    audit,
	}, nil
}

// auditOrNil avoids handing the service a typed-nil interface value.
func auditOrNil(repo *postgres.AuditRepo) ports.AuditLog {
	if repo == nil {
		return nil
	}
	return repo
}
