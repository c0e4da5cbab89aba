package config

import (
	"strings"
	"time"
)

// UpstreamConfig contains configuration for the upstream nomination API.
type UpstreamConfig struct {
	// BaseURL is the root of the upstream API.
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:9000"`

	// Timeout bounds every upstream call, including session validation. A
	// hung upstream fails the request instead of leaving it pending forever.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"30s"`

	// Passthrough401Prefixes lists upstream path prefixes whose 401
	// responses are returned to the caller instead of revoking the session.
	// These endpoints are probed speculatively by non-privileged pages, so a
	// 401 there is an expected, recoverable condition.
	Passthrough401Prefixes []string `env:"PASSTHROUGH_401_PREFIXES" envDefault:"/api/users/list;/api/audit-logs" envSeparator:";"`
}

// Sanitize applies guardrails to upstream configuration values.
func (u *UpstreamConfig) Sanitize() {
	u.BaseURL = strings.TrimRight(strings.TrimSpace(u.BaseURL), "/")
	if u.Timeout <= 0 {
		u.Timeout = 30 * time.Second
	}

	prefixes := u.Passthrough401Prefixes[:0]
	for _, p := range u.Passthrough401Prefixes {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		if !strings.HasPrefix(p, "/") {
			p = "/" + p
		}
		prefixes = append(prefixes, p)
	}
	u.Passthrough401Prefixes = prefixes
}
