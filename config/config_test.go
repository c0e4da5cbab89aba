package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthModeUnmarshalText(t *testing.T) {
	tests := []struct {
		input   string
		want    AuthMode
		wantErr bool
	}{
		{"sso", AuthModeSSO, false},
		{"OIDC", AuthModeOIDC, false},
		{"Mock", AuthModeMock, false},
		{"oauth", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			var mode AuthMode
			err := mode.UnmarshalText([]byte(tt.input))
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, mode)
		})
	}
}

func TestAuthConfigSanitize(t *testing.T) {
	cfg := AuthConfig{SessionCookie: "  ", SessionTTL: -time.Hour}
	cfg.Sanitize()

	assert.Equal(t, "nominate_session", cfg.SessionCookie)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
}

func TestUpstreamConfigSanitize(t *testing.T) {
	cfg := UpstreamConfig{
		BaseURL: " http://api.example.edu/ ",
		Timeout: 0,
		Passthrough401Prefixes: []string{
			" /api/users/list ",
			"",
			"api/audit-logs",
		},
	}
	cfg.Sanitize()

	assert.Equal(t, "http://api.example.edu", cfg.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, []string{"/api/users/list", "/api/audit-logs"}, cfg.Passthrough401Prefixes)
}

func TestHTTPConfigSanitize(t *testing.T) {
	cfg := HTTPConfig{}
	cfg.Sanitize()
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestObservabilityMetricsSanitize(t *testing.T) {
	cfg := ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "  "}
	cfg.Sanitize()
	assert.False(t, cfg.IsEnabled())

	cfg = ObservabilityMetricsConfig{Enabled: true, StatsdAddress: "127.0.0.1:8125"}
	cfg.Sanitize()
	assert.True(t, cfg.IsEnabled())
}
