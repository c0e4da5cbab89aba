// Package mocks provides mock implementations for testing the session
// subsystem.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the ports interfaces. The mocks are generated using go:generate
// directives and checked in alongside this file.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	store := mocks.NewMockSessionStore(ctrl)
//	store.EXPECT().Credential(gomock.Any(), "s1").Return("tok-1", nil)
package mocks

// Generate mock for SessionStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=session_store_mock.go github.com/campuslabs/nominate-gateway/internal/ports SessionStore

// Generate mock for UpstreamAuthAPI interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=upstream_auth_api_mock.go github.com/campuslabs/nominate-gateway/internal/ports UpstreamAuthAPI

// Generate mock for AuthProvider interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_provider_mock.go github.com/campuslabs/nominate-gateway/internal/ports AuthProvider

// Generate mock for AuditLog interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=audit_log_mock.go github.com/campuslabs/nominate-gateway/internal/ports AuditLog
