package postgres

// Package postgres persists the session audit trail.

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
	apperrors "github.com/campuslabs/nominate-gateway/internal/errors"
)

// AuditRepo is an append-only store for session lifecycle events.
type AuditRepo struct {
	pool *pgxpool.Pool
}

// NewAuditRepo creates a new audit repository.
func NewAuditRepo(pool *pgxpool.Pool) *AuditRepo {
	return &AuditRepo{pool: pool}
}

const createAuditTable = `
CREATE TABLE IF NOT EXISTS auth_audit (
	id         BIGSERIAL PRIMARY KEY,
	kind       TEXT        NOT NULL,
	session_id TEXT        NOT NULL DEFAULT '',
	role       TEXT        NOT NULL DEFAULT '',
	email      TEXT        NOT NULL DEFAULT '',
	path       TEXT        NOT NULL DEFAULT '',
	detail     TEXT        NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// EnsureSchema creates the audit table when it does not exist yet.
func (r *AuditRepo) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, createAuditTable); err != nil {
		return apperrors.MapDBError(fmt.Errorf("ensure auth_audit schema: %w", err))
	}
	return nil
}

// Record appends one audit event. A zero At defaults to now.
func (r *AuditRepo) Record(ctx context.Context, event domainauth.AuditEvent) error {
	at := event.At
	if at.IsZero() {
		at = time.Now()
	}

	const insert = `
		INSERT INTO auth_audit (kind, session_id, role, email, path, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.pool.Exec(ctx, insert,
		string(event.Kind),
		event.SessionID,
		string(event.Role),
		event.Email,
		event.Path,
		event.Detail,
		at,
	)
	if err != nil {
		return apperrors.MapDBError(fmt.Errorf("insert audit event: %w", err))
	}
	return nil
}

// RecentEvents returns the newest events for a session, most recent first.
// Used by the operator CLI; the browser-facing audit endpoint lives
// upstream.
func (r *AuditRepo) RecentEvents(ctx context.Context, sessionID string, limit int) ([]domainauth.AuditEvent, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	const query = `
		SELECT kind, session_id, role, email, path, detail, created_at
		FROM auth_audit
		WHERE $1 = '' OR session_id = $1
		ORDER BY created_at DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, sessionID, limit)
	if err != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("query audit events: %w", err))
	}
	defer rows.Close()

	var events []domainauth.AuditEvent
	for rows.Next() {
		var (
			event domainauth.AuditEvent
			kind  string
			role  string
		)
		if scanErr := rows.Scan(&kind, &event.SessionID, &role, &event.Email, &event.Path, &event.Detail, &event.At); scanErr != nil {
			return nil, apperrors.MapDBError(fmt.Errorf("scan audit event: %w", scanErr))
		}
		event.Kind = domainauth.AuditKind(kind)
		event.Role = domainauth.Role(role)
		events = append(events, event)
	}
	if rowsErr := rows.Err(); rowsErr != nil {
		return nil, apperrors.MapDBError(fmt.Errorf("iterate audit events: %w", rowsErr))
	}
	return events, nil
}
