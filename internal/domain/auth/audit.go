package auth

import "time"

// AuditKind names a session lifecycle event.
type AuditKind string

const (
	AuditLogin        AuditKind = "login"
	AuditLogout       AuditKind = "logout"
	AuditForcedLogout AuditKind = "forced_logout"
	AuditDenied       AuditKind = "denied"
	AuditSSOReplay    AuditKind = "sso_replay"
)

// AuditEvent is one entry in the session audit trail.
type AuditEvent struct {
	Kind      AuditKind
	SessionID string
	Role      Role
	Email     string
	Path      string
	Detail    string
	At        time.Time
}
