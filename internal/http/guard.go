package httpx

import (
	domainauth "github.com/campuslabs/nominate-gateway/internal/domain/auth"
)

// GuardState is the outcome of a route-guard evaluation.
type GuardState int

const (
	// GuardLoading means session resolution has not completed; no routing
	// decision can be made yet.
	GuardLoading GuardState = iota
	// GuardUnauthenticated means no session exists.
	GuardUnauthenticated
	// GuardInvalid means a session exists but violates the storage
	// invariant (missing credential or unresolved role). The caller must
	// tear the session down.
	GuardInvalid
	// GuardDenied means the session's role is not on the route's allow
	// list.
	GuardDenied
	// GuardAuthorized means the request may proceed.
	GuardAuthorized
)

func (s GuardState) String() string {
	switch s {
	case GuardLoading:
		return "loading"
	case GuardUnauthenticated:
		return "unauthenticated"
	case GuardInvalid:
		return "invalid"
	case GuardDenied:
		return "denied"
	case GuardAuthorized:
		return "authorized"
	default:
		return "unknown"
	}
}

// GuardInput groups the facts a guard evaluation needs.
type GuardInput struct {
	// Hydrated reports whether session resolution completed for this
	// request.
	Hydrated bool
	// Session is the resolved session, nil when unauthenticated.
	Session *domainauth.Session
	// Allowed lists the roles the route admits. Empty means any
	// authenticated role.
	Allowed []domainauth.Role
}

// GuardDecision is the result of evaluating a guard. RedirectTo is the
// single deterministic fallback destination for non-authorized states; it is
// empty for Loading and Authorized.
type GuardDecision struct {
	State      GuardState
	Role       domainauth.Role
	RedirectTo string
}

// Decide evaluates route access as a pure function of its input. It issues
// no side effects; redirects, teardown, and flash messages are transition
// effects the caller applies based on the returned state. Evaluating the
// same input twice yields the same decision.
func Decide(in GuardInput) GuardDecision {
	if !in.Hydrated {
		return GuardDecision{State: GuardLoading}
	}
	if in.Session == nil {
		return GuardDecision{State: GuardUnauthenticated, RedirectTo: "/"}
	}
	if !in.Session.Valid() {
		return GuardDecision{State: GuardInvalid, RedirectTo: "/"}
	}

	role := in.Session.Role
	if len(in.Allowed) == 0 || roleAllowed(role, in.Allowed) {
		return GuardDecision{State: GuardAuthorized, Role: role}
	}

	// Denied visitors land on their own role's home, never the page they
	// asked for.
	return GuardDecision{
		State:      GuardDenied,
		Role:       role,
		RedirectTo: domainauth.LandingRoute(role),
	}
}

func roleAllowed(role domainauth.Role, allowed []domainauth.Role) bool {
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}
