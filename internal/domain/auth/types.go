package auth

// Package auth contains domain-level types for sessions and role-based
// access control. It is pure and free of framework/adapter concerns.

import (
	"strconv"
	"strings"
	"time"
)

// Role is the normalized, human-readable role key used for all
// access-control comparisons. Keep string form for easy persistence
// and cookies. Valid values are defined as constants below.
type Role string

const (
	RoleStudent            Role = "student"
	RoleDepartmentHead     Role = "department_head"
	RoleDean               Role = "dean"
	RoleOrganization       Role = "organization"
	RoleChancellor         Role = "chancellor"
	RoleStudentDevMember   Role = "student_development_committee"
	RoleStudentDevChairman Role = "chairman_of_student_development_committee"
	RoleNominationMember   Role = "university_nomination_committee"
	RoleNominationChairman Role = "chairman_of_university_nomination_committee"
)

// Numeric role identifiers as assigned by the upstream nomination API.
const (
	RoleIDStudent        = 1
	RoleIDDepartmentHead = 2
	RoleIDDean           = 3
	RoleIDOrganization   = 4
	RoleIDChancellor     = 5
	RoleIDStudentDev     = 6
	RoleIDNomination     = 7
)

// MapRole maps a numeric role identifier and the chairman standing flag to
// the normalized role string. The mapping is pure and total: the committee
// ids (6 and 7) split on the chairman flag, every other id maps one-to-one,
// and unmapped ids fall back to the lowest-privilege role (student).
func MapRole(roleID int, chairman bool) Role {
	switch roleID {
	case RoleIDStudent:
		return RoleStudent
	case RoleIDDepartmentHead:
		return RoleDepartmentHead
	case RoleIDDean:
		return RoleDean
	case RoleIDOrganization:
		return RoleOrganization
	case RoleIDChancellor:
		return RoleChancellor
	case RoleIDStudentDev:
		if chairman {
			return RoleStudentDevChairman
		}
		return RoleStudentDevMember
	case RoleIDNomination:
		if chairman {
			return RoleNominationChairman
		}
		return RoleNominationMember
	default:
		return RoleStudent
	}
}

// ParseRoleHint resolves the role hint carried on a login redirect. The
// portal sends it either as the upstream's numeric id ("4") or as the
// normalized role string ("organization"); the committee chairman strings
// resolve with the chairman standing set. Unrecognized hints return ok=false.
func ParseRoleHint(hint string) (roleID int, chairman bool, ok bool) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return 0, false, false
	}
	if id, err := strconv.Atoi(hint); err == nil {
		return id, false, true
	}
	switch Role(strings.ToLower(hint)) {
	case RoleStudent:
		return RoleIDStudent, false, true
	case RoleDepartmentHead:
		return RoleIDDepartmentHead, false, true
	case RoleDean:
		return RoleIDDean, false, true
	case RoleOrganization:
		return RoleIDOrganization, false, true
	case RoleChancellor:
		return RoleIDChancellor, false, true
	case RoleStudentDevMember:
		return RoleIDStudentDev, false, true
	case RoleStudentDevChairman:
		return RoleIDStudentDev, true, true
	case RoleNominationMember:
		return RoleIDNomination, false, true
	case RoleNominationChairman:
		return RoleIDNomination, true, true
	default:
		return 0, false, false
	}
}

// landingRoutes maps each role to the default route it is sent to when it
// attempts a page it is not authorized for. Kept in sync with MapRole: every
// role string MapRole can produce has an entry.
var landingRoutes = map[Role]string{
	RoleStudent:            "/student/dashboard",
	RoleDepartmentHead:     "/department/dashboard",
	RoleDean:               "/dean/dashboard",
	RoleOrganization:       "/organization/dashboard",
	RoleChancellor:         "/chancellor/dashboard",
	RoleStudentDevMember:   "/committee/student-development/dashboard",
	RoleStudentDevChairman: "/committee/student-development/chair/dashboard",
	RoleNominationMember:   "/committee/nomination/dashboard",
	RoleNominationChairman: "/committee/nomination/chair/dashboard",
}

// firstRunRoutes maps each role to its first-time profile setup route.
var firstRunRoutes = map[Role]string{
	RoleStudent:            "/student/setup",
	RoleDepartmentHead:     "/department/setup",
	RoleDean:               "/dean/setup",
	RoleOrganization:       "/organization/setup",
	RoleChancellor:         "/chancellor/setup",
	RoleStudentDevMember:   "/committee/student-development/setup",
	RoleStudentDevChairman: "/committee/student-development/setup",
	RoleNominationMember:   "/committee/nomination/setup",
	RoleNominationChairman: "/committee/nomination/setup",
}

// LandingRoute returns the default route for a role. A missing entry
// degrades to the application root.
func LandingRoute(r Role) string {
	if route, ok := landingRoutes[r]; ok {
		return route
	}
	return "/"
}

// FirstRunRoute returns the first-time setup route for a role, degrading to
// the application root when unmapped.
func FirstRunRoute(r Role) string {
	if route, ok := firstRunRoutes[r]; ok {
		return route
	}
	return "/"
}

// Identity represents the authenticated principal as resolved from the
// upstream API. Profile retains the unwrapped raw payload so the guard can
// re-derive fields the typed view does not carry.
type Identity struct {
	RoleID    int            `json:"role_id"`
	Chairman  bool           `json:"chairman"`
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Email     string         `json:"email"`
	Profile   map[string]any `json:"profile,omitempty"`
}

// Role returns the normalized role string for the identity.
func (i Identity) Role() Role { return MapRole(i.RoleID, i.Chairman) }

// Session is the per-browser record the gateway persists. Credential is the
// opaque bearer token the upstream API issued; a session is either fully
// absent or carries a resolvable role identifier.
type Session struct {
	ID         string    `json:"id"`
	Credential string    `json:"credential"`
	Role       Role      `json:"role"`
	Identity   Identity  `json:"identity"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Valid reports whether the session satisfies the storage invariant: a
// credential is present and the role identifier resolved. Anything else is
// corrupt state and must trigger logout.
func (s Session) Valid() bool {
	return s.Credential != "" && s.Role != ""
}
