package auth

import (
	"encoding/json"
	"strconv"

	jmespath "github.com/jmespath-community/go-jmespath"
)

// The upstream API is inconsistent about how it shapes the principal: the
// payload may be nested under a "user" wrapper (sometimes twice), the role
// identifier appears under several casings, and the chairman standing flag
// lives either on a nested committee record or at the top level. All of that
// tolerance is concentrated here, in one normalization pass with an ordered
// list of accepted source fields, so role checks everywhere else see a
// single canonical shape.

// roleIDExpressions are tried in order; the first expression that yields a
// usable number wins.
var roleIDExpressions = []string{
	"role_id",
	"roleId",
	"RoleID",
	"ROLE_ID",
}

// chairmanExpressions are tried in order; nested committee fields take
// precedence over the top-level flag.
var chairmanExpressions = []string{
	"committee.is_chairman",
	"committee.isChairman",
	"is_chairman",
	"isChairman",
}

var firstNameExpressions = []string{"first_name", "firstname", "firstName"}
var lastNameExpressions = []string{"last_name", "lastname", "lastName"}
var emailExpressions = []string{"email", "mail"}

const maxUnwrapDepth = 2

// Unwrap peels the "user" wrapper off a principal payload. Payloads arrive
// both bare and wrapped, occasionally doubly wrapped; unwrapping stops after
// two levels.
func Unwrap(payload map[string]any) map[string]any {
	for range maxUnwrapDepth {
		inner, ok := payload["user"].(map[string]any)
		if !ok {
			break
		}
		payload = inner
	}
	return payload
}

// Normalize unwraps a raw principal payload and resolves the canonical
// identity from it. The second return is false when no role identifier could
// be determined after all fallbacks, which callers must treat as an invalid
// session.
func Normalize(payload map[string]any) (Identity, bool) {
	if payload == nil {
		return Identity{}, false
	}
	payload = Unwrap(payload)

	roleID, ok := searchInt(payload, roleIDExpressions)
	if !ok {
		return Identity{}, false
	}

	return Identity{
		RoleID:    roleID,
		Chairman:  searchBool(payload, chairmanExpressions),
		FirstName: searchString(payload, firstNameExpressions),
		LastName:  searchString(payload, lastNameExpressions),
		Email:     searchString(payload, emailExpressions),
		Profile:   payload,
	}, true
}

// searchInt evaluates expressions in order and returns the first value
// coercible to an integer.
func searchInt(payload map[string]any, expressions []string) (int, bool) {
	for _, expr := range expressions {
		result, err := jmespath.Search(expr, payload)
		if err != nil || result == nil {
			continue
		}
		if n, ok := coerceInt(result); ok {
			return n, true
		}
	}
	return 0, false
}

func searchBool(payload map[string]any, expressions []string) bool {
	for _, expr := range expressions {
		result, err := jmespath.Search(expr, payload)
		if err != nil || result == nil {
			continue
		}
		switch v := result.(type) {
		case bool:
			return v
		case string:
			if parsed, perr := strconv.ParseBool(v); perr == nil {
				return parsed
			}
		}
	}
	return false
}

func searchString(payload map[string]any, expressions []string) string {
	for _, expr := range expressions {
		result, err := jmespath.Search(expr, payload)
		if err != nil {
			continue
		}
		if s, ok := result.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// coerceInt handles the numeric shapes a role id arrives in: JSON decoding
// yields float64, hand-built payloads carry int, and some endpoints return
// the id as a string.
func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		parsed, err := n.Int64()
		if err != nil {
			return 0, false
		}
		return int(parsed), true
	case string:
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}
