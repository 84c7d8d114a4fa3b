package domain

import "fmt"

// Role classifies every authenticated principal. The set is closed:
// anything outside it fails to parse and the caller is treated as
// having no recognized role at all.
type Role string

const (
	RoleEndUser Role = "user"
	RoleAgent   Role = "agent"
	RoleAdmin   Role = "admin"
)

// ParseRole maps a stored role string onto the closed Role set.
func ParseRole(raw string) (Role, error) {
	switch Role(raw) {
	case RoleEndUser, RoleAgent, RoleAdmin:
		return Role(raw), nil
	default:
		return "", fmt.Errorf("unrecognized role %q", raw)
	}
}

// IsStaff reports whether the role carries triage privileges.
func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// Principal is the authenticated caller as seen by the policy and
// service layers. The role is resolved once per request and never
// changes mid-flight.
type Principal struct {
	ID   string
	Role Role
}
