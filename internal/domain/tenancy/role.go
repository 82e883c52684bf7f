package tenancy

import (
	"strings"

	"github.com/propcore/backend/internal/domain/shared"
)

// Role is a membership role within a tenant
type Role string

const (
	RoleClient Role = "CLIENT"
	RoleSeller Role = "SELLER"
	RoleAdmin  Role = "ADMIN"
	RoleRoot   Role = "ROOT"
)

// Rank orders roles: CLIENT(1) < SELLER(2) < ADMIN(3) < ROOT(4).
// Unknown or empty roles rank 0.
func (r Role) Rank() int {
	switch r {
	case RoleClient:
		return 1
	case RoleSeller:
		return 2
	case RoleAdmin:
		return 3
	case RoleRoot:
		return 4
	default:
		return 0
	}
}

// IsValid reports whether r is a known role
func (r Role) IsValid() bool {
	return r.Rank() > 0
}

// AtLeast reports whether r ranks at or above min
func (r Role) AtLeast(min Role) bool {
	return r.IsValid() && r.Rank() >= min.Rank()
}

// String returns the role name
func (r Role) String() string {
	return string(r)
}

// ParseRole parses a role name case-insensitively
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToUpper(strings.TrimSpace(s)))
	if !r.IsValid() {
		return "", shared.Validation("unknown role %q", s)
	}
	return r, nil
}

// HighestRole returns the highest-ranked role, or "" when none is valid.
// Ties resolve to the same role, so the result does not depend on order.
func HighestRole(roles ...Role) Role {
	var best Role
	for _, r := range roles {
		if r.Rank() > best.Rank() {
			best = r
		}
	}
	return best
}
