package tenancy

import (
	"github.com/propcore/backend/internal/domain/shared"
)

// RequireUser fails unless the context carries a user
func RequireUser(tc Context) error {
	if err := AssertTenantContext(tc); err != nil {
		return err
	}
	if !tc.HasUser() {
		return shared.Forbidden("an authenticated user is required")
	}
	return nil
}

// RequireRole fails unless the context's role is one of allowed
func RequireRole(tc Context, allowed ...Role) error {
	if err := AssertTenantContext(tc); err != nil {
		return err
	}
	for _, r := range allowed {
		if tc.Role == r {
			return nil
		}
	}
	return shared.Forbidden("role %q may not perform this action", tc.Role)
}

// RequireStaff fails unless the caller is a seller or above
func RequireStaff(tc Context) error {
	return RequireRole(tc, RoleSeller, RoleAdmin, RoleRoot)
}

// RequirePrivileged fails unless the caller is ADMIN or ROOT, and either
// root or in privileged mode.
func RequirePrivileged(tc Context) error {
	if err := RequireRole(tc, RoleAdmin, RoleRoot); err != nil {
		return err
	}
	if tc.Role != RoleRoot && !tc.Privileged {
		return shared.Forbidden("privileged mode is required")
	}
	return nil
}

// IsClient reports whether the caller acts as a client
func IsClient(tc Context) bool {
	return tc.Role == RoleClient
}
