// Package tenancy holds the tenant isolation boundary: the execution context
// every core operation receives, the filter guard that pins queries to one
// tenant, and the role model used by access checks.
package tenancy

import (
	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
)

// TenantColumn is the column every tenant-scoped table carries
const TenantColumn = "tenant_id"

// Context is the immutable execution context of one core operation.
// It is built by the transport layer and passed explicitly; the core never
// reads tenant or identity from ambient state.
type Context struct {
	TenantID   uuid.UUID
	UserID     *uuid.UUID
	Role       Role
	Privileged bool
}

// NewContext builds a context for a tenant and an optional user
func NewContext(tenantID uuid.UUID, userID *uuid.UUID, role Role) Context {
	return Context{TenantID: tenantID, UserID: userID, Role: role}
}

// WithPrivileged returns a copy of the context with privileged mode set
func (c Context) WithPrivileged(privileged bool) Context {
	c.Privileged = privileged
	return c
}

// WithTenantID returns a copy of the context targeting another tenant.
// Only the access layer calls this, after a root target-tenant check.
func (c Context) WithTenantID(tenantID uuid.UUID) Context {
	c.TenantID = tenantID
	return c
}

// HasUser reports whether the context carries an authenticated user
func (c Context) HasUser() bool {
	return c.UserID != nil && *c.UserID != uuid.Nil
}

// IsUser reports whether the context's user is id
func (c Context) IsUser(id *uuid.UUID) bool {
	return c.HasUser() && id != nil && *c.UserID == *id
}

// Filter is a set of column equality conditions. Keys are column names.
type Filter map[string]any

// AssertTenantContext fails with MISSING_TENANT if the context has no tenant
func AssertTenantContext(tc Context) error {
	if tc.TenantID == uuid.Nil {
		return shared.ErrMissingTenant
	}
	return nil
}

// WithTenant returns filter merged with tenant_id = tc.TenantID. The caller's
// map is left untouched. A filter that already names a different tenant is
// rejected with CROSS_TENANT; privileged and root contexts get no exception.
func WithTenant(tc Context, filter Filter) (Filter, error) {
	if err := AssertTenantContext(tc); err != nil {
		return nil, err
	}

	merged := make(Filter, len(filter)+1)
	for k, v := range filter {
		merged[k] = v
	}

	if existing, ok := filter[TenantColumn]; ok && existing != nil {
		id, ok := asUUID(existing)
		if !ok || id != tc.TenantID {
			return nil, shared.ErrCrossTenant
		}
	}
	merged[TenantColumn] = tc.TenantID
	return merged, nil
}

func asUUID(v any) (uuid.UUID, bool) {
	switch t := v.(type) {
	case uuid.UUID:
		return t, true
	case *uuid.UUID:
		if t == nil {
			return uuid.Nil, false
		}
		return *t, true
	case string:
		id, err := uuid.Parse(t)
		return id, err == nil
	default:
		return uuid.Nil, false
	}
}
