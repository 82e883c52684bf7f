// Package tenant enforces tenant isolation at the GORM statement level.
//
// Repositories put the owning tenant into the statement context with
// NewContext. The registered callbacks then refuse any read, update or
// delete on a tenant-scoped table that does not carry a matching
// tenant_id condition, and any insert whose rows belong to another tenant.
//
// Usage:
//
//	tenant.Register(db)
//	ctx = tenant.NewContext(ctx, tenantID)
//	db.WithContext(ctx).Where(map[string]any{"tenant_id": tenantID}).Find(&units)
package tenant

import (
	"context"

	"github.com/google/uuid"
)

type ctxKey struct{}

// NewContext returns ctx carrying the tenant that statements run for
func NewContext(ctx context.Context, tenantID uuid.UUID) context.Context {
	return context.WithValue(ctx, ctxKey{}, tenantID)
}

// FromContext returns the statement tenant
func FromContext(ctx context.Context) (uuid.UUID, bool) {
	if ctx == nil {
		return uuid.Nil, false
	}
	id, ok := ctx.Value(ctxKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
