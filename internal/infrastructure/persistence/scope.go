package persistence

import (
	"context"
	"errors"

	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
)

// scoped returns a session pinned to the context's tenant with filter
// applied as equality conditions. Every tenant-scoped read and write in
// this package starts here.
func scoped(ctx context.Context, db *gorm.DB, tc tenancy.Context, filter tenancy.Filter) (*gorm.DB, error) {
	f, err := tenancy.WithTenant(tc, filter)
	if err != nil {
		return nil, err
	}
	return db.WithContext(tenant.NewContext(ctx, tc.TenantID)).Where(map[string]any(f)), nil
}

// scopedModel is scoped with the statement model set, for updates and aggregates
func scopedModel(ctx context.Context, db *gorm.DB, tc tenancy.Context, model any, filter tenancy.Filter) (*gorm.DB, error) {
	q, err := scoped(ctx, db, tc, filter)
	if err != nil {
		return nil, err
	}
	return q.Model(model), nil
}

// creating returns a session for inserting rows owned by the context's tenant
func creating(ctx context.Context, db *gorm.DB, tc tenancy.Context) (*gorm.DB, error) {
	if err := tenancy.AssertTenantContext(tc); err != nil {
		return nil, err
	}
	return db.WithContext(tenant.NewContext(ctx, tc.TenantID)), nil
}

// notFound maps gorm.ErrRecordNotFound to a NOT_FOUND domain error for entity
func notFound(err error, entity string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return shared.NotFound(entity)
	}
	return err
}
