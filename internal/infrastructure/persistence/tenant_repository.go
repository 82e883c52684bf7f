package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenantRepository implements tenancy.TenantRepository using GORM.
// The tenants table is the root of isolation and carries no tenant_id.
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// FindByID finds a tenant by its ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id uuid.UUID) (*tenancy.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).Where(map[string]any{"id": id}).First(&model).Error; err != nil {
		return nil, notFound(err, "Tenant")
	}
	return model.ToDomain()
}

// FindBySlug finds a tenant by its unique slug
func (r *GormTenantRepository) FindBySlug(ctx context.Context, slug string) (*tenancy.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where(map[string]any{"slug": strings.ToLower(strings.TrimSpace(slug))}).
		First(&model).Error; err != nil {
		return nil, notFound(err, "Tenant")
	}
	return model.ToDomain()
}

// ListActiveIDs returns the IDs of every active tenant, for scheduled jobs
func (r *GormTenantRepository) ListActiveIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&models.TenantModel{}).
		Where(map[string]any{"active": true}).
		Order("created_at ASC").
		Pluck("id", &ids).Error
	return ids, err
}

// Save creates or updates a tenant
func (r *GormTenantRepository) Save(ctx context.Context, t *tenancy.Tenant) error {
	model := &models.TenantModel{}
	model.FromDomain(t)
	return r.db.WithContext(ctx).Save(model).Error
}

// GormMembershipRepository implements tenancy.MembershipRepository using GORM
type GormMembershipRepository struct {
	db *gorm.DB
}

// NewGormMembershipRepository creates a new GormMembershipRepository
func NewGormMembershipRepository(db *gorm.DB) *GormMembershipRepository {
	return &GormMembershipRepository{db: db}
}

// ListActiveForUser returns the user's active memberships in the context's tenant
func (r *GormMembershipRepository) ListActiveForUser(ctx context.Context, tc tenancy.Context, userID uuid.UUID) ([]tenancy.Membership, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"user_id": userID, "active": true})
	if err != nil {
		return nil, err
	}
	var rows []models.MembershipModel
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]tenancy.Membership, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// HasActive reports whether the user holds any active membership in the tenant
func (r *GormMembershipRepository) HasActive(ctx context.Context, tc tenancy.Context, userID uuid.UUID) (bool, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.MembershipModel{}, tenancy.Filter{"user_id": userID, "active": true})
	if err != nil {
		return false, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Save inserts a membership for the context's tenant
func (r *GormMembershipRepository) Save(ctx context.Context, tc tenancy.Context, m *tenancy.Membership) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.MembershipModel{}
	model.FromDomain(m)
	return q.Create(model).Error
}

var (
	_ tenancy.TenantRepository     = (*GormTenantRepository)(nil)
	_ tenancy.MembershipRepository = (*GormMembershipRepository)(nil)
)
