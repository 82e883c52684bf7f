package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements audit.Repository using GORM. There is no
// update or delete path.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append inserts an entry owned by the context's tenant
func (r *GormAuditRepository) Append(ctx context.Context, tc tenancy.Context, entry *audit.Entry) error {
	if entry.TenantID != tc.TenantID {
		return shared.ErrCrossTenant
	}
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.AuditLogModel{}
	model.FromDomain(entry)
	return q.Create(model).Error
}

// ListByEntity returns an entity's entries oldest first
func (r *GormAuditRepository) ListByEntity(ctx context.Context, tc tenancy.Context, entityType string, entityID uuid.UUID) ([]audit.Entry, error) {
	return r.list(ctx, tc, tenancy.Filter{"entity_type": entityType, "entity_id": entityID})
}

// ListByAction returns every entry for an action oldest first
func (r *GormAuditRepository) ListByAction(ctx context.Context, tc tenancy.Context, action audit.Action) ([]audit.Entry, error) {
	return r.list(ctx, tc, tenancy.Filter{"action": action})
}

func (r *GormAuditRepository) list(ctx context.Context, tc tenancy.Context, filter tenancy.Filter) ([]audit.Entry, error) {
	q, err := scoped(ctx, r.db, tc, filter)
	if err != nil {
		return nil, err
	}
	var rows []models.AuditLogModel
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]audit.Entry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var _ audit.Repository = (*GormAuditRepository)(nil)
