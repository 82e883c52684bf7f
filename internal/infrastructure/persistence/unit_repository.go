package persistence

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormUnitRepository implements inventory.UnitRepository using GORM
type GormUnitRepository struct {
	db *gorm.DB
}

// NewGormUnitRepository creates a new GormUnitRepository
func NewGormUnitRepository(db *gorm.DB) *GormUnitRepository {
	return &GormUnitRepository{db: db}
}

// FindByID finds a unit by ID within the tenant
func (r *GormUnitRepository) FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*inventory.Unit, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	var model models.UnitModel
	if err := q.First(&model).Error; err != nil {
		return nil, notFound(err, "Unit")
	}
	return model.ToDomain(), nil
}

// List returns units matching the filter ordered by status, then code
func (r *GormUnitRepository) List(ctx context.Context, tc tenancy.Context, filter inventory.UnitFilter) ([]inventory.Unit, error) {
	eq := tenancy.Filter{}
	if filter.Status != nil {
		eq["status"] = *filter.Status
	}
	if filter.TypologyID != nil {
		eq["typology_id"] = *filter.TypologyID
	}
	if filter.Floor != nil {
		eq["floor"] = *filter.Floor
	}
	q, err := scoped(ctx, r.db, tc, eq)
	if err != nil {
		return nil, err
	}
	if filter.MinPrice != nil {
		q = q.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		q = q.Where("price <= ?", *filter.MaxPrice)
	}
	if view := strings.TrimSpace(filter.View); view != "" {
		q = q.Where("LOWER(view) LIKE ?", "%"+strings.ToLower(view)+"%")
	}

	var rows []models.UnitModel
	if field := ValidateSortField(filter.SortBy, UnitSortFields, ""); field != "" {
		q = q.Order(field + " " + ValidateSortOrder(filter.SortOrder)).Order("code ASC")
	} else {
		q = q.Order("status ASC").Order("code ASC")
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]inventory.Unit, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// ExistsByCode reports whether a unit code is taken in the tenant
func (r *GormUnitRepository) ExistsByCode(ctx context.Context, tc tenancy.Context, code string) (bool, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.UnitModel{}, tenancy.Filter{"code": code})
	if err != nil {
		return false, err
	}
	var n int64
	if err := q.Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// Create inserts a new unit
func (r *GormUnitRepository) Create(ctx context.Context, tc tenancy.Context, unit *inventory.Unit) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.UnitModel{}
	model.FromDomain(unit)
	return q.Create(model).Error
}

// TransitionStatus updates the status only when the current status is one of from
func (r *GormUnitRepository) TransitionStatus(ctx context.Context, tc tenancy.Context, id uuid.UUID, to inventory.UnitStatus, from ...inventory.UnitStatus) (bool, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.UnitModel{}, tenancy.Filter{"id": id, "status": from})
	if err != nil {
		return false, err
	}
	res := q.Updates(map[string]any{
		"status":  to,
		"version": gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SetStatus unconditionally sets the status
func (r *GormUnitRepository) SetStatus(ctx context.Context, tc tenancy.Context, id uuid.UUID, status inventory.UnitStatus) error {
	q, err := scopedModel(ctx, r.db, tc, &models.UnitModel{}, tenancy.Filter{"id": id})
	if err != nil {
		return err
	}
	res := q.Updates(map[string]any{
		"status":  status,
		"version": gorm.Expr("version + 1"),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound(gorm.ErrRecordNotFound, "Unit")
	}
	return nil
}

var _ inventory.UnitRepository = (*GormUnitRepository)(nil)
