package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLeadRepository implements sales.LeadRepository using GORM
type GormLeadRepository struct {
	db *gorm.DB
}

// NewGormLeadRepository creates a new GormLeadRepository
func NewGormLeadRepository(db *gorm.DB) *GormLeadRepository {
	return &GormLeadRepository{db: db}
}

// FindByID finds a lead by ID within the tenant
func (r *GormLeadRepository) FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*sales.Lead, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	var model models.LeadModel
	if err := q.First(&model).Error; err != nil {
		return nil, notFound(err, "Lead")
	}
	return model.ToDomain(), nil
}

// Create inserts a lead
func (r *GormLeadRepository) Create(ctx context.Context, tc tenancy.Context, lead *sales.Lead) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.LeadModel{}
	model.FromDomain(lead)
	return q.Create(model).Error
}

// GormAssetRepository implements sales.AssetRepository using GORM
type GormAssetRepository struct {
	db *gorm.DB
}

// NewGormAssetRepository creates a new GormAssetRepository
func NewGormAssetRepository(db *gorm.DB) *GormAssetRepository {
	return &GormAssetRepository{db: db}
}

// Create inserts an asset record
func (r *GormAssetRepository) Create(ctx context.Context, tc tenancy.Context, asset *sales.Asset) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.AssetModel{}
	model.FromDomain(asset)
	return q.Create(model).Error
}

// AttachToSale links the tenant's assets among ids to the sale
func (r *GormAssetRepository) AttachToSale(ctx context.Context, tc tenancy.Context, saleID uuid.UUID, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	q, err := scopedModel(ctx, r.db, tc, &models.AssetModel{}, tenancy.Filter{"id": ids})
	if err != nil {
		return 0, err
	}
	res := q.Updates(map[string]any{"sale_id": saleID, "version": gorm.Expr("version + 1")})
	return res.RowsAffected, res.Error
}

// ListBySale returns the assets attached to a sale
func (r *GormAssetRepository) ListBySale(ctx context.Context, tc tenancy.Context, saleID uuid.UUID) ([]sales.Asset, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"sale_id": saleID})
	if err != nil {
		return nil, err
	}
	var rows []models.AssetModel
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sales.Asset, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ sales.LeadRepository  = (*GormLeadRepository)(nil)
	_ sales.AssetRepository = (*GormAssetRepository)(nil)
)
