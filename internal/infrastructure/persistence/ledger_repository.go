package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormLedgerRepository implements sales.LedgerRepository using GORM.
// Ledger rows are only ever inserted.
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// Append inserts postings in one batch
func (r *GormLedgerRepository) Append(ctx context.Context, tc tenancy.Context, entries []sales.LedgerEntry) error {
	if len(entries) == 0 {
		return nil
	}
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	rows := make([]models.LedgerEntryModel, len(entries))
	for i := range entries {
		rows[i].FromDomain(&entries[i])
	}
	return q.Create(&rows).Error
}

// ListBySale returns a sale's postings in insertion order
func (r *GormLedgerRepository) ListBySale(ctx context.Context, tc tenancy.Context, saleID uuid.UUID) ([]sales.LedgerEntry, error) {
	return r.list(ctx, tc, tenancy.Filter{"sale_id": saleID})
}

// ListByPayment returns the postings of one payment
func (r *GormLedgerRepository) ListByPayment(ctx context.Context, tc tenancy.Context, paymentID uuid.UUID) ([]sales.LedgerEntry, error) {
	return r.list(ctx, tc, tenancy.Filter{"payment_id": paymentID})
}

func (r *GormLedgerRepository) list(ctx context.Context, tc tenancy.Context, filter tenancy.Filter) ([]sales.LedgerEntry, error) {
	q, err := scoped(ctx, r.db, tc, filter)
	if err != nil {
		return nil, err
	}
	var rows []models.LedgerEntryModel
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sales.LedgerEntry, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// GormCommissionRepository implements sales.CommissionRepository using GORM
type GormCommissionRepository struct {
	db *gorm.DB
}

// NewGormCommissionRepository creates a new GormCommissionRepository
func NewGormCommissionRepository(db *gorm.DB) *GormCommissionRepository {
	return &GormCommissionRepository{db: db}
}

// ListRules returns rules ordered active first, newest first
func (r *GormCommissionRepository) ListRules(ctx context.Context, tc tenancy.Context) ([]sales.CommissionRule, error) {
	q, err := scoped(ctx, r.db, tc, nil)
	if err != nil {
		return nil, err
	}
	return r.find(q.Order("active DESC").Order("created_at DESC"))
}

// ListActiveRules returns active rules ordered newest first
func (r *GormCommissionRepository) ListActiveRules(ctx context.Context, tc tenancy.Context) ([]sales.CommissionRule, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"active": true})
	if err != nil {
		return nil, err
	}
	return r.find(q.Order("created_at DESC"))
}

func (r *GormCommissionRepository) find(q *gorm.DB) ([]sales.CommissionRule, error) {
	var rows []models.CommissionRuleModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sales.CommissionRule, 0, len(rows))
	for i := range rows {
		rule, err := rows[i].ToDomain()
		if err != nil {
			return nil, err
		}
		out = append(out, *rule)
	}
	return out, nil
}

// CreateRule inserts a commission rule
func (r *GormCommissionRepository) CreateRule(ctx context.Context, tc tenancy.Context, rule *sales.CommissionRule) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.CommissionRuleModel{}
	model.FromDomain(rule)
	return q.Create(model).Error
}

// CreateEntry inserts a commission snapshot
func (r *GormCommissionRepository) CreateEntry(ctx context.Context, tc tenancy.Context, entry *sales.CommissionEntry) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.CommissionEntryModel{}
	model.FromDomain(entry)
	return q.Create(model).Error
}

var (
	_ sales.LedgerRepository     = (*GormLedgerRepository)(nil)
	_ sales.CommissionRepository = (*GormCommissionRepository)(nil)
)
