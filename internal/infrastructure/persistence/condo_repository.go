package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormCondoPlanRepository implements condo.PlanRepository using GORM
type GormCondoPlanRepository struct {
	db *gorm.DB
}

// NewGormCondoPlanRepository creates a new GormCondoPlanRepository
func NewGormCondoPlanRepository(db *gorm.DB) *GormCondoPlanRepository {
	return &GormCondoPlanRepository{db: db}
}

// FindByID finds a plan by ID within the tenant
func (r *GormCondoPlanRepository) FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*condo.Plan, error) {
	return r.first(ctx, tc, tenancy.Filter{"id": id})
}

// FindActiveByID finds an active plan by ID within the tenant
func (r *GormCondoPlanRepository) FindActiveByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*condo.Plan, error) {
	return r.first(ctx, tc, tenancy.Filter{"id": id, "active": true})
}

func (r *GormCondoPlanRepository) first(ctx context.Context, tc tenancy.Context, filter tenancy.Filter) (*condo.Plan, error) {
	q, err := scoped(ctx, r.db, tc, filter)
	if err != nil {
		return nil, err
	}
	var model models.CondoPlanModel
	if err := q.First(&model).Error; err != nil {
		return nil, notFound(err, "CondoFeePlan")
	}
	return model.ToDomain()
}

// Create inserts a plan
func (r *GormCondoPlanRepository) Create(ctx context.Context, tc tenancy.Context, plan *condo.Plan) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.CondoPlanModel{}
	model.FromDomain(plan)
	return q.Create(model).Error
}

// GormOwnerAccountRepository implements condo.OwnerAccountRepository using GORM
type GormOwnerAccountRepository struct {
	db *gorm.DB
}

// NewGormOwnerAccountRepository creates a new GormOwnerAccountRepository
func NewGormOwnerAccountRepository(db *gorm.DB) *GormOwnerAccountRepository {
	return &GormOwnerAccountRepository{db: db}
}

// FindByID finds an owner account by ID within the tenant
func (r *GormOwnerAccountRepository) FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*condo.OwnerAccount, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	var model models.OwnerAccountModel
	if err := q.First(&model).Error; err != nil {
		return nil, notFound(err, "OwnerAccount")
	}
	return model.ToDomain(), nil
}

// ListWithUnit returns accounts that are linked to a unit, oldest first
func (r *GormOwnerAccountRepository) ListWithUnit(ctx context.Context, tc tenancy.Context) ([]condo.OwnerAccount, error) {
	q, err := scoped(ctx, r.db, tc, nil)
	if err != nil {
		return nil, err
	}
	var rows []models.OwnerAccountModel
	if err := q.Where("unit_id IS NOT NULL").Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]condo.OwnerAccount, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// Create inserts an owner account
func (r *GormOwnerAccountRepository) Create(ctx context.Context, tc tenancy.Context, account *condo.OwnerAccount) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.OwnerAccountModel{}
	model.FromDomain(account)
	return q.Create(model).Error
}

// GormChargeRepository implements condo.ChargeRepository using GORM
type GormChargeRepository struct {
	db *gorm.DB
}

// NewGormChargeRepository creates a new GormChargeRepository
func NewGormChargeRepository(db *gorm.DB) *GormChargeRepository {
	return &GormChargeRepository{db: db}
}

// FindByID finds a charge and its payments
func (r *GormChargeRepository) FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*condo.Charge, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	var model models.CondoChargeModel
	if err := q.First(&model).Error; err != nil {
		return nil, notFound(err, "CondoFeeCharge")
	}
	charges := []condo.Charge{*model.ToDomain()}
	if err := r.attachPayments(ctx, tc, charges); err != nil {
		return nil, err
	}
	return &charges[0], nil
}

// ExistingAccountsForPeriod returns the accounts already charged by plan for period
func (r *GormChargeRepository) ExistingAccountsForPeriod(ctx context.Context, tc tenancy.Context, planID uuid.UUID, period condo.Period) (map[uuid.UUID]bool, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.CondoChargeModel{}, tenancy.Filter{
		"plan_id":      planID,
		"period_year":  period.Year,
		"period_month": period.Month,
	})
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := q.Pluck("owner_account_id", &ids).Error; err != nil {
		return nil, err
	}
	out := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out, nil
}

// CreateBatch inserts charges in one statement
func (r *GormChargeRepository) CreateBatch(ctx context.Context, tc tenancy.Context, charges []condo.Charge) error {
	if len(charges) == 0 {
		return nil
	}
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	rows := make([]models.CondoChargeModel, len(charges))
	for i := range charges {
		rows[i].FromDomain(&charges[i])
	}
	return q.Create(&rows).Error
}

// Save persists the mutable amounts and status of a charge. The row must
// still carry the version the charge was loaded with; a concurrent writer
// makes the save fail with INVALID_STATE and the transaction roll back.
func (r *GormChargeRepository) Save(ctx context.Context, tc tenancy.Context, charge *condo.Charge) error {
	q, err := scopedModel(ctx, r.db, tc, &models.CondoChargeModel{}, tenancy.Filter{
		"id":      charge.ID,
		"version": charge.Version - 1,
	})
	if err != nil {
		return err
	}
	res := q.Updates(map[string]any{
		"late_fee_amount": charge.LateFeeAmount,
		"paid_amount":     charge.PaidAmount,
		"status":          charge.Status,
		"version":         charge.Version,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.InvalidState("charge %s was modified by another transaction", charge.ID)
	}
	return nil
}

// ListByAccount returns an account's charges, latest due date first, with payments
func (r *GormChargeRepository) ListByAccount(ctx context.Context, tc tenancy.Context, ownerAccountID uuid.UUID) ([]condo.Charge, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"owner_account_id": ownerAccountID})
	if err != nil {
		return nil, err
	}
	charges, err := r.find(q.Order("due_date DESC"))
	if err != nil {
		return nil, err
	}
	if err := r.attachPayments(ctx, tc, charges); err != nil {
		return nil, err
	}
	return charges, nil
}

// ListOverdueCandidates returns unpaid, not yet overdue charges due before now
func (r *GormChargeRepository) ListOverdueCandidates(ctx context.Context, tc tenancy.Context, now time.Time) ([]condo.Charge, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{
		"status": []condo.ChargeStatus{condo.ChargeStatusPending, condo.ChargeStatusPartial},
	})
	if err != nil {
		return nil, err
	}
	return r.find(q.Where("due_date < ?", now).Order("due_date ASC"))
}

// CreatePayment inserts a charge payment
func (r *GormChargeRepository) CreatePayment(ctx context.Context, tc tenancy.Context, payment *condo.Payment) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.CondoPaymentModel{}
	model.FromDomain(payment)
	return q.Create(model).Error
}

func (r *GormChargeRepository) find(q *gorm.DB) ([]condo.Charge, error) {
	var rows []models.CondoChargeModel
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]condo.Charge, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

// attachPayments loads payments for charges, latest first, with one tenant-scoped query
func (r *GormChargeRepository) attachPayments(ctx context.Context, tc tenancy.Context, charges []condo.Charge) error {
	if len(charges) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(charges))
	index := make(map[uuid.UUID]int, len(charges))
	for i := range charges {
		ids[i] = charges[i].ID
		index[charges[i].ID] = i
	}
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"charge_id": ids})
	if err != nil {
		return err
	}
	var rows []models.CondoPaymentModel
	if err := q.Order("paid_at DESC").Find(&rows).Error; err != nil {
		return err
	}
	for i := range rows {
		if at, ok := index[rows[i].ChargeID]; ok {
			charges[at].Payments = append(charges[at].Payments, *rows[i].ToDomain())
		}
	}
	return nil
}

var (
	_ condo.PlanRepository         = (*GormCondoPlanRepository)(nil)
	_ condo.OwnerAccountRepository = (*GormOwnerAccountRepository)(nil)
	_ condo.ChargeRepository       = (*GormChargeRepository)(nil)
)
