package persistence

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormSaleRepository implements sales.SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by ID within the tenant
func (r *GormSaleRepository) FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*sales.Sale, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	var model models.SaleModel
	if err := q.First(&model).Error; err != nil {
		return nil, notFound(err, "Sale")
	}
	return model.ToDomain(), nil
}

// Create inserts a sale
func (r *GormSaleRepository) Create(ctx context.Context, tc tenancy.Context, sale *sales.Sale) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.SaleModel{}
	model.FromDomain(sale)
	return q.Create(model).Error
}

// Close sets CLOSED on an OPEN sale
func (r *GormSaleRepository) Close(ctx context.Context, tc tenancy.Context, id uuid.UUID, closedAt time.Time) (int64, error) {
	q, err := scopedModel(ctx, r.db, tc, &models.SaleModel{}, tenancy.Filter{"id": id, "status": sales.SaleStatusOpen})
	if err != nil {
		return 0, err
	}
	res := q.Updates(map[string]any{
		"status":    sales.SaleStatusClosed,
		"closed_at": closedAt,
		"version":   gorm.Expr("version + 1"),
	})
	return res.RowsAffected, res.Error
}

// GormPaymentPlanRepository implements sales.PaymentPlanRepository using GORM
type GormPaymentPlanRepository struct {
	db *gorm.DB
}

// NewGormPaymentPlanRepository creates a new GormPaymentPlanRepository
func NewGormPaymentPlanRepository(db *gorm.DB) *GormPaymentPlanRepository {
	return &GormPaymentPlanRepository{db: db}
}

// Create inserts the plan header and all installments
func (r *GormPaymentPlanRepository) Create(ctx context.Context, tc tenancy.Context, plan *sales.PaymentPlan) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	header := &models.PaymentPlanModel{}
	header.FromDomain(plan)
	if err := q.Create(header).Error; err != nil {
		return err
	}
	if len(plan.Installments) == 0 {
		return nil
	}
	rows := make([]models.InstallmentModel, len(plan.Installments))
	for i := range plan.Installments {
		rows[i].FromDomain(&plan.Installments[i])
	}
	return q.Create(&rows).Error
}

// FindInstallment finds an installment by ID within the tenant
func (r *GormPaymentPlanRepository) FindInstallment(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*sales.Installment, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	var model models.InstallmentModel
	if err := q.First(&model).Error; err != nil {
		return nil, notFound(err, "Installment")
	}
	return model.ToDomain(), nil
}

// FindPlanByID finds a plan and its installments ordered by due date
func (r *GormPaymentPlanRepository) FindPlanByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*sales.PaymentPlan, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"id": id})
	if err != nil {
		return nil, err
	}
	var header models.PaymentPlanModel
	if err := q.First(&header).Error; err != nil {
		return nil, notFound(err, "PaymentPlan")
	}
	plan := header.ToDomain()

	iq, err := scoped(ctx, r.db, tc, tenancy.Filter{"plan_id": id})
	if err != nil {
		return nil, err
	}
	var rows []models.InstallmentModel
	if err := iq.Order("due_date ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		plan.Installments = append(plan.Installments, *rows[i].ToDomain())
	}
	return plan, nil
}

// SaveInstallment persists paid amount and status, guarded by the version
// the installment was loaded with
func (r *GormPaymentPlanRepository) SaveInstallment(ctx context.Context, tc tenancy.Context, inst *sales.Installment) error {
	q, err := scopedModel(ctx, r.db, tc, &models.InstallmentModel{}, tenancy.Filter{
		"id":      inst.ID,
		"version": inst.Version - 1,
	})
	if err != nil {
		return err
	}
	res := q.Updates(map[string]any{
		"paid_amount": inst.PaidAmount,
		"status":      inst.Status,
		"version":     inst.Version,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return shared.InvalidState("installment %s was modified by another transaction", inst.ID)
	}
	return nil
}

// GormPaymentRepository implements sales.PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Create inserts a payment receipt
func (r *GormPaymentRepository) Create(ctx context.Context, tc tenancy.Context, payment *sales.Payment) error {
	q, err := creating(ctx, r.db, tc)
	if err != nil {
		return err
	}
	model := &models.PaymentModel{}
	model.FromDomain(payment)
	return q.Create(model).Error
}

// ListBySale returns a sale's payments oldest first
func (r *GormPaymentRepository) ListBySale(ctx context.Context, tc tenancy.Context, saleID uuid.UUID) ([]sales.Payment, error) {
	q, err := scoped(ctx, r.db, tc, tenancy.Filter{"sale_id": saleID})
	if err != nil {
		return nil, err
	}
	var rows []models.PaymentModel
	if err := q.Order("created_at ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]sales.Payment, len(rows))
	for i := range rows {
		out[i] = *rows[i].ToDomain()
	}
	return out, nil
}

var (
	_ sales.SaleRepository        = (*GormSaleRepository)(nil)
	_ sales.PaymentPlanRepository = (*GormPaymentPlanRepository)(nil)
	_ sales.PaymentRepository     = (*GormPaymentRepository)(nil)
)
