package persistence

import (
	"context"

	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/reservation"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/tenancy"
	"gorm.io/gorm"
)

// GormTransactionScope implements unitofwork.Scope using GORM transactions
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a database transaction. If fn returns an error
// the transaction is rolled back, otherwise it is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos unitofwork.Repositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormRepositories{tx: tx})
	})
}

// gormRepositories provides access to all repositories within a transaction
type gormRepositories struct {
	tx *gorm.DB
}

func (r *gormRepositories) Tenants() tenancy.TenantRepository { return NewGormTenantRepository(r.tx) }

func (r *gormRepositories) Memberships() tenancy.MembershipRepository {
	return NewGormMembershipRepository(r.tx)
}

func (r *gormRepositories) Units() inventory.UnitRepository { return NewGormUnitRepository(r.tx) }

func (r *gormRepositories) Reservations() reservation.Repository {
	return NewGormReservationRepository(r.tx)
}

func (r *gormRepositories) Sales() sales.SaleRepository { return NewGormSaleRepository(r.tx) }

func (r *gormRepositories) PaymentPlans() sales.PaymentPlanRepository {
	return NewGormPaymentPlanRepository(r.tx)
}

func (r *gormRepositories) Payments() sales.PaymentRepository { return NewGormPaymentRepository(r.tx) }

func (r *gormRepositories) Commissions() sales.CommissionRepository {
	return NewGormCommissionRepository(r.tx)
}

func (r *gormRepositories) Ledger() sales.LedgerRepository { return NewGormLedgerRepository(r.tx) }

func (r *gormRepositories) Leads() sales.LeadRepository { return NewGormLeadRepository(r.tx) }

func (r *gormRepositories) Assets() sales.AssetRepository { return NewGormAssetRepository(r.tx) }

func (r *gormRepositories) CondoPlans() condo.PlanRepository { return NewGormCondoPlanRepository(r.tx) }

func (r *gormRepositories) OwnerAccounts() condo.OwnerAccountRepository {
	return NewGormOwnerAccountRepository(r.tx)
}

func (r *gormRepositories) Charges() condo.ChargeRepository { return NewGormChargeRepository(r.tx) }

func (r *gormRepositories) Audit() audit.Repository { return NewGormAuditRepository(r.tx) }

func (r *gormRepositories) Reports() report.Repository { return NewGormReportRepository(r.tx) }

var (
	_ unitofwork.Scope        = (*GormTransactionScope)(nil)
	_ unitofwork.Repositories = (*gormRepositories)(nil)
)
