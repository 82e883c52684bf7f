// Package unitofwork defines the transactional boundary every core
// operation runs in. Each mutating service call executes exactly one
// Scope.Execute, so its state changes and its audit entry commit or roll
// back together.
package unitofwork

import (
	"context"

	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/reservation"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/tenancy"
)

// Scope runs fn inside one transaction. An error from fn rolls back.
type Scope interface {
	Execute(ctx context.Context, fn func(repos Repositories) error) error
}

// Repositories exposes every repository bound to the current transaction
type Repositories interface {
	Tenants() tenancy.TenantRepository
	Memberships() tenancy.MembershipRepository
	Units() inventory.UnitRepository
	Reservations() reservation.Repository
	Sales() sales.SaleRepository
	PaymentPlans() sales.PaymentPlanRepository
	Payments() sales.PaymentRepository
	Commissions() sales.CommissionRepository
	Ledger() sales.LedgerRepository
	Leads() sales.LeadRepository
	Assets() sales.AssetRepository
	CondoPlans() condo.PlanRepository
	OwnerAccounts() condo.OwnerAccountRepository
	Charges() condo.ChargeRepository
	Audit() audit.Repository
	Reports() report.Repository
}
