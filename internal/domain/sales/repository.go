package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/tenancy"
)

// SaleRepository defines persistence for sales
type SaleRepository interface {
	// FindByID finds a sale by ID within the tenant
	FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*Sale, error)

	// Create inserts a sale
	Create(ctx context.Context, tc tenancy.Context, sale *Sale) error

	// Close sets CLOSED on an OPEN sale and returns the affected row count
	Close(ctx context.Context, tc tenancy.Context, id uuid.UUID, closedAt time.Time) (int64, error)
}

// PaymentPlanRepository defines persistence for plans and installments
type PaymentPlanRepository interface {
	// Create inserts a plan together with its installments
	Create(ctx context.Context, tc tenancy.Context, plan *PaymentPlan) error

	// FindInstallment finds an installment by ID within the tenant
	FindInstallment(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*Installment, error)

	// FindPlanByID finds a plan header by ID within the tenant
	FindPlanByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*PaymentPlan, error)

	// SaveInstallment persists paid amount and status
	SaveInstallment(ctx context.Context, tc tenancy.Context, inst *Installment) error
}

// PaymentRepository defines persistence for payment receipts
type PaymentRepository interface {
	Create(ctx context.Context, tc tenancy.Context, payment *Payment) error
	ListBySale(ctx context.Context, tc tenancy.Context, saleID uuid.UUID) ([]Payment, error)
}

// CommissionRepository defines persistence for rules and entries
type CommissionRepository interface {
	// ListRules returns rules ordered active first, newest first
	ListRules(ctx context.Context, tc tenancy.Context) ([]CommissionRule, error)

	// ListActiveRules returns active rules ordered newest first
	ListActiveRules(ctx context.Context, tc tenancy.Context) ([]CommissionRule, error)

	CreateRule(ctx context.Context, tc tenancy.Context, rule *CommissionRule) error
	CreateEntry(ctx context.Context, tc tenancy.Context, entry *CommissionEntry) error
}

// LedgerRepository appends postings. There is no update or delete.
type LedgerRepository interface {
	Append(ctx context.Context, tc tenancy.Context, entries []LedgerEntry) error
	ListBySale(ctx context.Context, tc tenancy.Context, saleID uuid.UUID) ([]LedgerEntry, error)
	ListByPayment(ctx context.Context, tc tenancy.Context, paymentID uuid.UUID) ([]LedgerEntry, error)
}

// LeadRepository is the lookup sales and reservations need from CRM
type LeadRepository interface {
	FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*Lead, error)
	Create(ctx context.Context, tc tenancy.Context, lead *Lead) error
}

// AssetRepository manages document ownership records
type AssetRepository interface {
	Create(ctx context.Context, tc tenancy.Context, asset *Asset) error

	// AttachToSale sets sale_id on the tenant's assets among ids and returns
	// how many rows changed. Unknown or foreign ids are skipped.
	AttachToSale(ctx context.Context, tc tenancy.Context, saleID uuid.UUID, ids []uuid.UUID) (int64, error)

	ListBySale(ctx context.Context, tc tenancy.Context, saleID uuid.UUID) ([]Asset, error)
}
