package condo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/tenancy"
)

// PlanRepository defines persistence for fee plans
type PlanRepository interface {
	FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*Plan, error)

	// FindActiveByID finds a plan only if it is active
	FindActiveByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*Plan, error)

	Create(ctx context.Context, tc tenancy.Context, plan *Plan) error
}

// OwnerAccountRepository defines persistence for owner accounts
type OwnerAccountRepository interface {
	FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*OwnerAccount, error)

	// ListWithUnit returns accounts that have a unit assigned
	ListWithUnit(ctx context.Context, tc tenancy.Context) ([]OwnerAccount, error)

	Create(ctx context.Context, tc tenancy.Context, account *OwnerAccount) error
}

// ChargeRepository defines persistence for charges and their payments
type ChargeRepository interface {
	FindByID(ctx context.Context, tc tenancy.Context, id uuid.UUID) (*Charge, error)

	// ExistingAccountsForPeriod returns owner account ids that already have a
	// charge for the plan and period
	ExistingAccountsForPeriod(ctx context.Context, tc tenancy.Context, planID uuid.UUID, period Period) (map[uuid.UUID]bool, error)

	CreateBatch(ctx context.Context, tc tenancy.Context, charges []Charge) error

	// Save persists paid amount, late fee and status
	Save(ctx context.Context, tc tenancy.Context, charge *Charge) error

	// ListByAccount returns charges by due date desc with payments by paid_at desc
	ListByAccount(ctx context.Context, tc tenancy.Context, ownerAccountID uuid.UUID) ([]Charge, error)

	// ListOverdueCandidates returns PENDING or PARTIAL charges due before now
	ListOverdueCandidates(ctx context.Context, tc tenancy.Context, now time.Time) ([]Charge, error)

	CreatePayment(ctx context.Context, tc tenancy.Context, payment *Payment) error
}
