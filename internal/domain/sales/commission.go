package sales

import (
	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// CommissionRule sets the seller commission percentage for new payments.
// The newest active rule of a tenant wins.
type CommissionRule struct {
	shared.TenantAggregateRoot
	Role       *tenancy.Role
	Percentage valueobject.Percentage
	Active     bool
}

// NewCommissionRule creates a rule, optionally scoped to a role
func NewCommissionRule(tenantID uuid.UUID, role *tenancy.Role, pct valueobject.Percentage, active bool) (*CommissionRule, error) {
	if role != nil && !role.IsValid() {
		return nil, shared.Validation("unknown role %q", *role)
	}
	return &CommissionRule{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		Role:                role,
		Percentage:          pct,
		Active:              active,
	}, nil
}

// CommissionEntry is an immutable snapshot of the commission applied to one payment
type CommissionEntry struct {
	shared.TenantAggregateRoot
	SaleID     uuid.UUID
	PaymentID  uuid.UUID
	SellerID   uuid.UUID
	RuleID     *uuid.UUID
	Percentage valueobject.Percentage
	Amount     decimal.Decimal
}

// CommissionSource records where a payment's commission percentage came from
type CommissionSource struct {
	RuleID     *uuid.UUID
	Percentage valueobject.Percentage
}

// ResolveCommission picks the newest active rule, falling back to the
// tenant default. Rules must be ordered newest first.
func ResolveCommission(rules []CommissionRule, fallback valueobject.Percentage) CommissionSource {
	for i := range rules {
		if rules[i].Active {
			id := rules[i].ID
			return CommissionSource{RuleID: &id, Percentage: rules[i].Percentage}
		}
	}
	return CommissionSource{Percentage: fallback}
}
