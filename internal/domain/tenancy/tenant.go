package tenancy

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
)

// DefaultReservationTTLHours applies when a tenant has no TTL configured
const DefaultReservationTTLHours = 48

// Tenant is the isolation boundary and carries the commercial defaults
type Tenant struct {
	shared.BaseAggregateRoot
	Name                string
	Slug                string
	PlatformFeePct      valueobject.Percentage
	SellerCommissionPct valueobject.Percentage
	ReservationTTLHours int
	Active              bool
}

// NewTenant creates an active tenant
func NewTenant(name, slug string, platformFee, sellerCommission valueobject.Percentage, ttlHours int) (*Tenant, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" {
		return nil, shared.Validation("tenant name cannot be empty")
	}
	if slug == "" {
		return nil, shared.Validation("tenant slug cannot be empty")
	}
	if ttlHours <= 0 {
		ttlHours = DefaultReservationTTLHours
	}
	return &Tenant{
		BaseAggregateRoot:   shared.NewBaseAggregateRoot(),
		Name:                name,
		Slug:                slug,
		PlatformFeePct:      platformFee,
		SellerCommissionPct: sellerCommission,
		ReservationTTLHours: ttlHours,
		Active:              true,
	}, nil
}

// Membership links a user to a tenant under one role
type Membership struct {
	shared.TenantAggregateRoot
	UserID uuid.UUID
	Role   Role
	Active bool
}

// NewMembership creates an active membership
func NewMembership(tenantID, userID uuid.UUID, role Role) (*Membership, error) {
	if !role.IsValid() {
		return nil, shared.Validation("unknown role %q", role)
	}
	return &Membership{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(tenantID),
		UserID:              userID,
		Role:                role,
		Active:              true,
	}, nil
}

// TenantRepository loads tenants. Tenants are the one table not scoped by tenant_id.
type TenantRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindBySlug(ctx context.Context, slug string) (*Tenant, error)
	ListActiveIDs(ctx context.Context) ([]uuid.UUID, error)
	Save(ctx context.Context, tenant *Tenant) error
}

// MembershipRepository loads memberships within the context's tenant
type MembershipRepository interface {
	ListActiveForUser(ctx context.Context, tc Context, userID uuid.UUID) ([]Membership, error)
	HasActive(ctx context.Context, tc Context, userID uuid.UUID) (bool, error)
	Save(ctx context.Context, tc Context, m *Membership) error
}
