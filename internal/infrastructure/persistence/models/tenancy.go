package models

import (
	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/shopspring/decimal"
)

// TenantModel is the persistence model for a tenant. It is the one table
// without a tenant_id column.
type TenantModel struct {
	AggregateModel
	Name                string          `gorm:"type:varchar(200);not null"`
	Slug                string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	PlatformFeePct      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellerCommissionPct decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ReservationTTLHours int             `gorm:"column:reservation_ttl_hours;not null;default:48"`
	Active              bool            `gorm:"not null"`
}

// TableName returns the table name for GORM
func (TenantModel) TableName() string {
	return "tenants"
}

// ToDomain converts the persistence model to a domain Tenant.
// Stored percentages were validated on write, so a bad value here means
// the row was edited by hand and is reported as an error.
func (m *TenantModel) ToDomain() (*tenancy.Tenant, error) {
	fee, err := valueobject.NewPercentage(m.PlatformFeePct)
	if err != nil {
		return nil, err
	}
	commission, err := valueobject.NewPercentage(m.SellerCommissionPct)
	if err != nil {
		return nil, err
	}
	return &tenancy.Tenant{
		BaseAggregateRoot:   m.ToDomainAggregateRoot(),
		Name:                m.Name,
		Slug:                m.Slug,
		PlatformFeePct:      fee,
		SellerCommissionPct: commission,
		ReservationTTLHours: m.ReservationTTLHours,
		Active:              m.Active,
	}, nil
}

// FromDomain populates the persistence model from a domain Tenant
func (m *TenantModel) FromDomain(t *tenancy.Tenant) {
	m.FromDomainAggregateRoot(t.BaseAggregateRoot)
	m.Name = t.Name
	m.Slug = t.Slug
	m.PlatformFeePct = t.PlatformFeePct.Decimal()
	m.SellerCommissionPct = t.SellerCommissionPct.Decimal()
	m.ReservationTTLHours = t.ReservationTTLHours
	m.Active = t.Active
}

// MembershipModel is the persistence model for a tenant membership
type MembershipModel struct {
	AggregateModel
	TenantID uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_membership_tenant_user_role,priority:1"`
	UserID   uuid.UUID    `gorm:"type:uuid;not null;index;uniqueIndex:idx_membership_tenant_user_role,priority:2"`
	Role     tenancy.Role `gorm:"type:varchar(20);not null;uniqueIndex:idx_membership_tenant_user_role,priority:3"`
	Active   bool         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (MembershipModel) TableName() string {
	return "memberships"
}

// ToDomain converts the persistence model to a domain Membership
func (m *MembershipModel) ToDomain() *tenancy.Membership {
	return &tenancy.Membership{
		TenantAggregateRoot: tenantRoot(m.AggregateModel, m.TenantID),
		UserID:              m.UserID,
		Role:                m.Role,
		Active:              m.Active,
	}
}

// FromDomain populates the persistence model from a domain Membership
func (m *MembershipModel) FromDomain(ms *tenancy.Membership) {
	m.FromDomainAggregateRoot(ms.BaseAggregateRoot)
	m.TenantID = ms.TenantID
	m.UserID = ms.UserID
	m.Role = ms.Role
	m.Active = ms.Active
}
