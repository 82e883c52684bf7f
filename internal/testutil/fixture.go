package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/persistence"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Fixture seeds domain rows straight through the repositories
type Fixture struct {
	DB    *gorm.DB
	Scope *persistence.GormTransactionScope
}

// NewFixture opens a fresh sqlite database
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return FixtureFor(NewSQLiteDB(t))
}

// FixtureFor wraps an already migrated database
func FixtureFor(db *gorm.DB) *Fixture {
	return &Fixture{DB: db, Scope: persistence.NewGormTransactionScope(db)}
}

func (f *Fixture) exec(t *testing.T, fn func(repos unitofwork.Repositories) error) {
	t.Helper()
	require.NoError(t, f.Scope.Execute(context.Background(), fn))
}

// Tenant creates a tenant with the given platform fee and default commission
func (f *Fixture) Tenant(t *testing.T, slug, feePct, commissionPct string) *tenancy.Tenant {
	t.Helper()
	tn, err := tenancy.NewTenant("Tenant "+slug, slug,
		valueobject.MustPercentage(feePct), valueobject.MustPercentage(commissionPct), tenancy.DefaultReservationTTLHours)
	require.NoError(t, err)
	f.exec(t, func(repos unitofwork.Repositories) error {
		return repos.Tenants().Save(context.Background(), tn)
	})
	return tn
}

// Member creates a user with role in tenant and returns the context it acts under
func (f *Fixture) Member(t *testing.T, tenant *tenancy.Tenant, role tenancy.Role) tenancy.Context {
	t.Helper()
	userID := uuid.New()
	tc := tenancy.NewContext(tenant.ID, &userID, role)
	m, err := tenancy.NewMembership(tenant.ID, userID, role)
	require.NoError(t, err)
	f.exec(t, func(repos unitofwork.Repositories) error {
		return repos.Memberships().Save(context.Background(), tc, m)
	})
	return tc
}

// Unit creates an AVAILABLE unit
func (f *Fixture) Unit(t *testing.T, tc tenancy.Context, code, price string) *inventory.Unit {
	t.Helper()
	u, err := inventory.NewUnit(tc.TenantID, code, decimal.RequireFromString(price))
	require.NoError(t, err)
	f.exec(t, func(repos unitofwork.Repositories) error {
		return repos.Units().Create(context.Background(), tc, u)
	})
	return u
}

// LoadUnit reads a unit back
func (f *Fixture) LoadUnit(t *testing.T, tc tenancy.Context, id uuid.UUID) *inventory.Unit {
	t.Helper()
	var u *inventory.Unit
	f.exec(t, func(repos unitofwork.Repositories) error {
		var err error
		u, err = repos.Units().FindByID(context.Background(), tc, id)
		return err
	})
	return u
}

// Lead creates a lead
func (f *Fixture) Lead(t *testing.T, tc tenancy.Context, name string) *sales.Lead {
	t.Helper()
	l, err := sales.NewLead(tc.TenantID, name, "lead@example.com")
	require.NoError(t, err)
	f.exec(t, func(repos unitofwork.Repositories) error {
		return repos.Leads().Create(context.Background(), tc, l)
	})
	return l
}

// Asset creates an unattached asset
func (f *Fixture) Asset(t *testing.T, tc tenancy.Context, title string) *sales.Asset {
	t.Helper()
	a, err := sales.NewAsset(tc.TenantID, sales.AssetTypeContract, title, "assets/"+uuid.NewString())
	require.NoError(t, err)
	f.exec(t, func(repos unitofwork.Repositories) error {
		return repos.Assets().Create(context.Background(), tc, a)
	})
	return a
}

// OwnerAccount creates an owner account linked to userID and unitID
func (f *Fixture) OwnerAccount(t *testing.T, tc tenancy.Context, userID, unitID *uuid.UUID) *condo.OwnerAccount {
	t.Helper()
	a, err := condo.NewOwnerAccount(tc.TenantID, userID, unitID, "Owner", "owner@example.com")
	require.NoError(t, err)
	f.exec(t, func(repos unitofwork.Repositories) error {
		return repos.OwnerAccounts().Create(context.Background(), tc, a)
	})
	return a
}

// CommissionRule creates a commission rule
func (f *Fixture) CommissionRule(t *testing.T, tc tenancy.Context, pct string, active bool) *sales.CommissionRule {
	t.Helper()
	r, err := sales.NewCommissionRule(tc.TenantID, nil, valueobject.MustPercentage(pct), active)
	require.NoError(t, err)
	f.exec(t, func(repos unitofwork.Repositories) error {
		return repos.Commissions().CreateRule(context.Background(), tc, r)
	})
	return r
}

// Read runs fn in a read transaction and fails the test on error
func (f *Fixture) Read(t *testing.T, fn func(repos unitofwork.Repositories) error) {
	t.Helper()
	f.exec(t, fn)
}
