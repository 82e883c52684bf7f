package seed

import (
	"context"
	"testing"

	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func smallOptions() Options {
	opts := DefaultOptions()
	opts.Units = 6
	opts.UnitsPerFloor = 3
	opts.Leads = 2
	opts.Clients = 2
	opts.Seed = 42
	return opts
}

func TestRun_CreatesTenantData(t *testing.T) {
	f := testutil.NewFixture(t)
	ctx := context.Background()

	res, err := Run(ctx, f.Scope, smallOptions())
	require.NoError(t, err)
	assert.Len(t, res.UnitIDs, 6)
	assert.Len(t, res.ClientIDs, 2)
	assert.Equal(t, 2, res.Leads)
	assert.Equal(t, 2, res.OwnerCount)

	tc := tenancy.NewContext(res.TenantID, &res.AdminID, tenancy.RoleAdmin)
	f.Read(t, func(repos unitofwork.Repositories) error {
		tenant, err := repos.Tenants().FindBySlug(ctx, "demo")
		require.NoError(t, err)
		assert.Equal(t, res.TenantID, tenant.ID)

		units, err := repos.Units().List(ctx, tc, inventory.UnitFilter{})
		require.NoError(t, err)
		require.Len(t, units, 6)
		for _, u := range units {
			assert.Equal(t, inventory.UnitStatusAvailable, u.Status)
			assert.True(t, u.Price.IsPositive(), "unit %s has a price", u.Code)
			require.NotNil(t, u.Floor)
		}

		ok, err := repos.Memberships().HasActive(ctx, tc, res.SellerID)
		require.NoError(t, err)
		assert.True(t, ok)
		return nil
	})
}

func TestRun_SameSeedSameUnits(t *testing.T) {
	ctx := context.Background()
	prices := func() map[string]string {
		f := testutil.NewFixture(t)
		res, err := Run(ctx, f.Scope, smallOptions())
		require.NoError(t, err)
		tc := tenancy.NewContext(res.TenantID, &res.AdminID, tenancy.RoleAdmin)

		out := map[string]string{}
		f.Read(t, func(repos unitofwork.Repositories) error {
			units, err := repos.Units().List(ctx, tc, inventory.UnitFilter{})
			require.NoError(t, err)
			for _, u := range units {
				out[u.Code] = u.Price.String()
			}
			return nil
		})
		return out
	}
	assert.Equal(t, prices(), prices())
}

func TestRun_RejectsExistingSlug(t *testing.T) {
	f := testutil.NewFixture(t)
	f.Tenant(t, "demo", "5", "3")

	_, err := Run(context.Background(), f.Scope, smallOptions())
	assert.ErrorIs(t, err, shared.ErrInvalidState)
}

func TestRun_ValidatesOptions(t *testing.T) {
	f := testutil.NewFixture(t)
	tests := []struct {
		name   string
		mutate func(*Options)
	}{
		{"no units", func(o *Options) { o.Units = 0 }},
		{"more clients than units", func(o *Options) { o.Clients = 10 }},
		{"bad fee", func(o *Options) { o.PlatformFee = "abc" }},
		{"bad condo fee", func(o *Options) { o.CondoFee = "x" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := smallOptions()
			tt.mutate(&opts)
			_, err := Run(context.Background(), f.Scope, opts)
			assert.Error(t, err)
		})
	}
}
