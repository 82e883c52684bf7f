package tenancy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssertTenantContext(t *testing.T) {
	t.Run("empty tenant is rejected", func(t *testing.T) {
		err := AssertTenantContext(Context{})
		assert.ErrorIs(t, err, shared.ErrMissingTenant)
	})

	t.Run("tenant present", func(t *testing.T) {
		assert.NoError(t, AssertTenantContext(Context{TenantID: uuid.New()}))
	})
}

func TestWithTenant(t *testing.T) {
	tenantID := uuid.New()
	tc := Context{TenantID: tenantID}

	t.Run("injects tenant id", func(t *testing.T) {
		f, err := WithTenant(tc, Filter{"status": "ACTIVE"})
		require.NoError(t, err)
		assert.Equal(t, tenantID, f[TenantColumn])
		assert.Equal(t, "ACTIVE", f["status"])
	})

	t.Run("nil filter", func(t *testing.T) {
		f, err := WithTenant(tc, nil)
		require.NoError(t, err)
		assert.Len(t, f, 1)
	})

	t.Run("does not mutate the input", func(t *testing.T) {
		in := Filter{"id": "x"}
		_, err := WithTenant(tc, in)
		require.NoError(t, err)
		_, has := in[TenantColumn]
		assert.False(t, has)
	})

	t.Run("same tenant is accepted", func(t *testing.T) {
		_, err := WithTenant(tc, Filter{TenantColumn: tenantID.String()})
		assert.NoError(t, err)
	})

	t.Run("cross tenant is rejected", func(t *testing.T) {
		_, err := WithTenant(tc, Filter{TenantColumn: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrCrossTenant)
	})

	t.Run("malformed tenant value is rejected", func(t *testing.T) {
		_, err := WithTenant(tc, Filter{TenantColumn: 42})
		assert.ErrorIs(t, err, shared.ErrCrossTenant)
	})

	t.Run("privileged root gets no bypass", func(t *testing.T) {
		root := Context{TenantID: tenantID, Role: RoleRoot, Privileged: true}
		_, err := WithTenant(root, Filter{TenantColumn: uuid.New()})
		assert.ErrorIs(t, err, shared.ErrCrossTenant)
	})

	t.Run("missing tenant", func(t *testing.T) {
		_, err := WithTenant(Context{}, Filter{})
		assert.ErrorIs(t, err, shared.ErrMissingTenant)
	})
}

func TestContext_IsUser(t *testing.T) {
	uid := uuid.New()
	other := uuid.New()
	tc := Context{TenantID: uuid.New(), UserID: &uid}

	assert.True(t, tc.HasUser())
	assert.True(t, tc.IsUser(&uid))
	assert.False(t, tc.IsUser(&other))
	assert.False(t, tc.IsUser(nil))
	assert.False(t, Context{}.HasUser())
}
