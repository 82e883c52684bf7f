package tenancy

import (
	"testing"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func TestRole_Rank(t *testing.T) {
	assert.Less(t, RoleClient.Rank(), RoleSeller.Rank())
	assert.Less(t, RoleSeller.Rank(), RoleAdmin.Rank())
	assert.Less(t, RoleAdmin.Rank(), RoleRoot.Rank())
	assert.Equal(t, 0, Role("OWNER").Rank())
}

func TestHighestRole(t *testing.T) {
	tests := []struct {
		name  string
		roles []Role
		want  Role
	}{
		{"none", nil, ""},
		{"single", []Role{RoleSeller}, RoleSeller},
		{"admin beats client", []Role{RoleClient, RoleAdmin}, RoleAdmin},
		{"order independent", []Role{RoleAdmin, RoleRoot, RoleClient}, RoleRoot},
		{"unknown ignored", []Role{"GUEST", RoleClient}, RoleClient},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HighestRole(tt.roles...))
		})
	}
}

func TestParseRole(t *testing.T) {
	r, err := ParseRole(" admin ")
	assert.NoError(t, err)
	assert.Equal(t, RoleAdmin, r)

	_, err = ParseRole("owner")
	assert.ErrorIs(t, err, shared.ErrValidation)
}

func TestGuards(t *testing.T) {
	tenantID := uuid.New()
	uid := uuid.New()

	t.Run("RequireRole", func(t *testing.T) {
		tc := Context{TenantID: tenantID, Role: RoleSeller}
		assert.NoError(t, RequireRole(tc, RoleSeller, RoleAdmin))
		assert.ErrorIs(t, RequireRole(tc, RoleAdmin), shared.ErrForbidden)
	})

	t.Run("RequireStaff rejects clients", func(t *testing.T) {
		assert.ErrorIs(t, RequireStaff(Context{TenantID: tenantID, Role: RoleClient}), shared.ErrForbidden)
		assert.NoError(t, RequireStaff(Context{TenantID: tenantID, Role: RoleAdmin}))
	})

	t.Run("RequirePrivileged", func(t *testing.T) {
		assert.ErrorIs(t, RequirePrivileged(Context{TenantID: tenantID, Role: RoleAdmin}), shared.ErrForbidden)
		assert.NoError(t, RequirePrivileged(Context{TenantID: tenantID, Role: RoleAdmin, Privileged: true}))
		assert.NoError(t, RequirePrivileged(Context{TenantID: tenantID, Role: RoleRoot}))
		assert.ErrorIs(t, RequirePrivileged(Context{TenantID: tenantID, Role: RoleSeller, Privileged: true}), shared.ErrForbidden)
	})

	t.Run("RequireUser", func(t *testing.T) {
		assert.ErrorIs(t, RequireUser(Context{TenantID: tenantID}), shared.ErrForbidden)
		assert.NoError(t, RequireUser(Context{TenantID: tenantID, UserID: &uid}))
		assert.ErrorIs(t, RequireUser(Context{}), shared.ErrMissingTenant)
	})
}
