package inventory

import (
	"testing"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUnit(t *testing.T) {
	tenantID := uuid.New()

	t.Run("creates available unit", func(t *testing.T) {
		u, err := NewUnit(tenantID, " TA-0101 ", decimal.NewFromInt(200000))
		require.NoError(t, err)
		assert.Equal(t, "TA-0101", u.Code)
		assert.Equal(t, UnitStatusAvailable, u.Status)
		assert.True(t, u.IsAvailable())
		assert.Equal(t, tenantID, u.TenantID)
	})

	t.Run("rejects empty code", func(t *testing.T) {
		_, err := NewUnit(tenantID, "  ", decimal.NewFromInt(1))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		_, err := NewUnit(tenantID, "A1", decimal.NewFromInt(-1))
		assert.ErrorIs(t, err, shared.ErrValidation)
	})
}

func TestUnitStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from UnitStatus
		to   UnitStatus
		want bool
	}{
		{UnitStatusAvailable, UnitStatusReserved, true},
		{UnitStatusAvailable, UnitStatusSold, true},
		{UnitStatusAvailable, UnitStatusBlocked, true},
		{UnitStatusReserved, UnitStatusAvailable, true},
		{UnitStatusReserved, UnitStatusSold, true},
		{UnitStatusReserved, UnitStatusBlocked, false},
		{UnitStatusBlocked, UnitStatusAvailable, true},
		{UnitStatusBlocked, UnitStatusReserved, false},
		{UnitStatusSold, UnitStatusAvailable, false},
		{UnitStatusSold, UnitStatusReserved, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to))
		})
	}
}

func TestParseUnitStatus(t *testing.T) {
	s, err := ParseUnitStatus("blocked")
	require.NoError(t, err)
	assert.Equal(t, UnitStatusBlocked, s)

	_, err = ParseUnitStatus("demolished")
	assert.ErrorIs(t, err, shared.ErrValidation)
}
