package reservation

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	uid := uuid.New()

	r, err := New(uuid.New(), uuid.New(), &uid, nil, 48, now, "first visit")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, r.Status)
	assert.Equal(t, now.Add(48*time.Hour), r.ExpiresAt)
	assert.True(t, r.IsOwnedBy(&uid))
}

func TestValidateTTL(t *testing.T) {
	for _, h := range []int{0, -1, MaxTTLHours + 1} {
		assert.ErrorIs(t, ValidateTTL(h), shared.ErrValidation, "hours=%d", h)
	}
	assert.NoError(t, ValidateTTL(1))
	assert.NoError(t, ValidateTTL(MaxTTLHours))
}

func TestReservation_IsExpiredAt(t *testing.T) {
	now := time.Now()
	r := &Reservation{Status: StatusActive, ExpiresAt: now}

	assert.True(t, r.IsExpiredAt(now), "expiry is inclusive")
	assert.False(t, r.IsExpiredAt(now.Add(-time.Second)))

	r.Status = StatusCanceled
	assert.False(t, r.IsExpiredAt(now.Add(time.Hour)))
}

func TestReservation_EnsureCancelable(t *testing.T) {
	r := &Reservation{Status: StatusActive}
	assert.NoError(t, r.EnsureCancelable())

	for _, s := range []Status{StatusExpired, StatusCanceled, StatusConverted} {
		r.Status = s
		assert.ErrorIs(t, r.EnsureCancelable(), shared.ErrInvalidState)
		assert.True(t, s.IsTerminal())
	}
}
