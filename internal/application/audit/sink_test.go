package audit

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Append(ctx context.Context, tc tenancy.Context, entry *audit.Entry) error {
	args := m.Called(ctx, tc, entry)
	return args.Error(0)
}

func (m *mockRepository) ListByEntity(ctx context.Context, tc tenancy.Context, entityType string, entityID uuid.UUID) ([]audit.Entry, error) {
	args := m.Called(ctx, tc, entityType, entityID)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

func (m *mockRepository) ListByAction(ctx context.Context, tc tenancy.Context, action audit.Action) ([]audit.Entry, error) {
	args := m.Called(ctx, tc, action)
	return args.Get(0).([]audit.Entry), args.Error(1)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Get(ctx context.Context, tenantID uuid.UUID) (*report.Summary, bool, error) {
	args := m.Called(ctx, tenantID)
	s, _ := args.Get(0).(*report.Summary)
	return s, args.Bool(1), args.Error(2)
}

func (m *mockCache) Set(ctx context.Context, tenantID uuid.UUID, summary *report.Summary) error {
	return m.Called(ctx, tenantID, summary).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, tenantID uuid.UUID) error {
	return m.Called(ctx, tenantID).Error(0)
}

func TestSink_Write(t *testing.T) {
	ctx := context.Background()
	tenantID, userID, unitID := uuid.New(), uuid.New(), uuid.New()
	tc := tenancy.NewContext(tenantID, &userID, tenancy.RoleAdmin)
	stamp := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	repo := new(mockRepository)
	repo.On("Append", ctx, tc, mock.MatchedBy(func(e *audit.Entry) bool {
		return e.TenantID == tenantID &&
			e.UserID != nil && *e.UserID == userID &&
			e.Action == audit.ActionUnitStatusUpdated &&
			e.EntityType == "unit" &&
			*e.EntityID == unitID &&
			e.CreatedAt.Equal(stamp)
	})).Return(nil).Once()

	sink := NewSink(repo).WithClock(func() time.Time { return stamp })
	err := sink.Write(ctx, tc, audit.NewRecord("unit", unitID, audit.UnitStatusUpdated{Status: "BLOCKED"}))
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestSink_Write_MissingTenantNeverTouchesRepository(t *testing.T) {
	repo := new(mockRepository)
	err := NewSink(repo).Write(context.Background(), tenancy.Context{}, audit.NewRecord("unit", uuid.New(), audit.UnitStatusUpdated{}))
	assert.ErrorIs(t, err, shared.ErrMissingTenant)
	repo.AssertNotCalled(t, "Append", mock.Anything, mock.Anything, mock.Anything)
}

func TestSink_Write_WrapsRepositoryError(t *testing.T) {
	boom := errors.New("disk full")
	repo := new(mockRepository)
	repo.On("Append", mock.Anything, mock.Anything, mock.Anything).Return(boom)

	tc := tenancy.NewContext(uuid.New(), nil, tenancy.RoleAdmin)
	err := NewSink(repo).Write(context.Background(), tc, audit.Record{
		EntityType: "reservation",
		Metadata:   audit.ReservationsExpired{Count: 3},
	})
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), string(audit.ActionReservationsExpired))
}

func TestAfterCommit(t *testing.T) {
	ctx := context.Background()
	tenantID := uuid.New()

	t.Run("nil cache", func(t *testing.T) {
		assert.NotPanics(t, func() { AfterCommit(ctx, nil, tenantID) })
	})

	t.Run("invalidates tenant", func(t *testing.T) {
		c := new(mockCache)
		c.On("Invalidate", ctx, tenantID).Return(nil).Once()
		AfterCommit(ctx, c, tenantID)
		c.AssertExpectations(t)
	})

	t.Run("swallows cache errors", func(t *testing.T) {
		c := new(mockCache)
		c.On("Invalidate", ctx, tenantID).Return(errors.New("redis down")).Once()
		assert.NotPanics(t, func() { AfterCommit(ctx, c, tenantID) })
		c.AssertExpectations(t)
	})
}
