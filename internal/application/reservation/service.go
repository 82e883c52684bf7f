// Package reservation runs the reservation lifecycle: holding a unit for a
// limited time, releasing it on expiry or cancellation.
package reservation

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/propcore/backend/internal/application/audit"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/reservation"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const entityType = "reservation"

// CreateInput holds the parameters of a new reservation
type CreateInput struct {
	UnitID   uuid.UUID
	TTLHours *int
	UserID   *uuid.UUID
	LeadID   *uuid.UUID
	Notes    string
}

// ExpireResult reports how many reservations a sweep expired
type ExpireResult struct {
	Count int `json:"count"`
}

// Service manages reservations
type Service struct {
	scope   unitofwork.Scope
	cache   report.Cache
	metrics *telemetry.CommerceMetrics
	now     func() time.Time
}

// NewService creates a reservation service
func NewService(scope unitofwork.Scope) *Service {
	return &Service{scope: scope, now: func() time.Time { return time.Now().UTC() }}
}

// SetCache sets the report cache invalidated after each mutation
func (s *Service) SetCache(cache report.Cache) {
	s.cache = cache
}

// SetCommerceMetrics sets the business metrics collector
func (s *Service) SetCommerceMetrics(m *telemetry.CommerceMetrics) {
	s.metrics = m
}

// SetClock replaces the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Create reserves an available unit. The unit moves to RESERVED through a
// conditional update, so of two concurrent requests at most one wins; the
// loser gets UNIT_UNAVAILABLE.
func (s *Service) Create(ctx context.Context, tc tenancy.Context, in CreateInput) (*reservation.Reservation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reservation", "create",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrUnitID, in.UnitID.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return nil, err
	}
	if in.TTLHours != nil {
		if err := reservation.ValidateTTL(*in.TTLHours); err != nil {
			return nil, err
		}
	}

	now := s.now()
	var created *reservation.Reservation
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		tenant, err := repos.Tenants().FindByID(ctx, tc.TenantID)
		if err != nil {
			return err
		}
		unit, err := repos.Units().FindByID(ctx, tc, in.UnitID)
		if err != nil {
			return err
		}
		if !unit.IsAvailable() {
			return shared.UnitUnavailable(unit.ID)
		}
		if in.LeadID != nil {
			if _, err := repos.Leads().FindByID(ctx, tc, *in.LeadID); err != nil {
				return err
			}
		}

		ttl := tenant.ReservationTTLHours
		if in.TTLHours != nil {
			ttl = *in.TTLHours
		}
		if ttl <= 0 {
			ttl = tenancy.DefaultReservationTTLHours
		}
		userID := in.UserID
		if userID == nil {
			userID = tc.UserID
		}

		r, err := reservation.New(tc.TenantID, unit.ID, userID, in.LeadID, ttl, now, in.Notes)
		if err != nil {
			return err
		}

		ok, err := repos.Units().TransitionStatus(ctx, tc, unit.ID, inventory.UnitStatusReserved, inventory.UnitStatusAvailable)
		if err != nil {
			return fmt.Errorf("reserve unit: %w", err)
		}
		if !ok {
			return shared.UnitUnavailable(unit.ID)
		}
		if err := repos.Reservations().Create(ctx, tc, r); err != nil {
			return fmt.Errorf("insert reservation: %w", err)
		}

		created = r
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(entityType, r.ID,
			audit.ReservationCreated{UnitID: unit.ID, ExpiresAt: r.ExpiresAt}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Warn("reservation rejected",
			zap.String("unit_id", in.UnitID.String()),
			zap.Error(err))
		return nil, err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	s.metrics.ReservationCreated(ctx, tc.TenantID)
	logger.L(ctx).Info("reservation created",
		zap.String("reservation_id", created.ID.String()),
		zap.String("unit_id", created.UnitID.String()),
		zap.Time("expires_at", created.ExpiresAt))
	return created, nil
}

// Expire moves every lapsed ACTIVE reservation to EXPIRED and releases
// units still RESERVED. Units already SOLD or BLOCKED are left alone. A run
// with nothing to expire writes nothing, audit included.
func (s *Service) Expire(ctx context.Context, tc tenancy.Context) (ExpireResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reservation", "expire",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return ExpireResult{}, err
	}

	now := s.now()
	var result ExpireResult
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		due, err := repos.Reservations().FindExpirable(ctx, tc, now)
		if err != nil {
			return fmt.Errorf("find expirable reservations: %w", err)
		}

		for i := range due {
			r := &due[i]
			ok, err := repos.Reservations().TransitionStatus(ctx, tc, r.ID, reservation.StatusExpired, reservation.StatusActive)
			if err != nil {
				return fmt.Errorf("expire reservation %s: %w", r.ID, err)
			}
			if !ok {
				continue
			}
			if _, err := repos.Units().TransitionStatus(ctx, tc, r.UnitID, inventory.UnitStatusAvailable, inventory.UnitStatusReserved); err != nil {
				return fmt.Errorf("release unit %s: %w", r.UnitID, err)
			}
			result.Count++
		}

		if result.Count == 0 {
			return nil
		}
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.Record{
			EntityType: entityType,
			Metadata:   audit.ReservationsExpired{Count: result.Count},
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return ExpireResult{}, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCount, result.Count)
	if result.Count > 0 {
		appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
		s.metrics.ReservationsExpired(ctx, tc.TenantID, result.Count)
		logger.L(ctx).Info("reservations expired", zap.Int("count", result.Count))
	}
	return result, nil
}

// Cancel cancels an ACTIVE reservation and releases its unit. A client may
// only cancel their own reservation.
func (s *Service) Cancel(ctx context.Context, tc tenancy.Context, reservationID uuid.UUID, reason string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "reservation", "cancel",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrReservationID, reservationID.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return err
	}
	if len(reason) > 500 {
		return shared.Validation("reason cannot exceed 500 characters")
	}

	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		r, err := repos.Reservations().FindByID(ctx, tc, reservationID)
		if err != nil {
			return err
		}
		if tenancy.IsClient(tc) && !r.IsOwnedBy(tc.UserID) {
			return shared.Forbidden("reservation belongs to another user")
		}
		if err := r.EnsureCancelable(); err != nil {
			return err
		}

		ok, err := repos.Reservations().TransitionStatus(ctx, tc, r.ID, reservation.StatusCanceled, reservation.StatusActive)
		if err != nil {
			return fmt.Errorf("cancel reservation: %w", err)
		}
		if !ok {
			return shared.InvalidState("reservation %s is no longer active", r.ID)
		}
		if _, err := repos.Units().TransitionStatus(ctx, tc, r.UnitID, inventory.UnitStatusAvailable, inventory.UnitStatusReserved); err != nil {
			return fmt.Errorf("release unit: %w", err)
		}

		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(entityType, r.ID,
			audit.ReservationCanceled{Reason: reason}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	logger.L(ctx).Info("reservation canceled", zap.String("reservation_id", reservationID.String()))
	return nil
}

// List returns reservations newest first. Clients only see their own.
func (s *Service) List(ctx context.Context, tc tenancy.Context, filter reservation.Filter) ([]reservation.Reservation, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reservation", "list",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, shared.Validation("unknown reservation status %q", *filter.Status)
	}
	if tenancy.IsClient(tc) {
		if !tc.HasUser() {
			return nil, shared.Forbidden("an authenticated user is required")
		}
		filter.UserID = tc.UserID
	}

	var out []reservation.Reservation
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		out, err = repos.Reservations().List(ctx, tc, filter)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return out, nil
}
