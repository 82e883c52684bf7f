// Package report computes the read-only tenant summary behind the
// dashboard. Results are cached per tenant and dropped after every
// audited mutation.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/access"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// Service builds tenant summaries
type Service struct {
	scope unitofwork.Scope
	cache report.Cache
	now   func() time.Time
}

// NewService creates a report service. cache may be nil.
func NewService(scope unitofwork.Scope, cache report.Cache) *Service {
	return &Service{scope: scope, cache: cache, now: func() time.Time { return time.Now().UTC() }}
}

// SetClock replaces the time source
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Summary aggregates the target tenant's commercial figures. Staff only;
// a ROOT may name another tenant, anyone else only their own.
func (s *Service) Summary(ctx context.Context, tc tenancy.Context, targetTenantID *uuid.UUID) (*report.Summary, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "report", "summary",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.RequireStaff(tc); err != nil {
		return nil, err
	}
	target, err := access.ResolveTargetTenant(tc, targetTenantID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, target.TenantID)
		if err != nil {
			logger.L(ctx).Warn("report cache read failed", zap.Error(err))
		} else if ok {
			telemetry.AddEvent(span, "cache_hit")
			return cached, nil
		}
	}

	now := s.now()
	summary := &report.Summary{TenantID: target.TenantID.String(), GeneratedAt: now}
	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		return collect(ctx, repos.Reports(), target, now, summary)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, target.TenantID, summary); err != nil {
			logger.L(ctx).Warn("report cache write failed", zap.Error(err))
		}
	}
	return summary, nil
}

func collect(ctx context.Context, repo report.Repository, tc tenancy.Context, now time.Time, out *report.Summary) error {
	var err error
	if out.Leads, err = repo.CountLeads(ctx, tc); err != nil {
		return fmt.Errorf("count leads: %w", err)
	}
	if out.Reservations, err = repo.ReservationStats(ctx, tc, now); err != nil {
		return fmt.Errorf("reservation stats: %w", err)
	}
	if out.Sales, err = repo.SaleStats(ctx, tc); err != nil {
		return fmt.Errorf("sale stats: %w", err)
	}
	if out.Payments, err = repo.PaymentStats(ctx, tc); err != nil {
		return fmt.Errorf("payment stats: %w", err)
	}
	if out.Ledger, err = repo.LedgerTotals(ctx, tc); err != nil {
		return fmt.Errorf("ledger totals: %w", err)
	}
	if out.Commissions, err = repo.CommissionStats(ctx, tc); err != nil {
		return fmt.Errorf("commission stats: %w", err)
	}
	if out.Condo, err = repo.CondoStats(ctx, tc); err != nil {
		return fmt.Errorf("condo stats: %w", err)
	}
	return nil
}
