// Package audit writes audit entries through the repository of the
// current unit of work, so an entry commits or rolls back with the
// mutation it describes.
package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// Sink appends audit entries
type Sink struct {
	repo audit.Repository
	now  func() time.Time
}

// NewSink creates a sink over a transaction-bound repository
func NewSink(repo audit.Repository) *Sink {
	return &Sink{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// WithClock returns a sink stamping entries with now
func (s *Sink) WithClock(now func() time.Time) *Sink {
	return &Sink{repo: s.repo, now: now}
}

// Write appends one entry for rec. It fails with MISSING_TENANT before
// touching the repository when tc has no tenant.
func (s *Sink) Write(ctx context.Context, tc tenancy.Context, rec audit.Record) error {
	entry, err := audit.NewEntry(tc, rec, s.now())
	if err != nil {
		return err
	}
	if err := s.repo.Append(ctx, tc, entry); err != nil {
		return fmt.Errorf("append audit entry %s: %w", entry.Action, err)
	}
	return nil
}

// AfterCommit drops the cached report summary of tenantID once an audited
// mutation has committed. Cache failures are logged and never returned.
func AfterCommit(ctx context.Context, cache report.Cache, tenantID uuid.UUID) {
	if cache == nil {
		return
	}
	if err := cache.Invalidate(ctx, tenantID); err != nil {
		logger.L(ctx).Warn("failed to invalidate report summary cache",
			zap.String("tenant_id", tenantID.String()),
			zap.Error(err))
	}
}
