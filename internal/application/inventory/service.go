// Package inventory manages a tenant's sellable units: browsing, bulk CSV
// import and administrative status overrides.
package inventory

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	appaudit "github.com/propcore/backend/internal/application/audit"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	csvimport "github.com/propcore/backend/internal/infrastructure/import"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

const (
	unitEntity = "unit"
	maxReason  = 500
)

// ImportResult summarises a CSV import
type ImportResult struct {
	Created   int                  `json:"created"`
	Failed    int                  `json:"failed"`
	UnitIDs   []uuid.UUID          `json:"unit_ids"`
	Errors    []csvimport.RowError `json:"errors,omitempty"`
	Truncated bool                 `json:"truncated,omitempty"`
}

// Service manages units
type Service struct {
	scope unitofwork.Scope
	cache report.Cache
}

// NewService creates an inventory service
func NewService(scope unitofwork.Scope) *Service {
	return &Service{scope: scope}
}

// SetCache sets the report cache invalidated after each mutation
func (s *Service) SetCache(cache report.Cache) {
	s.cache = cache
}

// List returns the tenant's units ordered by status, then code
func (s *Service) List(ctx context.Context, tc tenancy.Context, filter inventory.UnitFilter) ([]inventory.Unit, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "list_units",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return nil, err
	}
	if filter.Status != nil && !filter.Status.IsValid() {
		return nil, shared.Validation("unknown unit status %q", *filter.Status)
	}
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, shared.Validation("minPrice cannot exceed maxPrice")
	}

	var units []inventory.Unit
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		units, err = repos.Units().List(ctx, tc, filter)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return units, nil
}

// UpdateStatus overrides a unit's status. It bypasses the lifecycle, so
// any target is allowed, and requires privileged mode.
func (s *Service) UpdateStatus(ctx context.Context, tc tenancy.Context, unitID uuid.UUID, status inventory.UnitStatus, reason string) (*inventory.Unit, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "update_status",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrUnitID, unitID.String())
	defer span.End()

	if err := tenancy.RequirePrivileged(tc); err != nil {
		return nil, err
	}
	if !status.IsValid() {
		return nil, shared.Validation("unknown unit status %q", status)
	}
	if len(reason) > maxReason {
		return nil, shared.Validation("reason cannot exceed %d characters", maxReason)
	}

	var unit *inventory.Unit
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		unit, err = repos.Units().FindByID(ctx, tc, unitID)
		if err != nil {
			return err
		}
		previous := unit.Status
		if err := repos.Units().SetStatus(ctx, tc, unit.ID, status); err != nil {
			return fmt.Errorf("set unit status: %w", err)
		}
		unit.Status = status
		logger.L(ctx).Info("unit status overridden",
			zap.String("unit_id", unit.ID.String()),
			zap.String("from", previous.String()),
			zap.String("to", status.String()))

		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(unitEntity, unit.ID,
			audit.UnitStatusUpdated{Status: status.String(), Reason: reason}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	return unit, nil
}

// Import creates AVAILABLE units from a CSV upload with the columns code,
// price, area_m2, floor, view and typology_id. Invalid rows and codes that
// already exist are reported per row; the valid rows are still created.
func (s *Service) Import(ctx context.Context, tc tenancy.Context, r io.Reader) (*ImportResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "inventory", "import_units",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.RequireRole(tc, tenancy.RoleAdmin, tenancy.RoleRoot); err != nil {
		return nil, err
	}

	rows, rowErrs, err := csvimport.ParseUnits(r)
	if err != nil {
		return nil, shared.Validation("cannot read CSV: %v", err)
	}

	result := &ImportResult{}
	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		for _, row := range rows {
			exists, err := repos.Units().ExistsByCode(ctx, tc, row.Code)
			if err != nil {
				return fmt.Errorf("check unit code: %w", err)
			}
			if exists {
				rowErrs.AddDuplicate(row.Line, csvimport.ColCode, row.Code, true)
				continue
			}

			unit, err := inventory.NewUnit(tc.TenantID, row.Code, row.Price)
			if err != nil {
				return err
			}
			unit.AreaM2 = row.AreaM2
			unit.Floor = row.Floor
			unit.View = row.View
			unit.TypologyID = row.TypologyID
			if err := repos.Units().Create(ctx, tc, unit); err != nil {
				return fmt.Errorf("insert unit %s: %w", row.Code, err)
			}
			result.UnitIDs = append(result.UnitIDs, unit.ID)
		}

		result.Created = len(result.UnitIDs)
		result.Failed = rowErrs.FailedRows()
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.Record{
			EntityType: unitEntity,
			Metadata:   audit.UnitsImported{Created: result.Created, Failed: result.Failed},
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	result.Errors = rowErrs.Errors()
	result.Truncated = rowErrs.IsTruncated()
	telemetry.SetAttributes(span, telemetry.SpanAttrCount, result.Created)
	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	logger.L(ctx).Info("units imported",
		zap.Int("created", result.Created),
		zap.Int("failed", result.Failed))
	return result, nil
}
