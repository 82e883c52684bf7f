// Package sales runs the sale pipeline: converting a reservation or an
// available unit into a sale, registering payments and posting the ledger.
package sales

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
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	saleEntity       = "sale"
	paymentEntity    = "payment"
	planEntity       = "payment_plan"
	commissionEntity = "commission_rule"
)

// CreateSaleInput holds the parties and terms of a new sale
type CreateSaleInput struct {
	UnitID        uuid.UUID
	LeadID        *uuid.UUID
	ReservationID *uuid.UUID
	BuyerID       *uuid.UUID
	SellerID      *uuid.UUID
	Price         decimal.Decimal
	Notes         string
}

// CloseResult reports whether a close changed anything
type CloseResult struct {
	Rows int64 `json:"rows"`
}

// AttachResult reports how many assets were attached
type AttachResult struct {
	Affected int64 `json:"affected"`
}

// Service manages sales, payments and the ledger
type Service struct {
	scope   unitofwork.Scope
	cache   report.Cache
	metrics *telemetry.CommerceMetrics
	now     func() time.Time
}

// NewService creates a sales service
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

// CreateSale sells a unit. The unit moves to SOLD from AVAILABLE, or from
// RESERVED when the given reservation holds this same unit; the reservation
// is then marked CONVERTED.
func (s *Service) CreateSale(ctx context.Context, tc tenancy.Context, in CreateSaleInput) (*sales.Sale, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "create_sale",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrUnitID, in.UnitID.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return nil, err
	}
	if in.SellerID == nil {
		in.SellerID = tc.UserID
	}
	sale, err := sales.NewSale(tc.TenantID, sales.NewSaleInput{
		UnitID:        in.UnitID,
		LeadID:        in.LeadID,
		ReservationID: in.ReservationID,
		BuyerID:       in.BuyerID,
		SellerID:      in.SellerID,
		Price:         in.Price,
		Notes:         in.Notes,
	})
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		unit, err := repos.Units().FindByID(ctx, tc, in.UnitID)
		if err != nil {
			return err
		}
		if in.LeadID != nil {
			if _, err := repos.Leads().FindByID(ctx, tc, *in.LeadID); err != nil {
				return err
			}
		}

		from := []inventory.UnitStatus{inventory.UnitStatusAvailable}
		if in.ReservationID != nil {
			r, err := repos.Reservations().FindByID(ctx, tc, *in.ReservationID)
			if err != nil {
				return err
			}
			if r.UnitID != unit.ID {
				return shared.Validation("reservation %s does not hold unit %s", r.ID, unit.ID)
			}
			from = append(from, inventory.UnitStatusReserved)
		}

		for _, party := range []struct {
			name string
			id   *uuid.UUID
		}{{"buyer", in.BuyerID}, {"seller", in.SellerID}} {
			if party.id == nil {
				continue
			}
			ok, err := repos.Memberships().HasActive(ctx, tc, *party.id)
			if err != nil {
				return fmt.Errorf("check %s membership: %w", party.name, err)
			}
			if !ok {
				return shared.NotFound(party.name)
			}
		}

		ok, err := repos.Units().TransitionStatus(ctx, tc, unit.ID, inventory.UnitStatusSold, from...)
		if err != nil {
			return fmt.Errorf("sell unit: %w", err)
		}
		if !ok {
			return shared.UnitUnavailable(unit.ID)
		}
		if err := repos.Sales().Create(ctx, tc, sale); err != nil {
			return fmt.Errorf("insert sale: %w", err)
		}
		if in.ReservationID != nil {
			if _, err := repos.Reservations().MarkConverted(ctx, tc, *in.ReservationID); err != nil {
				return fmt.Errorf("convert reservation: %w", err)
			}
		}

		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(saleEntity, sale.ID,
			audit.SaleCreated{UnitID: unit.ID, Price: sale.Price}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Warn("sale rejected",
			zap.String("unit_id", in.UnitID.String()),
			zap.Error(err))
		return nil, err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	s.metrics.SaleCreated(ctx, tc.TenantID)
	logger.L(ctx).Info("sale created",
		zap.String("sale_id", sale.ID.String()),
		zap.String("unit_id", sale.UnitID.String()),
		zap.String("price", sale.Price.String()))
	return sale, nil
}

// CloseSale closes an OPEN sale. A sale that is not OPEN yields zero rows
// rather than an error.
func (s *Service) CloseSale(ctx context.Context, tc tenancy.Context, saleID uuid.UUID, closedAt *time.Time) (CloseResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "close_sale",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrSaleID, saleID.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return CloseResult{}, err
	}
	at := s.now()
	if closedAt != nil {
		at = closedAt.UTC()
	}

	var result CloseResult
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		rows, err := repos.Sales().Close(ctx, tc, saleID, at)
		if err != nil {
			return fmt.Errorf("close sale: %w", err)
		}
		result.Rows = rows
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(saleEntity, saleID,
			audit.SaleClosed{Rows: rows}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return CloseResult{}, err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	logger.L(ctx).Info("sale close requested",
		zap.String("sale_id", saleID.String()),
		zap.Int64("rows", result.Rows))
	return result, nil
}

// AttachSaleDocs links assets to a sale. Ids that are unknown or belong to
// another tenant are skipped silently.
func (s *Service) AttachSaleDocs(ctx context.Context, tc tenancy.Context, saleID uuid.UUID, assetIDs []uuid.UUID) (AttachResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "attach_docs",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrSaleID, saleID.String(),
		telemetry.SpanAttrCount, len(assetIDs))
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return AttachResult{}, err
	}
	if len(assetIDs) == 0 {
		return AttachResult{}, shared.Validation("at least one asset id is required")
	}

	var result AttachResult
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Sales().FindByID(ctx, tc, saleID); err != nil {
			return err
		}
		affected, err := repos.Assets().AttachToSale(ctx, tc, saleID, assetIDs)
		if err != nil {
			return fmt.Errorf("attach assets: %w", err)
		}
		result.Affected = affected
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(saleEntity, saleID,
			audit.SaleDocsAttached{AssetIDs: assetIDs, Affected: affected}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return AttachResult{}, err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	return result, nil
}

// GetSaleLedger returns the postings of a sale
func (s *Service) GetSaleLedger(ctx context.Context, tc tenancy.Context, saleID uuid.UUID) ([]sales.LedgerEntry, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "get_ledger",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrSaleID, saleID.String())
	defer span.End()

	if err := tenancy.RequireStaff(tc); err != nil {
		return nil, err
	}

	var entries []sales.LedgerEntry
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Sales().FindByID(ctx, tc, saleID); err != nil {
			return err
		}
		var err error
		entries, err = repos.Ledger().ListBySale(ctx, tc, saleID)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return entries, nil
}
