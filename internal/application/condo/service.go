// Package condo bills monthly condominium fees to owner accounts and
// tracks their payment.
package condo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/propcore/backend/internal/application/audit"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/condo"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	planEntity   = "condo_plan"
	chargeEntity = "condo_charge"
)

// CreatePlanInput describes a fee plan
type CreatePlanInput struct {
	Title      string
	MonthlyFee decimal.Decimal
	LateFeePct valueobject.Percentage
}

// GenerateResult reports a charge generation run
type GenerateResult struct {
	Count   int `json:"count"`
	Skipped int `json:"skipped"`
}

// RegisterPaymentInput holds a receipt against a charge
type RegisterPaymentInput struct {
	Amount    decimal.Decimal
	Method    string
	Reference string
}

// OverdueResult reports how many charges became overdue
type OverdueResult struct {
	Count int `json:"count"`
}

// Service runs the condominium fee engine
type Service struct {
	scope   unitofwork.Scope
	cache   report.Cache
	metrics *telemetry.CommerceMetrics
	now     func() time.Time
}

// NewService creates a condo service
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

// CreatePlan creates an active fee plan. Admin only.
func (s *Service) CreatePlan(ctx context.Context, tc tenancy.Context, in CreatePlanInput) (*condo.Plan, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "condo", "create_plan",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.RequireRole(tc, tenancy.RoleAdmin, tenancy.RoleRoot); err != nil {
		return nil, err
	}
	plan, err := condo.NewPlan(tc.TenantID, in.Title, in.MonthlyFee, in.LateFeePct)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if err := repos.CondoPlans().Create(ctx, tc, plan); err != nil {
			return fmt.Errorf("insert condo plan: %w", err)
		}
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(planEntity, plan.ID,
			audit.CondoPlanCreated{MonthlyFee: plan.MonthlyFee, LateFeePct: plan.LateFeePct.Decimal()}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	logger.L(ctx).Info("condo plan created", zap.String("plan_id", plan.ID.String()))
	return plan, nil
}

// GenerateMonthlyCharges bills every owner account that has a unit for the
// period. Accounts already charged for the period are skipped, so running
// the same period twice creates nothing new.
func (s *Service) GenerateMonthlyCharges(ctx context.Context, tc tenancy.Context, planID uuid.UUID, period condo.Period) (GenerateResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "condo", "generate_charges",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrPlanID, planID.String())
	defer span.End()

	if err := period.Validate(); err != nil {
		return GenerateResult{}, err
	}
	if err := tenancy.RequireStaff(tc); err != nil {
		return GenerateResult{}, err
	}

	var result GenerateResult
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		plan, err := repos.CondoPlans().FindActiveByID(ctx, tc, planID)
		if err != nil {
			return err
		}
		accounts, err := repos.OwnerAccounts().ListWithUnit(ctx, tc)
		if err != nil {
			return fmt.Errorf("list owner accounts: %w", err)
		}
		existing, err := repos.Charges().ExistingAccountsForPeriod(ctx, tc, plan.ID, period)
		if err != nil {
			return fmt.Errorf("find existing charges: %w", err)
		}

		charges := make([]condo.Charge, 0, len(accounts))
		for i := range accounts {
			if existing[accounts[i].ID] {
				result.Skipped++
				continue
			}
			c, err := condo.NewCharge(plan, &accounts[i], period)
			if err != nil {
				return err
			}
			charges = append(charges, *c)
		}
		if err := repos.Charges().CreateBatch(ctx, tc, charges); err != nil {
			return fmt.Errorf("insert charges: %w", err)
		}
		result.Count = len(charges)

		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(planEntity, plan.ID,
			audit.CondoChargesGenerated{
				PlanID:  plan.ID,
				Year:    period.Year,
				Month:   period.Month,
				Count:   result.Count,
				Skipped: result.Skipped,
			}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return GenerateResult{}, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrCount, result.Count)
	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	s.metrics.ChargesGenerated(ctx, tc.TenantID, result.Count)
	logger.L(ctx).Info("condo charges generated",
		zap.String("plan_id", planID.String()),
		zap.Int("year", period.Year),
		zap.Int("month", period.Month),
		zap.Int("count", result.Count),
		zap.Int("skipped", result.Skipped))
	return result, nil
}

// RegisterPayment records a payment against a charge and re-derives its
// status. A client may only pay charges of their own account.
func (s *Service) RegisterPayment(ctx context.Context, tc tenancy.Context, chargeID uuid.UUID, in RegisterPaymentInput) (*condo.Charge, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "condo", "register_payment",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrChargeID, chargeID.String(),
		telemetry.SpanAttrAmount, in.Amount.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return nil, err
	}
	now := s.now()
	payment, err := condo.NewPayment(tc.TenantID, chargeID, in.Amount, in.Method, in.Reference, now)
	if err != nil {
		return nil, err
	}

	var charge *condo.Charge
	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		charge, err = repos.Charges().FindByID(ctx, tc, chargeID)
		if err != nil {
			return err
		}
		if tenancy.IsClient(tc) {
			account, err := repos.OwnerAccounts().FindByID(ctx, tc, charge.OwnerAccountID)
			if err != nil {
				return err
			}
			if !account.IsOwnedBy(tc.UserID) {
				return shared.Forbidden("charge belongs to another owner")
			}
		}

		if err := repos.Charges().CreatePayment(ctx, tc, payment); err != nil {
			return fmt.Errorf("insert condo payment: %w", err)
		}
		if err := charge.ApplyPayment(in.Amount, now); err != nil {
			return err
		}
		if err := repos.Charges().Save(ctx, tc, charge); err != nil {
			return fmt.Errorf("save charge: %w", err)
		}
		charge.Payments = append([]condo.Payment{*payment}, charge.Payments...)

		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(chargeEntity, charge.ID,
			audit.CondoPaymentRegistered{ChargeID: charge.ID, Amount: in.Amount}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	s.metrics.CondoPaymentRegistered(ctx, tc.TenantID, string(charge.Status))
	logger.L(ctx).Info("condo payment registered",
		zap.String("charge_id", charge.ID.String()),
		zap.String("amount", in.Amount.String()),
		zap.String("status", string(charge.Status)))
	return charge, nil
}

// Statement returns an owner account's charges, newest due date first,
// each with its payments newest first.
func (s *Service) Statement(ctx context.Context, tc tenancy.Context, ownerAccountID uuid.UUID) (*condo.Statement, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "condo", "statement",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return nil, err
	}

	var st condo.Statement
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		account, err := repos.OwnerAccounts().FindByID(ctx, tc, ownerAccountID)
		if err != nil {
			return err
		}
		if tenancy.IsClient(tc) && !account.IsOwnedBy(tc.UserID) {
			return shared.Forbidden("owner account belongs to another user")
		}
		charges, err := repos.Charges().ListByAccount(ctx, tc, account.ID)
		if err != nil {
			return fmt.Errorf("list charges: %w", err)
		}
		st = condo.NewStatement(*account, charges)
		return nil
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return &st, nil
}

// MarkOverdue flags unpaid charges past their due date and applies each
// plan's late fee once. A sweep that finds nothing writes nothing.
func (s *Service) MarkOverdue(ctx context.Context, tc tenancy.Context) (OverdueResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "condo", "mark_overdue",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return OverdueResult{}, err
	}

	now := s.now()
	var result OverdueResult
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		candidates, err := repos.Charges().ListOverdueCandidates(ctx, tc, now)
		if err != nil {
			return fmt.Errorf("list overdue candidates: %w", err)
		}

		plans := make(map[uuid.UUID]*condo.Plan)
		for i := range candidates {
			c := &candidates[i]
			plan, ok := plans[c.PlanID]
			if !ok {
				plan, err = repos.CondoPlans().FindByID(ctx, tc, c.PlanID)
				if err != nil {
					return err
				}
				plans[c.PlanID] = plan
			}
			if !c.MarkOverdue(plan.LateFeePct, now) {
				continue
			}
			if err := repos.Charges().Save(ctx, tc, c); err != nil {
				return fmt.Errorf("save charge %s: %w", c.ID, err)
			}
			result.Count++
		}

		if result.Count == 0 {
			return nil
		}
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.Record{
			EntityType: chargeEntity,
			Metadata:   audit.CondoChargesOverdue{Count: result.Count},
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return OverdueResult{}, err
	}

	if result.Count > 0 {
		appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
		s.metrics.ChargesOverdue(ctx, tc.TenantID, result.Count)
		logger.L(ctx).Info("condo charges marked overdue", zap.Int("count", result.Count))
	}
	return result, nil
}
