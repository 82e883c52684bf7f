package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/propcore/backend/internal/application/audit"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// CreatePaymentInput holds a receipt against a sale
type CreatePaymentInput struct {
	SaleID        uuid.UUID
	Amount        decimal.Decimal
	InstallmentID *uuid.UUID
	Method        string
	Reference     string
	Notes         string
}

// PaymentResult is a registered payment with everything posted for it
type PaymentResult struct {
	Payment     *sales.Payment
	Installment *sales.Installment
	Commission  *sales.CommissionEntry
	Ledger      []sales.LedgerEntry
}

// CreatePaymentPlanInput describes an installment schedule
type CreatePaymentPlanInput struct {
	SaleID       uuid.UUID
	Title        string
	TotalAmount  decimal.Decimal
	Installments int
	StartDate    time.Time
}

// CreatePayment registers a confirmed payment and posts its four ledger
// rows. The commission percentage comes from the newest active rule, or
// the tenant default when no rule is active.
func (s *Service) CreatePayment(ctx context.Context, tc tenancy.Context, in CreatePaymentInput) (*PaymentResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "create_payment",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrSaleID, in.SaleID.String(),
		telemetry.SpanAttrAmount, in.Amount.String())
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return nil, err
	}
	payment, err := sales.NewPayment(tc.TenantID, sales.NewPaymentInput{
		SaleID:         in.SaleID,
		InstallmentID:  in.InstallmentID,
		RegisteredByID: tc.UserID,
		Amount:         in.Amount,
		Method:         in.Method,
		Reference:      in.Reference,
		Notes:          in.Notes,
	})
	if err != nil {
		return nil, err
	}

	result := &PaymentResult{Payment: payment}
	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		sale, err := repos.Sales().FindByID(ctx, tc, in.SaleID)
		if err != nil {
			return err
		}
		tenant, err := repos.Tenants().FindByID(ctx, tc.TenantID)
		if err != nil {
			return err
		}

		rules, err := repos.Commissions().ListActiveRules(ctx, tc)
		if err != nil {
			return fmt.Errorf("list commission rules: %w", err)
		}
		source := sales.ResolveCommission(rules, tenant.SellerCommissionPct)

		split, err := sales.ComputeSplit(in.Amount, tenant.PlatformFeePct, source.Percentage)
		if err != nil {
			return err
		}

		if err := repos.Payments().Create(ctx, tc, payment); err != nil {
			return fmt.Errorf("insert payment: %w", err)
		}

		if in.InstallmentID != nil {
			inst, err := s.applyToInstallment(ctx, repos, tc, sale, *in.InstallmentID, in.Amount)
			if err != nil {
				return err
			}
			result.Installment = inst
		}

		if sale.HasSeller() {
			entry := &sales.CommissionEntry{
				TenantAggregateRoot: shared.NewTenantAggregateRoot(tc.TenantID),
				SaleID:              sale.ID,
				PaymentID:           payment.ID,
				SellerID:            *sale.SellerID,
				RuleID:              source.RuleID,
				Percentage:          source.Percentage,
				Amount:              split.SellerCommission,
			}
			if err := repos.Commissions().CreateEntry(ctx, tc, entry); err != nil {
				return fmt.Errorf("insert commission entry: %w", err)
			}
			result.Commission = entry
		}

		result.Ledger = split.LedgerEntries(tc.TenantID, sale.ID, payment.ID)
		if err := repos.Ledger().Append(ctx, tc, result.Ledger); err != nil {
			return fmt.Errorf("post ledger: %w", err)
		}

		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(paymentEntity, payment.ID,
			audit.PaymentCreated{SaleID: sale.ID, Amount: in.Amount, LedgerCount: len(result.Ledger)}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		logger.L(ctx).Warn("payment rejected",
			zap.String("sale_id", in.SaleID.String()),
			zap.Error(err))
		return nil, err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	s.metrics.PaymentCreated(ctx, tc.TenantID, in.Amount)
	logger.L(ctx).Info("payment registered",
		zap.String("payment_id", payment.ID.String()),
		zap.String("sale_id", in.SaleID.String()),
		zap.String("amount", in.Amount.String()))
	return result, nil
}

// applyToInstallment adds amount to an installment of one of the sale's plans
func (s *Service) applyToInstallment(ctx context.Context, repos unitofwork.Repositories, tc tenancy.Context, sale *sales.Sale, installmentID uuid.UUID, amount decimal.Decimal) (*sales.Installment, error) {
	inst, err := repos.PaymentPlans().FindInstallment(ctx, tc, installmentID)
	if err != nil {
		return nil, err
	}
	plan, err := repos.PaymentPlans().FindPlanByID(ctx, tc, inst.PlanID)
	if err != nil {
		return nil, err
	}
	if plan.SaleID != sale.ID {
		return nil, shared.Validation("installment %s does not belong to sale %s", inst.ID, sale.ID)
	}
	if err := inst.ApplyPayment(amount); err != nil {
		return nil, err
	}
	if err := repos.PaymentPlans().SaveInstallment(ctx, tc, inst); err != nil {
		return nil, fmt.Errorf("save installment: %w", err)
	}
	return inst, nil
}

// CreatePaymentPlan schedules n monthly installments for a sale. The
// installments sum exactly to the total; the last absorbs rounding.
func (s *Service) CreatePaymentPlan(ctx context.Context, tc tenancy.Context, in CreatePaymentPlanInput) (*sales.PaymentPlan, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "create_payment_plan",
		telemetry.SpanAttrTenantID, tc.TenantID.String(),
		telemetry.SpanAttrSaleID, in.SaleID.String(),
		telemetry.SpanAttrCount, in.Installments)
	defer span.End()

	if err := tenancy.AssertTenantContext(tc); err != nil {
		return nil, err
	}
	start := in.StartDate.UTC()
	if in.StartDate.IsZero() {
		start = s.now()
	}
	plan, err := sales.NewPaymentPlan(tc.TenantID, in.SaleID, in.Title, in.TotalAmount, in.Installments, start)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if _, err := repos.Sales().FindByID(ctx, tc, in.SaleID); err != nil {
			return err
		}
		if err := repos.PaymentPlans().Create(ctx, tc, plan); err != nil {
			return fmt.Errorf("insert payment plan: %w", err)
		}
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(planEntity, plan.ID,
			audit.PaymentPlanCreated{SaleID: in.SaleID, TotalAmount: plan.TotalAmount, Installments: len(plan.Installments)}))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	logger.L(ctx).Info("payment plan created",
		zap.String("plan_id", plan.ID.String()),
		zap.Int("installments", len(plan.Installments)))
	return plan, nil
}
