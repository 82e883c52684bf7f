package sales

import (
	"context"
	"fmt"

	appaudit "github.com/propcore/backend/internal/application/audit"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/sales"
	"github.com/propcore/backend/internal/domain/shared/valueobject"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// CreateCommissionRuleInput describes a commission rule
type CreateCommissionRuleInput struct {
	Role       *tenancy.Role
	Percentage valueobject.Percentage
	Active     *bool
}

// CreateCommissionRule adds a rule. Root only.
func (s *Service) CreateCommissionRule(ctx context.Context, tc tenancy.Context, in CreateCommissionRuleInput) (*sales.CommissionRule, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "create_commission_rule",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.RequireRole(tc, tenancy.RoleRoot); err != nil {
		return nil, err
	}
	active := true
	if in.Active != nil {
		active = *in.Active
	}
	rule, err := sales.NewCommissionRule(tc.TenantID, in.Role, in.Percentage, active)
	if err != nil {
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		if err := repos.Commissions().CreateRule(ctx, tc, rule); err != nil {
			return fmt.Errorf("insert commission rule: %w", err)
		}
		meta := audit.CommissionRuleCreated{Percentage: rule.Percentage.Decimal(), Active: rule.Active}
		if rule.Role != nil {
			meta.Role = rule.Role.String()
		}
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.NewRecord(commissionEntity, rule.ID, meta))
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	logger.L(ctx).Info("commission rule created",
		zap.String("rule_id", rule.ID.String()),
		zap.String("percentage", rule.Percentage.String()),
		zap.Bool("active", rule.Active))
	return rule, nil
}

// ListCommissionRules returns the tenant's rules, active first then newest
func (s *Service) ListCommissionRules(ctx context.Context, tc tenancy.Context) ([]sales.CommissionRule, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sales", "list_commission_rules",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.RequireRole(tc, tenancy.RoleAdmin, tenancy.RoleRoot); err != nil {
		return nil, err
	}

	var rules []sales.CommissionRule
	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		var err error
		rules, err = repos.Commissions().ListRules(ctx, tc)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	return rules, nil
}
