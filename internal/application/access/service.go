// Package access turns an upstream identity into a tenancy.Context: it
// ranks the user's memberships, verifies privileged-mode tokens and applies
// the root override for tenant selection.
package access

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	appaudit "github.com/propcore/backend/internal/application/audit"
	"github.com/propcore/backend/internal/application/unitofwork"
	"github.com/propcore/backend/internal/domain/audit"
	"github.com/propcore/backend/internal/domain/report"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/auth"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// ActionPrivilegedModeDisabled is audited when a privileged token is given up
const ActionPrivilegedModeDisabled audit.Action = "security.privileged_mode.disabled"

// TokenService issues and verifies privileged-mode tokens
type TokenService interface {
	Issue(userID, tenantID uuid.UUID) (*auth.IssuedToken, error)
	Verify(ctx context.Context, token string, userID, tenantID uuid.UUID) (*auth.Claims, error)
	Revoke(ctx context.Context, claims *auth.Claims) error
}

// Service resolves execution contexts and manages privileged mode
type Service struct {
	scope  unitofwork.Scope
	tokens TokenService
	cache  report.Cache
}

// NewService creates an access service. tokens may be nil, in which case
// privileged mode is unavailable.
func NewService(scope unitofwork.Scope, tokens TokenService) *Service {
	return &Service{scope: scope, tokens: tokens}
}

// SetCache sets the report cache invalidated after audited writes
func (s *Service) SetCache(cache report.Cache) {
	s.cache = cache
}

// ResolveContext builds the context for userID acting in tenantID.
// The role is the highest of the user's active memberships; a user with no
// membership gets an empty role, which every role guard denies. Privileged
// is set only for a valid token bound to the same user and tenant.
func (s *Service) ResolveContext(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, privilegedToken string) (tenancy.Context, error) {
	if tenantID == uuid.Nil {
		return tenancy.Context{}, shared.ErrMissingTenant
	}
	tc := tenancy.NewContext(tenantID, userID, "")

	err := s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		tenant, err := repos.Tenants().FindByID(ctx, tenantID)
		if err != nil {
			return err
		}
		if !tenant.Active {
			return shared.Forbidden("tenant %s is inactive", tenant.Slug)
		}
		if !tc.HasUser() {
			return nil
		}

		memberships, err := repos.Memberships().ListActiveForUser(ctx, tc, *userID)
		if err != nil {
			return fmt.Errorf("list memberships: %w", err)
		}
		roles := make([]tenancy.Role, 0, len(memberships))
		for _, m := range memberships {
			roles = append(roles, m.Role)
		}
		tc.Role = tenancy.HighestRole(roles...)
		return nil
	})
	if err != nil {
		return tenancy.Context{}, err
	}

	if privilegedToken != "" && tc.HasUser() && tc.Role.AtLeast(tenancy.RoleAdmin) && s.tokens != nil {
		if _, err := s.tokens.Verify(ctx, privilegedToken, *tc.UserID, tenantID); err != nil {
			logger.L(ctx).Warn("privileged token rejected",
				zap.String("tenant_id", tenantID.String()),
				zap.Error(err))
		} else {
			tc = tc.WithPrivileged(true)
		}
	}
	return tc, nil
}

// IssuePrivilegedToken enables privileged mode for an ADMIN or ROOT
func (s *Service) IssuePrivilegedToken(ctx context.Context, tc tenancy.Context) (*auth.IssuedToken, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "access", "issue_privileged_token",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.RequireRole(tc, tenancy.RoleAdmin, tenancy.RoleRoot); err != nil {
		return nil, err
	}
	if err := tenancy.RequireUser(tc); err != nil {
		return nil, err
	}
	if s.tokens == nil {
		return nil, shared.InvalidState("privileged mode is not configured")
	}

	issued, err := s.tokens.Issue(*tc.UserID, tc.TenantID)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.Record{
			EntityType: "user",
			EntityID:   tc.UserID,
			Metadata:   audit.PrivilegedModeEnabled{ExpiresAt: issued.ExpiresAt},
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)

	logger.L(ctx).Info("privileged mode enabled", zap.Time("expires_at", issued.ExpiresAt))
	return issued, nil
}

// RevokePrivilegedToken gives up a privileged token before it expires
func (s *Service) RevokePrivilegedToken(ctx context.Context, tc tenancy.Context, token string) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "access", "revoke_privileged_token",
		telemetry.SpanAttrTenantID, tc.TenantID.String())
	defer span.End()

	if err := tenancy.RequireUser(tc); err != nil {
		return err
	}
	if s.tokens == nil {
		return shared.InvalidState("privileged mode is not configured")
	}
	claims, err := s.tokens.Verify(ctx, token, *tc.UserID, tc.TenantID)
	if err != nil {
		return shared.Validation("privileged token is not valid: %v", err)
	}
	if err := s.tokens.Revoke(ctx, claims); err != nil {
		telemetry.RecordError(span, err)
		return err
	}

	err = s.scope.Execute(ctx, func(repos unitofwork.Repositories) error {
		return appaudit.NewSink(repos.Audit()).Write(ctx, tc, audit.Record{
			EntityType: "user",
			EntityID:   tc.UserID,
			Metadata: audit.Custom{
				Name:   ActionPrivilegedModeDisabled,
				Fields: map[string]any{"revokedAt": time.Now().UTC()},
			},
		})
	})
	if err != nil {
		telemetry.RecordError(span, err)
		return err
	}
	appaudit.AfterCommit(ctx, s.cache, tc.TenantID)
	return nil
}

// ResolveTargetTenant returns the context to use for a request that names
// a target tenant. A ROOT may target any tenant; anyone else may only name
// their own. The resulting context is still tenant scoped.
func (s *Service) ResolveTargetTenant(tc tenancy.Context, requested *uuid.UUID) (tenancy.Context, error) {
	return ResolveTargetTenant(tc, requested)
}

// ResolveTargetTenant is the stateless form of Service.ResolveTargetTenant
func ResolveTargetTenant(tc tenancy.Context, requested *uuid.UUID) (tenancy.Context, error) {
	if err := tenancy.AssertTenantContext(tc); err != nil {
		return tenancy.Context{}, err
	}
	if requested == nil || *requested == uuid.Nil || *requested == tc.TenantID {
		return tc, nil
	}
	if tc.Role != tenancy.RoleRoot {
		return tenancy.Context{}, shared.Forbidden("only root may target another tenant")
	}
	return tc.WithTenantID(*requested), nil
}
