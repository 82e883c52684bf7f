// Package middleware holds the gin middleware of the HTTP API.
package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/domain/tenancy"
	"github.com/propcore/backend/internal/infrastructure/logger"
	"github.com/propcore/backend/internal/interfaces/http/dto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Identity headers set by the upstream gateway
const (
	HeaderTenantID        = "X-Tenant-ID"
	HeaderUserID          = "X-User-ID"
	HeaderPrivilegedToken = "X-Privileged-Token"
)

const tenancyContextKey = "tenancy_context"

// ContextResolver builds the execution context for an identity
type ContextResolver interface {
	ResolveContext(ctx context.Context, tenantID uuid.UUID, userID *uuid.UUID, privilegedToken string) (tenancy.Context, error)
}

// Identity resolves the tenancy context from the identity headers. The role
// always comes from memberships; no header can set it. Requests without a
// tenant are rejected with MISSING_TENANT.
func Identity(resolver ContextResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		rawTenant := strings.TrimSpace(c.GetHeader(HeaderTenantID))
		if rawTenant == "" {
			abort(c, shared.ErrMissingTenant)
			return
		}
		tenantID, err := uuid.Parse(rawTenant)
		if err != nil {
			abort(c, shared.Validation("%s must be a UUID", HeaderTenantID))
			return
		}

		var userID *uuid.UUID
		if rawUser := strings.TrimSpace(c.GetHeader(HeaderUserID)); rawUser != "" {
			id, err := uuid.Parse(rawUser)
			if err != nil {
				abort(c, shared.Validation("%s must be a UUID", HeaderUserID))
				return
			}
			userID = &id
		}

		ctx := c.Request.Context()
		tc, err := resolver.ResolveContext(ctx, tenantID, userID, c.GetHeader(HeaderPrivilegedToken))
		if err != nil {
			abort(c, err)
			return
		}

		userString := ""
		if tc.UserID != nil {
			userString = tc.UserID.String()
		}
		ctx = logger.WithActor(ctx, tc.TenantID.String(), userString, tc.Role.String())
		c.Request = c.Request.WithContext(ctx)
		c.Set(tenancyContextKey, tc)

		if span := trace.SpanFromContext(ctx); span.IsRecording() {
			span.SetAttributes(
				attribute.String("tenant_id", tc.TenantID.String()),
				attribute.String("user_id", userString),
				attribute.String("role", tc.Role.String()),
				attribute.Bool("privileged", tc.Privileged),
			)
		}
		c.Next()
	}
}

// TenancyContext returns the context Identity resolved for the request
func TenancyContext(c *gin.Context) (tenancy.Context, bool) {
	v, ok := c.Get(tenancyContextKey)
	if !ok {
		return tenancy.Context{}, false
	}
	tc, ok := v.(tenancy.Context)
	return tc, ok
}

func abort(c *gin.Context, err error) {
	code := shared.CodeOf(err)
	msg := err.Error()
	if code == "" {
		code, msg = dto.ErrCodeInternal, "An unexpected error occurred"
		_ = c.Error(err)
	}
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code),
		dto.NewErrorResponse(code, msg, logger.GetRequestID(c.Request.Context())))
}
