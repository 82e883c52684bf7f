package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/propcore/backend/internal/application/access"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/interfaces/http/middleware"
)

// SecurityHandler toggles privileged mode
type SecurityHandler struct {
	BaseHandler
	access *access.Service
}

// NewSecurityHandler creates a security handler
func NewSecurityHandler(svc *access.Service) *SecurityHandler {
	return &SecurityHandler{access: svc}
}

// EnablePrivilegedMode handles POST /security/privileged-mode
func (h *SecurityHandler) EnablePrivilegedMode(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	issued, err := h.access.IssuePrivilegedToken(c.Request.Context(), tc)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, issued)
}

// DisablePrivilegedMode handles DELETE /security/privileged-mode. The token
// to revoke is the one presented in the privileged token header.
func (h *SecurityHandler) DisablePrivilegedMode(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	token := c.GetHeader(middleware.HeaderPrivilegedToken)
	if token == "" {
		h.HandleError(c, shared.Validation("%s header is required", middleware.HeaderPrivilegedToken))
		return
	}
	if err := h.access.RevokePrivilegedToken(c.Request.Context(), tc, token); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
