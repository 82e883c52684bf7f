package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/propcore/backend/internal/application/report"
	"github.com/propcore/backend/internal/domain/shared"
)

// ReportHandler serves the summary report
type ReportHandler struct {
	BaseHandler
	reports *report.Service
}

// NewReportHandler creates a report handler
func NewReportHandler(reports *report.Service) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// Summary handles GET /reports/summary. A ROOT may pass tenant_id to read
// another tenant's figures.
func (h *ReportHandler) Summary(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	var target *uuid.UUID
	if raw := c.Query("tenant_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.HandleError(c, shared.Validation("tenant_id must be a UUID"))
			return
		}
		target = &id
	}

	summary, err := h.reports.Summary(c.Request.Context(), tc, target)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, summary)
}
