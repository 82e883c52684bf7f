package handler

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/propcore/backend/internal/application/inventory"
	domain "github.com/propcore/backend/internal/domain/inventory"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/propcore/backend/internal/interfaces/http/dto"
)

// UnitHandler serves the inventory endpoints
type UnitHandler struct {
	BaseHandler
	units *inventory.Service
}

// NewUnitHandler creates a unit handler
func NewUnitHandler(units *inventory.Service) *UnitHandler {
	return &UnitHandler{units: units}
}

// List handles GET /units
func (h *UnitHandler) List(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	var q dto.ListUnitsQuery
	if !h.bindQuery(c, &q) {
		return
	}
	filter, err := q.Filter()
	if err != nil {
		h.HandleError(c, err)
		return
	}

	units, err := h.units.List(c.Request.Context(), tc, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewUnitList(units))
}

// UpdateStatus handles PATCH /units/:id/status
func (h *UnitHandler) UpdateStatus(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}
	id, ok := h.pathUUID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateUnitStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}

	unit, err := h.units.UpdateStatus(c.Request.Context(), tc, id, domain.UnitStatus(req.Status), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, dto.NewUnitResponse(unit))
}

// Import handles POST /units/import. The CSV comes either as the "file"
// field of a multipart form or as the raw request body.
func (h *UnitHandler) Import(c *gin.Context) {
	tc, ok := h.tenancyContext(c)
	if !ok {
		return
	}

	var src io.Reader = c.Request.Body
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		fh, err := c.FormFile("file")
		if err != nil {
			h.HandleError(c, shared.Validation("multipart upload needs a \"file\" field"))
			return
		}
		f, err := fh.Open()
		if err != nil {
			h.HandleError(c, err)
			return
		}
		defer f.Close()
		src = f
	}

	result, err := h.units.Import(c.Request.Context(), tc, src)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	status := http.StatusCreated
	if result.Created == 0 {
		status = http.StatusOK
	}
	c.JSON(status, dto.NewSuccessResponse(result))
}
