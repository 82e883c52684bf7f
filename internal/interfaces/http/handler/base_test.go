package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/propcore/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
)

func serveError(err error) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	h := &BaseHandler{}
	r := gin.New()
	r.GET("/", func(c *gin.Context) { h.HandleError(c, err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	return w
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", shared.NotFound("Sale"), http.StatusNotFound, "NOT_FOUND"},
		{"wrapped unavailable", fmt.Errorf("reserve: %w", shared.ErrUnitUnavailable), http.StatusConflict, "UNIT_UNAVAILABLE"},
		{"cross tenant", shared.ErrCrossTenant, http.StatusForbidden, "CROSS_TENANT"},
		{"missing tenant", shared.ErrMissingTenant, http.StatusBadRequest, "MISSING_TENANT"},
		{"unknown", errors.New("pq: connection refused"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveError(tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.Contains(t, w.Body.String(), tt.code)
		})
	}

	t.Run("internal errors do not leak", func(t *testing.T) {
		w := serveError(errors.New("pq: password authentication failed"))
		assert.NotContains(t, w.Body.String(), "password")
	})
}
