package dto

import (
	"net/http"

	"github.com/propcore/backend/internal/domain/shared"
)

// Error codes. Domain codes pass through unchanged; the rest are raised by
// the transport itself.
const (
	ErrCodeMissingTenant   = shared.CodeMissingTenant
	ErrCodeCrossTenant     = shared.CodeCrossTenant
	ErrCodeNotFound        = shared.CodeNotFound
	ErrCodeForbidden       = shared.CodeForbidden
	ErrCodeInvalidState    = shared.CodeInvalidState
	ErrCodeUnitUnavailable = shared.CodeUnitUnavailable
	ErrCodeValidation      = shared.CodeValidation

	ErrCodeBadRequest      = "BAD_REQUEST"
	ErrCodeRequestTooLarge = "REQUEST_TOO_LARGE"
	ErrCodeRouteNotFound   = "ROUTE_NOT_FOUND"
	ErrCodeInternal        = "INTERNAL_ERROR"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeMissingTenant: http.StatusBadRequest,
	ErrCodeValidation:    http.StatusBadRequest,
	ErrCodeBadRequest:    http.StatusBadRequest,

	ErrCodeCrossTenant: http.StatusForbidden,
	ErrCodeForbidden:   http.StatusForbidden,

	ErrCodeNotFound:      http.StatusNotFound,
	ErrCodeRouteNotFound: http.StatusNotFound,

	// UNIT_UNAVAILABLE is a state conflict, like INVALID_STATE
	ErrCodeInvalidState:    http.StatusConflict,
	ErrCodeUnitUnavailable: http.StatusConflict,

	ErrCodeRequestTooLarge: http.StatusRequestEntityTooLarge,
	ErrCodeInternal:        http.StatusInternalServerError,
}

// GetHTTPStatus returns the status for code, 500 for unknown codes
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
