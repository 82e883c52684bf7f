package shared

import (
	"errors"
	"fmt"
)

// Error codes shared by every bounded context
const (
	CodeMissingTenant   = "MISSING_TENANT"
	CodeCrossTenant     = "CROSS_TENANT"
	CodeNotFound        = "NOT_FOUND"
	CodeForbidden       = "FORBIDDEN"
	CodeInvalidState    = "INVALID_STATE"
	CodeUnitUnavailable = "UNIT_UNAVAILABLE"
	CodeValidation      = "VALIDATION_ERROR"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// Is reports whether target is a DomainError with the same code, so a
// detailed error matches its sentinel under errors.Is.
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return e.Code == t.Code
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrMissingTenant   = NewDomainError(CodeMissingTenant, "Tenant context is required")
	ErrCrossTenant     = NewDomainError(CodeCrossTenant, "Cross-tenant where clause rejected")
	ErrNotFound        = NewDomainError(CodeNotFound, "Resource not found")
	ErrForbidden       = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrInvalidState    = NewDomainError(CodeInvalidState, "Operation not allowed in current state")
	ErrUnitUnavailable = NewDomainError(CodeUnitUnavailable, "Unit is not available")
	ErrValidation      = NewDomainError(CodeValidation, "Invalid input provided")
)

// NotFound returns a NOT_FOUND error naming the missing entity
func NotFound(entity string) *DomainError {
	return NewDomainError(CodeNotFound, fmt.Sprintf("%s not found for tenant", entity))
}

// Forbidden returns a FORBIDDEN error with the given reason
func Forbidden(format string, args ...any) *DomainError {
	return NewDomainError(CodeForbidden, fmt.Sprintf(format, args...))
}

// InvalidState returns an INVALID_STATE error with the given reason
func InvalidState(format string, args ...any) *DomainError {
	return NewDomainError(CodeInvalidState, fmt.Sprintf(format, args...))
}

// Validation returns a VALIDATION_ERROR with the given reason
func Validation(format string, args ...any) *DomainError {
	return NewDomainError(CodeValidation, fmt.Sprintf(format, args...))
}

// UnitUnavailable returns a UNIT_UNAVAILABLE error for a unit that lost a
// status race or is not in a sellable state
func UnitUnavailable(unitID fmt.Stringer) *DomainError {
	return NewDomainError(CodeUnitUnavailable, fmt.Sprintf("unit %s is not available", unitID))
}

// CodeOf extracts the domain error code from err, or "" when err is not a DomainError
func CodeOf(err error) string {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}

// IsNotFound reports whether err is a NOT_FOUND domain error
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsForbidden reports whether err is a FORBIDDEN domain error
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }

// IsUnitUnavailable reports whether err is a UNIT_UNAVAILABLE domain error
func IsUnitUnavailable(err error) bool { return errors.Is(err, ErrUnitUnavailable) }
