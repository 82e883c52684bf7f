// Package dto holds the request and response shapes of the HTTP API and the
// envelope every response is wrapped in.
package dto

// Response is the standard API envelope
type Response struct {
	Success   bool       `json:"success"`
	Data      any        `json:"data,omitempty"`
	Error     *ErrorInfo `json:"error,omitempty"`
	RequestID string     `json:"request_id,omitempty"`
}

// ErrorInfo describes a failed request
type ErrorInfo struct {
	Code    string             `json:"code"`
	Message string             `json:"message"`
	Details []ValidationDetail `json:"details,omitempty"`
}

// ValidationDetail names one invalid request field
type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ListData wraps list results with their count
type ListData[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// NewList builds a ListData, never with a nil slice
func NewList[T any](items []T) ListData[T] {
	if items == nil {
		items = []T{}
	}
	return ListData[T]{Items: items, Total: len(items)}
}

// NewSuccessResponse wraps data in a success envelope
func NewSuccessResponse(data any) Response {
	return Response{Success: true, Data: data}
}

// NewErrorResponse builds an error envelope
func NewErrorResponse(code, message, requestID string) Response {
	return Response{
		Success:   false,
		Error:     &ErrorInfo{Code: code, Message: message},
		RequestID: requestID,
	}
}

// NewValidationErrorResponse builds a VALIDATION_ERROR envelope with field details
func NewValidationErrorResponse(message, requestID string, details []ValidationDetail) Response {
	resp := NewErrorResponse(ErrCodeValidation, message, requestID)
	resp.Error.Details = details
	return resp
}
