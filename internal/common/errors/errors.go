// internal/common/errors/errors.go
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeNotFound             ErrorCode = "NOT_FOUND"
	ErrCodeInvalidStatus        ErrorCode = "INVALID_STATUS"
	ErrCodeInvalidInput         ErrorCode = "INVALID_INPUT"
	ErrCodeDuplicateApplication ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeForbidden            ErrorCode = "FORBIDDEN"
	ErrCodeRateLimited          ErrorCode = "RATE_LIMITED"
	ErrCodeTransportUnavailable ErrorCode = "TRANSPORT_UNAVAILABLE"
	ErrCodeUpstreamFailure      ErrorCode = "UPSTREAM_FAILURE"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// NewNotFoundError creates a non-retryable lookup error for an unknown appId.
func NewNotFoundError(appID string) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotFound,
		Message:   "Application not found",
		Details:   fmt.Sprintf("appId: %s", appID),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidStatusError creates a non-retryable error for an unrecognized status token.
func NewInvalidStatusError(status string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidStatus,
		Message:   "Unrecognized application status",
		Details:   fmt.Sprintf("status: %s", status),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewInvalidInputError creates a non-retryable request validation error.
func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Request payload validation failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDuplicateApplicationError creates a non-retryable duplicate error carrying
// the existing record's public identifiers so the caller can redirect the user
// to status tracking.
func NewDuplicateApplicationError(appID, fullName string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateApplication,
		Message:   "An application already exists for this email",
		Details:   fmt.Sprintf("appId: %s", appID),
		Retryable: false,
		Metadata: map[string]interface{}{
			"appId":    appID,
			"fullName": fullName,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewForbiddenError creates a non-retryable authorization error.
func NewForbiddenError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeForbidden,
		Message:   "Authorization failed",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewRateLimitedError creates a non-retryable throttling error.
func NewRateLimitedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeRateLimited,
		Message:   "Too many requests",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportUnavailableError marks a side-effect backend as unconfigured.
// Never fatal: callers degrade to "skip and report skipped".
func NewTransportUnavailableError(transport string) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransportUnavailable,
		Message:   fmt.Sprintf("Transport '%s' is not configured", transport),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewUpstreamFailureError wraps a row store or blob store error. Not retried
// automatically anywhere in the system.
func NewUpstreamFailureError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeUpstreamFailure,
		Message:   "Upstream store operation failed",
		Details:   fmt.Sprintf("operation: %s, error: %s", operation, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// HTTPStatus maps an error code to its HTTP equivalent.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidStatus, ErrCodeInvalidInput:
		return http.StatusBadRequest
	case ErrCodeDuplicateApplication:
		return http.StatusConflict
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// AsStandardError extracts a *StandardError from an error chain.
func AsStandardError(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if errors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// Is reports whether err carries the given error code.
func Is(err error, code ErrorCode) bool {
	stdErr, ok := AsStandardError(err)
	return ok && stdErr.Code == code
}
