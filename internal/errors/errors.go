// Package errors provides typed error definitions for demoforge.
// This package consolidates error handling and provides structured error types
// that can be used for better error classification and handling.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents a unique identifier for different error types
type ErrorCode string

const (
	// Configuration errors
	ErrConfigNotFound ErrorCode = "CONFIG_NOT_FOUND"
	ErrConfigInvalid  ErrorCode = "CONFIG_INVALID"
	ErrConfigParse    ErrorCode = "CONFIG_PARSE"

	// Project errors
	ErrProjectNotFound     ErrorCode = "PROJECT_NOT_FOUND"
	ErrProjectInvalidState ErrorCode = "PROJECT_INVALID_STATE"
	ErrComponentNotFound   ErrorCode = "COMPONENT_NOT_FOUND"
	ErrDeleteFailed        ErrorCode = "DELETE_FAILED"

	// Command execution errors
	ErrCommandFailed  ErrorCode = "COMMAND_FAILED"
	ErrCommandTimeout ErrorCode = "COMMAND_TIMEOUT"

	// Process management errors
	ErrProcessKillFailed ErrorCode = "PROCESS_KILL_FAILED"

	// Integration errors, attached to raw provider failures before formatting
	ErrOAuthCancelled     ErrorCode = "OAUTH_CANCELLED"
	ErrRepoExists         ErrorCode = "REPO_EXISTS"
	ErrAuthExpired        ErrorCode = "AUTH_EXPIRED"
	ErrRateLimited        ErrorCode = "RATE_LIMITED"
	ErrAccessDenied       ErrorCode = "ACCESS_DENIED"
	ErrNetworkError       ErrorCode = "NETWORK_ERROR"
	ErrServiceUnavailable ErrorCode = "SERVICE_UNAVAILABLE"
	ErrNotFound           ErrorCode = "NOT_FOUND"

	// Mesh errors
	ErrMeshCreateFailed ErrorCode = "MESH_CREATE_FAILED"
	ErrMeshUpdateFailed ErrorCode = "MESH_UPDATE_FAILED"
	ErrMeshNotFound     ErrorCode = "MESH_NOT_FOUND"

	// Database errors
	ErrDatabaseConnection ErrorCode = "DATABASE_CONNECTION"
	ErrDatabaseQuery      ErrorCode = "DATABASE_QUERY"
	ErrDatabaseMigration  ErrorCode = "DATABASE_MIGRATION"

	// Validation errors
	ErrValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrInvalidPath        ErrorCode = "INVALID_PATH"
	ErrInvalidPort        ErrorCode = "INVALID_PORT"
	ErrInvalidNodeVersion ErrorCode = "INVALID_NODE_VERSION"

	// Internal errors
	ErrInternal       ErrorCode = "INTERNAL_ERROR"
	ErrTimeout        ErrorCode = "TIMEOUT"
	ErrCancelled      ErrorCode = "CANCELLED"
	ErrRetryExhausted ErrorCode = "RETRY_EXHAUSTED"

	// File/IO errors
	ErrFileSystem ErrorCode = "FILE_SYSTEM"

	// ErrUnknown is the fallback classification for errors that carry no code
	ErrUnknown ErrorCode = "UNKNOWN"
)

// DemoforgeError represents a structured error with additional context
type DemoforgeError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    string                 `json:"details,omitempty"`
	Cause      error                  `json:"-"`
	Context    map[string]interface{} `json:"context,omitempty"`
	HTTPStatus int                    `json:"-"`
}

// Error implements the error interface
func (e *DemoforgeError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *DemoforgeError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *DemoforgeError) WithContext(key string, value interface{}) *DemoforgeError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithCause adds the underlying cause error
func (e *DemoforgeError) WithCause(cause error) *DemoforgeError {
	e.Cause = cause
	return e
}

// GetHTTPStatus returns the appropriate HTTP status code for this error
func (e *DemoforgeError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}

	switch e.Code {
	case ErrConfigNotFound, ErrProjectNotFound, ErrComponentNotFound, ErrMeshNotFound, ErrNotFound:
		return http.StatusNotFound
	case ErrAuthExpired, ErrOAuthCancelled:
		return http.StatusUnauthorized
	case ErrAccessDenied:
		return http.StatusForbidden
	case ErrValidationFailed, ErrInvalidInput, ErrInvalidPath, ErrInvalidPort, ErrInvalidNodeVersion:
		return http.StatusBadRequest
	case ErrRepoExists, ErrProjectInvalidState:
		return http.StatusConflict
	case ErrRateLimited:
		return http.StatusTooManyRequests
	case ErrTimeout, ErrCommandTimeout:
		return http.StatusRequestTimeout
	case ErrServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new DemoforgeError
func New(code ErrorCode, message string) *DemoforgeError {
	return &DemoforgeError{
		Code:    code,
		Message: message,
	}
}

// NewWithDetails creates a new DemoforgeError with details
func NewWithDetails(code ErrorCode, message, details string) *DemoforgeError {
	return &DemoforgeError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// Wrap creates a new DemoforgeError that wraps an existing error
func Wrap(code ErrorCode, message string, cause error) *DemoforgeError {
	return &DemoforgeError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WrapWithDetails creates a new DemoforgeError with details that wraps an existing error
func WrapWithDetails(code ErrorCode, message, details string, cause error) *DemoforgeError {
	return &DemoforgeError{
		Code:    code,
		Message: message,
		Details: details,
		Cause:   cause,
	}
}

// IsDemoforgeError checks if an error is a DemoforgeError
func IsDemoforgeError(err error) bool {
	_, ok := err.(*DemoforgeError)
	return ok
}

// GetCode extracts the error code from an error, if it's a DemoforgeError
func GetCode(err error) ErrorCode {
	if de, ok := err.(*DemoforgeError); ok {
		return de.Code
	}
	return ""
}

// HasCode checks if an error has a specific error code
func HasCode(err error, code ErrorCode) bool {
	return GetCode(err) == code
}
