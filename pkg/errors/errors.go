// Package errors provides structured error handling for the application
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode represents an error code
type ErrorCode string

// Error codes surfaced to the session controller and the HTTP layer
const (
	// Client errors (4xx)
	CodeNotFound             ErrorCode = "NOT_FOUND"
	CodeValidationFailed     ErrorCode = "VALIDATION_FAILED"
	CodeGenerationInProgress ErrorCode = "GENERATION_IN_PROGRESS"
	CodeTooManyRequests      ErrorCode = "TOO_MANY_REQUESTS"

	// Server errors (5xx)
	CodeInternal             ErrorCode = "INTERNAL_ERROR"
	CodeConfigurationMissing ErrorCode = "CONFIGURATION_MISSING"
	CodeExternalServiceError ErrorCode = "EXTERNAL_SERVICE_ERROR"
	CodeInvalidResponseShape ErrorCode = "INVALID_RESPONSE_SHAPE"
)

// AppError represents an application error with structured information
type AppError struct {
	Code     ErrorCode              `json:"code"`
	Message  string                 `json:"message"`
	Details  string                 `json:"details,omitempty"`
	Metadata map[string]interface{} `json:"metadata,omitempty"`
	Cause    error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// StatusCode returns the appropriate HTTP status code
func (e *AppError) StatusCode() int {
	switch e.Code {
	case CodeValidationFailed:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeGenerationInProgress:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeConfigurationMissing:
		return http.StatusServiceUnavailable
	case CodeExternalServiceError, CodeInvalidResponseShape:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// WithMetadata adds metadata to the error
func (e *AppError) WithMetadata(key string, value interface{}) *AppError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// WithCause adds a cause error
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// NewAppError creates a new application error
func NewAppError(code ErrorCode, message, details string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// NewValidationError creates a validation error
func NewValidationError(details string) *AppError {
	return NewAppError(CodeValidationFailed, "Validation failed", details)
}

// NewNotFoundError creates a not found error
func NewNotFoundError(resource string) *AppError {
	message := "Resource not found"
	if resource != "" {
		message = fmt.Sprintf("%s not found", resource)
	}
	return NewAppError(CodeNotFound, message, "")
}

// NewInternalError creates an internal server error
func NewInternalError(message string) *AppError {
	if message == "" {
		message = "An unexpected error occurred"
	}
	return NewAppError(CodeInternal, message, "")
}

// NewConfigurationMissingError reports a required setting that is absent.
// envVar names the environment variable the operator has to set.
func NewConfigurationMissingError(envVar string) *AppError {
	return NewAppError(
		CodeConfigurationMissing,
		"Required configuration is missing",
		fmt.Sprintf("set the %s environment variable and try again", envVar),
	).WithMetadata("env_var", envVar)
}

// NewExternalServiceError creates an external service error.
// The cause's message is kept in Details so it can be shown to the user.
func NewExternalServiceError(service string, cause error) *AppError {
	details := fmt.Sprintf("Failed to communicate with %s", service)
	if cause != nil && cause.Error() != "" {
		details = cause.Error()
	}
	return NewAppError(
		CodeExternalServiceError,
		"External service error",
		details,
	).WithCause(cause).WithMetadata("service", service)
}

// NewInvalidResponseShapeError reports a payload that does not match the expected structure
func NewInvalidResponseShapeError(service string, cause error) *AppError {
	return NewAppError(
		CodeInvalidResponseShape,
		"Invalid response shape",
		fmt.Sprintf("%s returned a payload that does not match the recipe schema", service),
	).WithCause(cause).WithMetadata("service", service)
}

// NewGenerationInProgressError rejects a second generation while one is in flight
func NewGenerationInProgressError() *AppError {
	return NewAppError(CodeGenerationInProgress, "A generation request is already running", "")
}

// NewTooManyRequestsError creates a rate limit error
func NewTooManyRequestsError() *AppError {
	return NewAppError(CodeTooManyRequests, "Too many requests", "")
}

// Utility functions

// Wrap wraps an error as an internal error if it's not already an AppError
func Wrap(err error, message string) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	return NewInternalError(message).WithCause(err)
}

// Is checks if an error is of a specific error code
func Is(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// GetCode extracts the error code from an error
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}
