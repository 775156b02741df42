package errors

import (
	"errors"
	"fmt"
)

// ErrorType classifies a failure for the UI's toast and for HTTP status mapping
type ErrorType string

const (
	TypeAuth       ErrorType = "auth_error"
	TypeUpstream   ErrorType = "upstream_error"
	TypeValidation ErrorType = "validation_error"
	TypeNetwork    ErrorType = "network_error"
)

// AuthError is returned when the payment provider refuses to issue an access token.
// It is fatal for the action that triggered it and is never retried automatically.
type AuthError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *AuthError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("token request failed with status %d: %s", e.StatusCode, e.Body)
	}
	if e.Err != nil {
		return fmt.Sprintf("token request failed: %v", e.Err)
	}
	return "token request failed"
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// NewAuthError creates a new auth error
func NewAuthError(statusCode int, body string, err error) *AuthError {
	return &AuthError{
		StatusCode: statusCode,
		Body:       body,
		Err:        err,
	}
}

// UpstreamError represents a non-2xx answer from the payment provider.
// Type, Code and Message are filled from the provider's JSON error body when it parses.
type UpstreamError struct {
	StatusCode int
	Type       string
	Code       string
	Message    string
	Body       string
}

func (e *UpstreamError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("payment provider returned %d (%s): %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("payment provider returned %d: %s", e.StatusCode, e.Message)
}

// IsRetriable reports whether the provider signalled a transient condition
func (e *UpstreamError) IsRetriable() bool {
	return e.StatusCode >= 500 || e.StatusCode == 429
}

// NewUpstreamError creates an upstream error with a generic message
func NewUpstreamError(statusCode int, body string) *UpstreamError {
	return &UpstreamError{
		StatusCode: statusCode,
		Message:    fmt.Sprintf("request failed with HTTP status %d", statusCode),
		Body:       body,
	}
}

// NetworkError wraps transport failures talking to the provider (DNS, TLS, timeouts)
type NetworkError struct {
	Operation string
	Err       error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: failed to reach payment provider: %v", e.Operation, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError represents input validation errors caught locally.
// These are never sent upstream.
type ValidationError struct {
	Field   string
	Code    string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    "VALIDATION_FAILED",
		Message: message,
	}
}

// NewValidationErrorWithCode creates a validation error carrying a machine-readable code
func NewValidationErrorWithCode(field, code, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Code:    code,
		Message: message,
	}
}

// AsAuthError extracts an AuthError from the chain
func AsAuthError(err error) (*AuthError, bool) {
	var authErr *AuthError
	if errors.As(err, &authErr) {
		return authErr, true
	}
	return nil, false
}

// AsUpstreamError extracts an UpstreamError from the chain
func AsUpstreamError(err error) (*UpstreamError, bool) {
	var upstreamErr *UpstreamError
	if errors.As(err, &upstreamErr) {
		return upstreamErr, true
	}
	return nil, false
}

// AsValidationError extracts a ValidationError from the chain
func AsValidationError(err error) (*ValidationError, bool) {
	var validationErr *ValidationError
	if errors.As(err, &validationErr) {
		return validationErr, true
	}
	return nil, false
}

// AsNetworkError extracts a NetworkError from the chain
func AsNetworkError(err error) (*NetworkError, bool) {
	var networkErr *NetworkError
	if errors.As(err, &networkErr) {
		return networkErr, true
	}
	return nil, false
}
