package domain

import (
	"errors"
	"fmt"
)

// ErrorCode is the machine-readable code carried in error envelopes
type ErrorCode string

// Codes raised as DomainError. The invoice, payment method and validation codes
// travel inside pkg/errors.ValidationError instead.
const (
	ErrorCodeBranchUnknown      ErrorCode = "BRANCH_UNKNOWN"
	ErrorCodeBranchIncomplete   ErrorCode = "BRANCH_CREDENTIALS_INCOMPLETE"
	ErrorCodeBranchNotSpecified ErrorCode = "BRANCH_NOT_SPECIFIED"
	ErrorCodeStoreUnavailable   ErrorCode = "STORE_UNAVAILABLE"
	ErrorCodeInternalError      ErrorCode = "INTERNAL_ERROR"
)

const (
	ErrorCodeInvoiceInvalidState     ErrorCode = "INVOICE_INVALID_STATE"
	ErrorCodeRefundExceedsAmount     ErrorCode = "REFUND_EXCEEDS_AMOUNT"
	ErrorCodePMRequired              ErrorCode = "PM_REQUIRED"
	ErrorCodeCheckoutURLInvalid      ErrorCode = "CHECKOUT_URL_INVALID"
	ErrorCodeValidationAmountInvalid ErrorCode = "VALIDATION_AMOUNT_INVALID"
	ErrorCodeValidationMissingField  ErrorCode = "VALIDATION_MISSING_FIELD"
)

// DomainError is a branch or store failure that is not the caller's input and
// not the provider's answer.
type DomainError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// WithDetail records context that is logged but never shown to clients
func (e *DomainError) WithDetail(key string, value interface{}) *DomainError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

func NewDomainError(code ErrorCode, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

func WrapError(code ErrorCode, message string, err error) *DomainError {
	return &DomainError{Code: code, Message: message, Err: err}
}

// IsDomainError reports whether err wraps a DomainError with the given code
func IsDomainError(err error, code ErrorCode) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

// IsBranchError reports whether err is a branch configuration or selection failure
func IsBranchError(err error) bool {
	var de *DomainError
	if !errors.As(err, &de) {
		return false
	}
	switch de.Code {
	case ErrorCodeBranchUnknown, ErrorCodeBranchIncomplete, ErrorCodeBranchNotSpecified:
		return true
	}
	return false
}

// IsStoreError reports whether err is a flat store read or write failure
func IsStoreError(err error) bool {
	return IsDomainError(err, ErrorCodeStoreUnavailable)
}
