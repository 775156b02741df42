package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthError_Message(t *testing.T) {
	assert.Equal(t, `token request failed with status 401: {"error":"invalid_grant"}`,
		NewAuthError(401, `{"error":"invalid_grant"}`, nil).Error())
	assert.Equal(t, "token request failed: dial tcp: refused",
		NewAuthError(0, "", errors.New("dial tcp: refused")).Error())
}

func TestUpstreamError(t *testing.T) {
	err := NewUpstreamError(503, "<html>")

	assert.Equal(t, "payment provider returned 503: request failed with HTTP status 503", err.Error())
	assert.True(t, err.IsRetriable())
	assert.False(t, (&UpstreamError{StatusCode: 422}).IsRetriable())
	assert.True(t, (&UpstreamError{StatusCode: 429}).IsRetriable())
}

func TestAsHelpers_UnwrapChains(t *testing.T) {
	wrapped := fmt.Errorf("refund inv_1: %w", &UpstreamError{StatusCode: 422, Code: "INVALID_AMOUNT", Message: "too much"})
	up, ok := AsUpstreamError(wrapped)
	require.True(t, ok)
	assert.Equal(t, "INVALID_AMOUNT", up.Code)

	_, ok = AsAuthError(wrapped)
	assert.False(t, ok)

	v, ok := AsValidationError(fmt.Errorf("create: %w", NewValidationError("email", "email is required")))
	require.True(t, ok)
	assert.Equal(t, "VALIDATION_FAILED", v.Code)
	assert.Equal(t, "email", v.Field)
}

func TestNetworkError_UnwrapsCause(t *testing.T) {
	err := &NetworkError{Operation: "invoices.list", Err: context.DeadlineExceeded}

	assert.ErrorIs(t, err, context.DeadlineExceeded)
	n, ok := AsNetworkError(fmt.Errorf("list: %w", err))
	require.True(t, ok)
	assert.Equal(t, "invoices.list", n.Operation)
}
