package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDomainError_WrapAndUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := WrapError(ErrorCodeStoreUnavailable, "failed to read branch selection", cause)

	assert.Equal(t, "STORE_UNAVAILABLE: failed to read branch selection: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)
	assert.True(t, IsDomainError(fmt.Errorf("select: %w", err), ErrorCodeStoreUnavailable))
	assert.True(t, IsStoreError(err))
	assert.False(t, IsDomainError(err, ErrorCodeInternalError))
}

func TestDomainError_WithDetail(t *testing.T) {
	err := NewDomainError(ErrorCodeBranchIncomplete, "branch is missing credentials").
		WithDetail("branch", "branch2")

	assert.Equal(t, "BRANCH_CREDENTIALS_INCOMPLETE: branch is missing credentials", err.Error())
	assert.Equal(t, "branch2", err.Details["branch"])
}

func TestIsBranchError(t *testing.T) {
	tests := []struct {
		err  error
		want bool
	}{
		{NewDomainError(ErrorCodeBranchUnknown, "msg"), true},
		{NewDomainError(ErrorCodeBranchIncomplete, "msg"), true},
		{fmt.Errorf("load: %w", NewDomainError(ErrorCodeBranchNotSpecified, "msg")), true},
		{NewDomainError(ErrorCodeStoreUnavailable, "msg"), false},
		{errors.New("plain"), false},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, IsBranchError(tt.err))
		})
	}
}
