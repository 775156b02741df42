package respond

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kevin07696/gym-admin/internal/domain"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantType   string
		wantCode   string
	}{
		{
			name:       "validation",
			err:        pkgerrors.NewValidationErrorWithCode("amount", "REFUND_EXCEEDS_AMOUNT", "too much"),
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
			wantCode:   "REFUND_EXCEEDS_AMOUNT",
		},
		{
			name:       "wrapped validation",
			err:        fmt.Errorf("refund: %w", pkgerrors.NewValidationError("amount", "bad")),
			wantStatus: http.StatusBadRequest,
			wantType:   "validation_error",
			wantCode:   "VALIDATION_FAILED",
		},
		{
			name:       "auth",
			err:        pkgerrors.NewAuthError(401, `{"error":"invalid_client"}`, nil),
			wantStatus: http.StatusBadGateway,
			wantType:   "auth_error",
			wantCode:   "AUTH_FAILED",
		},
		{
			name:       "upstream 4xx passes through",
			err:        &pkgerrors.UpstreamError{StatusCode: 422, Code: "INVALID_STATE", Message: "nope"},
			wantStatus: 422,
			wantType:   "upstream_error",
			wantCode:   "INVALID_STATE",
		},
		{
			name:       "upstream 5xx becomes bad gateway",
			err:        pkgerrors.NewUpstreamError(503, ""),
			wantStatus: http.StatusBadGateway,
			wantType:   "upstream_error",
		},
		{
			name:       "network",
			err:        &pkgerrors.NetworkError{Operation: "invoices.list", Err: errors.New("dial tcp")},
			wantStatus: http.StatusBadGateway,
			wantType:   "network_error",
			wantCode:   "PROVIDER_UNREACHABLE",
		},
		{
			name:       "store unavailable",
			err:        domain.WrapError(domain.ErrorCodeStoreUnavailable, "read failed", errors.New("io")),
			wantStatus: http.StatusServiceUnavailable,
			wantType:   "domain_error",
			wantCode:   "STORE_UNAVAILABLE",
		},
		{
			name:       "deadline",
			err:        fmt.Errorf("list: %w", context.DeadlineExceeded),
			wantStatus: http.StatusGatewayTimeout,
			wantType:   "network_error",
			wantCode:   "TIMEOUT",
		},
		{
			name:       "upstream call hit the request deadline",
			err:        &pkgerrors.NetworkError{Operation: "invoices.get", Err: context.DeadlineExceeded},
			wantStatus: http.StatusGatewayTimeout,
			wantType:   "network_error",
			wantCode:   "TIMEOUT",
		},
		{
			name:       "anything else",
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
			wantType:   "internal_error",
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := Classify(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantType, body.Type)
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotEmpty(t, body.Message)
		})
	}
}

func TestClassify_AuthMessageFromBody(t *testing.T) {
	_, body := Classify(pkgerrors.NewAuthError(400, `{"error":"invalid_grant","error_description":"bad password"}`, nil))

	assert.Equal(t, "bad password", body.Message)
}

func TestClassify_InternalErrorDoesNotLeakDetails(t *testing.T) {
	_, body := Classify(errors.New("secret connection string"))

	assert.NotContains(t, body.Message, "secret")
}

func TestError_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	Error(rec, pkgerrors.NewValidationErrorWithCode("paymentMethodToken", "PM_REQUIRED", "select a payment method"), zaptest.NewLogger(t))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "PM_REQUIRED", env.Error.Code)
	assert.Equal(t, "paymentMethodToken", env.Error.Field)
}

func TestOK_WritesEnvelope(t *testing.T) {
	rec := httptest.NewRecorder()

	OK(rec, http.StatusCreated, map[string]string{"id": "x"}, zaptest.NewLogger(t))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"success":true,"data":{"id":"x"}}`, rec.Body.String())
}

func TestRaw_DefaultsStatus(t *testing.T) {
	rec := httptest.NewRecorder()

	Raw(rec, 0, nil, zaptest.NewLogger(t))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", rec.Body.String())
}

func TestDecode(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	require.NoError(t, Decode(req, &v))
	assert.Equal(t, "x", v.Name)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.NoError(t, Decode(req, &v))

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
	err := Decode(req, &v)
	_, ok := pkgerrors.AsValidationError(err)
	assert.True(t, ok)
}

type fixedBranch struct {
	id  string
	err error
}

func (f fixedBranch) Current(ctx context.Context) (string, error) {
	return f.id, f.err
}

func TestResolveBranch(t *testing.T) {
	current := fixedBranch{id: "main"}

	req := httptest.NewRequest(http.MethodGet, "/api/members?branch=branch2", nil)
	b, err := ResolveBranch(req, current)
	require.NoError(t, err)
	assert.Equal(t, "branch2", b)

	req = httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.Header.Set(BranchHeader, "branch3")
	b, err = ResolveBranch(req, current)
	require.NoError(t, err)
	assert.Equal(t, "branch3", b)

	req = httptest.NewRequest(http.MethodGet, "/api/members", nil)
	b, err = ResolveBranch(req, current)
	require.NoError(t, err)
	assert.Equal(t, "main", b)

	b, err = ResolveBranch(req, nil)
	require.NoError(t, err)
	assert.Empty(t, b)
}
