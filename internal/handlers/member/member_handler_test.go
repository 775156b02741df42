package member

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/handlers/respond"
	"github.com/kevin07696/gym-admin/internal/services/customer"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

// MockCustomerService mocks ports.CustomerService
type MockCustomerService struct {
	mock.Mock
}

func (m *MockCustomerService) ListMembers(ctx context.Context, branchID string) ([]domain.Member, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Member), args.Error(1)
}

func (m *MockCustomerService) GetMember(ctx context.Context, branchID, customerID string) (*domain.Member, error) {
	args := m.Called(ctx, branchID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockCustomerService) CreateMember(ctx context.Context, branchID string, nm domain.NewMember) (*domain.Member, error) {
	args := m.Called(ctx, branchID, nm)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Member), args.Error(1)
}

func (m *MockCustomerService) ListPaymentMethods(ctx context.Context, branchID, customerID string) ([]domain.PaymentMethod, error) {
	args := m.Called(ctx, branchID, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.PaymentMethod), args.Error(1)
}

func (m *MockCustomerService) LinkPaymentMethod(ctx context.Context, branchID, customerID, token string, primary bool) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, branchID, customerID, token, primary)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *MockCustomerService) ReplacePaymentMethod(ctx context.Context, branchID, customerID, oldToken, newToken string) (*domain.PaymentMethod, error) {
	args := m.Called(ctx, branchID, customerID, oldToken, newToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.PaymentMethod), args.Error(1)
}

func (m *MockCustomerService) DeletePaymentMethod(ctx context.Context, branchID, customerID, token string) error {
	args := m.Called(ctx, branchID, customerID, token)
	return args.Error(0)
}

func (m *MockCustomerService) TransferMember(ctx context.Context, customerID, fromBranch, toBranch string) (*customer.TransferResult, error) {
	args := m.Called(ctx, customerID, fromBranch, toBranch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*customer.TransferResult), args.Error(1)
}

type staticBranch string

func (s staticBranch) Current(ctx context.Context) (string, error) {
	return string(s), nil
}

func setupHandler(t *testing.T) (*http.ServeMux, *MockCustomerService) {
	svc := new(MockCustomerService)
	mux := http.NewServeMux()
	NewHandler(svc, staticBranch("main"), zaptest.NewLogger(t)).RegisterRoutes(mux)
	return mux, svc
}

func serve(mux *http.ServeMux, method, target, body string) (*httptest.ResponseRecorder, respond.Envelope) {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	var env respond.Envelope
	_ = json.Unmarshal(rec.Body.Bytes(), &env)
	return rec, env
}

func TestListMembers_UsesSelectedBranch(t *testing.T) {
	mux, svc := setupHandler(t)
	svc.On("ListMembers", mock.Anything, "main").Return([]domain.Member{{ID: "cus_1", Name: "Jane Doe", Plan: "trial"}}, nil)

	rec, env := serve(mux, http.MethodGet, "/api/members", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, rec.Body.String(), `"name":"Jane Doe"`)
	svc.AssertExpectations(t)
}

func TestListMembers_BranchHeader(t *testing.T) {
	mux, svc := setupHandler(t)
	svc.On("ListMembers", mock.Anything, "branch2").Return([]domain.Member{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/members", nil)
	req.Header.Set(respond.BranchHeader, "branch2")
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	svc.AssertExpectations(t)
}

func TestCreateMember(t *testing.T) {
	mux, svc := setupHandler(t)
	svc.On("CreateMember", mock.Anything, "main", mock.MatchedBy(func(nm domain.NewMember) bool {
		return nm.FirstName == "Jane" && nm.Membership.Plan == "premium"
	})).Return(&domain.Member{ID: "cus_new"}, nil)

	rec, env := serve(mux, http.MethodPost, "/api/members",
		`{"firstName":"Jane","lastName":"Doe","email":"jane@example.com","membership":{"plan":"premium"}}`)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.True(t, env.Success)
	svc.AssertExpectations(t)
}

func TestCreateMember_ValidationError(t *testing.T) {
	mux, svc := setupHandler(t)
	svc.On("CreateMember", mock.Anything, "main", mock.Anything).
		Return(nil, pkgerrors.NewValidationErrorWithCode("email", "VALIDATION_MISSING_FIELD", "email is required"))

	rec, env := serve(mux, http.MethodPost, "/api/members", `{"firstName":"Jane"}`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "email", env.Error.Field)
}

func TestCreateMember_BadJSON(t *testing.T) {
	mux, svc := setupHandler(t)

	rec, _ := serve(mux, http.MethodPost, "/api/members", `{"firstName":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateMember", mock.Anything, mock.Anything, mock.Anything)
}

func TestPaymentMethodRoutes(t *testing.T) {
	mux, svc := setupHandler(t)
	svc.On("ListPaymentMethods", mock.Anything, "main", "cus_1").
		Return([]domain.PaymentMethod{{ID: "pm_1", Type: "card", Last4: "4242"}}, nil)
	svc.On("LinkPaymentMethod", mock.Anything, "main", "cus_1", "pm_2", true).
		Return(&domain.PaymentMethod{ID: "pm_2", IsDefault: true}, nil)
	svc.On("ReplacePaymentMethod", mock.Anything, "main", "cus_1", "pm_1", "pm_3").
		Return(&domain.PaymentMethod{ID: "pm_3"}, nil)
	svc.On("DeletePaymentMethod", mock.Anything, "main", "cus_1", "pm_2").Return(nil)

	rec, _ := serve(mux, http.MethodGet, "/api/members/cus_1/payment-methods", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "4242")

	rec, _ = serve(mux, http.MethodPost, "/api/members/cus_1/payment-methods", `{"paymentMethodToken":"pm_2","primary":true}`)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec, _ = serve(mux, http.MethodPut, "/api/members/cus_1/payment-methods/pm_1", `{"newPaymentMethodToken":"pm_3"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec, env := serve(mux, http.MethodDelete, "/api/members/cus_1/payment-methods/pm_2", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)

	svc.AssertExpectations(t)
}

func TestTransferMember_DefaultsSourceToCurrentBranch(t *testing.T) {
	mux, svc := setupHandler(t)
	svc.On("TransferMember", mock.Anything, "cus_1", "main", "branch2").Return(&customer.TransferResult{
		NewCustomerID: "cus_b2",
		Linked:        []string{"pm_1"},
		Failed:        []customer.TransferFailure{{Token: "pm_2", Error: "declined"}},
	}, nil)

	rec, env := serve(mux, http.MethodPost, "/api/members/cus_1/transfer", `{"toBranch":"branch2"}`)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.Success)
	assert.Contains(t, rec.Body.String(), `"newCustomerId":"cus_b2"`)
	assert.Contains(t, rec.Body.String(), `"token":"pm_2"`)
	svc.AssertExpectations(t)
}

func TestGetMember_UpstreamNotFound(t *testing.T) {
	mux, svc := setupHandler(t)
	svc.On("GetMember", mock.Anything, "main", "cus_x").
		Return(nil, &pkgerrors.UpstreamError{StatusCode: 404, Code: "NOT_FOUND", Message: "customer not found"})

	rec, env := serve(mux, http.MethodGet, "/api/members/cus_x", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	require.NotNil(t, env.Error)
	assert.Equal(t, "upstream_error", env.Error.Type)
	assert.Equal(t, "customer not found", env.Error.Message)
}
