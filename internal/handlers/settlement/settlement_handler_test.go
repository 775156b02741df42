package settlement

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kevin07696/gym-admin/internal/domain"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap/zaptest"
)

// MockSettlementService mocks ports.SettlementService
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) ListSettlements(ctx context.Context, branchID string) ([]domain.Settlement, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Settlement), args.Error(1)
}

func (m *MockSettlementService) DownloadDocument(ctx context.Context, branchID, settlementID string, docType domain.DocumentType) (*domain.SettlementDocument, error) {
	args := m.Called(ctx, branchID, settlementID, docType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SettlementDocument), args.Error(1)
}

type staticBranch string

func (s staticBranch) Current(ctx context.Context) (string, error) {
	return string(s), nil
}

func setupHandler(t *testing.T) (*http.ServeMux, *MockSettlementService) {
	svc := new(MockSettlementService)
	mux := http.NewServeMux()
	NewHandler(svc, staticBranch("main"), zaptest.NewLogger(t)).RegisterRoutes(mux)
	return mux, svc
}

func TestListSettlements(t *testing.T) {
	mux, svc := setupHandler(t)
	svc.On("ListSettlements", mock.Anything, "branch2").
		Return([]domain.Settlement{{ID: "st_1", Amount: "$1520.50", Status: "settled"}}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/settlements?branch=branch2", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"amount":"$1520.50"`)
	svc.AssertExpectations(t)
}

func TestDownloadDocument(t *testing.T) {
	mux, svc := setupHandler(t)
	svc.On("DownloadDocument", mock.Anything, "main", "st_1", domain.DocumentTypeTaxInvoice).
		Return(&domain.SettlementDocument{SettlementID: "st_1", FileID: "f1", URL: "https://files.example.com/f1"}, nil)

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/settlements/st_1/documents",
		strings.NewReader(`{"documentType":"TAX_INVOICE"}`)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "https://files.example.com/f1")
	svc.AssertExpectations(t)
}

func TestDownloadDocument_UpstreamUnavailable(t *testing.T) {
	mux, svc := setupHandler(t)
	svc.On("DownloadDocument", mock.Anything, "main", "st_1", domain.DocumentTypeDetailReport).
		Return(nil, pkgerrors.NewUpstreamError(http.StatusServiceUnavailable, ""))

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/settlements/st_1/documents",
		strings.NewReader(`{"documentType":"detail_report"}`)))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)
}
