package invoice

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/handlers/respond"
	"github.com/kevin07696/gym-admin/internal/services/invoice"
	"github.com/kevin07696/gym-admin/internal/services/ports"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Handler serves invoice reads, lifecycle actions and invoice creation
type Handler struct {
	service  ports.InvoiceService
	branches respond.CurrentBranch
	logger   *zap.Logger
}

// NewHandler creates a new invoice handler
func NewHandler(service ports.InvoiceService, branches respond.CurrentBranch, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		branches: branches,
		logger:   logger,
	}
}

// RegisterRoutes mounts the invoice routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/invoices", h.ListInvoices)
	mux.HandleFunc("POST /api/invoices", h.CreateOnDemand)
	mux.HandleFunc("POST /api/invoices/checkout", h.CreateCheckout)
	mux.HandleFunc("POST /api/invoices/terminal", h.CreateTerminal)
	mux.HandleFunc("GET /api/invoices/{id}", h.GetInvoice)
	mux.HandleFunc("GET /api/invoices/{id}/transactions", h.ListTransactions)
	mux.HandleFunc("POST /api/invoices/{id}/retry", h.Retry)
	mux.HandleFunc("POST /api/invoices/{id}/refund", h.Refund)
	mux.HandleFunc("POST /api/invoices/{id}/write-off", h.WriteOff)
	mux.HandleFunc("POST /api/invoices/{id}/record-payment", h.RecordPayment)
}

// ActionRequest carries the caller's current view of the invoice plus action inputs.
// Amounts accept numbers or formatted strings such as "$99.00".
type ActionRequest struct {
	Status             string          `json:"status"`
	Amount             json.RawMessage `json:"amount"`
	PaymentMethodToken string          `json:"paymentMethodToken,omitempty"`
	RefundAmount       json.RawMessage `json:"refundAmount,omitempty"`
	Method             string          `json:"method,omitempty"`
}

func (a ActionRequest) ref(id string) domain.InvoiceRef {
	return domain.InvoiceRef{
		ID:     id,
		Status: domain.ParseInvoiceStatus(a.Status),
		Amount: domain.ParseAmount(a.Amount),
	}
}

func (a ActionRequest) refundAmount() *decimal.Decimal {
	s := strings.TrimSpace(string(a.RefundAmount))
	if s == "" || s == "null" {
		return nil
	}
	amount := domain.ParseAmount(a.RefundAmount)
	return &amount
}

// ListInvoices handles GET /api/invoices?customerId=&customerName=
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	q := r.URL.Query()
	var customerName *string
	if q.Has("customerName") {
		name := q.Get("customerName")
		customerName = &name
	}

	invoices, err := h.service.ListInvoices(r.Context(), branchID, q.Get("customerId"), customerName)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, invoices, h.logger)
}

// GetInvoice handles GET /api/invoices/{id}
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	inv, err := h.service.GetInvoice(r.Context(), branchID, r.PathValue("id"))
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, inv, h.logger)
}

// ListTransactions handles GET /api/invoices/{id}/transactions
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	attempts, err := h.service.ListTransactions(r.Context(), branchID, r.PathValue("id"))
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, attempts, h.logger)
}

// Retry handles POST /api/invoices/{id}/retry
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	branchID, req, ok := h.action(w, r)
	if !ok {
		return
	}

	inv, err := h.service.Retry(r.Context(), branchID, req.ref(r.PathValue("id")), req.PaymentMethodToken)
	h.finish(w, inv, err)
}

// Refund handles POST /api/invoices/{id}/refund
func (h *Handler) Refund(w http.ResponseWriter, r *http.Request) {
	branchID, req, ok := h.action(w, r)
	if !ok {
		return
	}

	inv, err := h.service.Refund(r.Context(), branchID, req.ref(r.PathValue("id")), req.refundAmount())
	h.finish(w, inv, err)
}

// WriteOff handles POST /api/invoices/{id}/write-off
func (h *Handler) WriteOff(w http.ResponseWriter, r *http.Request) {
	branchID, req, ok := h.action(w, r)
	if !ok {
		return
	}

	inv, err := h.service.WriteOff(r.Context(), branchID, req.ref(r.PathValue("id")))
	h.finish(w, inv, err)
}

// RecordPayment handles POST /api/invoices/{id}/record-payment
func (h *Handler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	branchID, req, ok := h.action(w, r)
	if !ok {
		return
	}

	method := domain.ExternalPaymentMethod(strings.ToLower(strings.TrimSpace(req.Method)))
	inv, err := h.service.RecordExternalPayment(r.Context(), branchID, req.ref(r.PathValue("id")), method)
	h.finish(w, inv, err)
}

// CreateOnDemand handles POST /api/invoices
func (h *Handler) CreateOnDemand(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	var req invoice.CreateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	inv, err := h.service.CreateOnDemand(r.Context(), branchID, req)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusCreated, inv, h.logger)
}

// CreateCheckout handles POST /api/invoices/checkout
func (h *Handler) CreateCheckout(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	var req invoice.CheckoutRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	checkout, err := h.service.CreateCheckout(r.Context(), branchID, req)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusCreated, checkout, h.logger)
}

// CreateTerminal handles POST /api/invoices/terminal
func (h *Handler) CreateTerminal(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	var req invoice.CreateRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	inv, err := h.service.CreateTerminal(r.Context(), branchID, req)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, inv, h.logger)
}

func (h *Handler) action(w http.ResponseWriter, r *http.Request) (string, ActionRequest, bool) {
	var req ActionRequest
	branchID, ok := h.branch(w, r)
	if !ok {
		return "", req, false
	}
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return "", req, false
	}
	return branchID, req, true
}

func (h *Handler) finish(w http.ResponseWriter, inv *domain.Invoice, err error) {
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, inv, h.logger)
}

func (h *Handler) branch(w http.ResponseWriter, r *http.Request) (string, bool) {
	branchID, err := respond.ResolveBranch(r, h.branches)
	if err != nil {
		respond.Error(w, err, h.logger)
		return "", false
	}
	return branchID, true
}
