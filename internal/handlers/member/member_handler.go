package member

import (
	"net/http"

	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/handlers/respond"
	"github.com/kevin07696/gym-admin/internal/services/ports"
	"go.uber.org/zap"
)

// Handler serves member and payment-method routes
type Handler struct {
	service  ports.CustomerService
	branches respond.CurrentBranch
	logger   *zap.Logger
}

// NewHandler creates a new member handler
func NewHandler(service ports.CustomerService, branches respond.CurrentBranch, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		branches: branches,
		logger:   logger,
	}
}

// RegisterRoutes mounts the member routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/members", h.ListMembers)
	mux.HandleFunc("POST /api/members", h.CreateMember)
	mux.HandleFunc("GET /api/members/{id}", h.GetMember)
	mux.HandleFunc("GET /api/members/{id}/payment-methods", h.ListPaymentMethods)
	mux.HandleFunc("POST /api/members/{id}/payment-methods", h.LinkPaymentMethod)
	mux.HandleFunc("PUT /api/members/{id}/payment-methods/{token}", h.ReplacePaymentMethod)
	mux.HandleFunc("DELETE /api/members/{id}/payment-methods/{token}", h.DeletePaymentMethod)
	mux.HandleFunc("POST /api/members/{id}/transfer", h.TransferMember)
}

// LinkRequest is the body of POST /api/members/{id}/payment-methods
type LinkRequest struct {
	PaymentMethodToken string `json:"paymentMethodToken"`
	Primary            bool   `json:"primary"`
}

// ReplaceRequest is the body of PUT /api/members/{id}/payment-methods/{token}
type ReplaceRequest struct {
	NewPaymentMethodToken string `json:"newPaymentMethodToken"`
}

// TransferRequest is the body of POST /api/members/{id}/transfer.
// FromBranch defaults to the request's branch.
type TransferRequest struct {
	FromBranch string `json:"fromBranch,omitempty"`
	ToBranch   string `json:"toBranch"`
}

// ListMembers handles GET /api/members
func (h *Handler) ListMembers(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	members, err := h.service.ListMembers(r.Context(), branchID)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, members, h.logger)
}

// CreateMember handles POST /api/members
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	var req domain.NewMember
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	m, err := h.service.CreateMember(r.Context(), branchID, req)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusCreated, m, h.logger)
}

// GetMember handles GET /api/members/{id}
func (h *Handler) GetMember(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	m, err := h.service.GetMember(r.Context(), branchID, r.PathValue("id"))
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, m, h.logger)
}

// ListPaymentMethods handles GET /api/members/{id}/payment-methods
func (h *Handler) ListPaymentMethods(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	methods, err := h.service.ListPaymentMethods(r.Context(), branchID, r.PathValue("id"))
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, methods, h.logger)
}

// LinkPaymentMethod handles POST /api/members/{id}/payment-methods
func (h *Handler) LinkPaymentMethod(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	var req LinkRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	pm, err := h.service.LinkPaymentMethod(r.Context(), branchID, r.PathValue("id"), req.PaymentMethodToken, req.Primary)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusCreated, pm, h.logger)
}

// ReplacePaymentMethod handles PUT /api/members/{id}/payment-methods/{token}
func (h *Handler) ReplacePaymentMethod(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	var req ReplaceRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	pm, err := h.service.ReplacePaymentMethod(r.Context(), branchID, r.PathValue("id"), r.PathValue("token"), req.NewPaymentMethodToken)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, pm, h.logger)
}

// DeletePaymentMethod handles DELETE /api/members/{id}/payment-methods/{token}
func (h *Handler) DeletePaymentMethod(w http.ResponseWriter, r *http.Request) {
	branchID, ok := h.branch(w, r)
	if !ok {
		return
	}

	if err := h.service.DeletePaymentMethod(r.Context(), branchID, r.PathValue("id"), r.PathValue("token")); err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, nil, h.logger)
}

// TransferMember handles POST /api/members/{id}/transfer
func (h *Handler) TransferMember(w http.ResponseWriter, r *http.Request) {
	var req TransferRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	from := req.FromBranch
	if from == "" {
		var ok bool
		if from, ok = h.branch(w, r); !ok {
			return
		}
	}

	result, err := h.service.TransferMember(r.Context(), r.PathValue("id"), from, req.ToBranch)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	h.logger.Info("Member transfer finished",
		zap.String("customer_id", r.PathValue("id")),
		zap.String("new_customer_id", result.NewCustomerID),
		zap.Int("linked", len(result.Linked)),
		zap.Int("failed", len(result.Failed)),
	)
	respond.OK(w, http.StatusOK, result, h.logger)
}

func (h *Handler) branch(w http.ResponseWriter, r *http.Request) (string, bool) {
	branchID, err := respond.ResolveBranch(r, h.branches)
	if err != nil {
		respond.Error(w, err, h.logger)
		return "", false
	}
	return branchID, true
}
