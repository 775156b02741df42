package payment

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/handlers/respond"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"go.uber.org/zap"
)

// Handler serves the three provider pass-through routes used by the card-capture page.
// Successful answers carry the provider's body and status unchanged.
type Handler struct {
	tokens    ports.TokenProvider
	customers ports.CustomerGateway
	invoices  ports.InvoiceGateway
	branches  respond.CurrentBranch
	logger    *zap.Logger
}

// NewHandler creates a new payment pass-through handler
func NewHandler(
	tokens ports.TokenProvider,
	customers ports.CustomerGateway,
	invoices ports.InvoiceGateway,
	branches respond.CurrentBranch,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		tokens:    tokens,
		customers: customers,
		invoices:  invoices,
		branches:  branches,
		logger:    logger,
	}
}

// RegisterRoutes mounts the pass-through routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/payment/token", h.Token)
	mux.HandleFunc("POST /api/payment/methods", h.PaymentMethods)
	mux.HandleFunc("POST /api/payment/checkout", h.Checkout)
}

// PaymentMethodsRequest is the body of POST /api/payment/methods
type PaymentMethodsRequest struct {
	CustomerID string `json:"customerId"`
	Branch     string `json:"branch,omitempty"`
}

// CheckoutRequest is the body of POST /api/payment/checkout.
// Older UI builds send the misspelled "desciption" key; both are accepted.
type CheckoutRequest struct {
	Amount          json.RawMessage `json:"amount"`
	Description     string          `json:"description,omitempty"`
	DescriptionTypo string          `json:"desciption,omitempty"`
	CustomerID      string          `json:"customerId,omitempty"`
	Branch          string          `json:"branch,omitempty"`
}

func (c CheckoutRequest) description() string {
	if strings.TrimSpace(c.Description) != "" {
		return c.Description
	}
	return c.DescriptionTypo
}

// Token handles POST /api/payment/token
func (h *Handler) Token(w http.ResponseWriter, r *http.Request) {
	branchID, err := respond.ResolveBranch(r, h.branches)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	token, err := h.tokens.GetToken(r.Context(), branchID)
	if err != nil {
		h.passThroughError(w, err)
		return
	}

	respond.Raw(w, token.StatusCode, token.Raw, h.logger)
}

// PaymentMethods handles POST /api/payment/methods
func (h *Handler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	var req PaymentMethodsRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	if strings.TrimSpace(req.CustomerID) == "" {
		respond.Error(w, pkgerrors.NewValidationErrorWithCode("customerId",
			string(domain.ErrorCodeValidationMissingField), "customerId is required"), h.logger)
		return
	}

	branchID, err := h.branchFor(r, req.Branch)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	list, err := h.customers.GetCustomerPaymentMethods(r.Context(), branchID, req.CustomerID)
	if err != nil {
		h.passThroughError(w, err)
		return
	}

	body := []byte(list.Raw)
	if len(body) == 0 {
		if body, err = json.Marshal(list); err != nil {
			respond.Error(w, err, h.logger)
			return
		}
	}
	respond.Raw(w, list.StatusCode, body, h.logger)
}

// Checkout handles POST /api/payment/checkout
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	amount := domain.ParseAmount(req.Amount)
	if !amount.IsPositive() {
		respond.Error(w, pkgerrors.NewValidationErrorWithCode("amount",
			string(domain.ErrorCodeValidationAmountInvalid), "amount must be greater than zero"), h.logger)
		return
	}

	branchID, err := h.branchFor(r, req.Branch)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	session, err := h.invoices.CreateCheckout(r.Context(), branchID, &ports.CheckoutRequest{
		Amount:      amount,
		Description: req.description(),
		CustomerID:  req.CustomerID,
	})
	if err != nil {
		h.passThroughError(w, err)
		return
	}

	body := []byte(session.Raw)
	if len(body) == 0 {
		if body, err = json.Marshal(session); err != nil {
			respond.Error(w, err, h.logger)
			return
		}
	}
	respond.Raw(w, session.StatusCode, body, h.logger)
}

func (h *Handler) branchFor(r *http.Request, fromBody string) (string, error) {
	if b := strings.TrimSpace(fromBody); b != "" {
		return b, nil
	}
	return respond.ResolveBranch(r, h.branches)
}

// passThroughError forwards a provider error body and status when there is one
func (h *Handler) passThroughError(w http.ResponseWriter, err error) {
	if upErr, ok := pkgerrors.AsUpstreamError(err); ok && json.Valid([]byte(upErr.Body)) {
		h.logger.Warn("Payment provider rejected request",
			zap.Int("status", upErr.StatusCode),
			zap.String("code", upErr.Code),
		)
		respond.Raw(w, upErr.StatusCode, []byte(upErr.Body), h.logger)
		return
	}
	if authErr, ok := pkgerrors.AsAuthError(err); ok && authErr.StatusCode >= 400 && json.Valid([]byte(authErr.Body)) {
		h.logger.Warn("Token request rejected", zap.Int("status", authErr.StatusCode))
		respond.Raw(w, authErr.StatusCode, []byte(authErr.Body), h.logger)
		return
	}
	respond.Error(w, err, h.logger)
}
