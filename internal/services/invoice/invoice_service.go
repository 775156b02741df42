package invoice

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"github.com/kevin07696/gym-admin/pkg/observability"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"
)

// DefaultTerminalWait is how long a terminal payment is given before the invoice is re-read
const DefaultTerminalWait = 15 * time.Second

// Service drives invoice reads and lifecycle actions against the provider.
// Every action validates the caller's invoice snapshot locally first; a rejected
// action never reaches the provider.
type Service struct {
	gateway      ports.InvoiceGateway
	logger       ports.Logger
	terminalWait time.Duration
	retries      singleflight.Group
}

// NewService creates a new invoice service
func NewService(gateway ports.InvoiceGateway, terminalWait time.Duration, logger ports.Logger) *Service {
	if terminalWait < 0 {
		terminalWait = DefaultTerminalWait
	}
	return &Service{
		gateway:      gateway,
		logger:       logger,
		terminalWait: terminalWait,
	}
}

// CreateRequest is an on-demand or terminal invoice request
type CreateRequest struct {
	CustomerID         string                  `json:"customerId"`
	CustomerName       string                  `json:"customerName,omitempty"`
	PaymentMethodToken string                  `json:"paymentMethodToken,omitempty"`
	TerminalID         string                  `json:"terminalId,omitempty"`
	Items              []domain.NewInvoiceLine `json:"items"`
	Memo               string                  `json:"memo,omitempty"`
}

// CheckoutRequest is a hosted checkout request
type CheckoutRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CustomerID  string          `json:"customerId,omitempty"`
}

// Checkout is a validated hosted checkout session
type Checkout struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// ListInvoices lists normalized invoices, optionally for one customer
func (s *Service) ListInvoices(ctx context.Context, branchID, customerID string, customerName *string) ([]domain.Invoice, error) {
	list, err := s.gateway.ListInvoices(ctx, branchID, customerID)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return Normalize(list, customerName), nil
}

// GetInvoice fetches one normalized invoice
func (s *Service) GetInvoice(ctx context.Context, branchID, invoiceID string) (*domain.Invoice, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, pkgerrors.NewValidationErrorWithCode("invoiceId", string(domain.ErrorCodeValidationMissingField), "invoice id is required")
	}

	raw, err := s.gateway.GetInvoice(ctx, branchID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get invoice %s: %w", invoiceID, err)
	}
	inv := NormalizeInvoice(*raw, nil)
	return &inv, nil
}

// ListTransactions lists payment attempts for an invoice
func (s *Service) ListTransactions(ctx context.Context, branchID, invoiceID string) ([]domain.PaymentAttempt, error) {
	if strings.TrimSpace(invoiceID) == "" {
		return nil, pkgerrors.NewValidationErrorWithCode("invoiceId", string(domain.ErrorCodeValidationMissingField), "invoice id is required")
	}

	list, err := s.gateway.ListTransactions(ctx, branchID, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("list transactions for %s: %w", invoiceID, err)
	}
	return NormalizeTransactions(list), nil
}

// Retry charges a failed, past-due or unpaid invoice again with the selected payment method.
// Concurrent retries for the same invoice share a single upstream call.
func (s *Service) Retry(ctx context.Context, branchID string, ref domain.InvoiceRef, paymentMethodToken string) (*domain.Invoice, error) {
	if strings.TrimSpace(paymentMethodToken) == "" {
		return nil, s.reject(domain.InvoiceActionRetry, branchID,
			pkgerrors.NewValidationErrorWithCode("paymentMethodToken", string(domain.ErrorCodePMRequired), "select a payment method to retry with"))
	}
	if err := s.checkTransition(domain.InvoiceActionRetry, ref); err != nil {
		return nil, s.reject(domain.InvoiceActionRetry, branchID, err)
	}

	// The shared call outlives any single caller; each caller stops waiting on its own ctx.
	key := branchID + "/" + ref.ID
	callCtx := context.WithoutCancel(ctx)
	ch := s.retries.DoChan(key, func() (interface{}, error) {
		return s.gateway.RetryPayment(callCtx, branchID, ref.ID, paymentMethodToken)
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.logger.Debug("Retry collapsed with in-flight call", ports.InvoiceID(ref.ID))
		}
		return s.finish(domain.InvoiceActionRetry, branchID, ref.ID, res.Val, res.Err)
	case <-ctx.Done():
		return s.finish(domain.InvoiceActionRetry, branchID, ref.ID, nil, ctx.Err())
	}
}

// Refund refunds a paid invoice. A nil amount refunds in full.
func (s *Service) Refund(ctx context.Context, branchID string, ref domain.InvoiceRef, amount *decimal.Decimal) (*domain.Invoice, error) {
	if err := s.checkTransition(domain.InvoiceActionRefund, ref); err != nil {
		return nil, s.reject(domain.InvoiceActionRefund, branchID, err)
	}

	refund := ref.Amount
	if amount != nil {
		refund = *amount
	}
	if !refund.IsPositive() {
		return nil, s.reject(domain.InvoiceActionRefund, branchID,
			pkgerrors.NewValidationErrorWithCode("amount", string(domain.ErrorCodeValidationAmountInvalid), "refund amount must be greater than zero"))
	}
	if refund.GreaterThan(ref.Amount) {
		return nil, s.reject(domain.InvoiceActionRefund, branchID,
			pkgerrors.NewValidationErrorWithCode("amount", string(domain.ErrorCodeRefundExceedsAmount),
				fmt.Sprintf("refund of %s exceeds invoice amount %s", domain.FormatAmount(refund), domain.FormatAmount(ref.Amount))))
	}

	raw, err := s.gateway.RefundInvoice(ctx, branchID, ref.ID, refund)
	inv, err := s.finish(domain.InvoiceActionRefund, branchID, ref.ID, raw, err)
	if err == nil {
		observability.RecordRefund(branchID, refund.Shift(2).IntPart())
	}
	return inv, err
}

// WriteOff writes off an outstanding invoice
func (s *Service) WriteOff(ctx context.Context, branchID string, ref domain.InvoiceRef) (*domain.Invoice, error) {
	if err := s.checkTransition(domain.InvoiceActionWriteOff, ref); err != nil {
		return nil, s.reject(domain.InvoiceActionWriteOff, branchID, err)
	}

	raw, err := s.gateway.WriteOffInvoice(ctx, branchID, ref.ID)
	return s.finish(domain.InvoiceActionWriteOff, branchID, ref.ID, raw, err)
}

// RecordExternalPayment marks an outstanding invoice as paid outside the provider
func (s *Service) RecordExternalPayment(ctx context.Context, branchID string, ref domain.InvoiceRef, method domain.ExternalPaymentMethod) (*domain.Invoice, error) {
	if !method.IsValid() {
		return nil, s.reject(domain.InvoiceActionRecordExternal, branchID,
			pkgerrors.NewValidationError("method", fmt.Sprintf("unsupported payment method %q", method)))
	}
	if err := s.checkTransition(domain.InvoiceActionRecordExternal, ref); err != nil {
		return nil, s.reject(domain.InvoiceActionRecordExternal, branchID, err)
	}

	raw, err := s.gateway.RecordExternalPayment(ctx, branchID, ref.ID, method)
	return s.finish(domain.InvoiceActionRecordExternal, branchID, ref.ID, raw, err)
}

// CreateOnDemand creates an invoice charged immediately against a stored payment method
func (s *Service) CreateOnDemand(ctx context.Context, branchID string, req CreateRequest) (*domain.Invoice, error) {
	const action = "create"

	if err := validateNewInvoice(req); err != nil {
		return nil, s.reject(action, branchID, err)
	}
	if strings.TrimSpace(req.PaymentMethodToken) == "" {
		return nil, s.reject(action, branchID,
			pkgerrors.NewValidationErrorWithCode("paymentMethodToken", string(domain.ErrorCodePMRequired), "payment method is required"))
	}

	raw, err := s.gateway.CreateInvoice(ctx, branchID, &ports.CreateInvoiceRequest{
		CustomerID:         req.CustomerID,
		PaymentMethodToken: req.PaymentMethodToken,
		Items:              req.Items,
		Memo:               req.Memo,
	})
	if err != nil {
		observability.RecordInvoiceAction(action, branchID, "failed")
		return nil, fmt.Errorf("create invoice: %w", err)
	}

	observability.RecordInvoiceAction(action, branchID, "success")
	inv := NormalizeInvoice(*raw, optionalName(req.CustomerName))
	s.logger.Info("On-demand invoice created",
		ports.InvoiceID(inv.ID),
		ports.CustomerID(req.CustomerID),
		ports.BranchID(branchID),
	)
	return &inv, nil
}

// CreateCheckout creates a hosted checkout session and validates its redirect URL
func (s *Service) CreateCheckout(ctx context.Context, branchID string, req CheckoutRequest) (*Checkout, error) {
	const action = "checkout"

	if !req.Amount.IsPositive() {
		return nil, s.reject(action, branchID,
			pkgerrors.NewValidationErrorWithCode("amount", string(domain.ErrorCodeValidationAmountInvalid), "amount must be greater than zero"))
	}

	session, err := s.gateway.CreateCheckout(ctx, branchID, &ports.CheckoutRequest{
		Amount:      req.Amount,
		Description: req.Description,
		CustomerID:  req.CustomerID,
	})
	if err != nil {
		observability.RecordInvoiceAction(action, branchID, "failed")
		return nil, fmt.Errorf("create checkout: %w", err)
	}

	if err := ValidateRedirectURL(session.URL); err != nil {
		observability.RecordInvoiceAction(action, branchID, "rejected")
		s.logger.Warn("Checkout returned an unusable redirect URL",
			ports.String("session_id", session.ID),
			ports.BranchID(branchID),
		)
		return nil, err
	}

	observability.RecordInvoiceAction(action, branchID, "success")
	return &Checkout{ID: session.ID, URL: session.URL}, nil
}

// CreateTerminal starts a tap-to-pay payment, waits for the terminal interaction window
// and returns the invoice as the provider sees it afterwards.
func (s *Service) CreateTerminal(ctx context.Context, branchID string, req CreateRequest) (*domain.Invoice, error) {
	const action = "terminal"

	if err := validateNewInvoice(req); err != nil {
		return nil, s.reject(action, branchID, err)
	}

	created, err := s.gateway.CreateTerminalInvoice(ctx, branchID, &ports.TerminalInvoiceRequest{
		CustomerID: req.CustomerID,
		TerminalID: req.TerminalID,
		Items:      req.Items,
	})
	if err != nil {
		observability.RecordInvoiceAction(action, branchID, "failed")
		return nil, fmt.Errorf("create terminal invoice: %w", err)
	}

	s.logger.Info("Waiting for terminal confirmation",
		ports.InvoiceID(created.ID),
		ports.Duration("wait", s.terminalWait),
	)

	timer := time.NewTimer(s.terminalWait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		observability.RecordInvoiceAction(action, branchID, "failed")
		return nil, ctx.Err()
	case <-timer.C:
	}

	final, err := s.gateway.GetInvoice(ctx, branchID, created.ID)
	if err != nil {
		observability.RecordInvoiceAction(action, branchID, "failed")
		return nil, fmt.Errorf("read terminal invoice %s: %w", created.ID, err)
	}

	observability.RecordInvoiceAction(action, branchID, "success")
	inv := NormalizeInvoice(*final, optionalName(req.CustomerName))
	return &inv, nil
}

// ValidateRedirectURL accepts only absolute http(s) URLs with a host
func ValidateRedirectURL(raw string) error {
	invalid := pkgerrors.NewValidationErrorWithCode("url", string(domain.ErrorCodeCheckoutURLInvalid), "payment provider returned an invalid redirect URL")

	raw = strings.TrimSpace(raw)
	if raw == "" {
		return invalid
	}
	u, err := url.Parse(raw)
	if err != nil || !u.IsAbs() || u.Host == "" {
		return invalid
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return invalid
	}
	return nil
}

func validateNewInvoice(req CreateRequest) error {
	if strings.TrimSpace(req.CustomerID) == "" {
		return pkgerrors.NewValidationErrorWithCode("customerId", string(domain.ErrorCodeValidationMissingField), "customer is required")
	}
	if len(req.Items) == 0 {
		return pkgerrors.NewValidationErrorWithCode("items", string(domain.ErrorCodeValidationMissingField), "at least one item is required")
	}
	for i, item := range req.Items {
		if strings.TrimSpace(item.Description) == "" {
			return pkgerrors.NewValidationErrorWithCode(fmt.Sprintf("items[%d].description", i),
				string(domain.ErrorCodeValidationMissingField), "description is required")
		}
		if !item.Amount.IsPositive() {
			return pkgerrors.NewValidationErrorWithCode(fmt.Sprintf("items[%d].amount", i),
				string(domain.ErrorCodeValidationAmountInvalid), "amount must be greater than zero")
		}
	}
	return nil
}

func (s *Service) checkTransition(action domain.InvoiceAction, ref domain.InvoiceRef) error {
	if strings.TrimSpace(ref.ID) == "" {
		return pkgerrors.NewValidationErrorWithCode("invoiceId", string(domain.ErrorCodeValidationMissingField), "invoice id is required")
	}
	if !action.CanApply(ref.Status) {
		return pkgerrors.NewValidationErrorWithCode("status", string(domain.ErrorCodeInvoiceInvalidState),
			fmt.Sprintf("cannot %s an invoice that is %s", strings.ReplaceAll(string(action), "_", " "), ref.Status))
	}
	return nil
}

func (s *Service) reject(action domain.InvoiceAction, branchID string, err error) error {
	observability.RecordInvoiceAction(string(action), branchID, "rejected")
	s.logger.Warn("Invoice action rejected",
		ports.String("action", string(action)),
		ports.BranchID(branchID),
		ports.Err(err),
	)
	return err
}

// finish normalizes the provider answer of a lifecycle action.
// raw is an interface so it can carry singleflight results.
func (s *Service) finish(action domain.InvoiceAction, branchID, invoiceID string, raw interface{}, err error) (*domain.Invoice, error) {
	if err != nil {
		observability.RecordInvoiceAction(string(action), branchID, "failed")
		s.logger.Error("Invoice action failed",
			ports.String("action", string(action)),
			ports.InvoiceID(invoiceID),
			ports.BranchID(branchID),
			ports.Err(err),
		)
		return nil, fmt.Errorf("%s invoice %s: %w", action, invoiceID, err)
	}

	observability.RecordInvoiceAction(string(action), branchID, "success")
	s.logger.Info("Invoice action completed",
		ports.String("action", string(action)),
		ports.InvoiceID(invoiceID),
		ports.BranchID(branchID),
	)

	pi, _ := raw.(*ports.Invoice)
	if pi == nil {
		return nil, fmt.Errorf("%s invoice %s: empty provider response", action, invoiceID)
	}
	inv := NormalizeInvoice(*pi, nil)
	if inv.ID == "" {
		inv.ID = invoiceID
	}
	return &inv, nil
}

func optionalName(name string) *string {
	if strings.TrimSpace(name) == "" {
		return nil
	}
	return &name
}
