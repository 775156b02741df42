package ezypay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	invoicesPath         = "/v2/billing/invoices"
	transactionsPath     = "/v2/billing/transactions"
	checkoutPath         = "/v2/billing/checkout"
	terminalInvoicesPath = "/v2/billing/terminal/invoices"
)

// invoiceAdapter implements the InvoiceGateway port
type invoiceAdapter struct {
	client *Client
}

// NewInvoiceAdapter creates a new invoice adapter
func NewInvoiceAdapter(client *Client) ports.InvoiceGateway {
	return &invoiceAdapter{client: client}
}

// Ezypay request bodies
type invoiceItemRequest struct {
	Description string      `json:"description"`
	Amount      ports.Money `json:"amount"`
}

type createInvoiceRequest struct {
	CustomerID         string               `json:"customerId"`
	PaymentMethodToken string               `json:"paymentMethodToken"`
	Items              []invoiceItemRequest `json:"items"`
	Memo               string               `json:"memo,omitempty"`
}

type terminalInvoiceRequest struct {
	CustomerID string               `json:"customerId,omitempty"`
	TerminalID string               `json:"terminalId,omitempty"`
	Items      []invoiceItemRequest `json:"items"`
}

type retryPaymentRequest struct {
	PaymentMethodToken string `json:"paymentMethodToken"`
}

type refundRequest struct {
	Amount ports.Money `json:"amount"`
}

type recordPaymentRequest struct {
	PaymentMethodType string `json:"paymentMethodType"`
}

type checkoutRequest struct {
	Amount      ports.Money `json:"amount"`
	Description string      `json:"description,omitempty"`
	CustomerID  string      `json:"customerId,omitempty"`
}

func toItemRequests(lines []domain.NewInvoiceLine) []invoiceItemRequest {
	items := make([]invoiceItemRequest, 0, len(lines))
	for _, l := range lines {
		items = append(items, invoiceItemRequest{
			Description: l.Description,
			Amount:      ports.Money{Value: l.Amount},
		})
	}
	return items
}

func invoicePath(invoiceID string, action string) string {
	p := invoicesPath + "/" + url.PathEscape(invoiceID)
	if action != "" {
		p += "/" + action
	}
	return p
}

// ListInvoices lists invoices, optionally for one customer
func (a *invoiceAdapter) ListInvoices(ctx context.Context, branchID, customerID string) (*ports.InvoiceList, error) {
	query := url.Values{}
	if customerID != "" {
		query.Set("customerId", customerID)
	}

	var list ports.InvoiceList
	if _, err := a.client.do(ctx, branchID, call{
		operation: "invoices.list",
		method:    http.MethodGet,
		path:      invoicesPath,
		query:     query,
	}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GetInvoice retrieves a single invoice
func (a *invoiceAdapter) GetInvoice(ctx context.Context, branchID, invoiceID string) (*ports.Invoice, error) {
	var inv ports.Invoice
	if _, err := a.client.do(ctx, branchID, call{
		operation: "invoices.get",
		method:    http.MethodGet,
		path:      invoicePath(invoiceID, ""),
	}, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListTransactions lists payment attempts made against an invoice
func (a *invoiceAdapter) ListTransactions(ctx context.Context, branchID, invoiceID string) (*ports.TransactionList, error) {
	var list ports.TransactionList
	if _, err := a.client.do(ctx, branchID, call{
		operation: "transactions.list",
		method:    http.MethodGet,
		path:      transactionsPath,
		query:     url.Values{"invoiceId": []string{invoiceID}},
	}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// RetryPayment charges the invoice again with the selected payment method
func (a *invoiceAdapter) RetryPayment(ctx context.Context, branchID, invoiceID, paymentMethodToken string) (*ports.Invoice, error) {
	return a.mutate(ctx, branchID, call{
		operation: "invoices.retry",
		method:    http.MethodPost,
		path:      invoicePath(invoiceID, "retrypayment"),
		body:      retryPaymentRequest{PaymentMethodToken: paymentMethodToken},
	})
}

// RefundInvoice refunds part or all of a paid invoice
func (a *invoiceAdapter) RefundInvoice(ctx context.Context, branchID, invoiceID string, amount decimal.Decimal) (*ports.Invoice, error) {
	return a.mutate(ctx, branchID, call{
		operation: "invoices.refund",
		method:    http.MethodPost,
		path:      invoicePath(invoiceID, "refund"),
		body:      refundRequest{Amount: ports.Money{Value: amount}},
	})
}

// WriteOffInvoice writes off an outstanding invoice
func (a *invoiceAdapter) WriteOffInvoice(ctx context.Context, branchID, invoiceID string) (*ports.Invoice, error) {
	return a.mutate(ctx, branchID, call{
		operation: "invoices.writeoff",
		method:    http.MethodPut,
		path:      invoicePath(invoiceID, "writeoff"),
	})
}

// RecordExternalPayment marks an invoice as paid outside the provider
func (a *invoiceAdapter) RecordExternalPayment(ctx context.Context, branchID, invoiceID string, method domain.ExternalPaymentMethod) (*ports.Invoice, error) {
	return a.mutate(ctx, branchID, call{
		operation: "invoices.recordpayment",
		method:    http.MethodPut,
		path:      invoicePath(invoiceID, "recordpayment"),
		body:      recordPaymentRequest{PaymentMethodType: string(method)},
	})
}

// CreateInvoice creates an on-demand invoice charged against a stored token
func (a *invoiceAdapter) CreateInvoice(ctx context.Context, branchID string, req *ports.CreateInvoiceRequest) (*ports.Invoice, error) {
	return a.mutate(ctx, branchID, call{
		operation: "invoices.create",
		method:    http.MethodPost,
		path:      invoicesPath,
		body: createInvoiceRequest{
			CustomerID:         req.CustomerID,
			PaymentMethodToken: req.PaymentMethodToken,
			Items:              toItemRequests(req.Items),
			Memo:               req.Memo,
		},
	})
}

// CreateTerminalInvoice starts a tap-to-pay payment on a terminal
func (a *invoiceAdapter) CreateTerminalInvoice(ctx context.Context, branchID string, req *ports.TerminalInvoiceRequest) (*ports.Invoice, error) {
	return a.mutate(ctx, branchID, call{
		operation: "terminal.create",
		method:    http.MethodPost,
		path:      terminalInvoicesPath,
		body: terminalInvoiceRequest{
			CustomerID: req.CustomerID,
			TerminalID: req.TerminalID,
			Items:      toItemRequests(req.Items),
		},
	})
}

// CreateCheckout creates a hosted checkout session, keeping the raw answer
func (a *invoiceAdapter) CreateCheckout(ctx context.Context, branchID string, req *ports.CheckoutRequest) (*ports.CheckoutSession, error) {
	var session ports.CheckoutSession
	res, err := a.client.do(ctx, branchID, call{
		operation: "checkout.create",
		method:    http.MethodPost,
		path:      checkoutPath,
		body: checkoutRequest{
			Amount:      ports.Money{Value: req.Amount},
			Description: req.Description,
			CustomerID:  req.CustomerID,
		},
		record: true,
	}, &session)
	if err != nil {
		return nil, err
	}

	session.StatusCode = res.status
	if json.Valid(res.body) {
		session.Raw = json.RawMessage(res.body)
	}
	return &session, nil
}

// mutate performs a recorded invoice action and decodes the resulting invoice
func (a *invoiceAdapter) mutate(ctx context.Context, branchID string, c call) (*ports.Invoice, error) {
	c.record = true

	var inv ports.Invoice
	if _, err := a.client.do(ctx, branchID, c, &inv); err != nil {
		return nil, err
	}
	return &inv, nil
}
