package ports

import (
	"context"

	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/services/invoice"
	"github.com/shopspring/decimal"
)

// InvoiceService defines the business logic interface for invoices and their lifecycle actions
type InvoiceService interface {
	ListInvoices(ctx context.Context, branchID, customerID string, customerName *string) ([]domain.Invoice, error)
	GetInvoice(ctx context.Context, branchID, invoiceID string) (*domain.Invoice, error)
	ListTransactions(ctx context.Context, branchID, invoiceID string) ([]domain.PaymentAttempt, error)

	Retry(ctx context.Context, branchID string, ref domain.InvoiceRef, paymentMethodToken string) (*domain.Invoice, error)
	Refund(ctx context.Context, branchID string, ref domain.InvoiceRef, amount *decimal.Decimal) (*domain.Invoice, error)
	WriteOff(ctx context.Context, branchID string, ref domain.InvoiceRef) (*domain.Invoice, error)
	RecordExternalPayment(ctx context.Context, branchID string, ref domain.InvoiceRef, method domain.ExternalPaymentMethod) (*domain.Invoice, error)

	CreateOnDemand(ctx context.Context, branchID string, req invoice.CreateRequest) (*domain.Invoice, error)
	CreateCheckout(ctx context.Context, branchID string, req invoice.CheckoutRequest) (*invoice.Checkout, error)
	CreateTerminal(ctx context.Context, branchID string, req invoice.CreateRequest) (*domain.Invoice, error)
}

var _ InvoiceService = (*invoice.Service)(nil)
