package ports

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/shopspring/decimal"
)

// Token is the access token issued by the provider's identity endpoint
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type,omitempty"`
	ExpiresIn   int64  `json:"expires_in,omitempty"`
	Scope       string `json:"scope,omitempty"`

	// Upstream answer, for the pass-through token route
	StatusCode int             `json:"-"`
	Raw        json.RawMessage `json:"-"`
}

// TokenProvider issues a fresh bearer token per call; there is no caching
type TokenProvider interface {
	GetToken(ctx context.Context, branchID string) (*Token, error)
}

// CredentialResolver maps a branch id to its credential set.
// An empty branch id selects the default branch.
type CredentialResolver interface {
	Resolve(branchID string) (domain.BranchCredentials, error)
}

// Money is a provider amount. The provider is not consistent about its shape:
// it may arrive as {"value": 49, "currency": "AUD"}, a bare number or a numeric string.
// Anything unparsable decodes to zero.
type Money struct {
	Value    decimal.Decimal
	Currency string
}

// UnmarshalJSON accepts every amount shape the provider emits
func (m *Money) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var obj struct {
			Value    json.RawMessage `json:"value"`
			Currency string          `json:"currency"`
		}
		if err := json.Unmarshal(trimmed, &obj); err != nil {
			return err
		}
		m.Value = domain.ParseAmount(obj.Value)
		m.Currency = obj.Currency
		return nil
	}
	m.Value = domain.ParseAmount(trimmed)
	return nil
}

// MarshalJSON renders the provider's object form
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Value    float64 `json:"value"`
		Currency string  `json:"currency,omitempty"`
	}{
		Value:    m.Value.InexactFloat64(),
		Currency: m.Currency,
	})
}

// PaymentMethodData is the provider's polymorphic payment method object
type PaymentMethodData struct {
	Type  string               `json:"type"`
	Card  *domain.CardDetails  `json:"card,omitempty"`
	Bank  *domain.BankDetails  `json:"bank,omitempty"`
	PayTo *domain.PayToDetails `json:"payTo,omitempty"`
}

// Union converts the wire object into the closed tagged union
func (d *PaymentMethodData) Union() domain.PaymentMethodData {
	if d == nil {
		return domain.PaymentMethodData{}
	}
	return domain.PaymentMethodData{
		Kind:  domain.ParsePaymentMethodKind(d.Type),
		Card:  d.Card,
		Bank:  d.Bank,
		PayTo: d.PayTo,
	}
}

// Paging is the provider's list envelope metadata
type Paging struct {
	TotalCount int `json:"totalCount"`
	Limit      int `json:"limit"`
	Offset     int `json:"offset"`
}

// CustomerAddress is the provider's address schema
type CustomerAddress struct {
	Address1    string `json:"address1,omitempty"`
	Address2    string `json:"address2,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postalCode,omitempty"`
	CountryCode string `json:"countryCode,omitempty"`
}

// CustomerMetadata is the gym sidecar stored on the provider customer.
// Reads must tolerate it being absent or partial.
type CustomerMetadata struct {
	Plan                  string `json:"plan,omitempty"`
	Status                string `json:"status,omitempty"`
	StartDate             string `json:"startDate,omitempty"`
	DueDate               string `json:"dueDate,omitempty"`
	EmergencyContactName  string `json:"emergencyContactName,omitempty"`
	EmergencyContactPhone string `json:"emergencyContactPhone,omitempty"`
}

// Customer is the provider customer record
type Customer struct {
	ID          string            `json:"id,omitempty"`
	Number      string            `json:"number,omitempty"`
	FirstName   string            `json:"firstName"`
	LastName    string            `json:"lastName"`
	Email       string            `json:"email"`
	MobilePhone string            `json:"mobilePhone,omitempty"`
	DateOfBirth string            `json:"dateOfBirth,omitempty"`
	Address     *CustomerAddress  `json:"address,omitempty"`
	Metadata    *CustomerMetadata `json:"metadata,omitempty"`
	CreatedOn   string            `json:"createdOn,omitempty"`
}

// CustomerList is a page of customers
type CustomerList struct {
	Data   []Customer `json:"data"`
	Paging Paging     `json:"paging"`
}

// PaymentMethodRecord is a stored payment method token on a customer
type PaymentMethodRecord struct {
	PaymentMethodToken string               `json:"paymentMethodToken"`
	Type               string               `json:"type"`
	Primary            bool                 `json:"primary"`
	Valid              bool                 `json:"valid"`
	Card               *domain.CardDetails  `json:"card,omitempty"`
	Bank               *domain.BankDetails  `json:"bank,omitempty"`
	PayTo              *domain.PayToDetails `json:"payTo,omitempty"`
}

// Union converts the record's details into the closed tagged union
func (r PaymentMethodRecord) Union() domain.PaymentMethodData {
	return (&PaymentMethodData{Type: r.Type, Card: r.Card, Bank: r.Bank, PayTo: r.PayTo}).Union()
}

// PaymentMethodList is a customer's payment methods.
// StatusCode and Raw carry the upstream answer for pass-through routes.
type PaymentMethodList struct {
	Data       []PaymentMethodRecord `json:"data"`
	StatusCode int                   `json:"-"`
	Raw        json.RawMessage       `json:"-"`
}

// InvoiceItem is one raw line on a provider invoice
type InvoiceItem struct {
	Description string `json:"description"`
	Amount      Money  `json:"amount"`
}

// Invoice is the raw provider invoice
type Invoice struct {
	ID                      string             `json:"id"`
	DocumentNumber          string             `json:"documentNumber"`
	CustomerID              string             `json:"customerId"`
	CustomerName            string             `json:"customerName,omitempty"`
	Date                    string             `json:"date"`
	DueDate                 string             `json:"dueDate"`
	Status                  string             `json:"status"`
	Amount                  Money              `json:"amount"`
	Items                   []InvoiceItem      `json:"items"`
	PaymentMethodToken      string             `json:"paymentMethodToken,omitempty"`
	PaymentMethodData       *PaymentMethodData `json:"paymentMethodData,omitempty"`
	FailedPaymentReason     json.RawMessage    `json:"failedPaymentReason,omitempty"`
	PaymentProviderResponse json.RawMessage    `json:"paymentProviderResponse,omitempty"`
}

// InvoiceList is a page of invoices
type InvoiceList struct {
	Data   []Invoice `json:"data"`
	Paging Paging    `json:"paging"`
}

// Transaction is a payment attempt recorded by the provider
type Transaction struct {
	ID                string             `json:"id"`
	InvoiceID         string             `json:"invoiceId"`
	CreatedOn         string             `json:"createdOn"`
	Amount            Money              `json:"amount"`
	Status            string             `json:"status"`
	Type              string             `json:"type"`
	PaymentMethodData *PaymentMethodData `json:"paymentMethodData,omitempty"`
}

// TransactionList is a page of transactions
type TransactionList struct {
	Data   []Transaction `json:"data"`
	Paging Paging        `json:"paging"`
}

// CreateInvoiceRequest charges a stored payment method immediately
type CreateInvoiceRequest struct {
	CustomerID         string
	PaymentMethodToken string
	Items              []domain.NewInvoiceLine
	Memo               string
}

// TerminalInvoiceRequest starts a card-present payment on a physical terminal
type TerminalInvoiceRequest struct {
	CustomerID string
	TerminalID string
	Items      []domain.NewInvoiceLine
}

// CheckoutRequest creates a hosted checkout session
type CheckoutRequest struct {
	Amount      decimal.Decimal
	Description string
	CustomerID  string
}

// CheckoutSession is the provider's hosted checkout answer.
// StatusCode and Raw carry the upstream answer for pass-through routes.
type CheckoutSession struct {
	ID         string          `json:"id"`
	URL        string          `json:"url"`
	StatusCode int             `json:"-"`
	Raw        json.RawMessage `json:"-"`
}

// Settlement is a raw provider settlement
type Settlement struct {
	ID             string `json:"id"`
	SettlementDate string `json:"settlementDate"`
	Amount         Money  `json:"amount"`
	Status         string `json:"status"`
	Reference      string `json:"reference,omitempty"`
}

// SettlementList is a page of settlements
type SettlementList struct {
	Data   []Settlement `json:"data"`
	Paging Paging       `json:"paging"`
}

// File is provider file metadata with a time-limited download URL
type File struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	URL  string `json:"url"`
}

// CustomerGateway defines the port for provider customer and payment method endpoints
type CustomerGateway interface {
	CreateCustomer(ctx context.Context, branchID string, customer *Customer) (*Customer, error)
	ListCustomers(ctx context.Context, branchID string) (*CustomerList, error)
	GetCustomer(ctx context.Context, branchID, customerID string) (*Customer, error)
	GetCustomerPaymentMethods(ctx context.Context, branchID, customerID string) (*PaymentMethodList, error)
	LinkPaymentMethod(ctx context.Context, branchID, customerID, token string, primary bool) (*PaymentMethodRecord, error)
	ReplacePaymentMethod(ctx context.Context, branchID, customerID, oldToken, newToken string) (*PaymentMethodRecord, error)
	DeletePaymentMethod(ctx context.Context, branchID, customerID, token string) error
}

// InvoiceGateway defines the port for provider invoice, transaction, checkout and terminal endpoints
type InvoiceGateway interface {
	ListInvoices(ctx context.Context, branchID, customerID string) (*InvoiceList, error)
	GetInvoice(ctx context.Context, branchID, invoiceID string) (*Invoice, error)
	ListTransactions(ctx context.Context, branchID, invoiceID string) (*TransactionList, error)
	RetryPayment(ctx context.Context, branchID, invoiceID, paymentMethodToken string) (*Invoice, error)
	RefundInvoice(ctx context.Context, branchID, invoiceID string, amount decimal.Decimal) (*Invoice, error)
	WriteOffInvoice(ctx context.Context, branchID, invoiceID string) (*Invoice, error)
	RecordExternalPayment(ctx context.Context, branchID, invoiceID string, method domain.ExternalPaymentMethod) (*Invoice, error)
	CreateInvoice(ctx context.Context, branchID string, req *CreateInvoiceRequest) (*Invoice, error)
	CreateCheckout(ctx context.Context, branchID string, req *CheckoutRequest) (*CheckoutSession, error)
	CreateTerminalInvoice(ctx context.Context, branchID string, req *TerminalInvoiceRequest) (*Invoice, error)
}

// SettlementGateway defines the port for provider settlement and file endpoints
type SettlementGateway interface {
	ListSettlements(ctx context.Context, branchID string) (*SettlementList, error)
	// GenerateDocument requests a settlement document and returns the file id
	GenerateDocument(ctx context.Context, branchID, settlementID string, docType domain.DocumentType) (string, error)
	GetFile(ctx context.Context, branchID, fileID string) (*File, error)
}
