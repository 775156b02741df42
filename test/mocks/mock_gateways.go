package mocks

import (
	"context"
	"sync"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/shopspring/decimal"
)

// MockCustomerGateway is a mock implementation of CustomerGateway for testing.
// Unset funcs return zero values.
type MockCustomerGateway struct {
	mu sync.Mutex

	CreateCustomerFunc            func(ctx context.Context, branchID string, customer *ports.Customer) (*ports.Customer, error)
	ListCustomersFunc             func(ctx context.Context, branchID string) (*ports.CustomerList, error)
	GetCustomerFunc               func(ctx context.Context, branchID, customerID string) (*ports.Customer, error)
	GetCustomerPaymentMethodsFunc func(ctx context.Context, branchID, customerID string) (*ports.PaymentMethodList, error)
	LinkPaymentMethodFunc         func(ctx context.Context, branchID, customerID, token string, primary bool) (*ports.PaymentMethodRecord, error)
	ReplacePaymentMethodFunc      func(ctx context.Context, branchID, customerID, oldToken, newToken string) (*ports.PaymentMethodRecord, error)
	DeletePaymentMethodFunc       func(ctx context.Context, branchID, customerID, token string) error

	// Call tracking
	CreateCustomerCalls []*ports.Customer
	LinkCalls           []string // tokens
}

// CreateCustomer implements CustomerGateway
func (m *MockCustomerGateway) CreateCustomer(ctx context.Context, branchID string, customer *ports.Customer) (*ports.Customer, error) {
	m.mu.Lock()
	m.CreateCustomerCalls = append(m.CreateCustomerCalls, customer)
	m.mu.Unlock()
	if m.CreateCustomerFunc != nil {
		return m.CreateCustomerFunc(ctx, branchID, customer)
	}
	return customer, nil
}

// ListCustomers implements CustomerGateway
func (m *MockCustomerGateway) ListCustomers(ctx context.Context, branchID string) (*ports.CustomerList, error) {
	if m.ListCustomersFunc != nil {
		return m.ListCustomersFunc(ctx, branchID)
	}
	return &ports.CustomerList{}, nil
}

// GetCustomer implements CustomerGateway
func (m *MockCustomerGateway) GetCustomer(ctx context.Context, branchID, customerID string) (*ports.Customer, error) {
	if m.GetCustomerFunc != nil {
		return m.GetCustomerFunc(ctx, branchID, customerID)
	}
	return &ports.Customer{ID: customerID}, nil
}

// GetCustomerPaymentMethods implements CustomerGateway
func (m *MockCustomerGateway) GetCustomerPaymentMethods(ctx context.Context, branchID, customerID string) (*ports.PaymentMethodList, error) {
	if m.GetCustomerPaymentMethodsFunc != nil {
		return m.GetCustomerPaymentMethodsFunc(ctx, branchID, customerID)
	}
	return &ports.PaymentMethodList{}, nil
}

// LinkPaymentMethod implements CustomerGateway
func (m *MockCustomerGateway) LinkPaymentMethod(ctx context.Context, branchID, customerID, token string, primary bool) (*ports.PaymentMethodRecord, error) {
	m.mu.Lock()
	m.LinkCalls = append(m.LinkCalls, token)
	m.mu.Unlock()
	if m.LinkPaymentMethodFunc != nil {
		return m.LinkPaymentMethodFunc(ctx, branchID, customerID, token, primary)
	}
	return &ports.PaymentMethodRecord{PaymentMethodToken: token, Primary: primary, Valid: true}, nil
}

// ReplacePaymentMethod implements CustomerGateway
func (m *MockCustomerGateway) ReplacePaymentMethod(ctx context.Context, branchID, customerID, oldToken, newToken string) (*ports.PaymentMethodRecord, error) {
	if m.ReplacePaymentMethodFunc != nil {
		return m.ReplacePaymentMethodFunc(ctx, branchID, customerID, oldToken, newToken)
	}
	return &ports.PaymentMethodRecord{PaymentMethodToken: newToken, Valid: true}, nil
}

// DeletePaymentMethod implements CustomerGateway
func (m *MockCustomerGateway) DeletePaymentMethod(ctx context.Context, branchID, customerID, token string) error {
	if m.DeletePaymentMethodFunc != nil {
		return m.DeletePaymentMethodFunc(ctx, branchID, customerID, token)
	}
	return nil
}

// LinkCallCount returns the number of link calls made
func (m *MockCustomerGateway) LinkCallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.LinkCalls)
}

// MockInvoiceGateway is a mock implementation of InvoiceGateway for testing
type MockInvoiceGateway struct {
	mu sync.Mutex

	ListInvoicesFunc          func(ctx context.Context, branchID, customerID string) (*ports.InvoiceList, error)
	GetInvoiceFunc            func(ctx context.Context, branchID, invoiceID string) (*ports.Invoice, error)
	ListTransactionsFunc      func(ctx context.Context, branchID, invoiceID string) (*ports.TransactionList, error)
	RetryPaymentFunc          func(ctx context.Context, branchID, invoiceID, token string) (*ports.Invoice, error)
	RefundInvoiceFunc         func(ctx context.Context, branchID, invoiceID string, amount decimal.Decimal) (*ports.Invoice, error)
	WriteOffInvoiceFunc       func(ctx context.Context, branchID, invoiceID string) (*ports.Invoice, error)
	RecordExternalPaymentFunc func(ctx context.Context, branchID, invoiceID string, method domain.ExternalPaymentMethod) (*ports.Invoice, error)
	CreateInvoiceFunc         func(ctx context.Context, branchID string, req *ports.CreateInvoiceRequest) (*ports.Invoice, error)
	CreateCheckoutFunc        func(ctx context.Context, branchID string, req *ports.CheckoutRequest) (*ports.CheckoutSession, error)
	CreateTerminalInvoiceFunc func(ctx context.Context, branchID string, req *ports.TerminalInvoiceRequest) (*ports.Invoice, error)

	// Calls counts every upstream call by method name
	Calls map[string]int
}

// NewMockInvoiceGateway creates a new mock invoice gateway
func NewMockInvoiceGateway() *MockInvoiceGateway {
	return &MockInvoiceGateway{Calls: map[string]int{}}
}

func (m *MockInvoiceGateway) track(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Calls == nil {
		m.Calls = map[string]int{}
	}
	m.Calls[name]++
}

// CallCount returns how many times the named method was called
func (m *MockInvoiceGateway) CallCount(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Calls[name]
}

// TotalCalls returns the number of upstream calls of any kind
func (m *MockInvoiceGateway) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.Calls {
		total += n
	}
	return total
}

// ListInvoices implements InvoiceGateway
func (m *MockInvoiceGateway) ListInvoices(ctx context.Context, branchID, customerID string) (*ports.InvoiceList, error) {
	m.track("ListInvoices")
	if m.ListInvoicesFunc != nil {
		return m.ListInvoicesFunc(ctx, branchID, customerID)
	}
	return &ports.InvoiceList{}, nil
}

// GetInvoice implements InvoiceGateway
func (m *MockInvoiceGateway) GetInvoice(ctx context.Context, branchID, invoiceID string) (*ports.Invoice, error) {
	m.track("GetInvoice")
	if m.GetInvoiceFunc != nil {
		return m.GetInvoiceFunc(ctx, branchID, invoiceID)
	}
	return &ports.Invoice{ID: invoiceID}, nil
}

// ListTransactions implements InvoiceGateway
func (m *MockInvoiceGateway) ListTransactions(ctx context.Context, branchID, invoiceID string) (*ports.TransactionList, error) {
	m.track("ListTransactions")
	if m.ListTransactionsFunc != nil {
		return m.ListTransactionsFunc(ctx, branchID, invoiceID)
	}
	return &ports.TransactionList{}, nil
}

// RetryPayment implements InvoiceGateway
func (m *MockInvoiceGateway) RetryPayment(ctx context.Context, branchID, invoiceID, token string) (*ports.Invoice, error) {
	m.track("RetryPayment")
	if m.RetryPaymentFunc != nil {
		return m.RetryPaymentFunc(ctx, branchID, invoiceID, token)
	}
	return &ports.Invoice{ID: invoiceID, Status: "PENDING"}, nil
}

// RefundInvoice implements InvoiceGateway
func (m *MockInvoiceGateway) RefundInvoice(ctx context.Context, branchID, invoiceID string, amount decimal.Decimal) (*ports.Invoice, error) {
	m.track("RefundInvoice")
	if m.RefundInvoiceFunc != nil {
		return m.RefundInvoiceFunc(ctx, branchID, invoiceID, amount)
	}
	return &ports.Invoice{ID: invoiceID, Status: "REFUNDED"}, nil
}

// WriteOffInvoice implements InvoiceGateway
func (m *MockInvoiceGateway) WriteOffInvoice(ctx context.Context, branchID, invoiceID string) (*ports.Invoice, error) {
	m.track("WriteOffInvoice")
	if m.WriteOffInvoiceFunc != nil {
		return m.WriteOffInvoiceFunc(ctx, branchID, invoiceID)
	}
	return &ports.Invoice{ID: invoiceID, Status: "WRITTEN_OFF"}, nil
}

// RecordExternalPayment implements InvoiceGateway
func (m *MockInvoiceGateway) RecordExternalPayment(ctx context.Context, branchID, invoiceID string, method domain.ExternalPaymentMethod) (*ports.Invoice, error) {
	m.track("RecordExternalPayment")
	if m.RecordExternalPaymentFunc != nil {
		return m.RecordExternalPaymentFunc(ctx, branchID, invoiceID, method)
	}
	return &ports.Invoice{ID: invoiceID, Status: "PAID"}, nil
}

// CreateInvoice implements InvoiceGateway
func (m *MockInvoiceGateway) CreateInvoice(ctx context.Context, branchID string, req *ports.CreateInvoiceRequest) (*ports.Invoice, error) {
	m.track("CreateInvoice")
	if m.CreateInvoiceFunc != nil {
		return m.CreateInvoiceFunc(ctx, branchID, req)
	}
	return &ports.Invoice{ID: "inv_new", CustomerID: req.CustomerID, Status: "PENDING"}, nil
}

// CreateCheckout implements InvoiceGateway
func (m *MockInvoiceGateway) CreateCheckout(ctx context.Context, branchID string, req *ports.CheckoutRequest) (*ports.CheckoutSession, error) {
	m.track("CreateCheckout")
	if m.CreateCheckoutFunc != nil {
		return m.CreateCheckoutFunc(ctx, branchID, req)
	}
	return &ports.CheckoutSession{ID: "chk_1", URL: "https://pay.example.com/chk_1", StatusCode: 200}, nil
}

// CreateTerminalInvoice implements InvoiceGateway
func (m *MockInvoiceGateway) CreateTerminalInvoice(ctx context.Context, branchID string, req *ports.TerminalInvoiceRequest) (*ports.Invoice, error) {
	m.track("CreateTerminalInvoice")
	if m.CreateTerminalInvoiceFunc != nil {
		return m.CreateTerminalInvoiceFunc(ctx, branchID, req)
	}
	return &ports.Invoice{ID: "inv_term", CustomerID: req.CustomerID, Status: "PENDING"}, nil
}

// MockSettlementGateway is a mock implementation of SettlementGateway for testing
type MockSettlementGateway struct {
	ListSettlementsFunc  func(ctx context.Context, branchID string) (*ports.SettlementList, error)
	GenerateDocumentFunc func(ctx context.Context, branchID, settlementID string, docType domain.DocumentType) (string, error)
	GetFileFunc          func(ctx context.Context, branchID, fileID string) (*ports.File, error)

	GenerateCalls int
	GetFileCalls  int
}

// ListSettlements implements SettlementGateway
func (m *MockSettlementGateway) ListSettlements(ctx context.Context, branchID string) (*ports.SettlementList, error) {
	if m.ListSettlementsFunc != nil {
		return m.ListSettlementsFunc(ctx, branchID)
	}
	return &ports.SettlementList{}, nil
}

// GenerateDocument implements SettlementGateway
func (m *MockSettlementGateway) GenerateDocument(ctx context.Context, branchID, settlementID string, docType domain.DocumentType) (string, error) {
	m.GenerateCalls++
	if m.GenerateDocumentFunc != nil {
		return m.GenerateDocumentFunc(ctx, branchID, settlementID, docType)
	}
	return "file_1", nil
}

// GetFile implements SettlementGateway
func (m *MockSettlementGateway) GetFile(ctx context.Context, branchID, fileID string) (*ports.File, error) {
	m.GetFileCalls++
	if m.GetFileFunc != nil {
		return m.GetFileFunc(ctx, branchID, fileID)
	}
	return &ports.File{ID: fileID, URL: "https://files.example.com/" + fileID}, nil
}
