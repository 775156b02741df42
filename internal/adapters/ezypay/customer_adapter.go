package ezypay

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
)

const (
	customersPath      = "/v2/billing/customers"
	paymentMethodsPath = "/v2/billing/customers/%s/paymentmethods"
)

// customerAdapter implements the CustomerGateway port
type customerAdapter struct {
	client *Client
}

// NewCustomerAdapter creates a new customer adapter
func NewCustomerAdapter(client *Client) ports.CustomerGateway {
	return &customerAdapter{client: client}
}

// Ezypay request bodies
type linkPaymentMethodRequest struct {
	PaymentMethodToken string `json:"paymentMethodToken"`
	Primary            bool   `json:"primary"`
}

type replacePaymentMethodRequest struct {
	NewPaymentMethodToken string `json:"newPaymentMethodToken"`
}

// CreateCustomer creates a customer, metadata sidecar included
func (a *customerAdapter) CreateCustomer(ctx context.Context, branchID string, customer *ports.Customer) (*ports.Customer, error) {
	var created ports.Customer
	_, err := a.client.do(ctx, branchID, call{
		operation: "customers.create",
		method:    http.MethodPost,
		path:      customersPath,
		body:      customer,
		record:    true,
	}, &created)
	if err != nil {
		return nil, err
	}

	a.client.logger.Info("Customer created",
		ports.CustomerID(created.ID),
		ports.BranchID(branchID),
	)
	return &created, nil
}

// ListCustomers lists the merchant's customers
func (a *customerAdapter) ListCustomers(ctx context.Context, branchID string) (*ports.CustomerList, error) {
	var list ports.CustomerList
	_, err := a.client.do(ctx, branchID, call{
		operation: "customers.list",
		method:    http.MethodGet,
		path:      customersPath,
		query:     url.Values{"limit": []string{"100"}},
	}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// GetCustomer retrieves a single customer
func (a *customerAdapter) GetCustomer(ctx context.Context, branchID, customerID string) (*ports.Customer, error) {
	var customer ports.Customer
	_, err := a.client.do(ctx, branchID, call{
		operation: "customers.get",
		method:    http.MethodGet,
		path:      customersPath + "/" + url.PathEscape(customerID),
	}, &customer)
	if err != nil {
		return nil, err
	}
	return &customer, nil
}

// GetCustomerPaymentMethods lists stored payment methods, keeping the raw answer
func (a *customerAdapter) GetCustomerPaymentMethods(ctx context.Context, branchID, customerID string) (*ports.PaymentMethodList, error) {
	var list ports.PaymentMethodList
	res, err := a.client.do(ctx, branchID, call{
		operation: "paymentmethods.list",
		method:    http.MethodGet,
		path:      fmt.Sprintf(paymentMethodsPath, url.PathEscape(customerID)),
	}, &list)
	if err != nil {
		return nil, err
	}

	list.StatusCode = res.status
	if json.Valid(res.body) {
		list.Raw = json.RawMessage(res.body)
	}
	return &list, nil
}

// LinkPaymentMethod attaches a payment method token to the customer
func (a *customerAdapter) LinkPaymentMethod(ctx context.Context, branchID, customerID, token string, primary bool) (*ports.PaymentMethodRecord, error) {
	var record ports.PaymentMethodRecord
	_, err := a.client.do(ctx, branchID, call{
		operation: "paymentmethods.link",
		method:    http.MethodPost,
		path:      fmt.Sprintf(paymentMethodsPath, url.PathEscape(customerID)),
		body: linkPaymentMethodRequest{
			PaymentMethodToken: token,
			Primary:            primary,
		},
		record: true,
	}, &record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// ReplacePaymentMethod swaps an existing token for a new one
func (a *customerAdapter) ReplacePaymentMethod(ctx context.Context, branchID, customerID, oldToken, newToken string) (*ports.PaymentMethodRecord, error) {
	var record ports.PaymentMethodRecord
	_, err := a.client.do(ctx, branchID, call{
		operation: "paymentmethods.replace",
		method:    http.MethodPut,
		path:      fmt.Sprintf(paymentMethodsPath, url.PathEscape(customerID)) + "/" + url.PathEscape(oldToken) + "/replace",
		body:      replacePaymentMethodRequest{NewPaymentMethodToken: newToken},
		record:    true,
	}, &record)
	if err != nil {
		return nil, err
	}
	return &record, nil
}

// DeletePaymentMethod removes a token from the customer
func (a *customerAdapter) DeletePaymentMethod(ctx context.Context, branchID, customerID, token string) error {
	_, err := a.client.do(ctx, branchID, call{
		operation: "paymentmethods.delete",
		method:    http.MethodDelete,
		path:      fmt.Sprintf(paymentMethodsPath, url.PathEscape(customerID)) + "/" + url.PathEscape(token),
		record:    true,
	}, nil)
	return err
}
