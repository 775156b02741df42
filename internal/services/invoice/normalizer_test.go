package invoice

import (
	"encoding/json"
	"testing"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(v string) ports.Money {
	return ports.Money{Value: decimal.RequireFromString(v)}
}

func TestNormalizeInvoice_PaidWithMergedItems(t *testing.T) {
	raw := ports.Invoice{
		ID:             "inv_1",
		DocumentNumber: "INV-0001",
		CustomerID:     "cus_1",
		CustomerName:   "Jane Doe",
		Date:           "2024-05-01T10:00:00+10:00",
		DueDate:        "2024-05-08",
		Status:         "PAID",
		Amount:         money("99"),
		Items: []ports.InvoiceItem{
			{Description: "Membership Fee", Amount: money("50")},
			{Description: "Membership Fee", Amount: money("49")},
		},
		PaymentMethodData: &ports.PaymentMethodData{
			Type: "CARD",
			Card: &domain.CardDetails{Brand: "VISA", Last4: "4242"},
		},
	}

	inv := NormalizeInvoice(raw, nil)

	assert.Equal(t, "inv_1", inv.ID)
	assert.Equal(t, "INV-0001", inv.Number)
	assert.Equal(t, "Jane Doe", inv.Member)
	assert.Equal(t, "$99.00", inv.Amount)
	assert.Equal(t, "2024-05-01", inv.Date)
	assert.Equal(t, "2024-05-08", inv.DueDate)
	assert.Equal(t, domain.InvoiceStatusPaid, inv.Status)
	require.Len(t, inv.Items, 1)
	assert.Equal(t, domain.LineItem{Description: "Membership Fee", Amount: "$99.00"}, inv.Items[0])
	assert.Contains(t, inv.PaymentMethod, "4242")
	assert.NotNil(t, inv.PaymentAttempts)
	assert.Empty(t, inv.PaymentAttempts)
}

func TestNormalizeInvoice_MemberName(t *testing.T) {
	override := "Override Name"
	blank := "  "

	tests := []struct {
		name     string
		provider string
		override *string
		want     string
	}{
		{"provider name", "Jane", nil, "Jane"},
		{"caller override wins", "Jane", &override, "Override Name"},
		{"blank override ignored", "Jane", &blank, "Jane"},
		{"nothing known", "", nil, UnknownMember},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NormalizeInvoice(ports.Invoice{CustomerName: tt.provider}, tt.override)
			assert.Equal(t, tt.want, inv.Member)
		})
	}
}

func TestNormalizeInvoice_PayToLabel(t *testing.T) {
	tests := []struct {
		name  string
		payTo *domain.PayToDetails
		want  string
	}{
		{"alias only", &domain.PayToDetails{AliasID: "jane@example.com"}, "jane@example.com"},
		{"account only", &domain.PayToDetails{AccountNumber: "12345678"}, "12345678"},
		{"alias preferred", &domain.PayToDetails{AliasID: "jane@example.com", AccountNumber: "12345678"}, "jane@example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inv := NormalizeInvoice(ports.Invoice{
				PaymentMethodData: &ports.PaymentMethodData{Type: "PAYTO", PayTo: tt.payTo},
			}, nil)

			assert.Equal(t, tt.want, inv.PaymentMethod)
			if tt.payTo.AliasID != "" && tt.payTo.AccountNumber != "" {
				assert.NotContains(t, inv.PaymentMethod, tt.payTo.AccountNumber)
			}
		})
	}
}

func TestNormalizeInvoice_UnknownPaymentMethodHasNoLabel(t *testing.T) {
	inv := NormalizeInvoice(ports.Invoice{
		PaymentMethodData: &ports.PaymentMethodData{Type: "WALLET"},
	}, nil)

	assert.Empty(t, inv.PaymentMethod)
}

func TestNormalizeInvoice_UnparseableDatePassesThrough(t *testing.T) {
	inv := NormalizeInvoice(ports.Invoice{Date: "next tuesday"}, nil)

	assert.Equal(t, "next tuesday", inv.Date)
}

func TestNormalizeInvoice_FailureDetailsKept(t *testing.T) {
	inv := NormalizeInvoice(ports.Invoice{
		Status:                  "FAILED",
		FailedPaymentReason:     json.RawMessage(`{"code":"51","message":"Insufficient funds"}`),
		PaymentProviderResponse: json.RawMessage(`null`),
	}, nil)

	assert.Equal(t, domain.InvoiceStatusFailed, inv.Status)
	assert.JSONEq(t, `{"code":"51","message":"Insufficient funds"}`, string(inv.FailedPaymentReason))
	assert.Nil(t, inv.PaymentProviderResponse)
}

func TestMergeItems_KeepsFirstSeenOrder(t *testing.T) {
	items := MergeItems([]ports.InvoiceItem{
		{Description: "Locker", Amount: money("5.10")},
		{Description: "Membership Fee", Amount: money("50")},
		{Description: "Locker", Amount: money("4.90")},
		{Description: "membership fee", Amount: money("1")},
	})

	require.Len(t, items, 3)
	assert.Equal(t, domain.LineItem{Description: "Locker", Amount: "$10.00"}, items[0])
	assert.Equal(t, domain.LineItem{Description: "Membership Fee", Amount: "$50.00"}, items[1])
	assert.Equal(t, domain.LineItem{Description: "membership fee", Amount: "$1.00"}, items[2])
}

func TestMergeItems_Empty(t *testing.T) {
	items := MergeItems(nil)

	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestNormalize_NilList(t *testing.T) {
	assert.Empty(t, Normalize(nil, nil))
}

func TestNormalizeTransactions(t *testing.T) {
	list := &ports.TransactionList{Data: []ports.Transaction{
		{
			ID:        "tx_1",
			CreatedOn: "2024-05-02T01:00:00Z",
			Amount:    money("99"),
			Status:    "FAILED",
			Type:      "PAYMENT",
			PaymentMethodData: &ports.PaymentMethodData{
				Type: "BANK",
				Bank: &domain.BankDetails{AccountNumber: "00123456"},
			},
		},
		{ID: "tx_2", Amount: money("10"), Status: "SUCCESS", Type: "CASH"},
	}}

	attempts := NormalizeTransactions(list)

	require.Len(t, attempts, 2)
	assert.Equal(t, "2024-05-02", attempts[0].Date)
	assert.Equal(t, "$99.00", attempts[0].Amount)
	assert.Equal(t, "failed", attempts[0].Status)
	assert.Equal(t, "Bank account ending in 3456", attempts[0].Method)
	assert.Equal(t, "cash", attempts[1].Method)
}
