package domain

import (
	"fmt"
	"strings"
)

// PaymentMethodKind is the discriminator of the provider's payment-method-data object
type PaymentMethodKind string

const (
	PaymentMethodKindCard  PaymentMethodKind = "card"
	PaymentMethodKindBank  PaymentMethodKind = "bank"
	PaymentMethodKindPayTo PaymentMethodKind = "payto"
)

// ParsePaymentMethodKind normalizes the upstream discriminator ("CARD", "Bank", "PAYTO", ...)
func ParsePaymentMethodKind(s string) PaymentMethodKind {
	return PaymentMethodKind(strings.ToLower(strings.TrimSpace(s)))
}

// CardDetails is the card arm of PaymentMethodData
type CardDetails struct {
	Brand       string `json:"type,omitempty"` // VISA, MASTERCARD, AMEX...
	Last4       string `json:"last4,omitempty"`
	ExpiryMonth string `json:"expiryMonth,omitempty"`
	ExpiryYear  string `json:"expiryYear,omitempty"`
}

// BankDetails is the bank (direct debit) arm of PaymentMethodData
type BankDetails struct {
	Last4         string `json:"last4,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
	BSB           string `json:"bsb,omitempty"`
	AccountName   string `json:"accountName,omitempty"`
}

// PayToDetails is the PayTo agreement arm of PaymentMethodData
type PayToDetails struct {
	AliasID       string `json:"aliasId,omitempty"`
	AccountNumber string `json:"accountNumber,omitempty"`
}

// PaymentMethodData is a tagged union over card, bank and payto.
// Exactly one of Card, Bank, PayTo is expected to be set, selected by Kind.
type PaymentMethodData struct {
	Kind  PaymentMethodKind
	Card  *CardDetails
	Bank  *BankDetails
	PayTo *PayToDetails
}

// Label renders the human-readable payment method shown on invoices.
// The second return value is false for unknown kinds or a kind whose arm is missing;
// callers show no label in that case instead of guessing.
func (d PaymentMethodData) Label() (string, bool) {
	switch d.Kind {
	case PaymentMethodKindCard:
		if d.Card == nil {
			return "", false
		}
		brand := strings.TrimSpace(d.Card.Brand)
		if brand == "" {
			brand = "Card"
		}
		return fmt.Sprintf("%s ending in %s", brand, d.Card.Last4), true
	case PaymentMethodKindBank:
		if d.Bank == nil {
			return "", false
		}
		last4 := d.Bank.Last4
		if last4 == "" {
			last4 = lastDigits(d.Bank.AccountNumber, 4)
		}
		return "Bank account ending in " + last4, true
	case PaymentMethodKindPayTo:
		if d.PayTo == nil {
			return "", false
		}
		// Alias wins over the account number; the label never carries both.
		if d.PayTo.AliasID != "" {
			return d.PayTo.AliasID, true
		}
		if d.PayTo.AccountNumber != "" {
			return d.PayTo.AccountNumber, true
		}
		return "", false
	default:
		return "", false
	}
}

// PaymentMethod is the UI-facing view of a stored payment method token
type PaymentMethod struct {
	ID        string `json:"id"` // provider payment method token
	Type      string `json:"type"`
	Last4     string `json:"last4,omitempty"`
	Expiry    string `json:"expiry,omitempty"` // MM/YY
	Account   string `json:"account,omitempty"`
	IsDefault bool   `json:"isDefault"`
	Valid     bool   `json:"valid"`
}

// NewPaymentMethod builds the normalized view from the union.
// Unknown kinds keep their raw type and carry no display details.
func NewPaymentMethod(token string, data PaymentMethodData, isDefault, valid bool) PaymentMethod {
	pm := PaymentMethod{
		ID:        token,
		Type:      string(data.Kind),
		IsDefault: isDefault,
		Valid:     valid,
	}

	switch data.Kind {
	case PaymentMethodKindCard:
		if data.Card != nil {
			pm.Last4 = data.Card.Last4
			pm.Expiry = formatExpiry(data.Card.ExpiryMonth, data.Card.ExpiryYear)
			pm.Account = data.Card.Brand
		}
	case PaymentMethodKindBank:
		if data.Bank != nil {
			pm.Last4 = data.Bank.Last4
			if pm.Last4 == "" {
				pm.Last4 = lastDigits(data.Bank.AccountNumber, 4)
			}
			pm.Account = data.Bank.AccountName
		}
	case PaymentMethodKindPayTo:
		if data.PayTo != nil {
			if data.PayTo.AliasID != "" {
				pm.Account = data.PayTo.AliasID
			} else {
				pm.Account = data.PayTo.AccountNumber
			}
		}
	}

	return pm
}

func formatExpiry(month, year string) string {
	if month == "" || year == "" {
		return ""
	}
	if len(month) == 1 {
		month = "0" + month
	}
	if len(year) == 4 {
		year = year[2:]
	}
	return month + "/" + year
}

func lastDigits(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
