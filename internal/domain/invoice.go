package domain

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the lifecycle state of an invoice as shown to staff
type InvoiceStatus string

const (
	InvoiceStatusPending    InvoiceStatus = "pending"
	InvoiceStatusPaid       InvoiceStatus = "paid"
	InvoiceStatusFailed     InvoiceStatus = "failed"
	InvoiceStatusPastDue    InvoiceStatus = "past_due"
	InvoiceStatusUnpaid     InvoiceStatus = "unpaid"
	InvoiceStatusRefunded   InvoiceStatus = "refunded"
	InvoiceStatusChargeback InvoiceStatus = "chargeback"
	InvoiceStatusWrittenOff InvoiceStatus = "written_off"
)

// ParseInvoiceStatus lowercases the provider status ("PAID", "Past_Due", ...)
func ParseInvoiceStatus(s string) InvoiceStatus {
	return InvoiceStatus(strings.ToLower(strings.TrimSpace(s)))
}

// IsOutstanding reports whether money is still owed on the invoice
func (s InvoiceStatus) IsOutstanding() bool {
	return s == InvoiceStatusFailed || s == InvoiceStatusPastDue || s == InvoiceStatusUnpaid
}

// InvoiceAction is a staff-triggered transition
type InvoiceAction string

const (
	InvoiceActionRetry          InvoiceAction = "retry"
	InvoiceActionRefund         InvoiceAction = "refund"
	InvoiceActionWriteOff       InvoiceAction = "write_off"
	InvoiceActionRecordExternal InvoiceAction = "record_external_payment"
)

// CanApply reports whether the action is allowed from the given status.
// retry, write-off and record-external need an outstanding invoice; refund needs a paid one.
func (a InvoiceAction) CanApply(from InvoiceStatus) bool {
	switch a {
	case InvoiceActionRetry, InvoiceActionWriteOff, InvoiceActionRecordExternal:
		return from.IsOutstanding()
	case InvoiceActionRefund:
		return from == InvoiceStatusPaid
	default:
		return false
	}
}

// ExternalPaymentMethod is how an invoice was paid outside the provider
type ExternalPaymentMethod string

const (
	ExternalPaymentCash         ExternalPaymentMethod = "cash"
	ExternalPaymentCheque       ExternalPaymentMethod = "cheque"
	ExternalPaymentCard         ExternalPaymentMethod = "card"
	ExternalPaymentBankTransfer ExternalPaymentMethod = "bank_transfer"
	ExternalPaymentOthers       ExternalPaymentMethod = "others"
)

// IsValid checks the method against the closed set the provider accepts
func (m ExternalPaymentMethod) IsValid() bool {
	switch m {
	case ExternalPaymentCash, ExternalPaymentCheque, ExternalPaymentCard,
		ExternalPaymentBankTransfer, ExternalPaymentOthers:
		return true
	}
	return false
}

// LineItem is a merged invoice line (one per distinct description)
type LineItem struct {
	Description string `json:"description"`
	Amount      string `json:"amount"`
}

// PaymentAttempt is one transaction made against an invoice
type PaymentAttempt struct {
	ID     string `json:"id"`
	Date   string `json:"date"`
	Amount string `json:"amount"`
	Status string `json:"status"`
	Method string `json:"method"`
}

// Invoice is the flat UI record rebuilt from the provider on every read
type Invoice struct {
	ID                      string           `json:"id"`
	Number                  string           `json:"number"`
	Member                  string           `json:"member"`
	Amount                  string           `json:"amount"` // always "$"-prefixed
	Date                    string           `json:"date"`
	DueDate                 string           `json:"dueDate"`
	PaymentMethod           string           `json:"paymentMethod,omitempty"`
	Items                   []LineItem       `json:"items"`
	Status                  InvoiceStatus    `json:"status"` // always lowercase
	PaymentAttempts         []PaymentAttempt `json:"paymentAttempts"`
	CustomerID              string           `json:"customerId"`
	FailedPaymentReason     json.RawMessage  `json:"failedPaymentReason,omitempty"`
	PaymentProviderResponse json.RawMessage  `json:"paymentProviderResponse,omitempty"`
}

// InvoiceRef is the caller's current view of an invoice, used for local pre-checks
// so that rejected actions never reach the provider.
type InvoiceRef struct {
	ID     string          `json:"id"`
	Status InvoiceStatus   `json:"status"`
	Amount decimal.Decimal `json:"amount"`
}

// NewInvoiceLine is a line on a newly created invoice
type NewInvoiceLine struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
}

// Total sums the line amounts
func Total(lines []NewInvoiceLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Amount)
	}
	return total
}
