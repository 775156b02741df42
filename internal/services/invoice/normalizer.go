package invoice

import (
	"strings"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/shopspring/decimal"
)

// UnknownMember is shown when neither the caller nor the provider knows the customer's name
const UnknownMember = "Unknown"

// Normalize converts a provider invoice list into UI invoices.
// customerName, when non-nil, overrides the provider's customer name on every invoice.
func Normalize(list *ports.InvoiceList, customerName *string) []domain.Invoice {
	if list == nil {
		return []domain.Invoice{}
	}
	out := make([]domain.Invoice, 0, len(list.Data))
	for _, raw := range list.Data {
		out = append(out, NormalizeInvoice(raw, customerName))
	}
	return out
}

// NormalizeInvoice converts one provider invoice into the flat UI record
func NormalizeInvoice(raw ports.Invoice, customerName *string) domain.Invoice {
	inv := domain.Invoice{
		ID:                      raw.ID,
		Number:                  raw.DocumentNumber,
		Member:                  memberName(raw, customerName),
		Amount:                  domain.FormatAmount(raw.Amount.Value),
		Date:                    domain.FormatDate(raw.Date),
		DueDate:                 domain.FormatDate(raw.DueDate),
		Items:                   MergeItems(raw.Items),
		Status:                  domain.ParseInvoiceStatus(raw.Status),
		PaymentAttempts:         []domain.PaymentAttempt{},
		CustomerID:              raw.CustomerID,
		FailedPaymentReason:     nonEmpty(raw.FailedPaymentReason),
		PaymentProviderResponse: nonEmpty(raw.PaymentProviderResponse),
	}

	if label, ok := raw.PaymentMethodData.Union().Label(); ok {
		inv.PaymentMethod = label
	}

	return inv
}

// MergeItems groups line items by exact description and sums their amounts.
// Output follows the order in which each description first appears.
func MergeItems(items []ports.InvoiceItem) []domain.LineItem {
	totals := make(map[string]decimal.Decimal, len(items))
	order := make([]string, 0, len(items))

	for _, item := range items {
		sum, seen := totals[item.Description]
		if !seen {
			order = append(order, item.Description)
			sum = decimal.Zero
		}
		totals[item.Description] = sum.Add(item.Amount.Value)
	}

	out := make([]domain.LineItem, 0, len(order))
	for _, desc := range order {
		out = append(out, domain.LineItem{
			Description: desc,
			Amount:      domain.FormatAmount(totals[desc]),
		})
	}
	return out
}

// NormalizeTransactions converts provider transactions into payment attempts
func NormalizeTransactions(list *ports.TransactionList) []domain.PaymentAttempt {
	if list == nil {
		return []domain.PaymentAttempt{}
	}
	out := make([]domain.PaymentAttempt, 0, len(list.Data))
	for _, tx := range list.Data {
		attempt := domain.PaymentAttempt{
			ID:     tx.ID,
			Date:   domain.FormatDate(tx.CreatedOn),
			Amount: domain.FormatAmount(tx.Amount.Value),
			Status: strings.ToLower(tx.Status),
		}
		if label, ok := tx.PaymentMethodData.Union().Label(); ok {
			attempt.Method = label
		} else {
			attempt.Method = strings.ToLower(tx.Type)
		}
		out = append(out, attempt)
	}
	return out
}

func memberName(raw ports.Invoice, customerName *string) string {
	if customerName != nil && strings.TrimSpace(*customerName) != "" {
		return *customerName
	}
	if raw.CustomerName != "" {
		return raw.CustomerName
	}
	return UnknownMember
}

func nonEmpty(raw []byte) []byte {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	return raw
}
