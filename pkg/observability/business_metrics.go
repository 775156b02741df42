package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Invoice lifecycle metrics
	invoiceActionsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_actions_total",
		Help: "Total invoice lifecycle actions triggered by staff",
	}, []string{
		"action", // retry, refund, write_off, record_external_payment, create, checkout, terminal
		"branch",
		"result", // success, rejected, failed
	})

	refundAmountCents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refund_amount_cents_total",
		Help: "Total refunded amount in cents",
	}, []string{
		"branch",
	})

	// Member transfer metrics
	memberTransfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "member_transfers_total",
		Help: "Total member transfers between branches",
	}, []string{
		"from_branch",
		"to_branch",
		"result", // complete, partial, failed
	})

	transferPaymentMethods = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transfer_payment_methods_total",
		Help: "Payment methods relinked during member transfers",
	}, []string{
		"result", // linked, failed
	})

	// Settlement document metrics
	settlementDocumentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "settlement_documents_total",
		Help: "Settlement document downloads",
	}, []string{
		"document_type",
		"result",
	})

	apiLogEntries = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "api_log_entries",
		Help: "Entries currently held in the API call log",
	})
)

// RecordInvoiceAction records an invoice lifecycle action outcome
func RecordInvoiceAction(action, branch, result string) {
	invoiceActionsTotal.WithLabelValues(action, branch, result).Inc()
}

// RecordRefund records the refunded amount
func RecordRefund(branch string, amountCents int64) {
	refundAmountCents.WithLabelValues(branch).Add(float64(amountCents))
}

// RecordMemberTransfer records a transfer and the per-token relink outcome
func RecordMemberTransfer(fromBranch, toBranch, result string, linked, failed int) {
	memberTransfersTotal.WithLabelValues(fromBranch, toBranch, result).Inc()
	transferPaymentMethods.WithLabelValues("linked").Add(float64(linked))
	transferPaymentMethods.WithLabelValues("failed").Add(float64(failed))
}

// RecordSettlementDocument records a document download attempt
func RecordSettlementDocument(documentType, result string) {
	settlementDocumentsTotal.WithLabelValues(documentType, result).Inc()
}

// SetAPILogEntries updates the API log size gauge
func SetAPILogEntries(n int) {
	apiLogEntries.Set(float64(n))
}
