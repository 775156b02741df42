package domain

// Settlement is a payout from the provider to the gym's bank account
type Settlement struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Amount    string `json:"amount"`
	Status    string `json:"status"`
	Reference string `json:"reference,omitempty"`
}

// DocumentType selects which settlement document the provider generates
type DocumentType string

const (
	DocumentTypeTaxInvoice    DocumentType = "tax_invoice"
	DocumentTypeDetailReport  DocumentType = "detail_report"
	DocumentTypeSummaryReport DocumentType = "summary_report"
)

// IsValid checks the document type against the closed set
func (t DocumentType) IsValid() bool {
	switch t {
	case DocumentTypeTaxInvoice, DocumentTypeDetailReport, DocumentTypeSummaryReport:
		return true
	}
	return false
}

// SettlementDocument is the downloadable file produced for a settlement
type SettlementDocument struct {
	SettlementID string       `json:"settlementId"`
	DocumentType DocumentType `json:"documentType"`
	FileID       string       `json:"fileId"`
	FileName     string       `json:"fileName,omitempty"`
	URL          string       `json:"url"`
}
