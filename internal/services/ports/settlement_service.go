package ports

import (
	"context"

	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/services/settlement"
)

// SettlementService defines the business logic interface for settlements
type SettlementService interface {
	ListSettlements(ctx context.Context, branchID string) ([]domain.Settlement, error)
	DownloadDocument(ctx context.Context, branchID, settlementID string, docType domain.DocumentType) (*domain.SettlementDocument, error)
}

var _ SettlementService = (*settlement.Service)(nil)
