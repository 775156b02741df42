package settlement

import (
	"context"
	"fmt"
	"strings"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"github.com/kevin07696/gym-admin/pkg/observability"
)

// Service lists settlements and produces their downloadable documents
type Service struct {
	gateway ports.SettlementGateway
	logger  ports.Logger
}

// NewService creates a new settlement service
func NewService(gateway ports.SettlementGateway, logger ports.Logger) *Service {
	return &Service{gateway: gateway, logger: logger}
}

// ListSettlements returns the branch's settlements, leaving out zero-amount payouts
func (s *Service) ListSettlements(ctx context.Context, branchID string) ([]domain.Settlement, error) {
	list, err := s.gateway.ListSettlements(ctx, branchID)
	if err != nil {
		return nil, fmt.Errorf("list settlements: %w", err)
	}

	out := make([]domain.Settlement, 0, len(list.Data))
	for _, raw := range list.Data {
		amount := domain.FormatAmount(raw.Amount.Value)
		if domain.IsZeroAmount(amount) {
			continue
		}
		out = append(out, domain.Settlement{
			ID:        raw.ID,
			Date:      domain.FormatDate(raw.SettlementDate),
			Amount:    amount,
			Status:    strings.ToLower(raw.Status),
			Reference: raw.Reference,
		})
	}
	return out, nil
}

// DownloadDocument generates a settlement document and resolves its download URL.
// The file lookup only runs once generation has succeeded.
func (s *Service) DownloadDocument(ctx context.Context, branchID, settlementID string, docType domain.DocumentType) (*domain.SettlementDocument, error) {
	if strings.TrimSpace(settlementID) == "" {
		return nil, pkgerrors.NewValidationErrorWithCode("settlementId", string(domain.ErrorCodeValidationMissingField), "settlement id is required")
	}
	if !docType.IsValid() {
		return nil, pkgerrors.NewValidationError("documentType", fmt.Sprintf("unsupported document type %q", docType))
	}

	fileID, err := s.gateway.GenerateDocument(ctx, branchID, settlementID, docType)
	if err != nil {
		observability.RecordSettlementDocument(string(docType), "failed")
		s.logger.Error("Settlement document generation failed",
			ports.String("settlement_id", settlementID),
			ports.String("document_type", string(docType)),
			ports.Err(err),
		)
		return nil, fmt.Errorf("generate %s for settlement %s: %w", docType, settlementID, err)
	}

	file, err := s.gateway.GetFile(ctx, branchID, fileID)
	if err != nil {
		observability.RecordSettlementDocument(string(docType), "failed")
		return nil, fmt.Errorf("fetch file %s: %w", fileID, err)
	}
	if strings.TrimSpace(file.URL) == "" {
		observability.RecordSettlementDocument(string(docType), "failed")
		return nil, fmt.Errorf("file %s has no download url", fileID)
	}

	observability.RecordSettlementDocument(string(docType), "success")
	return &domain.SettlementDocument{
		SettlementID: settlementID,
		DocumentType: docType,
		FileID:       fileID,
		FileName:     file.Name,
		URL:          file.URL,
	}, nil
}
