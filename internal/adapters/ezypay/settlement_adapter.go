package ezypay

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
)

const (
	settlementsPath = "/v2/billing/settlements"
	filesPath       = "/v2/files"
)

// settlementAdapter implements the SettlementGateway port
type settlementAdapter struct {
	client *Client
}

// NewSettlementAdapter creates a new settlement adapter
func NewSettlementAdapter(client *Client) ports.SettlementGateway {
	return &settlementAdapter{client: client}
}

type generateDocumentRequest struct {
	DocumentType string `json:"documentType"`
}

type generateDocumentResponse struct {
	FileID string `json:"fileId"`
}

// ListSettlements lists settlements paid to the merchant
func (a *settlementAdapter) ListSettlements(ctx context.Context, branchID string) (*ports.SettlementList, error) {
	var list ports.SettlementList
	if _, err := a.client.do(ctx, branchID, call{
		operation: "settlements.list",
		method:    http.MethodGet,
		path:      settlementsPath,
	}, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// GenerateDocument asks the provider to render a settlement document
func (a *settlementAdapter) GenerateDocument(ctx context.Context, branchID, settlementID string, docType domain.DocumentType) (string, error) {
	var resp generateDocumentResponse
	if _, err := a.client.do(ctx, branchID, call{
		operation: "settlements.document",
		method:    http.MethodPost,
		path:      settlementsPath + "/" + url.PathEscape(settlementID) + "/documents",
		body:      generateDocumentRequest{DocumentType: string(docType)},
	}, &resp); err != nil {
		return "", err
	}

	if resp.FileID == "" {
		return "", fmt.Errorf("settlement %s: document generation returned no file id", settlementID)
	}
	return resp.FileID, nil
}

// GetFile fetches file metadata, including the download URL
func (a *settlementAdapter) GetFile(ctx context.Context, branchID, fileID string) (*ports.File, error) {
	var file ports.File
	if _, err := a.client.do(ctx, branchID, call{
		operation: "files.get",
		method:    http.MethodGet,
		path:      filesPath + "/" + url.PathEscape(fileID),
	}, &file); err != nil {
		return nil, err
	}
	return &file, nil
}
