package settlement

import (
	"net/http"
	"strings"

	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/handlers/respond"
	"github.com/kevin07696/gym-admin/internal/services/ports"
	"go.uber.org/zap"
)

// Handler serves settlement routes
type Handler struct {
	service  ports.SettlementService
	branches respond.CurrentBranch
	logger   *zap.Logger
}

// NewHandler creates a new settlement handler
func NewHandler(service ports.SettlementService, branches respond.CurrentBranch, logger *zap.Logger) *Handler {
	return &Handler{
		service:  service,
		branches: branches,
		logger:   logger,
	}
}

// RegisterRoutes mounts the settlement routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/settlements", h.ListSettlements)
	mux.HandleFunc("POST /api/settlements/{id}/documents", h.DownloadDocument)
}

// DocumentRequest is the body of POST /api/settlements/{id}/documents
type DocumentRequest struct {
	DocumentType string `json:"documentType"`
}

// ListSettlements handles GET /api/settlements
func (h *Handler) ListSettlements(w http.ResponseWriter, r *http.Request) {
	branchID, err := respond.ResolveBranch(r, h.branches)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	settlements, err := h.service.ListSettlements(r.Context(), branchID)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, settlements, h.logger)
}

// DownloadDocument handles POST /api/settlements/{id}/documents
func (h *Handler) DownloadDocument(w http.ResponseWriter, r *http.Request) {
	branchID, err := respond.ResolveBranch(r, h.branches)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	var req DocumentRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	docType := domain.DocumentType(strings.ToLower(strings.TrimSpace(req.DocumentType)))
	doc, err := h.service.DownloadDocument(r.Context(), branchID, r.PathValue("id"), docType)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, doc, h.logger)
}
