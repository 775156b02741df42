package settings

import (
	"context"
	"net/http"
	"strings"

	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/handlers/respond"
	"github.com/kevin07696/gym-admin/internal/services/ports"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"go.uber.org/zap"
)

// Handler serves branch selection and the API call log debug view
type Handler struct {
	selection      ports.BranchSelection
	logs           ports.APILogReader
	persistLogs    func(ctx context.Context) error
	paymentPageURL string
	logger         *zap.Logger
}

// NewHandler creates a new settings handler.
// persistLogs may be nil when log persistence is disabled.
func NewHandler(
	selection ports.BranchSelection,
	logs ports.APILogReader,
	persistLogs func(ctx context.Context) error,
	paymentPageURL string,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		selection:      selection,
		logs:           logs,
		persistLogs:    persistLogs,
		paymentPageURL: paymentPageURL,
		logger:         logger,
	}
}

// RegisterRoutes mounts the settings routes
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/branches", h.ListBranches)
	mux.HandleFunc("GET /api/settings/branch", h.GetBranch)
	mux.HandleFunc("PUT /api/settings/branch", h.SelectBranch)
	mux.HandleFunc("GET /api/logs", h.ListLogs)
	mux.HandleFunc("DELETE /api/logs", h.ClearLogs)
}

// BranchesResponse lists configured branches with the current selection
type BranchesResponse struct {
	Branches            []domain.Branch `json:"branches"`
	Current             string          `json:"current"`
	PaymentPageEndpoint string          `json:"paymentPageEndpoint,omitempty"`
}

// SelectRequest is the body of PUT /api/settings/branch
type SelectRequest struct {
	Branch string `json:"branch"`
}

// ListBranches handles GET /api/branches
func (h *Handler) ListBranches(w http.ResponseWriter, r *http.Request) {
	current, err := h.selection.Current(r.Context())
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}

	respond.OK(w, http.StatusOK, BranchesResponse{
		Branches:            h.selection.Branches(),
		Current:             current,
		PaymentPageEndpoint: h.paymentPageURL,
	}, h.logger)
}

// GetBranch handles GET /api/settings/branch
func (h *Handler) GetBranch(w http.ResponseWriter, r *http.Request) {
	current, err := h.selection.Current(r.Context())
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, SelectRequest{Branch: current}, h.logger)
}

// SelectBranch handles PUT /api/settings/branch
func (h *Handler) SelectBranch(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := respond.Decode(r, &req); err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	if strings.TrimSpace(req.Branch) == "" {
		respond.Error(w, pkgerrors.NewValidationErrorWithCode("branch",
			string(domain.ErrorCodeBranchNotSpecified), "branch is required"), h.logger)
		return
	}

	b, err := h.selection.Select(r.Context(), req.Branch)
	if err != nil {
		respond.Error(w, err, h.logger)
		return
	}
	respond.OK(w, http.StatusOK, b, h.logger)
}

// ListLogs handles GET /api/logs
func (h *Handler) ListLogs(w http.ResponseWriter, r *http.Request) {
	respond.OK(w, http.StatusOK, h.logs.List(), h.logger)
}

// ClearLogs handles DELETE /api/logs
func (h *Handler) ClearLogs(w http.ResponseWriter, r *http.Request) {
	h.logs.Clear()

	if h.persistLogs != nil {
		if err := h.persistLogs(r.Context()); err != nil {
			h.logger.Warn("Failed to persist cleared API log", zap.Error(err))
		}
	}
	respond.OK(w, http.StatusOK, nil, h.logger)
}
