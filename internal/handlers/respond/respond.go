// Package respond renders the uniform result envelope shared by every server-function route.
package respond

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/kevin07696/gym-admin/internal/domain"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"go.uber.org/zap"
)

// BranchHeader carries the branch id when the query parameter is absent
const BranchHeader = "X-Branch"

// maxBodyBytes caps request bodies read by Decode
const maxBodyBytes = 1 << 20

// Envelope is the result shape every server-function route answers with
type Envelope struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorBody  `json:"error,omitempty"`
}

// ErrorBody is the machine- and toast-readable failure description
type ErrorBody struct {
	Type    string `json:"type"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// JSON writes v with the given status
func JSON(w http.ResponseWriter, status int, v interface{}, logger *zap.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Failed to encode response", zap.Error(err))
	}
}

// Raw writes an upstream body unchanged with the upstream status
func Raw(w http.ResponseWriter, status int, body []byte, logger *zap.Logger) {
	if status == 0 {
		status = http.StatusOK
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if len(body) == 0 {
		body = []byte("null")
	}
	if _, err := w.Write(body); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}

// OK writes a successful envelope
func OK(w http.ResponseWriter, status int, data interface{}, logger *zap.Logger) {
	JSON(w, status, Envelope{Success: true, Data: data}, logger)
}

// Error maps err onto an HTTP status and writes a failed envelope
func Error(w http.ResponseWriter, err error, logger *zap.Logger) {
	status, body := Classify(err)
	if status >= http.StatusInternalServerError {
		logger.Error("Request failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Warn("Request rejected", zap.Int("status", status), zap.Error(err))
	}
	JSON(w, status, Envelope{Success: false, Error: &body}, logger)
}

// Classify returns the HTTP status and error body for err
func Classify(err error) (int, ErrorBody) {
	if vErr, ok := pkgerrors.AsValidationError(err); ok {
		return http.StatusBadRequest, ErrorBody{
			Type:    string(pkgerrors.TypeValidation),
			Code:    vErr.Code,
			Message: vErr.Message,
			Field:   vErr.Field,
		}
	}

	if authErr, ok := pkgerrors.AsAuthError(err); ok {
		return http.StatusBadGateway, ErrorBody{
			Type:    string(pkgerrors.TypeAuth),
			Code:    "AUTH_FAILED",
			Message: authMessage(authErr),
		}
	}

	if upErr, ok := pkgerrors.AsUpstreamError(err); ok {
		status := upErr.StatusCode
		if status < 400 || status >= 500 {
			status = http.StatusBadGateway
		}
		return status, ErrorBody{
			Type:    string(pkgerrors.TypeUpstream),
			Code:    upErr.Code,
			Message: upErr.Message,
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return http.StatusGatewayTimeout, ErrorBody{
			Type:    string(pkgerrors.TypeNetwork),
			Code:    "TIMEOUT",
			Message: "request timed out",
		}
	}

	if _, ok := pkgerrors.AsNetworkError(err); ok {
		return http.StatusBadGateway, ErrorBody{
			Type:    string(pkgerrors.TypeNetwork),
			Code:    "PROVIDER_UNREACHABLE",
			Message: "payment provider could not be reached",
		}
	}

	var domainErr *domain.DomainError
	if errors.As(err, &domainErr) {
		status := http.StatusInternalServerError
		switch {
		case domain.IsStoreError(domainErr):
			status = http.StatusServiceUnavailable
		case domain.IsBranchError(domainErr):
			status = http.StatusBadRequest
		}
		return status, ErrorBody{
			Type:    "domain_error",
			Code:    string(domainErr.Code),
			Message: domainErr.Message,
		}
	}

	return http.StatusInternalServerError, ErrorBody{
		Type:    "internal_error",
		Code:    string(domain.ErrorCodeInternalError),
		Message: "internal server error",
	}
}

func authMessage(e *pkgerrors.AuthError) string {
	var body struct {
		Error            string `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	if json.Unmarshal([]byte(e.Body), &body) == nil {
		if body.ErrorDescription != "" {
			return body.ErrorDescription
		}
		if body.Error != "" {
			return body.Error
		}
	}
	return "payment provider rejected the credentials"
}

// Decode reads a JSON request body into v. An empty body leaves v untouched.
func Decode(r *http.Request, v interface{}) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return pkgerrors.NewValidationError("body", "request body is not valid JSON")
	}
	return nil
}

// Branch returns the branch named by ?branch= or the X-Branch header, or "" when neither is set
func Branch(r *http.Request) string {
	if b := strings.TrimSpace(r.URL.Query().Get("branch")); b != "" {
		return b
	}
	return strings.TrimSpace(r.Header.Get(BranchHeader))
}

// CurrentBranch supplies the persisted branch when a request names none
type CurrentBranch interface {
	Current(ctx context.Context) (string, error)
}

// ResolveBranch returns the request's explicit branch, falling back to the persisted selection
func ResolveBranch(r *http.Request, current CurrentBranch) (string, error) {
	if b := Branch(r); b != "" {
		return b, nil
	}
	if current == nil {
		return "", nil
	}
	return current.Current(r.Context())
}
