package ezypay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
	"github.com/kevin07696/gym-admin/pkg/observability"
)

// Client carries what every Ezypay call needs: branch credentials, a fresh token,
// the merchant header and uniform error mapping. The gateway adapters share one Client.
type Client struct {
	config     *Config
	httpClient ports.HTTPClient
	tokens     ports.TokenProvider
	resolver   ports.CredentialResolver
	callLog    ports.CallLogger
	logger     ports.Logger
}

// NewClient creates a new Ezypay API client. callLog may be nil.
func NewClient(
	config *Config,
	httpClient ports.HTTPClient,
	tokens ports.TokenProvider,
	resolver ports.CredentialResolver,
	callLog ports.CallLogger,
	logger ports.Logger,
) *Client {
	return &Client{
		config:     config,
		httpClient: httpClient,
		tokens:     tokens,
		resolver:   resolver,
		callLog:    callLog,
		logger:     logger,
	}
}

// call describes one upstream request
type call struct {
	operation string // metric/log label, e.g. "customers.create"
	method    string
	path      string
	query     url.Values
	body      interface{}
	record    bool // write the call to the API call log
}

// result is the raw upstream answer, kept for pass-through routes
type result struct {
	status int
	body   []byte
}

// do performs the call for the branch and decodes a 2xx body into out (when non-nil)
func (c *Client) do(ctx context.Context, branchID string, req call, out interface{}) (*result, error) {
	bc, err := c.resolver.Resolve(branchID)
	if err != nil {
		return nil, err
	}

	token, err := c.tokens.GetToken(ctx, bc.Branch.ID)
	if err != nil {
		return nil, err
	}

	var payload []byte
	if req.body != nil {
		payload, err = json.Marshal(req.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	reqURL := c.config.url(req.path)
	if len(req.query) > 0 {
		reqURL += "?" + req.query.Encode()
	}

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.method, reqURL, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}

	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+token.AccessToken)
	httpReq.Header.Set("merchant", bc.Credentials.MerchantID)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	c.logger.Debug("Calling Ezypay API",
		ports.String("operation", req.operation),
		ports.String("method", req.method),
		ports.String("url", reqURL),
		ports.BranchID(bc.Branch.ID),
	)

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		observability.RecordProviderCall(req.operation, bc.Branch.ID, 0, time.Since(startTime))
		c.record(req, reqURL, payload, 0, []byte(err.Error()))
		c.logger.Error("Ezypay request failed",
			ports.String("operation", req.operation),
			ports.Err(err),
		)
		return nil, &pkgerrors.NetworkError{Operation: req.operation, Err: err}
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	duration := time.Since(startTime)
	observability.RecordProviderCall(req.operation, bc.Branch.ID, httpResp.StatusCode, duration)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	c.record(req, reqURL, payload, httpResp.StatusCode, body)

	if httpResp.StatusCode < 200 || httpResp.StatusCode >= 300 {
		upstreamErr := parseUpstreamError(httpResp.StatusCode, body)
		c.logger.Warn("Ezypay returned error status",
			ports.String("operation", req.operation),
			ports.Int("status", httpResp.StatusCode),
			ports.String("code", upstreamErr.Code),
			ports.Duration("duration", duration),
		)
		return nil, upstreamErr
	}

	if out != nil && len(bytes.TrimSpace(body)) > 0 {
		if err := json.Unmarshal(body, out); err != nil {
			return nil, fmt.Errorf("failed to parse %s response: %w", req.operation, err)
		}
	}

	return &result{status: httpResp.StatusCode, body: body}, nil
}

func (c *Client) record(req call, reqURL string, payload []byte, status int, body []byte) {
	if !req.record || c.callLog == nil {
		return
	}
	c.callLog.Log(req.method, reqURL, body, status, payload)
}

// errorBody covers both error shapes the provider uses:
// {"type","code","message"} and {"error":{"type","code","message"}}
type errorBody struct {
	Type    string          `json:"type"`
	Code    string          `json:"code"`
	Message string          `json:"message"`
	Error   json.RawMessage `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// parseUpstreamError builds a structured error when the body is JSON, else a generic one
func parseUpstreamError(status int, body []byte) *pkgerrors.UpstreamError {
	upstreamErr := pkgerrors.NewUpstreamError(status, string(body))

	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err != nil {
		return upstreamErr
	}

	detail := errorDetail{Type: parsed.Type, Code: parsed.Code, Message: parsed.Message}
	if len(parsed.Error) > 0 && parsed.Error[0] == '{' {
		var nested errorDetail
		if err := json.Unmarshal(parsed.Error, &nested); err == nil {
			detail = nested
		}
	} else if detail.Message == "" && len(parsed.Error) > 0 {
		var msg string
		if err := json.Unmarshal(parsed.Error, &msg); err == nil {
			detail.Message = msg
		}
	}

	upstreamErr.Type = detail.Type
	upstreamErr.Code = detail.Code
	if detail.Message != "" {
		upstreamErr.Message = detail.Message
	}
	return upstreamErr
}
