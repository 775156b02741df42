package mocks

import (
	"bytes"
	"io"
	"net/http"
	"sync"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
)

// MockHTTPClient stands in for the provider transport. Each request is recorded
// with its body before DoFunc answers it.
type MockHTTPClient struct {
	DoFunc func(req *http.Request) (*http.Response, error)

	mu     sync.Mutex
	paths  []string
	bodies []string
}

var _ ports.HTTPClient = (*MockHTTPClient)(nil)

func NewMockHTTPClient(doFunc func(req *http.Request) (*http.Response, error)) *MockHTTPClient {
	return &MockHTTPClient{DoFunc: doFunc}
}

func (m *MockHTTPClient) Do(req *http.Request) (*http.Response, error) {
	var body []byte
	if req.Body != nil {
		body, _ = io.ReadAll(req.Body)
		_ = req.Body.Close()
		req.Body = io.NopCloser(bytes.NewReader(body))
	}

	m.mu.Lock()
	m.paths = append(m.paths, req.Method+" "+req.URL.Path)
	m.bodies = append(m.bodies, string(body))
	m.mu.Unlock()

	if m.DoFunc == nil {
		return JSONResponse(http.StatusOK, `{}`), nil
	}
	return m.DoFunc(req)
}

// Requests returns "METHOD /path" for every call so far
func (m *MockHTTPClient) Requests() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.paths...)
}

// JSONResponse builds a canned provider response
func JSONResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
		Body:       io.NopCloser(bytes.NewBufferString(body)),
	}
}
