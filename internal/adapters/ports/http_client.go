package ports

import "net/http"

// HTTPClient is a minimal HTTP client interface for making requests
// This allows for easy mocking and testing of adapters
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HTTPClientFunc adapts a plain function to HTTPClient
type HTTPClientFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req)
func (f HTTPClientFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}
