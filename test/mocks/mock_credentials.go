package mocks

import (
	"context"
	"sync"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	pkgerrors "github.com/kevin07696/gym-admin/pkg/errors"
)

// MockCredentialResolver resolves branches from a fixed map
type MockCredentialResolver struct {
	DefaultBranch string
	Branches      map[string]domain.Credentials
}

// NewMockCredentialResolver creates a resolver with a "main" branch and a "branch2" branch
func NewMockCredentialResolver() *MockCredentialResolver {
	return &MockCredentialResolver{
		DefaultBranch: "main",
		Branches: map[string]domain.Credentials{
			"main":    TestCredentials("main"),
			"branch2": TestCredentials("branch2"),
		},
	}
}

// TestCredentials returns a complete credential set tagged with the branch id
func TestCredentials(branchID string) domain.Credentials {
	return domain.Credentials{
		ClientID:     branchID + "-client",
		ClientSecret: branchID + "-secret",
		Username:     branchID + "-user",
		Password:     branchID + "-pass",
		MerchantID:   branchID + "-merchant",
	}
}

// Resolve implements CredentialResolver
func (m *MockCredentialResolver) Resolve(branchID string) (domain.BranchCredentials, error) {
	if branchID == "" {
		branchID = m.DefaultBranch
	}
	creds, ok := m.Branches[branchID]
	if !ok {
		return domain.BranchCredentials{}, pkgerrors.NewValidationErrorWithCode("branch",
			string(domain.ErrorCodeBranchUnknown), "unknown branch: "+branchID)
	}
	return domain.BranchCredentials{
		Branch:      domain.Branch{ID: branchID, Name: branchID},
		Credentials: creds,
	}, nil
}

// MockTokenProvider returns a canned token or error
type MockTokenProvider struct {
	mu       sync.Mutex
	Token    *ports.Token
	Err      error
	Calls    int
	Branches []string
}

// NewMockTokenProvider creates a token provider returning "test-token"
func NewMockTokenProvider() *MockTokenProvider {
	return &MockTokenProvider{
		Token: &ports.Token{AccessToken: "test-token", TokenType: "Bearer", ExpiresIn: 3600},
	}
}

// GetToken implements TokenProvider
func (m *MockTokenProvider) GetToken(ctx context.Context, branchID string) (*ports.Token, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls++
	m.Branches = append(m.Branches, branchID)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Token, nil
}

// MockCallLogger captures API call log entries
type MockCallLogger struct {
	mu      sync.Mutex
	Entries []CallLogEntry
}

// CallLogEntry is one captured API call
type CallLogEntry struct {
	Method      string
	URL         string
	Response    string
	Status      int
	RequestBody string
}

// Log implements CallLogger
func (m *MockCallLogger) Log(method, url string, response []byte, status int, requestBody []byte) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Entries = append(m.Entries, CallLogEntry{
		Method:      method,
		URL:         url,
		Response:    string(response),
		Status:      status,
		RequestBody: string(requestBody),
	})
}
