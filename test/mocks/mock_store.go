package mocks

import (
	"context"
	"sync"
)

// MockFlatStore is an in-memory FlatStore
type MockFlatStore struct {
	mu       sync.Mutex
	Data     map[string]string
	ReadErr  error
	WriteErr error
	Writes   int
}

// NewMockFlatStore creates an empty in-memory store
func NewMockFlatStore() *MockFlatStore {
	return &MockFlatStore{Data: map[string]string{}}
}

// Read returns a copy of the stored document
func (m *MockFlatStore) Read(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	out := make(map[string]string, len(m.Data))
	for k, v := range m.Data {
		out[k] = v
	}
	return out, nil
}

// Write replaces the stored document
func (m *MockFlatStore) Write(ctx context.Context, data map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.WriteErr != nil {
		return m.WriteErr
	}
	m.Writes++
	m.Data = make(map[string]string, len(data))
	for k, v := range data {
		m.Data[k] = v
	}
	return nil
}
