package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"go.uber.org/zap"
)

// localStore keeps the flat document in a single JSON file on disk
type localStore struct {
	mu     sync.Mutex
	path   string
	logger *zap.Logger
}

// NewLocalStore creates a file-backed store, e.g. at "data/store.json"
func NewLocalStore(path string, logger *zap.Logger) ports.FlatStore {
	return &localStore{
		path:   path,
		logger: logger,
	}
}

// Read loads the whole document; a missing file is an empty store
func (s *localStore) Read(ctx context.Context) (map[string]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read store: %w", err)
	}

	return decode(data)
}

// Write replaces the whole document. The file is written to a temp file and renamed
// so a crash never leaves a truncated store behind.
func (s *localStore) Write(ctx context.Context, values map[string]string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode store: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("failed to create store directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write store: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace store: %w", err)
	}

	s.logger.Debug("Store written", zap.String("path", s.path), zap.Int("keys", len(values)))
	return nil
}

func decode(data []byte) (map[string]string, error) {
	values := map[string]string{}
	if len(data) == 0 {
		return values, nil
	}
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to parse store: %w", err)
	}
	return values, nil
}
