package secrets

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"go.uber.org/zap"
)

// LocalFiles reads branch credentials from JSON files on disk. Development only.
type LocalFiles struct {
	root   string
	logger *zap.Logger
}

var _ ports.CredentialVault = (*LocalFiles)(nil)

func NewLocalFiles(root string, logger *zap.Logger) *LocalFiles {
	return &LocalFiles{root: root, logger: logger}
}

// BranchCredentials reads <root>/<key>.json, or <root>/<key> when no .json file exists.
// Keys cannot climb out of root.
func (l *LocalFiles) BranchCredentials(ctx context.Context, key string) (*ports.StoredCredentials, error) {
	path := filepath.Join(l.root, filepath.Clean("/"+key))

	data, err := os.ReadFile(path + ".json")
	if errors.Is(err, fs.ErrNotExist) {
		data, err = os.ReadFile(path)
	}
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("no credential file for %s", key)
	}
	if err != nil {
		return nil, fmt.Errorf("read credential file %s: %w", key, err)
	}

	creds, err := decodeCredentials(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}

	l.logger.Debug("Read branch credentials from file", zap.String("key", key))
	return &ports.StoredCredentials{Credentials: creds, Version: "file"}, nil
}
