package ports

import (
	"context"

	"github.com/kevin07696/gym-admin/internal/domain"
)

// StoredCredentials is one branch's credential set as held by a secret backend.
// Fields the backend leaves empty are filled from the environment by the loader.
type StoredCredentials struct {
	Credentials domain.Credentials
	Version     string
}

// CredentialVault reads branch credentials from a secret backend.
// Key layout per backend:
//   - local: <base>/<prefix>/<branch>.json
//   - aws:   secret name <prefix>/<branch>
//   - vault: <mount>/data/<prefix>/<branch>
type CredentialVault interface {
	BranchCredentials(ctx context.Context, key string) (*StoredCredentials, error)
}
