package branch

import (
	"context"
	"fmt"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/domain"
	"go.uber.org/zap"
)

// Source describes where one branch's credentials come from.
// Credentials holds the environment values; SecretPath is used when a secret backend is configured.
type Source struct {
	Branch      domain.Branch
	Credentials domain.Credentials
	SecretPath  string
}

// Load builds the credential sets for every branch. With a nil vault the environment
// values are used as-is; otherwise each branch is read from its secret path, with
// environment values filling any field the secret leaves empty.
func Load(ctx context.Context, sources []Source, vault ports.CredentialVault, logger *zap.Logger) ([]domain.BranchCredentials, error) {
	out := make([]domain.BranchCredentials, 0, len(sources))

	for _, src := range sources {
		creds := src.Credentials

		if vault != nil {
			stored, err := vault.BranchCredentials(ctx, src.SecretPath)
			if err != nil {
				return nil, domain.WrapError(domain.ErrorCodeBranchIncomplete,
					fmt.Sprintf("failed to load credentials for branch %q", src.Branch.ID), err)
			}
			creds = merge(stored.Credentials, creds)

			logger.Info("Loaded branch credentials from secret backend",
				zap.String("branch", src.Branch.ID),
				zap.String("path", src.SecretPath),
				zap.String("version", stored.Version),
			)
		}

		out = append(out, domain.BranchCredentials{Branch: src.Branch, Credentials: creds})
	}

	return out, nil
}

func merge(primary, fallback domain.Credentials) domain.Credentials {
	pick := func(a, b string) string {
		if a != "" {
			return a
		}
		return b
	}
	return domain.Credentials{
		ClientID:     pick(primary.ClientID, fallback.ClientID),
		ClientSecret: pick(primary.ClientSecret, fallback.ClientSecret),
		Username:     pick(primary.Username, fallback.Username),
		Password:     pick(primary.Password, fallback.Password),
		MerchantID:   pick(primary.MerchantID, fallback.MerchantID),
	}
}
