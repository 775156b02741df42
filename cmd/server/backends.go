package main

import (
	"context"
	"fmt"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/adapters/secrets"
	"github.com/kevin07696/gym-admin/internal/adapters/store"
	"github.com/kevin07696/gym-admin/internal/config"
	"go.uber.org/zap"
)

// initCredentialVault picks the branch credential backend from CREDENTIALS_SOURCE.
// It returns nil for "env", in which case branch.Load uses the environment values as-is.
//
//   - env: EZYPAY_* and BRANCH2_* variables only
//   - local: JSON files under CREDENTIALS_LOCAL_PATH, for development
//   - aws: AWS Secrets Manager in AWS_REGION
//   - vault: HashiCorp Vault KV at VAULT_ADDR (token or AppRole auth)
func initCredentialVault(ctx context.Context, cfg config.CredentialsConfig, logger *zap.Logger) (ports.CredentialVault, error) {
	switch cfg.Source {
	case config.CredentialsEnv:
		return nil, nil

	case config.CredentialsLocal:
		logger.Warn("Using local credential files - NOT for production use",
			zap.String("path", cfg.LocalPath),
		)
		return secrets.NewLocalFiles(cfg.LocalPath, logger), nil

	case config.CredentialsAWS:
		return secrets.NewAWSSecrets(ctx, secrets.AWSOptions{
			Region:   cfg.AWSRegion,
			Profile:  cfg.AWSProfile,
			Endpoint: cfg.AWSEndpoint,
			CacheTTL: cfg.CacheTTL,
		}, logger)

	case config.CredentialsVault:
		return secrets.NewVault(ctx, secrets.VaultOptions{
			Address:   cfg.VaultAddress,
			Token:     cfg.VaultToken,
			RoleID:    cfg.VaultRoleID,
			SecretID:  cfg.VaultSecretID,
			Namespace: cfg.VaultNamespace,
			MountPath: cfg.VaultMountPath,
			CacheTTL:  cfg.CacheTTL,
		}, logger)
	}

	return nil, fmt.Errorf("unknown credentials source %q", cfg.Source)
}

// initFlatStore opens the key-value document holding the branch selection and API log
func initFlatStore(ctx context.Context, cfg config.StoreConfig, logger *zap.Logger) (ports.FlatStore, error) {
	if cfg.Backend == config.StoreS3 {
		return store.NewS3Store(ctx, store.S3Config{
			Region:   cfg.S3Region,
			Bucket:   cfg.S3Bucket,
			Key:      cfg.S3Key,
			Endpoint: cfg.S3Endpoint,
		}, logger)
	}
	return store.NewLocalStore(cfg.Path, logger), nil
}
