package secrets

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	vault "github.com/hashicorp/vault/api"
	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"go.uber.org/zap"
)

// VaultOptions configures the KV v2 reader. Token auth is used unless RoleID is
// set, in which case the service logs in through AppRole.
type VaultOptions struct {
	Address   string
	Token     string
	RoleID    string
	SecretID  string
	Namespace string
	MountPath string
	CacheTTL  time.Duration
}

type kvReader interface {
	ReadWithContext(ctx context.Context, path string) (*vault.Secret, error)
}

// Vault reads branch credentials from a KV v2 mount, one field per credential
type Vault struct {
	kv     kvReader
	mount  string
	cache  *credentialCache
	logger *zap.Logger
}

var _ ports.CredentialVault = (*Vault)(nil)

func NewVault(ctx context.Context, opts VaultOptions, logger *zap.Logger) (*Vault, error) {
	vcfg := vault.DefaultConfig()
	vcfg.Address = opts.Address

	client, err := vault.NewClient(vcfg)
	if err != nil {
		return nil, fmt.Errorf("create Vault client: %w", err)
	}
	if opts.Namespace != "" {
		client.SetNamespace(opts.Namespace)
	}

	authMethod := "token"
	if opts.RoleID != "" {
		authMethod = "approle"
		if err := appRoleLogin(ctx, client, opts.RoleID, opts.SecretID); err != nil {
			return nil, err
		}
	} else {
		if opts.Token == "" {
			return nil, errors.New("VAULT_TOKEN or VAULT_ROLE_ID is required")
		}
		client.SetToken(opts.Token)
	}

	mount := opts.MountPath
	if mount == "" {
		mount = "secret"
	}

	logger.Info("Reading branch credentials from Vault",
		zap.String("address", opts.Address),
		zap.String("auth_method", authMethod),
		zap.String("mount", mount),
	)
	return newVault(client.Logical(), mount, opts.CacheTTL, logger), nil
}

func newVault(kv kvReader, mount string, ttl time.Duration, logger *zap.Logger) *Vault {
	return &Vault{kv: kv, mount: mount, cache: newCredentialCache(ttl), logger: logger}
}

func appRoleLogin(ctx context.Context, client *vault.Client, roleID, secretID string) error {
	if secretID == "" {
		return errors.New("VAULT_SECRET_ID is required with VAULT_ROLE_ID")
	}
	resp, err := client.Logical().WriteWithContext(ctx, "auth/approle/login", map[string]interface{}{
		"role_id":   roleID,
		"secret_id": secretID,
	})
	if err != nil {
		return fmt.Errorf("vault AppRole login: %w", err)
	}
	if resp == nil || resp.Auth == nil {
		return errors.New("vault AppRole login returned no token")
	}
	client.SetToken(resp.Auth.ClientToken)
	return nil
}

// BranchCredentials reads <mount>/data/<key>
func (v *Vault) BranchCredentials(ctx context.Context, key string) (*ports.StoredCredentials, error) {
	if stored, ok := v.cache.get(key); ok {
		return stored, nil
	}

	secret, err := v.kv.ReadWithContext(ctx, path.Join(v.mount, "data", key))
	if err != nil {
		v.logger.Error("Failed to read branch credentials from Vault", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("vault read %s: %w", key, err)
	}
	if secret == nil {
		return nil, fmt.Errorf("no Vault secret at %s", key)
	}

	stored, err := storedFromKV(secret.Data)
	if err != nil {
		return nil, fmt.Errorf("vault secret %s: %w", key, err)
	}
	v.cache.put(key, stored)

	v.logger.Info("Fetched branch credentials", zap.String("key", key), zap.String("version", stored.Version))
	return stored, nil
}

// storedFromKV unwraps the KV v2 envelope {"data": {...}, "metadata": {...}}
func storedFromKV(raw map[string]interface{}) (*ports.StoredCredentials, error) {
	fields, ok := raw["data"].(map[string]interface{})
	if !ok {
		return nil, errors.New("not a KV v2 secret")
	}

	doc, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}
	creds, err := decodeCredentials(doc)
	if err != nil {
		return nil, err
	}

	stored := &ports.StoredCredentials{Credentials: creds}
	if meta, ok := raw["metadata"].(map[string]interface{}); ok {
		if version, ok := meta["version"].(json.Number); ok {
			stored.Version = version.String()
		}
	}
	return stored, nil
}
