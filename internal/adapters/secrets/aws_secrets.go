package secrets

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"go.uber.org/zap"
)

// AWSOptions selects the Secrets Manager region and, for LocalStack or a named
// profile, the endpoint and shared config profile.
type AWSOptions struct {
	Region   string
	Profile  string
	Endpoint string
	CacheTTL time.Duration
}

type getSecretValueAPI interface {
	GetSecretValue(ctx context.Context, params *secretsmanager.GetSecretValueInput, optFns ...func(*secretsmanager.Options)) (*secretsmanager.GetSecretValueOutput, error)
}

// AWSSecrets reads branch credentials stored as JSON SecretStrings
type AWSSecrets struct {
	api    getSecretValueAPI
	cache  *credentialCache
	logger *zap.Logger
}

var _ ports.CredentialVault = (*AWSSecrets)(nil)

// NewAWSSecrets builds a Secrets Manager client from the default credential chain
func NewAWSSecrets(ctx context.Context, opts AWSOptions, logger *zap.Logger) (*AWSSecrets, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(opts.Region)}
	if opts.Profile != "" {
		loadOpts = append(loadOpts, awsconfig.WithSharedConfigProfile(opts.Profile))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	client := secretsmanager.NewFromConfig(awsCfg, func(o *secretsmanager.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
	})

	logger.Info("Reading branch credentials from AWS Secrets Manager",
		zap.String("region", opts.Region),
		zap.Duration("cache_ttl", opts.CacheTTL),
	)
	return newAWSSecrets(client, opts.CacheTTL, logger), nil
}

func newAWSSecrets(api getSecretValueAPI, ttl time.Duration, logger *zap.Logger) *AWSSecrets {
	return &AWSSecrets{api: api, cache: newCredentialCache(ttl), logger: logger}
}

// BranchCredentials fetches the secret named key, e.g. "gym-admin/ezypay/main"
func (a *AWSSecrets) BranchCredentials(ctx context.Context, key string) (*ports.StoredCredentials, error) {
	if stored, ok := a.cache.get(key); ok {
		return stored, nil
	}

	start := time.Now()
	out, err := a.api.GetSecretValue(ctx, &secretsmanager.GetSecretValueInput{SecretId: aws.String(key)})
	if err != nil {
		a.logger.Error("Failed to fetch branch credentials", zap.String("key", key), zap.Error(err))
		return nil, fmt.Errorf("get secret %s: %w", key, err)
	}

	creds, err := decodeCredentials([]byte(aws.ToString(out.SecretString)))
	if err != nil {
		return nil, fmt.Errorf("secret %s: %w", key, err)
	}

	stored := &ports.StoredCredentials{Credentials: creds, Version: aws.ToString(out.VersionId)}
	a.cache.put(key, stored)

	a.logger.Info("Fetched branch credentials",
		zap.String("key", key),
		zap.String("version", stored.Version),
		zap.Duration("elapsed", time.Since(start)),
	)
	return stored, nil
}
