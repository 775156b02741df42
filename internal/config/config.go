package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/services/branch"
)

// Config holds all application configuration
type Config struct {
	Server      ServerConfig
	Provider    ProviderConfig
	Branches    BranchesConfig
	Credentials CredentialsConfig
	Store       StoreConfig
	Logger      LoggerConfig
	HTTP        HTTPConfig
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port            int
	Host            string
	MetricsPort     int
	ShutdownTimeout time.Duration
}

// ProviderConfig holds payment provider endpoints and timing
type ProviderConfig struct {
	APIEndpoint         string        // provider REST base URL
	IdentityURL         string        // password-grant token endpoint
	Scope               string        // scope string sent with every token request
	PaymentPageEndpoint string        // hosted card-capture page, handed to the UI
	Timeout             time.Duration // per upstream call
	TerminalWait        time.Duration // how long a terminal payment is given before the invoice is re-read
	RequestsPerSecond   float64       // outbound cap across all branches; 0 disables it
}

// BranchConfig holds one branch's identity and environment credentials
type BranchConfig struct {
	ID          string
	Name        string
	Credentials domain.Credentials
}

// BranchesConfig holds every configured branch
type BranchesConfig struct {
	Default string
	List    []BranchConfig
}

// CredentialsConfig selects where branch credentials are read from
type CredentialsConfig struct {
	Source         string // env, local, aws, vault
	PathPrefix     string // secret path is <prefix>/<branchID>
	LocalPath      string
	AWSRegion      string
	AWSProfile     string
	AWSEndpoint    string
	VaultAddress   string
	VaultToken     string
	VaultRoleID    string
	VaultSecretID  string
	VaultNamespace string
	VaultMountPath string
	CacheTTL       time.Duration
}

// StoreConfig holds flat key-value store configuration
type StoreConfig struct {
	Backend       string // local, s3
	Path          string
	S3Bucket      string
	S3Key         string
	S3Region      string
	S3Endpoint    string
	PersistAPILog bool
	FlushInterval time.Duration // how often a persisted API log is written back
}

// LoggerConfig holds logging configuration
type LoggerConfig struct {
	Level       string // debug, info, warn, error
	Development bool
}

// HTTPConfig holds inbound HTTP protections
type HTTPConfig struct {
	CORSAllowedOrigins []string
	RateLimitRPS       float64
	RateLimitBurst     int
}

// Credential source names
const (
	CredentialsEnv   = "env"
	CredentialsLocal = "local"
	CredentialsAWS   = "aws"
	CredentialsVault = "vault"
)

// Store backend names
const (
	StoreLocal = "local"
	StoreS3    = "s3"
)

// LoadFromEnv loads configuration from environment variables.
// A .env file in the working directory is read first when present; real environment
// variables win over it.
func LoadFromEnv() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnvAsInt("SERVER_PORT", 8080),
			Host:            getEnv("SERVER_HOST", "0.0.0.0"),
			MetricsPort:     getEnvAsInt("METRICS_PORT", 9090),
			ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 30*time.Second),
		},
		Provider: ProviderConfig{
			APIEndpoint:         getEnv("API_ENDPOINT", "https://api-sandbox.ezypay.com"),
			IdentityURL:         getEnv("EZYPAY_IDENTITY_URL", "https://identity-sandbox.ezypay.com/token"),
			Scope:               getEnv("EZYPAY_SCOPE", "integrator billing_profile create_payment_method offline_access hosted_payment"),
			PaymentPageEndpoint: getEnv("NEXT_PUBLIC_PCP_ENDPOINT", ""),
			Timeout:             getEnvAsDuration("PROVIDER_TIMEOUT", 30*time.Second),
			TerminalWait:        getEnvAsDuration("TERMINAL_WAIT", 15*time.Second),
			RequestsPerSecond:   getEnvAsFloat("PROVIDER_RPS", 0),
		},
		Branches: BranchesConfig{
			Default: getEnv("DEFAULT_BRANCH", "main"),
			List: []BranchConfig{
				{
					ID:          "main",
					Name:        getEnv("EZYPAY_BRANCH_NAME", "Main"),
					Credentials: credentialsFromEnv("EZYPAY"),
				},
			},
		},
		Credentials: CredentialsConfig{
			Source:         strings.ToLower(getEnv("CREDENTIALS_SOURCE", CredentialsEnv)),
			PathPrefix:     getEnv("CREDENTIALS_PATH_PREFIX", "gym-admin/branches"),
			LocalPath:      getEnv("CREDENTIALS_LOCAL_PATH", "./secrets"),
			AWSRegion:      getEnv("AWS_REGION", "ap-southeast-2"),
			AWSProfile:     getEnv("AWS_PROFILE", ""),
			AWSEndpoint:    getEnv("AWS_SECRETS_ENDPOINT", ""),
			VaultAddress:   getEnv("VAULT_ADDR", ""),
			VaultToken:     getEnv("VAULT_TOKEN", ""),
			VaultRoleID:    getEnv("VAULT_ROLE_ID", ""),
			VaultSecretID:  getEnv("VAULT_SECRET_ID", ""),
			VaultNamespace: getEnv("VAULT_NAMESPACE", ""),
			VaultMountPath: getEnv("VAULT_MOUNT_PATH", "secret"),
			CacheTTL:       getEnvAsDuration("CREDENTIALS_CACHE_TTL", 5*time.Minute),
		},
		Store: StoreConfig{
			Backend:       strings.ToLower(getEnv("STORE_BACKEND", StoreLocal)),
			Path:          getEnv("STORE_PATH", "data/store.json"),
			S3Bucket:      getEnv("STORE_S3_BUCKET", ""),
			S3Key:         getEnv("STORE_S3_KEY", "gym-admin/store.json"),
			S3Region:      getEnv("AWS_REGION", "ap-southeast-2"),
			S3Endpoint:    getEnv("STORE_S3_ENDPOINT", ""),
			PersistAPILog: getEnvAsBool("API_LOG_PERSIST", false),
			FlushInterval: getEnvAsDuration("API_LOG_FLUSH_INTERVAL", time.Minute),
		},
		Logger: LoggerConfig{
			Level:       getEnv("LOG_LEVEL", "info"),
			Development: getEnvAsBool("LOG_DEVELOPMENT", false),
		},
		HTTP: HTTPConfig{
			CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			RateLimitRPS:       getEnvAsFloat("RATE_LIMIT_RPS", 20),
			RateLimitBurst:     getEnvAsInt("RATE_LIMIT_BURST", 40),
		},
	}

	// The second branch exists only when something configures it
	if hasAnyEnv("BRANCH2_CLIENT_ID", "BRANCH2_USERNAME", "BRANCH2_MERCHANT_ID", "BRANCH2_NAME") ||
		cfg.Credentials.Source != CredentialsEnv && getEnvAsBool("BRANCH2_ENABLED", false) {
		cfg.Branches.List = append(cfg.Branches.List, BranchConfig{
			ID:          "branch2",
			Name:        getEnv("BRANCH2_NAME", "Branch 2"),
			Credentials: credentialsFromEnv("BRANCH2"),
		})
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks settings that would otherwise fail at first use
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.MetricsPort == c.Server.Port {
		return fmt.Errorf("METRICS_PORT must differ from SERVER_PORT")
	}
	if c.Provider.APIEndpoint == "" {
		return fmt.Errorf("API_ENDPOINT is required")
	}
	if c.Provider.IdentityURL == "" {
		return fmt.Errorf("EZYPAY_IDENTITY_URL is required")
	}
	if c.Provider.TerminalWait < 0 {
		return fmt.Errorf("TERMINAL_WAIT must not be negative")
	}
	if c.Provider.RequestsPerSecond < 0 {
		return fmt.Errorf("PROVIDER_RPS must not be negative")
	}

	switch c.Credentials.Source {
	case CredentialsEnv, CredentialsLocal, CredentialsAWS:
	case CredentialsVault:
		if c.Credentials.VaultAddress == "" {
			return fmt.Errorf("VAULT_ADDR is required when CREDENTIALS_SOURCE=vault")
		}
	default:
		return fmt.Errorf("CREDENTIALS_SOURCE must be one of env, local, aws, vault; got %q", c.Credentials.Source)
	}

	switch c.Store.Backend {
	case StoreLocal:
		if c.Store.Path == "" {
			return fmt.Errorf("STORE_PATH is required when STORE_BACKEND=local")
		}
	case StoreS3:
		if c.Store.S3Bucket == "" {
			return fmt.Errorf("STORE_S3_BUCKET is required when STORE_BACKEND=s3")
		}
	default:
		return fmt.Errorf("STORE_BACKEND must be local or s3, got %q", c.Store.Backend)
	}

	if c.Store.PersistAPILog && c.Store.FlushInterval <= 0 {
		return fmt.Errorf("API_LOG_FLUSH_INTERVAL must be positive when API_LOG_PERSIST is set")
	}

	if c.HTTP.RateLimitRPS <= 0 || c.HTTP.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}

	// Credential completeness per branch is checked by the branch resolver once
	// secret backends have been consulted.
	return nil
}

// BranchSources converts the branch list into credential sources for the loader
func (c *Config) BranchSources() []branch.Source {
	sources := make([]branch.Source, 0, len(c.Branches.List))
	for _, b := range c.Branches.List {
		sources = append(sources, branch.Source{
			Branch:      domain.Branch{ID: b.ID, Name: b.Name},
			Credentials: b.Credentials,
			SecretPath:  strings.TrimSuffix(c.Credentials.PathPrefix, "/") + "/" + b.ID,
		})
	}
	return sources
}

func credentialsFromEnv(prefix string) domain.Credentials {
	return domain.Credentials{
		ClientID:     getEnv(prefix+"_CLIENT_ID", ""),
		ClientSecret: getEnv(prefix+"_CLIENT_SECRET", ""),
		Username:     getEnv(prefix+"_USERNAME", ""),
		Password:     getEnv(prefix+"_PASSWORD", ""),
		MerchantID:   getEnv(prefix+"_MERCHANT_ID", ""),
	}
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func hasAnyEnv(keys ...string) bool {
	for _, k := range keys {
		if os.Getenv(k) != "" {
			return true
		}
	}
	return false
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
