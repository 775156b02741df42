package ezypay

import (
	"strings"
	"time"
)

// Config contains configuration for the Ezypay adapters
type Config struct {
	BaseURL     string // e.g., "https://api-global.ezypay.com"
	IdentityURL string // password-grant token endpoint
	Scope       string // space separated scope string sent with every token request
	Timeout     time.Duration
}

// DefaultConfig returns sandbox configuration
func DefaultConfig() *Config {
	return &Config{
		BaseURL:     "https://api-sandbox.ezypay.com",
		IdentityURL: "https://identity-sandbox.ezypay.com/token",
		Scope:       "integrator billing_profile create_payment_method offline_access hosted_payment",
		Timeout:     30 * time.Second,
	}
}

func (c *Config) url(path string) string {
	return strings.TrimRight(c.BaseURL, "/") + path
}

func (c *Config) scopes() []string {
	return strings.Fields(c.Scope)
}
