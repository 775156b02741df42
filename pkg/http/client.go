package http

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// HTTPClientConfig holds HTTP client transport settings
type HTTPClientConfig struct {
	MaxIdleConnsPerHost int
	MaxConnsPerHost     int
	IdleConnTimeout     time.Duration

	DialTimeout           time.Duration
	TLSHandshakeTimeout   time.Duration
	ResponseHeaderTimeout time.Duration

	// UserAgent is sent on every provider request
	UserAgent string
	// RequestsPerSecond throttles outbound calls; 0 means unlimited
	RequestsPerSecond float64
}

// ProviderClientConfig is tuned for the payment provider: two hosts (identity and API),
// JSON bodies, and occasionally slow invoice and document endpoints.
func ProviderClientConfig(userAgent string, rps float64) *HTTPClientConfig {
	return &HTTPClientConfig{
		MaxIdleConnsPerHost: 10,
		MaxConnsPerHost:     32,
		IdleConnTimeout:     90 * time.Second,

		DialTimeout:           10 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ResponseHeaderTimeout: 30 * time.Second,

		UserAgent:         userAgent,
		RequestsPerSecond: rps,
	}
}

// NewHTTPClient creates an HTTP client with the given configuration.
// timeout bounds the whole exchange, including reading the body.
func NewHTTPClient(cfg *HTTPClientConfig, timeout time.Duration) *http.Client {
	dialer := &net.Dialer{Timeout: cfg.DialTimeout, KeepAlive: 60 * time.Second}

	var rt http.RoundTripper = &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           dialer.DialContext,
		MaxIdleConnsPerHost:   cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       cfg.IdleConnTimeout,
		TLSHandshakeTimeout:   cfg.TLSHandshakeTimeout,
		ResponseHeaderTimeout: cfg.ResponseHeaderTimeout,
		TLSClientConfig:       &tls.Config{MinVersion: tls.VersionTLS12},
		ForceAttemptHTTP2:     true,
	}
	rt = wrapTransport(rt, cfg)

	return &http.Client{Transport: rt, Timeout: timeout}
}

func wrapTransport(base http.RoundTripper, cfg *HTTPClientConfig) http.RoundTripper {
	if cfg.RequestsPerSecond > 0 {
		burst := int(cfg.RequestsPerSecond)
		if burst < 1 {
			burst = 1
		}
		base = &throttledTransport{next: base, limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)}
	}
	if cfg.UserAgent != "" {
		base = &userAgentTransport{next: base, agent: cfg.UserAgent}
	}
	return base
}

type userAgentTransport struct {
	next  http.RoundTripper
	agent string
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	req = req.Clone(req.Context())
	req.Header.Set("User-Agent", t.agent)
	return t.next.RoundTrip(req)
}

// throttledTransport waits for a token before each request. The wait honours the
// request context, so a cancelled call never reaches the provider.
type throttledTransport struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func (t *throttledTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.next.RoundTrip(req)
}
