package secrets

import (
	"sync"
	"time"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
)

// credentialCache keeps fetched credential sets for a TTL. A zero TTL disables it.
type credentialCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]cachedCredentials
}

type cachedCredentials struct {
	stored    *ports.StoredCredentials
	expiresAt time.Time
}

func newCredentialCache(ttl time.Duration) *credentialCache {
	return &credentialCache{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]cachedCredentials),
	}
}

func (c *credentialCache) get(key string) (*ports.StoredCredentials, bool) {
	if c.ttl <= 0 {
		return nil, false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if c.now().After(entry.expiresAt) {
		delete(c.entries, key)
		return nil, false
	}
	return entry.stored, true
}

func (c *credentialCache) put(key string, stored *ports.StoredCredentials) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = cachedCredentials{stored: stored, expiresAt: c.now().Add(c.ttl)}
}
