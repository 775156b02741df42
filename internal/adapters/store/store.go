package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
)

// updateLocks holds one mutex per store value. Implementations are pointers,
// so the interface value is a valid map key.
var updateLocks sync.Map

func lockFor(s ports.FlatStore) *sync.Mutex {
	mu, _ := updateLocks.LoadOrStore(s, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Get reads a single key from the store
func Get(ctx context.Context, s ports.FlatStore, key string) (string, bool, error) {
	values, err := s.Read(ctx)
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

// Update applies fn to the whole document and writes it back. Updates through
// this package are serialized per store so concurrent writers of different
// keys do not lose each other's changes. Writers in other processes are not
// covered.
func Update(ctx context.Context, s ports.FlatStore, fn func(values map[string]string)) error {
	mu := lockFor(s)
	mu.Lock()
	defer mu.Unlock()

	values, err := s.Read(ctx)
	if err != nil {
		return err
	}
	if values == nil {
		values = make(map[string]string)
	}
	fn(values)
	return s.Write(ctx, values)
}

// Set writes a single key and keeps every other key
func Set(ctx context.Context, s ports.FlatStore, key, value string) error {
	if err := Update(ctx, s, func(values map[string]string) { values[key] = value }); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
