package apilog

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kevin07696/gym-admin/internal/adapters/ports"
	"github.com/kevin07696/gym-admin/internal/adapters/store"
	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/pkg/observability"
)

// DefaultCapacity is the number of calls kept in the log
const DefaultCapacity = 100

// StoreKey is the flat store key used when the log is persisted
const StoreKey = "apiLogs"

// Logger is a bounded, process-owned log of outbound provider calls.
// Appends are serialised; once full the oldest entry is evicted.
type Logger struct {
	mu       sync.Mutex
	entries  []domain.APILog
	capacity int
	now      func() time.Time
}

// New creates an empty call log. capacity <= 0 uses DefaultCapacity.
func New(capacity int) *Logger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Logger{
		entries:  make([]domain.APILog, 0, capacity),
		capacity: capacity,
		now:      time.Now,
	}
}

// Log appends one call. Bodies that are not JSON are stored as JSON strings.
func (l *Logger) Log(method, url string, response []byte, status int, requestBody []byte) {
	entry := domain.APILog{
		ID:        uuid.NewString(),
		Method:    method,
		URL:       url,
		Response:  asJSON(response),
		Status:    status,
		Timestamp: l.now().UTC(),
	}
	if len(requestBody) > 0 {
		entry.RequestBody = asJSON(requestBody)
	}

	l.mu.Lock()
	if len(l.entries) == l.capacity {
		copy(l.entries, l.entries[1:])
		l.entries = l.entries[:l.capacity-1]
	}
	l.entries = append(l.entries, entry)
	n := len(l.entries)
	l.mu.Unlock()

	observability.SetAPILogEntries(n)
}

// List returns a copy of the log, oldest first
func (l *Logger) List() []domain.APILog {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]domain.APILog, len(l.entries))
	copy(out, l.entries)
	return out
}

// Clear empties the log
func (l *Logger) Clear() {
	l.mu.Lock()
	l.entries = l.entries[:0]
	l.mu.Unlock()

	observability.SetAPILogEntries(0)
}

// Len returns the number of entries
func (l *Logger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Persist writes the current log to the flat store
func (l *Logger) Persist(ctx context.Context, s ports.FlatStore) error {
	data, err := json.Marshal(l.List())
	if err != nil {
		return fmt.Errorf("failed to encode api log: %w", err)
	}
	return store.Set(ctx, s, StoreKey, string(data))
}

// Restore loads a persisted log, keeping at most the newest capacity entries
func (l *Logger) Restore(ctx context.Context, s ports.FlatStore) error {
	raw, ok, err := store.Get(ctx, s, StoreKey)
	if err != nil || !ok || raw == "" {
		return err
	}

	var entries []domain.APILog
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return fmt.Errorf("failed to decode persisted api log: %w", err)
	}
	if len(entries) > l.capacity {
		entries = entries[len(entries)-l.capacity:]
	}

	l.mu.Lock()
	l.entries = append(l.entries[:0], entries...)
	n := len(l.entries)
	l.mu.Unlock()

	observability.SetAPILogEntries(n)
	return nil
}

func asJSON(body []byte) json.RawMessage {
	if len(body) == 0 {
		return json.RawMessage("null")
	}
	if json.Valid(body) {
		out := make([]byte, len(body))
		copy(out, body)
		return out
	}
	encoded, _ := json.Marshal(string(body))
	return encoded
}
