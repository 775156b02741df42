package mocks

import (
	"sync"

	"github.com/kevin07696/gym-admin/internal/adapters/ports"
)

// LogEntry is one captured log line
type LogEntry struct {
	Level   string
	Message string
	Fields  []ports.Field
}

// Field returns the value logged under key, or nil
func (e LogEntry) Field(key string) interface{} {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value
		}
	}
	return nil
}

// MockLogger records every line so tests can assert on what services report
type MockLogger struct {
	mu      sync.Mutex
	entries []LogEntry
}

func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (m *MockLogger) record(level, msg string, fields []ports.Field) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, LogEntry{Level: level, Message: msg, Fields: fields})
}

func (m *MockLogger) Info(msg string, fields ...ports.Field)  { m.record("info", msg, fields) }
func (m *MockLogger) Error(msg string, fields ...ports.Field) { m.record("error", msg, fields) }
func (m *MockLogger) Warn(msg string, fields ...ports.Field)  { m.record("warn", msg, fields) }
func (m *MockLogger) Debug(msg string, fields ...ports.Field) { m.record("debug", msg, fields) }

// Entries returns the captured lines at level, in order. An empty level returns all of them.
func (m *MockLogger) Entries(level string) []LogEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []LogEntry
	for _, e := range m.entries {
		if level == "" || e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

var _ ports.Logger = (*MockLogger)(nil)
