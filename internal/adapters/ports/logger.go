package ports

import "time"

// Logger is the structured logger services and adapters write to.
// pkg/security adapts zap to it; tests use mocks.MockLogger.
type Logger interface {
	Info(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Debug(msg string, fields ...Field)
}

// Field is one key/value pair on a log line
type Field struct {
	Key   string
	Value interface{}
}

func String(key, val string) Field { return Field{Key: key, Value: val} }

func Int(key string, val int) Field { return Field{Key: key, Value: val} }

func Bool(key string, val bool) Field { return Field{Key: key, Value: val} }

func Duration(key string, val time.Duration) Field { return Field{Key: key, Value: val} }

func Err(err error) Field { return Field{Key: "error", Value: err} }

// BranchID tags a line with the branch whose credentials served the call
func BranchID(id string) Field { return String("branch", id) }

// InvoiceID tags a line with the provider invoice id
func InvoiceID(id string) Field { return String("invoice_id", id) }

// CustomerID tags a line with the provider customer id
func CustomerID(id string) Field { return String("customer_id", id) }
