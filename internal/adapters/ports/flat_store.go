package ports

import "context"

// FlatStore is a whole-document key/value store: every Write replaces the full map.
// Single keys are updated through store.Set, which serializes writers in this
// process. There is no cross-process locking.
type FlatStore interface {
	Read(ctx context.Context) (map[string]string, error)
	Write(ctx context.Context, data map[string]string) error
}

// CallLogger records outbound provider calls for developer debugging
type CallLogger interface {
	Log(method, url string, response []byte, status int, requestBody []byte)
}
