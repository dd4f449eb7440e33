package types

import (
	"context"
	"time"
)

// Clock abstracts "now" so that every derivation is deterministic under
// test. The core computations never read the system clock themselves; the
// caller resolves the instant once and threads it through explicitly.
type Clock interface {
	Now() time.Time
}

// SystemClock is the production Clock backed by time.Now (UTC).
type SystemClock struct{}

// Now returns the current UTC instant.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Context keys
type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID stores the request correlation ID in the context.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// GetRequestID retrieves the request correlation ID from the context.
// Returns the empty string if none has been set.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}
