package database

import (
	"context"
	"time"
)

// ContextKey is a custom type for context keys to avoid collisions.
type ContextKey string

// ContextKeyQueryTimeout allows overriding the default timeout for queries.
const ContextKeyQueryTimeout ContextKey = "db_query_timeout"

// DefaultQueryTimeout bounds every SurrealDB round trip.
const DefaultQueryTimeout = 5 * time.Second

// WithQueryTimeout returns a context that overrides DefaultQueryTimeout.
func WithQueryTimeout(ctx context.Context, d time.Duration) context.Context {
	return context.WithValue(ctx, ContextKeyQueryTimeout, d)
}

// queryContext applies the query timeout carried by ctx, or the default.
func queryContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	timeout := DefaultQueryTimeout
	if v, ok := ctx.Value(ContextKeyQueryTimeout).(time.Duration); ok && v > 0 {
		timeout = v
	}
	return context.WithTimeout(ctx, timeout)
}
