package logging

import (
	"context"
	"os"

	"github.com/oklog/ulid/v2"
)

// EnvTraceID lets a caller supply the trace ID for an invocation.
const EnvTraceID = "INTERACT_TRACE_ID"

type traceIDKey struct{}

// ContextWithTraceID stores id in ctx.
func ContextWithTraceID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, id)
}

// TraceIDFromContext returns the stored trace ID or "".
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(traceIDKey{}).(string)
	return id
}

// GetOrGenerateTraceID returns the trace ID already in ctx, then the one in
// INTERACT_TRACE_ID, and otherwise a new ULID.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	if id := os.Getenv(EnvTraceID); id != "" {
		return id
	}
	return ulid.Make().String()
}
