package apiclient

import "context"

type contextKey string

const requestIDKey contextKey = "request_id"

// DefaultRequestIDHeader is the header name conventionally used to forward
// request IDs.
const DefaultRequestIDHeader = "X-Request-ID"

// ContextWithRequestID returns a context carrying id. A pipeline call made
// with it uses id instead of generating one.
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext retrieves the request ID from context.
// Returns an empty string if no request ID is set.
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return ""
}
