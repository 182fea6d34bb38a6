package middleware

// contextKey is a private type for context keys defined in this package,
// preventing collisions with keys from other packages.
type contextKey string

const (
	// RequestIDKey is the context key for the request correlation ID.
	RequestIDKey contextKey = "request_id"
)
