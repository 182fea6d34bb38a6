package logging

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// Patterns that indicate a credential embedded in a string value.
var (
	bearerPattern = regexp.MustCompile(`Bearer\s+[a-zA-Z0-9\-._~+/]+=*`)
	basicPattern  = regexp.MustCompile(`Basic\s+[a-zA-Z0-9+/]+=*`)
	apiKeyPattern = regexp.MustCompile(`sk-[a-zA-Z0-9]+`)
)

// sensitiveKeys lists attribute key substrings whose values are replaced
// wholesale rather than pattern-matched.
var sensitiveKeys = []string{
	"secret",
	"token",
	"api_key",
	"apikey",
	"authorization",
	"password",
}

// RedactingHandler wraps a slog.Handler and rewrites secret-bearing
// attributes before they are emitted.
type RedactingHandler struct {
	inner slog.Handler
}

// NewRedactingHandler wraps the given handler.
func NewRedactingHandler(inner slog.Handler) *RedactingHandler {
	return &RedactingHandler{inner: inner}
}

// Enabled reports whether the wrapped handler handles records at the level.
func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

// Handle redacts the record's attributes and forwards it.
func (h *RedactingHandler) Handle(ctx context.Context, record slog.Record) error {
	clean := slog.NewRecord(record.Time, record.Level, record.Message, record.PC)
	record.Attrs(func(attr slog.Attr) bool {
		clean.AddAttrs(redactAttr(attr))
		return true
	})
	return h.inner.Handle(ctx, clean)
}

// WithAttrs returns a new handler with the given attributes redacted and
// added to the wrapped handler.
func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		clean[i] = redactAttr(attr)
	}
	return &RedactingHandler{inner: h.inner.WithAttrs(clean)}
}

// WithGroup returns a new handler with the given group name.
func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{inner: h.inner.WithGroup(name)}
}

// redactAttr rewrites a single attribute if its key or value looks
// credential-bearing. Group attributes are processed recursively.
func redactAttr(attr slog.Attr) slog.Attr {
	if attr.Value.Kind() == slog.KindGroup {
		members := attr.Value.Group()
		clean := make([]slog.Attr, len(members))
		for i, m := range members {
			clean[i] = redactAttr(m)
		}
		return slog.Attr{Key: attr.Key, Value: slog.GroupValue(clean...)}
	}

	if isSensitiveKey(attr.Key) {
		return slog.String(attr.Key, RedactSecret(attr.Value.String()))
	}

	if attr.Value.Kind() == slog.KindString {
		return slog.String(attr.Key, RedactString(attr.Value.String()))
	}

	return attr
}

// isSensitiveKey reports whether a key name indicates a credential value.
func isSensitiveKey(key string) bool {
	lower := strings.ToLower(key)
	for _, s := range sensitiveKeys {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}

// RedactString replaces embedded credential patterns in a string while
// leaving the rest of the value intact.
func RedactString(value string) string {
	if value == "" {
		return value
	}
	value = bearerPattern.ReplaceAllString(value, "Bearer ***")
	value = basicPattern.ReplaceAllString(value, "Basic ***")
	value = apiKeyPattern.ReplaceAllString(value, "sk-***")
	return value
}

// RedactSecret replaces a secret wholesale, keeping a short prefix so
// operators can tell configured credentials apart.
func RedactSecret(value string) string {
	if value == "" {
		return ""
	}
	if len(value) <= 4 {
		return "***"
	}
	return value[:4] + "***"
}
