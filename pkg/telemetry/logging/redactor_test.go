package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestRedactString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "bearer token",
			in:   "upstream rejected Bearer sk-abc123def",
			want: "upstream rejected Bearer ***",
		},
		{
			name: "basic credentials",
			in:   "sent Basic YWxpY2U6czNjcmV0",
			want: "sent Basic ***",
		},
		{
			name: "bare api key",
			in:   "key sk-12345 is invalid",
			want: "key sk-*** is invalid",
		},
		{
			name: "clean string untouched",
			in:   "routed aliyun-qwen3-max to aliyun",
			want: "routed aliyun-qwen3-max to aliyun",
		},
		{name: "empty", in: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RedactString(tt.in); got != tt.want {
				t.Errorf("RedactString(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestRedactSecret(t *testing.T) {
	if got := RedactSecret("sk-verylongsecret"); got != "sk-v***" {
		t.Errorf("RedactSecret = %q", got)
	}
	if got := RedactSecret("abc"); got != "***" {
		t.Errorf("RedactSecret short = %q", got)
	}
	if got := RedactSecret(""); got != "" {
		t.Errorf("RedactSecret empty = %q", got)
	}
}

func TestRedactingHandlerHidesSensitiveAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("provider configured",
		"provider", "aliyun",
		"secret", "sk-supersecretvalue",
	)

	out := buf.String()
	if strings.Contains(out, "supersecretvalue") {
		t.Errorf("secret leaked into log output: %s", out)
	}
	if !strings.Contains(out, `"provider":"aliyun"`) {
		t.Errorf("non-sensitive attr mangled: %s", out)
	}
}

func TestRedactingHandlerWithAttrs(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewRedactingHandler(slog.NewJSONHandler(&buf, nil)))

	logger.With("authorization", "Bearer sk-abc123").Info("upstream call")

	if strings.Contains(buf.String(), "sk-abc123") {
		t.Errorf("credential leaked via With: %s", buf.String())
	}
}
