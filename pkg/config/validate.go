package config

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"github.com/ollamux/ollamux/pkg/providers"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g. "providers[0].url").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a configuration.
// All field errors are collected and returned together.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a ValidationError
// if any rule fails. The process must not begin serving with an invalid or
// empty provider table, so the caller treats any error as fatal.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateProxy(&cfg.Proxy)...)
	errs = append(errs, validateProviders(cfg.Providers)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)
	errs = append(errs, validateAccessLog(&cfg.AccessLog)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

// validateProxy validates the listener configuration.
func validateProxy(cfg *ProxyConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: "listen address is required",
		})
	} else if _, _, err := net.SplitHostPort(cfg.ListenAddress); err != nil {
		errs = append(errs, FieldError{
			Field:   "proxy.listen_address",
			Message: fmt.Sprintf("must be host:port: %v", err),
		})
	}

	if cfg.ReadHeaderTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.read_header_timeout",
			Message: "read header timeout must not be negative",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.idle_timeout",
			Message: "idle timeout must not be negative",
		})
	}
	if cfg.ShutdownTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.shutdown_timeout",
			Message: "shutdown timeout must not be negative",
		})
	}
	if cfg.MaxBodyBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "proxy.max_body_bytes",
			Message: "max body bytes must not be negative",
		})
	}

	return errs
}

// validateProviders validates the upstream provider table.
func validateProviders(list []ProviderConfig) []FieldError {
	var errs []FieldError

	if len(list) == 0 {
		return []FieldError{{
			Field:   "providers",
			Message: "at least one provider is required",
		}}
	}

	seen := make(map[string]bool, len(list))

	for i, pc := range list {
		field := func(name string) string {
			return fmt.Sprintf("providers[%d].%s", i, name)
		}

		if pc.Name == "" {
			errs = append(errs, FieldError{
				Field:   field("name"),
				Message: "provider name is required",
			})
		} else {
			if strings.ContainsAny(pc.Name, " \t") {
				errs = append(errs, FieldError{
					Field:   field("name"),
					Message: "provider name must not contain whitespace",
				})
			}
			if seen[pc.Name] {
				errs = append(errs, FieldError{
					Field:   field("name"),
					Message: fmt.Sprintf("duplicate provider name %q", pc.Name),
				})
			}
			seen[pc.Name] = true
		}

		if pc.URL == "" {
			errs = append(errs, FieldError{
				Field:   field("url"),
				Message: "provider URL is required",
			})
		} else {
			u, err := url.Parse(pc.URL)
			switch {
			case err != nil:
				errs = append(errs, FieldError{
					Field:   field("url"),
					Message: fmt.Sprintf("invalid URL: %v", err),
				})
			case u.Scheme != "http" && u.Scheme != "https":
				errs = append(errs, FieldError{
					Field:   field("url"),
					Message: fmt.Sprintf("URL scheme must be http or https, got %q", u.Scheme),
				})
			case pc.Secret != "" && u.Scheme != "https":
				// Credentials never travel over cleartext.
				errs = append(errs, FieldError{
					Field:   field("url"),
					Message: "HTTPS is required when a secret is configured",
				})
			}
		}

		if _, err := providers.ParseAPIType(pc.APIType); err != nil {
			errs = append(errs, FieldError{
				Field:   field("api_type"),
				Message: err.Error(),
			})
		}

		modelSeen := make(map[string]bool, len(pc.Models))
		for j, m := range pc.Models {
			if m == "" {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("providers[%d].models[%d]", i, j),
					Message: "model name must not be empty",
				})
				continue
			}
			if modelSeen[m] {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("providers[%d].models[%d]", i, j),
					Message: fmt.Sprintf("duplicate model %q", m),
				})
			}
			modelSeen[m] = true
		}
	}

	return errs
}

// validateTelemetry validates logging and metrics configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	switch cfg.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid level %q (must be debug, info, warn, or error)", cfg.Logging.Level),
		})
	}

	switch cfg.Logging.Format {
	case "json", "text":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid format %q (must be json or text)", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, "/") {
		errs = append(errs, FieldError{
			Field:   "telemetry.metrics.path",
			Message: "metrics path must start with /",
		})
	}

	return errs
}

// validateAccessLog validates the access log configuration.
func validateAccessLog(cfg *AccessLogConfig) []FieldError {
	var errs []FieldError

	if !cfg.Enabled {
		return nil
	}

	if cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "access_log.path",
			Message: "database path is required when the access log is enabled",
		})
	}
	if cfg.RetentionDays < 0 {
		errs = append(errs, FieldError{
			Field:   "access_log.retention_days",
			Message: "retention days must not be negative",
		})
	}

	return errs
}
