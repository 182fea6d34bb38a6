package providers

import (
	"fmt"
	"strings"
)

// APIType is the dialect discriminator for an upstream provider. It governs
// both the request/response shape the upstream speaks and the authentication
// mechanism used by InjectAuth. The set is closed: every switch over APIType
// handles exactly these values.
type APIType string

const (
	// APITypeOllama is a remote native-Ollama deployment (/api/chat, NDJSON
	// streaming, Basic or Bearer credentials).
	APITypeOllama APIType = "ollama"

	// APITypeOpenAI is an OpenAI-compatible endpoint (/v1/chat/completions,
	// SSE streaming, Bearer credentials).
	APITypeOpenAI APIType = "openai"
)

// ParseAPIType parses a configuration string into an APIType.
// Matching is case-insensitive so config files may write "Ollama" or "OpenAI".
func ParseAPIType(s string) (APIType, error) {
	switch strings.ToLower(s) {
	case "ollama":
		return APITypeOllama, nil
	case "openai":
		return APITypeOpenAI, nil
	default:
		return "", fmt.Errorf("unknown api_type %q (must be %q or %q)", s, APITypeOllama, APITypeOpenAI)
	}
}

// Provider is the immutable connection descriptor for one upstream backend.
// Instances are constructed at startup and never mutated while serving.
type Provider struct {
	// Name uniquely identifies the provider within the table and is the
	// prefix of every tagged model name it owns.
	Name string

	// BaseURL is the upstream base endpoint. The inbound request path and
	// query are appended to it unchanged. Must be HTTPS when Secret is set.
	BaseURL string

	// Secret is the credential material for the upstream, or empty for an
	// unauthenticated upstream. Never logged.
	Secret string

	// Type selects the upstream dialect and auth scheme.
	Type APIType

	// Models lists the native model identifiers this provider serves.
	// An empty list means the catalog is unknown and any native name is
	// passed through for the upstream to accept or reject.
	Models []string
}

// HasModel reports whether native is in the provider's declared model list.
// Matching is case-sensitive and exact.
func (p *Provider) HasModel(native string) bool {
	for _, m := range p.Models {
		if m == native {
			return true
		}
	}
	return false
}

// TaggedModels returns the display names for every declared model, in
// declaration order. Tagged names are derived on demand and never stored.
func (p *Provider) TaggedModels() []string {
	tagged := make([]string, len(p.Models))
	for i, m := range p.Models {
		tagged[i] = TaggedName(p.Name, m)
	}
	return tagged
}

// TaggedName builds the caller-facing "<provider>-<model>" display name for a
// (provider, native model) pair.
func TaggedName(provider, native string) string {
	return provider + "-" + native
}
