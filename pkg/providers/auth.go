package providers

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// InjectAuth sets the Authorization header for an outbound call to the given
// provider. It is a pure function of (api_type, secret): the same provider
// always yields the same header kind, and a provider without a secret yields
// no header at all. The secret is never logged or persisted.
//
// Header by dialect:
//   - OpenAI: "Authorization: Bearer <secret>".
//   - Ollama with a "user:pass" secret: "Authorization: Basic base64(secret)",
//     the scheme remote Ollama deployments behind a basic-auth proxy expect.
//   - Ollama with a bare secret (no colon): "Authorization: Bearer <secret>".
func InjectAuth(p *Provider, header http.Header) {
	// The inbound leg is unauthenticated; whatever the local caller sent
	// must not leak upstream.
	header.Del("Authorization")

	if p.Secret == "" {
		return
	}

	switch p.Type {
	case APITypeOpenAI:
		header.Set("Authorization", "Bearer "+p.Secret)
	case APITypeOllama:
		if strings.Contains(p.Secret, ":") {
			encoded := base64.StdEncoding.EncodeToString([]byte(p.Secret))
			header.Set("Authorization", "Basic "+encoded)
		} else {
			header.Set("Authorization", "Bearer "+p.Secret)
		}
	}
}
