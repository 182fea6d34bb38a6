package proxy

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ollamux/ollamux/pkg/providers"
)

// hopByHopHeaders are connection-level headers that must not be forwarded
// on either leg.
var hopByHopHeaders = []string{
	"Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Proxy-Connection",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
}

// OutboundCall is the fully prepared upstream request for one inbound
// request: resolved provider, rewritten URL and body, and injected
// credential header. It exists only for the duration of one relay.
type OutboundCall struct {
	// Provider is the resolved upstream provider.
	Provider *providers.Provider

	// NativeModel is the model name sent upstream.
	NativeModel string

	// TaggedModel is the model name as the client sent it.
	TaggedModel string

	// Method and URL describe the upstream request line.
	Method string
	URL    string

	// Header is the outbound header set, already authenticated.
	Header http.Header

	// Body is the rewritten request body.
	Body []byte
}

// Router builds OutboundCalls from inbound requests against a provider
// table. It performs no retries and no provider fallback.
type Router struct{}

// NewRouter creates a Router.
func NewRouter() *Router {
	return &Router{}
}

// Route classifies the inbound request, rewrites its model field to the
// provider-native name, and prepares the upstream call. The body has already
// been read by the caller so the inbound connection can be released early.
//
// The upstream URL is the provider's base URL joined with the original
// request path, query string preserved. The upstream never sees the tagged
// model name.
func (rt *Router) Route(reg *providers.Registry, r *http.Request, body []byte) (*OutboundCall, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &MalformedRequestError{Reason: "request body is not a JSON object"}
	}

	rawModel, ok := fields["model"]
	if !ok {
		return nil, &MalformedRequestError{Reason: "missing model field"}
	}

	var tagged string
	if err := json.Unmarshal(rawModel, &tagged); err != nil {
		return nil, &MalformedRequestError{Reason: "model field is not a string"}
	}
	if tagged == "" {
		return nil, &MalformedRequestError{Reason: "model field is empty"}
	}

	provider, native, err := reg.Resolve(tagged)
	if err != nil {
		return nil, err
	}

	nativeJSON, err := json.Marshal(native)
	if err != nil {
		return nil, err
	}
	fields["model"] = nativeJSON

	rewritten, err := json.Marshal(fields)
	if err != nil {
		return nil, err
	}

	header := cloneForwardableHeader(r.Header)
	providers.InjectAuth(provider, header)

	return &OutboundCall{
		Provider:    provider,
		NativeModel: native,
		TaggedModel: tagged,
		Method:      r.Method,
		URL:         joinUpstreamURL(provider.BaseURL, r.URL.Path, r.URL.RawQuery),
		Header:      header,
		Body:        rewritten,
	}, nil
}

// joinUpstreamURL joins the provider base URL with the inbound request path
// and query string.
func joinUpstreamURL(base, path, rawQuery string) string {
	u := strings.TrimRight(base, "/") + path
	if rawQuery != "" {
		u += "?" + rawQuery
	}
	return u
}

// cloneForwardableHeader copies the inbound headers minus hop-by-hop
// headers, Host, and Content-Length. Content-Length is recomputed from the
// rewritten body by the HTTP client.
func cloneForwardableHeader(src http.Header) http.Header {
	dst := src.Clone()
	for _, h := range hopByHopHeaders {
		dst.Del(h)
	}
	dst.Del("Host")
	dst.Del("Content-Length")
	return dst
}
