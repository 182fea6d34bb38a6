// Package metrics exposes Prometheus instrumentation for the proxy.
//
// All metrics live in a dedicated registry so tests can build isolated
// collectors, and every series is labelled by provider so operators can
// tell upstream problems apart per backend.
package metrics
