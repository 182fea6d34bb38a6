// Package middleware provides the HTTP middleware chain for the proxy
// listener: request IDs, structured access logging, and panic recovery.
package middleware
