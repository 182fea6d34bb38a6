// Package logging configures the process-wide structured logger and keeps
// provider credentials out of log output.
//
// The proxy holds secrets for every configured provider, so anything that
// might carry a raw Authorization value (headers, config dumps, upstream
// error bodies) passes through the redactor before reaching a handler.
package logging
