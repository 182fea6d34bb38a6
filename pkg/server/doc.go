// Package server composes the listener: it mounts the relay endpoint,
// catalog, health, version, and metrics handlers behind the middleware
// chain and manages graceful start and stop.
package server
