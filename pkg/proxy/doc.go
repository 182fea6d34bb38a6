// Package proxy implements the request pipeline: classify an inbound
// request, resolve its tagged model to a provider, rewrite the body's model
// field to the native name, inject the provider's credential, and relay the
// upstream response downstream while preserving streaming boundaries.
package proxy
