// Package handlers contains the HTTP handlers mounted on the listener: the
// relay endpoint for model requests, the aggregated model catalog, and the
// health and version endpoints Ollama clients probe.
package handlers
