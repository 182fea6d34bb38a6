// Ollamux is a local reverse proxy that exposes the native Ollama API and
// routes each request to one of several remote LLM backends.
//
// Clients connect to a fixed local endpoint with no credentials; ollamux
// picks the upstream provider from the model name prefix, rewrites the model
// field to the provider-native name, attaches the provider's credential, and
// relays the response stream back unchanged.
//
// Usage:
//
//	# Start the proxy with the default configuration file
//	ollamux run
//
//	# Start with a custom configuration file
//	ollamux run --config /etc/ollamux/config.yaml
//
//	# Validate a configuration file without serving
//	ollamux validate --config config.yaml
//
//	# Write a sample configuration file
//	ollamux config init
//
//	# Show version information
//	ollamux version
package main

func main() {
	Execute()
}
