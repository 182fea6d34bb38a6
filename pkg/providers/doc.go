// Package providers defines the upstream provider table and the model-name
// resolution used to pick an upstream for each request.
//
// A Provider describes one remote LLM backend: its base URL, optional
// credential, API dialect, and the model names it serves. A Registry is
// built from configuration before the listener starts and is immutable once
// built; concurrent reads need no synchronization. Reconfiguration replaces
// the whole table through a Holder swap, never mutates one in place.
//
// Callers address models by tagged name, "<provider>-<model>". Resolve strips
// the provider prefix and returns the owning Provider together with the
// provider-native model name:
//
//	provider, native, err := registry.Resolve("aliyun-qwen3-max")
//	// provider.Name == "aliyun", native == "qwen3-max"
//
// When provider names overlap (one is a prefix of another), the longest
// matching prefix wins, so resolution is deterministic for any fixed table.
package providers
