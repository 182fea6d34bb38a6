package providers

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Registry is the immutable provider table. It is built once from validated
// configuration before the first request is served and is safe for
// unsynchronized concurrent reads.
type Registry struct {
	// providers preserves configuration order, which is also the order
	// /api/tags reports the catalog in.
	providers []*Provider

	byName map[string]*Provider
}

// NewRegistry builds a provider table from the given descriptors.
// It rejects an empty table and duplicate provider names; both are
// configuration errors and fatal at startup.
func NewRegistry(list []*Provider) (*Registry, error) {
	if len(list) == 0 {
		return nil, fmt.Errorf("provider table is empty")
	}

	r := &Registry{
		providers: make([]*Provider, 0, len(list)),
		byName:    make(map[string]*Provider, len(list)),
	}

	for _, p := range list {
		if p.Name == "" {
			return nil, fmt.Errorf("provider with empty name")
		}
		if _, exists := r.byName[p.Name]; exists {
			return nil, &DuplicateProviderError{Name: p.Name}
		}
		r.byName[p.Name] = p
		r.providers = append(r.providers, p)
	}

	return r, nil
}

// Get returns the provider with the given name.
func (r *Registry) Get(name string) (*Provider, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// Providers returns the table in configuration order. The returned slice is
// shared; callers must not modify it.
func (r *Registry) Providers() []*Provider {
	return r.providers
}

// Len returns the number of configured providers.
func (r *Registry) Len() int {
	return len(r.providers)
}

// Resolve maps a tagged model string to its owning provider and the
// provider-native model name.
//
// Resolution tries each provider's "<name>-" prefix against the input with
// case-sensitive exact-prefix matching; no fuzzy matching. If several
// provider names prefix the same string, the longest one wins, so a table
// containing both "ai" and "ai2" resolves "ai2-model" to "ai2".
//
// Failures:
//   - *UnknownProviderError when no provider name prefixes the input.
//   - *UnknownModelError when the provider is identified but declares a
//     model list that does not contain the derived native name. A provider
//     with an empty model list accepts any native name (the upstream is the
//     authority for its own catalog).
func (r *Registry) Resolve(model string) (*Provider, string, error) {
	var match *Provider
	for _, p := range r.providers {
		if !strings.HasPrefix(model, p.Name+"-") {
			continue
		}
		if match == nil || len(p.Name) > len(match.Name) {
			match = p
		}
	}

	if match == nil {
		return nil, "", &UnknownProviderError{Model: model}
	}

	native := model[len(match.Name)+1:]
	if native == "" {
		return nil, "", &UnknownModelError{Provider: match.Name, Model: native}
	}

	if len(match.Models) > 0 && !match.HasModel(native) {
		return nil, "", &UnknownModelError{Provider: match.Name, Model: native}
	}

	return match, native, nil
}

// Holder provides atomic access to the current Registry. The table itself is
// immutable; runtime reconfiguration replaces the whole table in one swap, so
// in-flight requests keep the table they resolved against and new requests
// see the new one.
type Holder struct {
	current atomic.Pointer[Registry]
}

// NewHolder creates a holder with the given initial table.
func NewHolder(r *Registry) *Holder {
	h := &Holder{}
	h.current.Store(r)
	return h
}

// Load returns the current table.
func (h *Holder) Load() *Registry {
	return h.current.Load()
}

// Swap atomically replaces the table.
func (h *Holder) Swap(r *Registry) {
	h.current.Store(r)
}
