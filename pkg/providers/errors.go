package providers

import "fmt"

// UnknownProviderError is returned by Resolve when no configured provider
// name is a "<name>-" prefix of the requested model string.
type UnknownProviderError struct {
	// Model is the tagged model string that failed to resolve.
	Model string
}

// Error implements the error interface.
func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("no provider owns model %q", e.Model)
}

// UnknownModelError is returned by Resolve when the provider is identified
// but the derived native model is not in its declared model list.
type UnknownModelError struct {
	// Provider is the name of the provider that matched the prefix.
	Provider string

	// Model is the derived native model name.
	Model string
}

// Error implements the error interface.
func (e *UnknownModelError) Error() string {
	return fmt.Sprintf("provider %q does not serve model %q", e.Provider, e.Model)
}

// DuplicateProviderError is returned by NewRegistry when two providers share
// the same name. Detected only at table construction, never while serving.
type DuplicateProviderError struct {
	Name string
}

// Error implements the error interface.
func (e *DuplicateProviderError) Error() string {
	return fmt.Sprintf("duplicate provider name %q", e.Name)
}
