package proxy

import "fmt"

// MalformedRequestError indicates an inbound request body that cannot be
// routed, such as unparseable JSON or a missing model field.
type MalformedRequestError struct {
	// Reason describes what was wrong with the request.
	Reason string
}

// Error returns a descriptive error message.
func (e *MalformedRequestError) Error() string {
	return fmt.Sprintf("malformed request: %s", e.Reason)
}

// UpstreamUnreachableError indicates the upstream connection could not be
// established.
type UpstreamUnreachableError struct {
	// Provider is the name of the unreachable provider.
	Provider string

	// Cause is the underlying transport error.
	Cause error
}

// Error returns a descriptive error message.
func (e *UpstreamUnreachableError) Error() string {
	return fmt.Sprintf("provider %q unreachable: %v", e.Provider, e.Cause)
}

// Unwrap returns the underlying transport error.
func (e *UpstreamUnreachableError) Unwrap() error {
	return e.Cause
}
