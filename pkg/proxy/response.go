package proxy

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/ollamux/ollamux/pkg/providers"
)

// errorBody is the JSON error shape the Ollama API uses, so clients built
// against Ollama parse proxy-synthesized failures the same way as real ones.
type errorBody struct {
	Error string `json:"error"`
}

// WriteError maps a pipeline error to an HTTP status and writes a JSON error
// body. It must only be called before any response bytes have been written.
func WriteError(w http.ResponseWriter, err error) {
	status := StatusForError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(errorBody{Error: err.Error()})
}

// StatusForError maps a pipeline error to an HTTP status code. Resolution
// failures use 404 to match Ollama's model-not-found convention.
func StatusForError(err error) int {
	var (
		unknownProvider *providers.UnknownProviderError
		unknownModel    *providers.UnknownModelError
		malformed       *MalformedRequestError
		unreachable     *UpstreamUnreachableError
	)

	switch {
	case errors.As(err, &unknownProvider), errors.As(err, &unknownModel):
		return http.StatusNotFound
	case errors.As(err, &malformed):
		return http.StatusBadRequest
	case errors.As(err, &unreachable):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
