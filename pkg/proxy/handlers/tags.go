package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ollamux/ollamux/pkg/providers"
)

// taggedModel is one entry in the local model catalog, shaped like an
// Ollama /api/tags record so existing clients can list models unchanged.
type taggedModel struct {
	Name       string    `json:"name"`
	Model      string    `json:"model"`
	ModifiedAt time.Time `json:"modified_at"`
	Size       int64     `json:"size"`
	Digest     string    `json:"digest"`
}

type tagsResponse struct {
	Models []taggedModel `json:"models"`
}

// TagsHandler serves GET /api/tags with the tagged names of every declared
// model across all configured providers. Providers with an empty model list
// accept arbitrary pass-through names and therefore contribute no entries.
type TagsHandler struct {
	holder *providers.Holder
}

// NewTagsHandler creates the catalog handler.
func NewTagsHandler(holder *providers.Holder) *TagsHandler {
	return &TagsHandler{holder: holder}
}

// ServeHTTP writes the aggregated catalog.
func (h *TagsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	reg := h.holder.Load()

	resp := tagsResponse{Models: []taggedModel{}}
	for _, p := range reg.Providers() {
		for _, tagged := range p.TaggedModels() {
			resp.Models = append(resp.Models, taggedModel{
				Name:  tagged,
				Model: tagged,
			})
		}
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}
