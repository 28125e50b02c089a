package handler

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"net/http"
	"sync"

	"sigs.k8s.io/yaml"

	"github.com/pokemania/pokemania/internal/api/middleware"
	"github.com/pokemania/pokemania/internal/api/response"
)

// OpenAPIHandler serves the API document as JSON with an ETag so clients can
// revalidate instead of downloading it again.
type OpenAPIHandler struct {
	rawYAML []byte

	once     sync.Once
	document []byte
	etag     string
	err      error
}

// NewOpenAPIHandler creates a handler for the given YAML document. Conversion
// happens on the first request.
func NewOpenAPIHandler(yamlSpec []byte) *OpenAPIHandler {
	return &OpenAPIHandler{rawYAML: yamlSpec}
}

func (h *OpenAPIHandler) load() {
	h.document, h.err = yaml.YAMLToJSON(h.rawYAML)
	if h.err != nil {
		return
	}
	sum := sha256.Sum256(h.document)
	h.etag = `"` + hex.EncodeToString(sum[:8]) + `"`
}

// ServeHTTP writes the cached JSON document, or 304 when the client's
// If-None-Match matches the current ETag.
func (h *OpenAPIHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.once.Do(h.load)

	if h.err != nil {
		slog.Error("openapi document is not valid YAML", "error", h.err)
		response.Err(w, http.StatusInternalServerError, "INTERNAL_ERROR", "OpenAPI document could not be rendered", middleware.GetRequestID(r.Context()))
		return
	}

	w.Header().Set("ETag", h.etag)
	w.Header().Set("Cache-Control", "public, max-age=300")
	if r.Header.Get("If-None-Match") == h.etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(h.document); err != nil {
		slog.Error("failed to write openapi document", "error", err)
	}
}
