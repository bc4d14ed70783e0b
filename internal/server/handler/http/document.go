// Package http provides HTTP handlers for the unified document: snapshot,
// import, export, reset and the derived-status feed.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/aaronvstory/dashbash/internal/models"
	"github.com/aaronvstory/dashbash/internal/repository"
	"github.com/aaronvstory/dashbash/internal/ticker"
)

// DocumentService defines the document-level operations required by the
// DocumentHandler.
type DocumentService interface {
	// Snapshot returns a deep copy of the current document.
	Snapshot() (*models.Document, error)
	// Export renders the document for download, returning the suggested
	// filename and the file body.
	Export() (string, []byte, error)
	// Import parses and applies a raw JSON payload atomically.
	Import(ctx context.Context, payload []byte) error
	// ClearAll resets every collection to its seed defaults.
	ClearAll() error
}

// StatusSource supplies the latest derived-status snapshot.
type StatusSource interface {
	Snapshot() ticker.Snapshot
}

// DocumentHandler handles HTTP requests for the document as a whole.
type DocumentHandler struct {
	Service  DocumentService
	Statuses StatusSource
}

// Get handles GET /api/document, returning the full document.
func (h *DocumentHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, err := h.Service.Snapshot()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

// Export handles GET /api/document/export, returning the document as a
// downloadable timestamped JSON file.
func (h *DocumentHandler) Export(w http.ResponseWriter, r *http.Request) {
	name, data, err := h.Service.Export()
	if err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="`+name+`"`)
	_, _ = w.Write(data)
}

// Import handles POST /api/document/import. The body is the raw exported
// JSON; a payload that fails to parse or is not a document object is
// rejected and the prior state retained.
func (h *DocumentHandler) Import(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	if err := h.Service.Import(r.Context(), payload); err != nil {
		if errors.Is(err, repository.ErrImport) {
			http.Error(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Clear handles DELETE /api/document, resetting everything to defaults.
func (h *DocumentHandler) Clear(w http.ResponseWriter, r *http.Request) {
	if err := h.Service.ClearAll(); err != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Status handles GET /api/statuses, returning the latest derived-status
// snapshot for every visible store and roster timer.
func (h *DocumentHandler) Status(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(h.Statuses.Snapshot())
}
