package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/aaronvstory/dashbash/internal/collection"
	"github.com/aaronvstory/dashbash/internal/interaction"
	"github.com/aaronvstory/dashbash/internal/models"
	"github.com/aaronvstory/dashbash/internal/service"
)

// CollectionService defines the generic collection operations required by
// the CollectionHandler. One primitive per verb, dispatched on the
// collection name.
type CollectionService interface {
	AddCategory(coll models.CollectionName, name string) (string, error)
	RenameCategory(coll models.CollectionName, categoryID, name string) error
	DeleteCategory(coll models.CollectionName, categoryID string) error
	AddItem(coll models.CollectionName, categoryID string) (string, error)
	UpdateItemField(coll models.CollectionName, categoryID, itemKey, field string, value any) error
	DeleteItem(coll models.CollectionName, categoryID, itemKey string) error
	Reorder(coll models.CollectionName, categoryID string, from, to int) error
	Move(coll models.CollectionName, sourceCategoryID string, sourceIndex int, targetCategoryID string, targetIndex int) error
	AddMessage(text string)
	Grab(src interaction.DragSource)
	Release(targetCategoryID string, targetIndex int) error
	ToggleCategoryCollapse(coll models.CollectionName, categoryID string)
	ToggleItemCollapse(coll models.CollectionName, categoryID, itemKey string)
	ToggleEdit(coll models.CollectionName, categoryID, itemKey string)
	StartTimer(categoryID, accountID string)
	ResetTimer(categoryID, accountID string)
}

// CollectionHandler handles HTTP requests against the widget collections.
type CollectionHandler struct {
	Service CollectionService
}

func collParam(r *http.Request) models.CollectionName {
	return models.CollectionName(chi.URLParam(r, "collection"))
}

// writeOpError maps a service error onto an HTTP status. Invariant
// violations are client errors, anything else is internal.
func writeOpError(w http.ResponseWriter, err error) {
	switch {
	case err == nil:
		w.WriteHeader(http.StatusNoContent)
	case errors.Is(err, service.ErrUnknownCollection):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, collection.ErrLastCategory):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, service.ErrInvalidEmail), errors.Is(err, service.ErrDuplicateEmail):
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
	default:
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

// AddCategory handles POST /api/collections/{collection}/categories.
// It expects a JSON body with a "name" field and returns the new id.
func (h *CollectionHandler) AddCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	id, err := h.Service.AddCategory(collParam(r), req.Name)
	if err != nil {
		writeOpError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"id": id})
}

// RenameCategory handles PUT .../categories/{categoryID}.
func (h *CollectionHandler) RenameCategory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	writeOpError(w, h.Service.RenameCategory(collParam(r), chi.URLParam(r, "categoryID"), req.Name))
}

// DeleteCategory handles DELETE .../categories/{categoryID}. Deleting the
// last notes category is rejected with 409.
func (h *CollectionHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	writeOpError(w, h.Service.DeleteCategory(collParam(r), chi.URLParam(r, "categoryID")))
}

// AddItem handles POST .../categories/{categoryID}/items, returning the
// new item's key. An unknown category creates nothing and answers 404.
func (h *CollectionHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	key, err := h.Service.AddItem(collParam(r), chi.URLParam(r, "categoryID"))
	if err != nil {
		writeOpError(w, err)
		return
	}
	if key == "" {
		http.Error(w, "category not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(map[string]string{"key": key})
}

// UpdateItem handles PUT .../items/{itemKey}. It expects a JSON body with
// "field" and "value"; roster email writes can fail validation with 422.
func (h *CollectionHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Field string `json:"field"`
		Value any    `json:"value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	writeOpError(w, h.Service.UpdateItemField(collParam(r), chi.URLParam(r, "categoryID"), chi.URLParam(r, "itemKey"), req.Field, req.Value))
}

// DeleteItem handles DELETE .../items/{itemKey}.
func (h *CollectionHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	writeOpError(w, h.Service.DeleteItem(collParam(r), chi.URLParam(r, "categoryID"), chi.URLParam(r, "itemKey")))
}

// Reorder handles POST .../categories/{categoryID}/reorder with "from"
// and "to" indexes.
func (h *CollectionHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req struct {
		From int `json:"from"`
		To   int `json:"to"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	writeOpError(w, h.Service.Reorder(collParam(r), chi.URLParam(r, "categoryID"), req.From, req.To))
}

// Move handles POST /api/collections/{collection}/move, relocating an item
// across categories.
func (h *CollectionHandler) Move(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SourceCategoryID string `json:"sourceCategoryId"`
		SourceIndex      int    `json:"sourceIndex"`
		TargetCategoryID string `json:"targetCategoryId"`
		TargetIndex      int    `json:"targetIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	writeOpError(w, h.Service.Move(collParam(r), req.SourceCategoryID, req.SourceIndex, req.TargetCategoryID, req.TargetIndex))
}

// AddMessage handles POST /api/messages with a "text" field. Messages are
// a single flat list with no categories.
func (h *CollectionHandler) AddMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	h.Service.AddMessage(req.Text)
	w.WriteHeader(http.StatusNoContent)
}

// Grab handles POST /api/drag, starting a drag from the given source.
func (h *CollectionHandler) Grab(w http.ResponseWriter, r *http.Request) {
	var src interaction.DragSource
	if err := json.NewDecoder(r.Body).Decode(&src); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	h.Service.Grab(src)
	w.WriteHeader(http.StatusNoContent)
}

// Drop handles POST /api/drop, releasing the active drag onto a target.
func (h *CollectionHandler) Drop(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TargetCategoryID string `json:"targetCategoryId"`
		TargetIndex      int    `json:"targetIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return
	}
	writeOpError(w, h.Service.Release(req.TargetCategoryID, req.TargetIndex))
}

// ToggleCategoryCollapse handles POST .../categories/{categoryID}/collapse.
func (h *CollectionHandler) ToggleCategoryCollapse(w http.ResponseWriter, r *http.Request) {
	h.Service.ToggleCategoryCollapse(collParam(r), chi.URLParam(r, "categoryID"))
	w.WriteHeader(http.StatusNoContent)
}

// ToggleItemCollapse handles POST .../items/{itemKey}/collapse.
func (h *CollectionHandler) ToggleItemCollapse(w http.ResponseWriter, r *http.Request) {
	h.Service.ToggleItemCollapse(collParam(r), chi.URLParam(r, "categoryID"), chi.URLParam(r, "itemKey"))
	w.WriteHeader(http.StatusNoContent)
}

// ToggleEdit handles POST .../items/{itemKey}/edit. Edit state is
// transient and never persisted.
func (h *CollectionHandler) ToggleEdit(w http.ResponseWriter, r *http.Request) {
	h.Service.ToggleEdit(collParam(r), chi.URLParam(r, "categoryID"), chi.URLParam(r, "itemKey"))
	w.WriteHeader(http.StatusNoContent)
}

// StartTimer handles POST /api/roster/{categoryID}/{accountID}/timer,
// starting the 24-hour reuse cooldown.
func (h *CollectionHandler) StartTimer(w http.ResponseWriter, r *http.Request) {
	h.Service.StartTimer(chi.URLParam(r, "categoryID"), chi.URLParam(r, "accountID"))
	w.WriteHeader(http.StatusNoContent)
}

// ResetTimer handles DELETE /api/roster/{categoryID}/{accountID}/timer.
func (h *CollectionHandler) ResetTimer(w http.ResponseWriter, r *http.Request) {
	h.Service.ResetTimer(chi.URLParam(r, "categoryID"), chi.URLParam(r, "accountID"))
	w.WriteHeader(http.StatusNoContent)
}

// parseIndex reads an integer URL parameter, reporting false on garbage.
func parseIndex(r *http.Request, name string) (int, bool) {
	i, err := strconv.Atoi(chi.URLParam(r, name))
	return i, err == nil
}
