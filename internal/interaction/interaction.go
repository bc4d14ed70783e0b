// Package interaction tracks which item is mid-edit, which is mid-drag and
// what is collapsed. It never owns domain data: everything here is a
// reference by collection, category id and item key, so a domain delete
// leaves at worst a stale reference that reads as "not found".
//
// Only collapse preferences are persisted (through models.UIState); edit
// and drag state reset to "nothing active" on every load.
package interaction

import (
	"sync"

	"github.com/aaronvstory/dashbash/internal/models"
)

// Ref addresses one item: category id plus the item's id, or its index
// rendered as a string for the index-scoped variants.
type Ref struct {
	CategoryID string `json:"categoryId"`
	ItemKey    string `json:"itemKey"`
}

// DragSource records the grab point of the single active drag.
type DragSource struct {
	Collection models.CollectionName `json:"collection"`
	CategoryID string                `json:"categoryId"`
	Index      int                   `json:"index"`
}

// defaultItemCollapsed is the per-variant collapse default policy. Roster
// items read collapsed unless an explicit preference exists; every other
// variant defaults expanded. No other variant shares the roster default,
// so the asymmetry stays an explicit table rather than anything inferred.
var defaultItemCollapsed = map[models.CollectionName]bool{
	models.Roster: true,
}

// State is the transient interaction state plus an owned view over the
// persisted collapse preferences.
type State struct {
	mu      sync.Mutex
	ui      *models.UIState
	editing map[models.CollectionName]*Ref
	drag    *DragSource
}

// New creates interaction state over the given persisted UI preferences.
// Edit and drag start out inactive.
func New(ui *models.UIState) *State {
	return &State{
		ui:      ui,
		editing: make(map[models.CollectionName]*Ref),
	}
}

// Rebind swaps the underlying persisted preferences (after load or import)
// and resets all transient state.
func (s *State) Rebind(ui *models.UIState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ui = ui
	s.editing = make(map[models.CollectionName]*Ref)
	s.drag = nil
}

// ToggleEdit flips edit mode for the item. At most one item per collection
// is under edit; toggling a second item moves the edit there.
func (s *State) ToggleEdit(coll models.CollectionName, ref Ref) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.editing[coll]; cur != nil && *cur == ref {
		delete(s.editing, coll)
		return
	}
	s.editing[coll] = &ref
}

// Editing returns the item under edit for the collection, or false.
func (s *State) Editing(coll models.CollectionName) (Ref, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.editing[coll]; cur != nil {
		return *cur, true
	}
	return Ref{}, false
}

// ClearEditIf drops the edit state when it references the given item,
// e.g. after that item is deleted.
func (s *State) ClearEditIf(coll models.CollectionName, ref Ref) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur := s.editing[coll]; cur != nil && *cur == ref {
		delete(s.editing, coll)
	}
}

// Grab starts a drag. Exactly one drag is active document-wide; a second
// grab replaces the first.
func (s *State) Grab(src DragSource) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drag = &src
}

// Release ends the active drag and returns its source. A release with no
// matching grab reports false and changes nothing.
func (s *State) Release() (DragSource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return DragSource{}, false
	}
	src := *s.drag
	s.drag = nil
	return src, true
}

// Dragging reports the active drag source, if any.
func (s *State) Dragging() (DragSource, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.drag == nil {
		return DragSource{}, false
	}
	return *s.drag, true
}

// CategoryKey is the persisted collapse key for a category.
func CategoryKey(coll models.CollectionName, categoryID string) string {
	return string(coll) + "/" + categoryID
}

// ItemKey is the persisted collapse key for an item.
func ItemKey(coll models.CollectionName, categoryID, itemKey string) string {
	return string(coll) + "/" + categoryID + "-" + itemKey
}

// ToggleCategoryCollapse flips the collapse preference for a category.
func (s *State) ToggleCategoryCollapse(coll models.CollectionName, categoryID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := CategoryKey(coll, categoryID)
	s.ui.CollapsedCategories[key] = !s.ui.CollapsedCategories[key]
}

// CategoryCollapsed reports whether a category is collapsed. Categories
// default expanded.
func (s *State) CategoryCollapsed(coll models.CollectionName, categoryID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ui.CollapsedCategories[CategoryKey(coll, categoryID)]
}

// ToggleItemCollapse flips the collapse preference for an item. The first
// toggle moves the item off its variant default.
func (s *State) ToggleItemCollapse(coll models.CollectionName, categoryID, itemKey string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := ItemKey(coll, categoryID, itemKey)
	if cur, ok := s.ui.CollapsedItems[key]; ok {
		s.ui.CollapsedItems[key] = !cur
		return
	}
	s.ui.CollapsedItems[key] = !defaultItemCollapsed[coll]
}

// ItemCollapsed reports whether an item is collapsed, falling back to the
// variant's default policy when no explicit preference exists.
func (s *State) ItemCollapsed(coll models.CollectionName, categoryID, itemKey string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.ui.CollapsedItems[ItemKey(coll, categoryID, itemKey)]; ok {
		return cur
	}
	return defaultItemCollapsed[coll]
}
