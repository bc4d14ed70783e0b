package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aaronvstory/dashbash/internal/models"
)

func newState() *State {
	ui := &models.UIState{
		CollapsedCategories: map[string]bool{},
		CollapsedItems:      map[string]bool{},
	}
	return New(ui)
}

func TestToggleEdit_SingleEditPerCollection(t *testing.T) {
	s := newState()
	a := Ref{CategoryID: "c1", ItemKey: "i1"}
	b := Ref{CategoryID: "c1", ItemKey: "i2"}

	s.ToggleEdit(models.Roster, a)
	got, ok := s.Editing(models.Roster)
	require.True(t, ok)
	assert.Equal(t, a, got)

	// moving the edit elsewhere replaces it
	s.ToggleEdit(models.Roster, b)
	got, ok = s.Editing(models.Roster)
	require.True(t, ok)
	assert.Equal(t, b, got)

	// toggling the current item ends the edit
	s.ToggleEdit(models.Roster, b)
	_, ok = s.Editing(models.Roster)
	assert.False(t, ok)
}

func TestEditState_IndependentPerCollection(t *testing.T) {
	s := newState()
	s.ToggleEdit(models.Notes, Ref{CategoryID: "c1", ItemKey: "0"})
	s.ToggleEdit(models.Stores, Ref{CategoryID: "c2", ItemKey: "s1"})

	_, notesEditing := s.Editing(models.Notes)
	_, storesEditing := s.Editing(models.Stores)
	assert.True(t, notesEditing)
	assert.True(t, storesEditing)
}

func TestClearEditIf_OnlyMatchingRef(t *testing.T) {
	s := newState()
	a := Ref{CategoryID: "c1", ItemKey: "i1"}
	s.ToggleEdit(models.Roster, a)

	s.ClearEditIf(models.Roster, Ref{CategoryID: "c1", ItemKey: "other"})
	_, ok := s.Editing(models.Roster)
	assert.True(t, ok)

	s.ClearEditIf(models.Roster, a)
	_, ok = s.Editing(models.Roster)
	assert.False(t, ok)
}

func TestDrag_GrabRelease(t *testing.T) {
	s := newState()
	src := DragSource{Collection: models.Notes, CategoryID: "c1", Index: 2}
	s.Grab(src)

	got, ok := s.Release()
	require.True(t, ok)
	assert.Equal(t, src, got)

	// release with no matching grab is a no-op
	_, ok = s.Release()
	assert.False(t, ok)
}

func TestDrag_SecondGrabReplacesFirst(t *testing.T) {
	s := newState()
	s.Grab(DragSource{Collection: models.Notes, CategoryID: "c1", Index: 0})
	second := DragSource{Collection: models.Roster, CategoryID: "c2", Index: 1}
	s.Grab(second)

	got, ok := s.Dragging()
	require.True(t, ok)
	assert.Equal(t, second, got)
}

func TestCategoryCollapse_DefaultsExpanded(t *testing.T) {
	s := newState()
	assert.False(t, s.CategoryCollapsed(models.Stores, "c1"))
	s.ToggleCategoryCollapse(models.Stores, "c1")
	assert.True(t, s.CategoryCollapsed(models.Stores, "c1"))
	s.ToggleCategoryCollapse(models.Stores, "c1")
	assert.False(t, s.CategoryCollapsed(models.Stores, "c1"))
}

func TestItemCollapse_RosterDefaultsCollapsed(t *testing.T) {
	s := newState()
	assert.True(t, s.ItemCollapsed(models.Roster, "main", "a1"))
	assert.False(t, s.ItemCollapsed(models.Stores, "c1", "s1"))
	assert.False(t, s.ItemCollapsed(models.Notes, "c1", "0"))
}

func TestItemCollapse_FirstToggleLeavesVariantDefault(t *testing.T) {
	s := newState()
	// roster item starts collapsed, first toggle expands it
	s.ToggleItemCollapse(models.Roster, "main", "a1")
	assert.False(t, s.ItemCollapsed(models.Roster, "main", "a1"))

	// store item starts expanded, first toggle collapses it
	s.ToggleItemCollapse(models.Stores, "c1", "s1")
	assert.True(t, s.ItemCollapsed(models.Stores, "c1", "s1"))
}

func TestItemCollapse_ExplicitPreferenceSurvivesRebind(t *testing.T) {
	ui := &models.UIState{
		CollapsedCategories: map[string]bool{},
		CollapsedItems:      map[string]bool{},
	}
	s := New(ui)
	s.ToggleItemCollapse(models.Roster, "main", "a1")
	s.ToggleEdit(models.Roster, Ref{CategoryID: "main", ItemKey: "a1"})
	s.Grab(DragSource{Collection: models.Roster, CategoryID: "main", Index: 0})

	// rebinding (load) keeps collapse prefs, drops edit and drag
	s.Rebind(ui)
	assert.False(t, s.ItemCollapsed(models.Roster, "main", "a1"))
	_, editing := s.Editing(models.Roster)
	_, dragging := s.Dragging()
	assert.False(t, editing)
	assert.False(t, dragging)
}
