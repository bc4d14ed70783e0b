package service

import (
	"strconv"

	"github.com/aaronvstory/dashbash/internal/collection"
	"github.com/aaronvstory/dashbash/internal/identity"
	"github.com/aaronvstory/dashbash/internal/interaction"
	"github.com/aaronvstory/dashbash/internal/models"
)

// The generic operation surface: one move/reorder/CRUD primitive per verb,
// dispatched on the collection name. Each widget's handlers are thin
// adapters over these. Unknown category or item references are silent
// no-ops throughout; only real invariant violations return errors.

// AddCategory appends a new category and returns its id. Messages are a
// single implicit category and accept no more.
func (s *DocumentService) AddCategory(coll models.CollectionName, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cat string
	switch coll {
	case models.Stores:
		cat = s.doc.Collections.Stores.AddCategory(name).ID
	case models.Notes:
		cat = s.doc.Collections.Notes.AddCategory(name).ID
	case models.Roster:
		cat = s.doc.Collections.Roster.AddCategory(name).ID
	default:
		return "", ErrUnknownCollection
	}
	s.scheduleSave()
	return cat, nil
}

// RenameCategory sets a category's name. Unknown ids are silent no-ops.
func (s *DocumentService) RenameCategory(coll models.CollectionName, categoryID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch coll {
	case models.Stores:
		s.doc.Collections.Stores.RenameCategory(categoryID, name)
	case models.Notes:
		s.doc.Collections.Notes.RenameCategory(categoryID, name)
	case models.Roster:
		s.doc.Collections.Roster.RenameCategory(categoryID, name)
	default:
		return ErrUnknownCollection
	}
	s.scheduleSave()
	return nil
}

// DeleteCategory removes a category and its items. The notes collection
// requires at least one category; deleting the last one is rejected with
// collection.ErrLastCategory and nothing changes.
func (s *DocumentService) DeleteCategory(coll models.CollectionName, categoryID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch coll {
	case models.Stores:
		s.doc.Collections.Stores.DeleteCategory(categoryID)
	case models.Notes:
		if len(s.doc.Collections.Notes) == 1 && s.doc.Collections.Notes[0].ID == categoryID {
			return collection.ErrLastCategory
		}
		s.doc.Collections.Notes.DeleteCategory(categoryID)
	case models.Roster:
		s.doc.Collections.Roster.DeleteCategory(categoryID)
	default:
		return ErrUnknownCollection
	}
	s.scheduleSave()
	return nil
}

// AddItem appends a fresh item with variant defaults to the category and
// returns its key (id, or index for the index-scoped variants). A new note
// immediately enters edit mode, matching how notes are typed in.
func (s *DocumentService) AddItem(coll models.CollectionName, categoryID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var key string
	switch coll {
	case models.Stores:
		store := models.Store{ID: identity.NewID()}
		if !s.doc.Collections.Stores.AddItem(categoryID, store) {
			return "", nil
		}
		key = store.ID
	case models.Notes:
		cat := s.doc.Collections.Notes.Category(categoryID)
		if cat == nil {
			return "", nil
		}
		cat.Items = append(cat.Items, "")
		key = strconv.Itoa(len(cat.Items) - 1)
		s.ui.ToggleEdit(models.Notes, interaction.Ref{CategoryID: categoryID, ItemKey: key})
	case models.Roster:
		acc := models.RosterAccount{ID: identity.NewID()}
		if !s.doc.Collections.Roster.AddItem(categoryID, acc) {
			return "", nil
		}
		key = acc.ID
	default:
		return "", ErrUnknownCollection
	}
	s.scheduleSave()
	return key, nil
}

// UpdateItemField replaces one field of an item. Unknown references and
// unknown fields are silent no-ops. Roster email writes go through
// validation (see roster.go).
func (s *DocumentService) UpdateItemField(coll models.CollectionName, categoryID, itemKey, field string, value any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch coll {
	case models.Messages:
		text, ok := value.(string)
		if !ok {
			return nil
		}
		s.updateMessageLocked(itemKey, text)
	case models.Stores:
		text, ok := value.(string)
		if !ok {
			return nil
		}
		s.updateStoreLocked(categoryID, itemKey, field, text)
	case models.Notes:
		text, ok := value.(string)
		if !ok {
			return nil
		}
		s.updateNoteLocked(categoryID, itemKey, text)
	case models.Roster:
		if err := s.updateAccountLocked(categoryID, itemKey, field, value); err != nil {
			return err
		}
	default:
		return ErrUnknownCollection
	}
	s.scheduleSave()
	return nil
}

// DeleteItem removes the item. If it was under active edit, the edit state
// is cleared.
func (s *DocumentService) DeleteItem(coll models.CollectionName, categoryID, itemKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch coll {
	case models.Messages:
		i, ok := itemIndex(itemKey, len(s.doc.Collections.Messages))
		if !ok {
			return nil
		}
		s.doc.Collections.Messages = append(s.doc.Collections.Messages[:i], s.doc.Collections.Messages[i+1:]...)
	case models.Stores:
		cat := s.doc.Collections.Stores.Category(categoryID)
		if cat == nil {
			return nil
		}
		i := cat.IndexFunc(func(st models.Store) bool { return st.ID == itemKey })
		if i < 0 {
			return nil
		}
		s.doc.Collections.Stores.DeleteItemAt(categoryID, i)
	case models.Notes:
		i, ok := itemIndex(itemKey, noteCount(s.doc, categoryID))
		if !ok {
			return nil
		}
		s.doc.Collections.Notes.DeleteItemAt(categoryID, i)
	case models.Roster:
		cat := s.doc.Collections.Roster.Category(categoryID)
		if cat == nil {
			return nil
		}
		i := cat.IndexFunc(func(a models.RosterAccount) bool { return a.ID == itemKey })
		if i < 0 {
			return nil
		}
		s.doc.Collections.Roster.DeleteItemAt(categoryID, i)
	default:
		return ErrUnknownCollection
	}
	s.ui.ClearEditIf(coll, interaction.Ref{CategoryID: categoryID, ItemKey: itemKey})
	s.scheduleSave()
	return nil
}

// Reorder splices an item to a new index within its category.
func (s *DocumentService) Reorder(coll models.CollectionName, categoryID string, from, to int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch coll {
	case models.Messages:
		s.doc.Collections.Messages = collection.SpliceMove(s.doc.Collections.Messages, from, to)
	case models.Stores:
		s.doc.Collections.Stores.Reorder(categoryID, from, to)
	case models.Notes:
		s.doc.Collections.Notes.Reorder(categoryID, from, to)
	case models.Roster:
		s.doc.Collections.Roster.Reorder(categoryID, from, to)
	default:
		return ErrUnknownCollection
	}
	s.scheduleSave()
	return nil
}

// Move relocates an item from one category to an arbitrary index in
// another. Messages have no categories to move across.
func (s *DocumentService) Move(coll models.CollectionName, sourceCategoryID string, sourceIndex int, targetCategoryID string, targetIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch coll {
	case models.Messages:
		s.doc.Collections.Messages = collection.SpliceMove(s.doc.Collections.Messages, sourceIndex, targetIndex)
	case models.Stores:
		s.doc.Collections.Stores.Move(sourceCategoryID, sourceIndex, targetCategoryID, targetIndex)
	case models.Notes:
		s.doc.Collections.Notes.Move(sourceCategoryID, sourceIndex, targetCategoryID, targetIndex)
	case models.Roster:
		s.doc.Collections.Roster.Move(sourceCategoryID, sourceIndex, targetCategoryID, targetIndex)
	default:
		return ErrUnknownCollection
	}
	s.scheduleSave()
	return nil
}

// AddMessage appends a quick-copy message. Blank text is ignored.
func (s *DocumentService) AddMessage(text string) {
	if text == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Collections.Messages = append(s.doc.Collections.Messages, text)
	s.scheduleSave()
}

// Grab starts a drag from the given source. Exactly one drag is active
// document-wide.
func (s *DocumentService) Grab(src interaction.DragSource) {
	s.ui.Grab(src)
}

// Release drops the active drag onto the target, performing the move. A
// release with no active grab is a no-op.
func (s *DocumentService) Release(targetCategoryID string, targetIndex int) error {
	src, ok := s.ui.Release()
	if !ok {
		return nil
	}
	return s.Move(src.Collection, src.CategoryID, src.Index, targetCategoryID, targetIndex)
}

// ToggleCategoryCollapse flips a category's collapse preference and
// persists it.
func (s *DocumentService) ToggleCategoryCollapse(coll models.CollectionName, categoryID string) {
	s.ui.ToggleCategoryCollapse(coll, categoryID)
	s.scheduleSave()
}

// ToggleItemCollapse flips an item's collapse preference and persists it.
func (s *DocumentService) ToggleItemCollapse(coll models.CollectionName, categoryID, itemKey string) {
	s.ui.ToggleItemCollapse(coll, categoryID, itemKey)
	s.scheduleSave()
}

// ToggleEdit flips edit mode for an item. Edit state is transient, so no
// save is scheduled.
func (s *DocumentService) ToggleEdit(coll models.CollectionName, categoryID, itemKey string) {
	s.ui.ToggleEdit(coll, interaction.Ref{CategoryID: categoryID, ItemKey: itemKey})
}

func (s *DocumentService) updateMessageLocked(itemKey, text string) {
	i, ok := itemIndex(itemKey, len(s.doc.Collections.Messages))
	if !ok || text == "" {
		return
	}
	s.doc.Collections.Messages[i] = text
}

func (s *DocumentService) updateStoreLocked(categoryID, storeID, field, value string) {
	cat := s.doc.Collections.Stores.Category(categoryID)
	if cat == nil {
		return
	}
	i := cat.IndexFunc(func(st models.Store) bool { return st.ID == storeID })
	if i < 0 {
		return
	}
	switch field {
	case "address":
		cat.Items[i].Address = value
	case "openTime":
		cat.Items[i].OpenTime = value
	case "closeTime":
		cat.Items[i].CloseTime = value
	case "notes":
		cat.Items[i].Notes = value
	}
}

func (s *DocumentService) updateNoteLocked(categoryID, itemKey, text string) {
	cat := s.doc.Collections.Notes.Category(categoryID)
	if cat == nil {
		return
	}
	i, ok := itemIndex(itemKey, len(cat.Items))
	if !ok {
		return
	}
	cat.Items[i] = text
}

func noteCount(doc *models.Document, categoryID string) int {
	cat := doc.Collections.Notes.Category(categoryID)
	if cat == nil {
		return 0
	}
	return len(cat.Items)
}

// itemIndex parses an index key and bounds-checks it.
func itemIndex(key string, length int) (int, bool) {
	i, err := strconv.Atoi(key)
	if err != nil || i < 0 || i >= length {
		return 0, false
	}
	return i, true
}
