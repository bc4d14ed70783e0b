// Package collection implements the generic categorized collection engine:
// named, ordered categories of items with stable identity, in-place
// reordering and cross-category relocation at an arbitrary target index.
// The same mechanism backs the store address book, the notes pad and the
// worker roster; item shape is a type parameter.
package collection

import (
	"errors"

	"github.com/aaronvstory/dashbash/internal/identity"
)

// ErrLastCategory is returned when deleting a category would leave a
// collection that requires at least one category empty.
var ErrLastCategory = errors.New("last category is protected")

// DefaultCategoryName is used when a category is created with a blank name.
const DefaultCategoryName = "New Category"

// Category is a named, ordered grouping of items. The order of Items is the
// sole source of display order.
type Category[T any] struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Items []T    `json:"items"`
}

// Collection is an ordered sequence of categories. It marshals as a bare
// JSON array, which is the shape the persisted document carries.
type Collection[T any] []Category[T]

// AddCategory appends a new category with a fresh id and no items.
// A blank name falls back to DefaultCategoryName.
func (c *Collection[T]) AddCategory(name string) *Category[T] {
	if name == "" {
		name = DefaultCategoryName
	}
	*c = append(*c, Category[T]{ID: identity.NewID(), Name: name, Items: []T{}})
	return &(*c)[len(*c)-1]
}

// Category returns the category with the given id, or nil.
func (c *Collection[T]) Category(id string) *Category[T] {
	for i := range *c {
		if (*c)[i].ID == id {
			return &(*c)[i]
		}
	}
	return nil
}

// RenameCategory sets the category name. Unknown id is a no-op.
func (c *Collection[T]) RenameCategory(id, name string) bool {
	cat := c.Category(id)
	if cat == nil {
		return false
	}
	cat.Name = name
	return true
}

// DeleteCategory removes the category and discards its items. Reports
// whether a category was removed.
func (c *Collection[T]) DeleteCategory(id string) bool {
	for i := range *c {
		if (*c)[i].ID == id {
			*c = append((*c)[:i], (*c)[i+1:]...)
			return true
		}
	}
	return false
}

// AddItem appends an item to the category. Unknown category id is a no-op.
func (c *Collection[T]) AddItem(categoryID string, item T) bool {
	cat := c.Category(categoryID)
	if cat == nil {
		return false
	}
	cat.Items = append(cat.Items, item)
	return true
}

// DeleteItemAt removes the item at index from the category.
func (c *Collection[T]) DeleteItemAt(categoryID string, index int) bool {
	cat := c.Category(categoryID)
	if cat == nil || index < 0 || index >= len(cat.Items) {
		return false
	}
	cat.Items = append(cat.Items[:index], cat.Items[index+1:]...)
	return true
}

// Reorder splices the item at from out of the category and reinserts it at
// to, computed against the post-removal sequence. from == to is a no-op.
func (c *Collection[T]) Reorder(categoryID string, from, to int) bool {
	cat := c.Category(categoryID)
	if cat == nil {
		return false
	}
	cat.Items = SpliceMove(cat.Items, from, to)
	return true
}

// Move removes the item at sourceIndex from the source category and inserts
// it into the target category at targetIndex, clamped to the target bounds.
// When source and target are the same category this degenerates to Reorder.
// Total item count across the collection is unchanged.
func (c *Collection[T]) Move(sourceCategoryID string, sourceIndex int, targetCategoryID string, targetIndex int) bool {
	if sourceCategoryID == targetCategoryID {
		return c.Reorder(sourceCategoryID, sourceIndex, targetIndex)
	}
	src := c.Category(sourceCategoryID)
	dst := c.Category(targetCategoryID)
	if src == nil || dst == nil || sourceIndex < 0 || sourceIndex >= len(src.Items) {
		return false
	}
	item := src.Items[sourceIndex]
	src.Items = append(src.Items[:sourceIndex], src.Items[sourceIndex+1:]...)
	dst.Items = insertAt(dst.Items, clamp(targetIndex, 0, len(dst.Items)), item)
	return true
}

// TotalItems counts items across every category.
func (c Collection[T]) TotalItems() int {
	n := 0
	for i := range c {
		n += len(c[i].Items)
	}
	return n
}

// IndexFunc returns the index of the first item in the category matched by
// the predicate, or -1.
func (cat *Category[T]) IndexFunc(match func(T) bool) int {
	for i := range cat.Items {
		if match(cat.Items[i]) {
			return i
		}
	}
	return -1
}

// SpliceMove removes the element at from and reinserts it at to, computed
// against the post-removal sequence. Out-of-range from, or from == to, is a
// no-op. Backs both category reordering and the flat message list.
func SpliceMove[T any](items []T, from, to int) []T {
	if from == to || from < 0 || from >= len(items) {
		return items
	}
	item := items[from]
	items = append(items[:from], items[from+1:]...)
	return insertAt(items, clamp(to, 0, len(items)), item)
}

func insertAt[T any](items []T, index int, item T) []T {
	items = append(items, item)
	copy(items[index+1:], items[index:])
	items[index] = item
	return items
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
