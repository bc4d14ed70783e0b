// Package models defines the unified document aggregate: every widget
// collection, the calculator settings and the persisted UI preferences,
// serializable as a single versioned JSON object.
package models

import (
	"time"

	"github.com/aaronvstory/dashbash/internal/collection"
	"github.com/aaronvstory/dashbash/internal/identity"
)

// SchemaVersion tags the persisted and exported document shape.
const SchemaVersion = "2.0"

// CollectionName identifies one of the widget collections.
type CollectionName string

const (
	Messages CollectionName = "messages"
	Stores   CollectionName = "stores"
	Notes    CollectionName = "notes"
	Roster   CollectionName = "roster"
)

// Store is one address-book entry. Open and close times are 4-digit HHMM
// strings or empty when not set.
type Store struct {
	ID        string `json:"id"`
	Address   string `json:"address"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	Notes     string `json:"notes"`
}

// RosterAccount is one worker account. LastUsedAt is nil until the reuse
// timer is started and is only ever set to "now".
type RosterAccount struct {
	ID              string     `json:"id"`
	Name            string     `json:"name"`
	Email           string     `json:"email"`
	EmailPassword   string     `json:"emailPassword"`
	AccountPassword string     `json:"accountPassword"`
	Phone           string     `json:"phone"`
	Balance         string     `json:"balance"`
	Flagged         bool       `json:"flagged"`
	LastUsedAt      *time.Time `json:"lastUsedAt"`
	Notes           string     `json:"notes"`
}

// Title builds the display title for an account from its name and email.
func (a RosterAccount) Title() string {
	switch {
	case a.Name != "" && a.Email != "":
		return a.Name + " - " + a.Email
	case a.Name != "":
		return a.Name
	case a.Email != "":
		return a.Email
	default:
		return "New Account"
	}
}

// Collections groups every widget collection. Messages and notes are bare
// strings addressed by index; stores and roster accounts carry their own ids.
type Collections struct {
	Messages []string                             `json:"messages"`
	Stores   collection.Collection[Store]         `json:"storesByCategory"`
	Notes    collection.Collection[string]        `json:"notesByCategory"`
	Roster   collection.Collection[RosterAccount] `json:"rosterByCategory"`
}

// Settings holds the calculator-independent preferences.
type Settings struct {
	Target       string    `json:"target"`
	TargetPreset string    `json:"targetPreset"`
	Prices       []float64 `json:"prices"`
}

// UIState is the persisted slice of interaction state: collapse preferences
// only. Edit and drag state are transient and never serialized.
// Keys are "<collection>/<categoryID>" for categories and
// "<collection>/<categoryID>-<itemKey>" for items.
type UIState struct {
	CollapsedCategories map[string]bool `json:"collapsedCategories"`
	CollapsedItems      map[string]bool `json:"collapsedItems"`
}

// Document is the unified aggregate persisted under a single storage key.
type Document struct {
	Version     string      `json:"version"`
	Collections Collections `json:"collections"`
	Settings    Settings    `json:"settings"`
	UIState     UIState     `json:"uiState"`
	Timestamp   time.Time   `json:"timestamp"`
}

// ExportDocument is the on-disk export shape: the document plus an explicit
// export timestamp.
type ExportDocument struct {
	Document
	ExportedAt time.Time `json:"exportedAt"`
}

// Normalize fills every absent optional field with its empty default so
// callers never see nil slices or maps. Missing version defaults to the
// current schema version.
func (d *Document) Normalize() {
	if d.Version == "" {
		d.Version = SchemaVersion
	}
	if d.Collections.Messages == nil {
		d.Collections.Messages = []string{}
	}
	if d.Collections.Stores == nil {
		d.Collections.Stores = collection.Collection[Store]{}
	}
	if d.Collections.Notes == nil {
		d.Collections.Notes = collection.Collection[string]{}
	}
	if d.Collections.Roster == nil {
		d.Collections.Roster = collection.Collection[RosterAccount]{}
	}
	if d.Settings.Target == "" {
		d.Settings.Target = "99"
	}
	if d.Settings.TargetPreset == "" {
		d.Settings.TargetPreset = presetFor(d.Settings.Target)
	}
	if d.Settings.Prices == nil {
		d.Settings.Prices = []float64{}
	}
	if d.UIState.CollapsedCategories == nil {
		d.UIState.CollapsedCategories = map[string]bool{}
	}
	if d.UIState.CollapsedItems == nil {
		d.UIState.CollapsedItems = map[string]bool{}
	}
}

func presetFor(target string) string {
	if target == "99" || target == "120" {
		return target
	}
	return "custom"
}

// DefaultMessages is the quick-copy list seeded on first run.
var DefaultMessages = []string{
	"hi can u pls see if u can help get a dasher assigned quicker!? I'm in a rush to get to work asap! Thank you",
	"Ok someone got it! darn it i just noticed i put the tip so high by accident :( can u help change the tip to $0 pls?",
	"Thanks, have a great day! <3",
	"Yes",
	"unassign this driver, we have had issues in the past, restraining order, stole my order last time, ASAP PLEASE, Thank you!",
	"Adjust dasher tip to $0 for the current order",
	"customer asked for refund if out of stock",
	"AGENT",
}

// RosterCategorySeeds are the well-known roster categories created on first
// run. The ids seed the default document but are not otherwise special.
var RosterCategorySeeds = []struct{ ID, Name string }{
	{"main", "Main"},
	{"currently-using", "Currently using"},
	{"deactivated", "Deactivated"},
	{"locked", "Locked"},
	{"reverif", "Reverif"},
	{"ready", "Ready"},
}

// DefaultDocument builds the seed document used when no persisted state
// exists, and the state every collection resets to on "clear all".
func DefaultDocument() *Document {
	doc := &Document{
		Version: SchemaVersion,
		Collections: Collections{
			Messages: append([]string{}, DefaultMessages...),
			Stores:   collection.Collection[Store]{},
			Notes: collection.Collection[string]{
				{
					ID:   identity.NewID(),
					Name: "General",
					Items: []string{
						"Welcome to Dash Bash! This is a sample note. You can edit, copy, or delete it. Try adding your own notes!",
					},
				},
			},
			Roster: collection.Collection[RosterAccount]{},
		},
	}
	for _, seed := range RosterCategorySeeds {
		doc.Collections.Roster = append(doc.Collections.Roster, collection.Category[RosterAccount]{
			ID:    seed.ID,
			Name:  seed.Name,
			Items: []RosterAccount{},
		})
	}
	doc.Normalize()
	return doc
}

// TotalItems counts items across every collection, messages included.
func (d *Document) TotalItems() int {
	return len(d.Collections.Messages) +
		d.Collections.Stores.TotalItems() +
		d.Collections.Notes.TotalItems() +
		d.Collections.Roster.TotalItems()
}
