// Package repository implements the persistence codec for the unified
// document: serialization with field-level defaulting and schema
// versioning, the diskv-backed local store, export/import, and the
// off-request import parse worker.
package repository

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aaronvstory/dashbash/internal/collection"
	"github.com/aaronvstory/dashbash/internal/models"
)

var (
	// ErrMalformedDocument means the persisted or imported text is not
	// valid JSON at all. Missing fields never trigger it; they default.
	ErrMalformedDocument = errors.New("malformed document")

	// ErrImport means an import payload was rejected: the parse worker
	// reported a failure, or the parsed value is not a document object.
	ErrImport = errors.New("import failed")

	// ErrStorageUnavailable means a write to the persistent store failed.
	// The in-memory document stays authoritative.
	ErrStorageUnavailable = errors.New("storage unavailable")
)

// Serialize renders the document as the single versioned JSON object kept
// under the storage key.
func Serialize(doc *models.Document) ([]byte, error) {
	doc.Normalize()
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}
	return data, nil
}

// Deserialize parses a persisted document. Every absent top-level field
// falls back to its default; a legacy bare categories array (the
// pre-unified shape, no version tag) is upgraded in place into the unified
// shape with the array as the store address book.
func Deserialize(data []byte) (*models.Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		return upgradeLegacy(trimmed)
	}
	var doc models.Document
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	doc.Normalize()
	return &doc, nil
}

// flexID accepts the numeric ids legacy documents carry alongside the
// string ids the unified shape uses.
type flexID string

func (f *flexID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = flexID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexID(n.String())
	return nil
}

type legacyStore struct {
	ID        flexID `json:"id"`
	Address   string `json:"address"`
	OpenTime  string `json:"openTime"`
	CloseTime string `json:"closeTime"`
	Notes     string `json:"notes"`
}

type legacyCategory struct {
	ID     flexID        `json:"id"`
	Name   string        `json:"name"`
	Stores []legacyStore `json:"stores"`
	Items  []legacyStore `json:"items"`
}

func upgradeLegacy(data []byte) (*models.Document, error) {
	var cats []legacyCategory
	if err := json.Unmarshal(data, &cats); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	doc := models.DefaultDocument()
	doc.Collections.Stores = collection.Collection[models.Store]{}
	for _, lc := range cats {
		stores := lc.Stores
		if stores == nil {
			stores = lc.Items
		}
		cat := collection.Category[models.Store]{
			ID:    string(lc.ID),
			Name:  lc.Name,
			Items: make([]models.Store, 0, len(stores)),
		}
		for _, ls := range stores {
			cat.Items = append(cat.Items, models.Store{
				ID:        string(ls.ID),
				Address:   ls.Address,
				OpenTime:  ls.OpenTime,
				CloseTime: ls.CloseTime,
				Notes:     ls.Notes,
			})
		}
		doc.Collections.Stores = append(doc.Collections.Stores, cat)
	}
	return doc, nil
}

// ImportedDocument is the partial shape accepted on import: any collection
// or section absent from the payload stays untouched in the live document.
type ImportedDocument struct {
	Version     string              `json:"version"`
	Collections importedCollections `json:"collections"`
	Settings    *models.Settings    `json:"settings"`
	UIState     *models.UIState     `json:"uiState"`
}

type importedCollections struct {
	Messages *[]string                                    `json:"messages"`
	Stores   *collection.Collection[models.Store]         `json:"storesByCategory"`
	Notes    *collection.Collection[string]               `json:"notesByCategory"`
	Roster   *collection.Collection[models.RosterAccount] `json:"rosterByCategory"`
}

// ParseImport validates a parse-worker result value as a plausible document
// and shapes it for application. Anything that is not a JSON object is
// rejected as ErrImport.
func ParseImport(data any) (*ImportedDocument, error) {
	obj, ok := data.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: payload is not a document object", ErrImport)
	}
	raw, err := json.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}
	var in ImportedDocument
	if err := json.Unmarshal(raw, &in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrImport, err)
	}
	return &in, nil
}

// ApplyImport replaces every collection the payload carries and leaves the
// rest of the document untouched. Partial imports are additive-safe, never
// destructive.
func ApplyImport(doc *models.Document, in *ImportedDocument) {
	if in.Collections.Messages != nil {
		doc.Collections.Messages = *in.Collections.Messages
	}
	if in.Collections.Stores != nil {
		doc.Collections.Stores = *in.Collections.Stores
	}
	if in.Collections.Notes != nil {
		doc.Collections.Notes = *in.Collections.Notes
	}
	if in.Collections.Roster != nil {
		doc.Collections.Roster = *in.Collections.Roster
	}
	if in.Settings != nil {
		doc.Settings = *in.Settings
	}
	if in.UIState != nil {
		doc.UIState = *in.UIState
	}
	doc.Normalize()
}

// Export renders the document for download: the storage shape plus an
// explicit export timestamp, under a filename with a sortable timestamp.
func Export(doc *models.Document, now time.Time) (string, []byte, error) {
	doc.Normalize()
	out := models.ExportDocument{Document: *doc, ExportedAt: now}
	out.Version = models.SchemaVersion
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("export document: %w", err)
	}
	filename := fmt.Sprintf("dashbash-export-%s.json", now.UTC().Format("2006-01-02T15-04-05"))
	return filename, data, nil
}
