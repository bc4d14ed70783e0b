package repository

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/peterbourgon/diskv/v3"

	"github.com/aaronvstory/dashbash/internal/models"
)

const (
	// documentKey is the single storage key holding the unified document.
	documentKey = "dashBashState"

	// legacyKey is the pre-unified storage key holding only the address
	// book categories.
	legacyKey = "addressBookCategories"
)

// Store abstracts the local persistent key-value store for the document.
type Store interface {
	// Load reads and decodes the persisted document. Returns (nil, nil)
	// when nothing has been persisted yet.
	Load() (*models.Document, error)
	// Save encodes and writes the document under the storage key.
	Save(doc *models.Document) error
	// Delete removes the persisted document and any legacy remnant.
	Delete() error
}

// DiskvStore is the diskv-backed Store. Keys map to flat files under the
// base path.
type DiskvStore struct {
	d        *diskv.Diskv
	basePath string

	mu        sync.Mutex
	ownWrites map[string]time.Time
}

// NewDiskvStore opens (creating if needed) the key-value store rooted at
// basePath.
func NewDiskvStore(basePath string) *DiskvStore {
	return &DiskvStore{
		d: diskv.New(diskv.Options{
			BasePath:     basePath,
			Transform:    func(string) []string { return []string{} },
			CacheSizeMax: 1024 * 1024, // 1MB
		}),
		basePath:  basePath,
		ownWrites: make(map[string]time.Time),
	}
}

// BasePath returns the directory backing the store.
func (s *DiskvStore) BasePath() string {
	return s.basePath
}

// Load reads the document, falling back to the legacy key when the unified
// key is absent. Legacy content is upgraded by the codec on read.
func (s *DiskvStore) Load() (*models.Document, error) {
	data, err := s.d.Read(documentKey)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read document: %w", err)
		}
		data, err = s.d.Read(legacyKey)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil, nil
			}
			return nil, fmt.Errorf("read legacy document: %w", err)
		}
	}
	return Deserialize(data)
}

// Save serializes and writes the document. Failures surface as
// ErrStorageUnavailable; the caller's in-memory state stays authoritative.
func (s *DiskvStore) Save(doc *models.Document) error {
	data, err := Serialize(doc)
	if err != nil {
		return err
	}
	if err := s.d.Write(documentKey, data); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	s.recordOwnWrite(documentKey)
	return nil
}

// Delete erases the document and the legacy key, if present.
func (s *DiskvStore) Delete() error {
	if err := s.d.Erase(documentKey); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	if err := s.d.Erase(legacyKey); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

func (s *DiskvStore) recordOwnWrite(key string) {
	info, err := os.Stat(filepath.Join(s.basePath, key))
	if err != nil {
		return
	}
	s.mu.Lock()
	s.ownWrites[key] = info.ModTime()
	s.mu.Unlock()
}

// externalChange reports whether a file event looks like a write we did not
// make ourselves.
func (s *DiskvStore) externalChange(path string) bool {
	if filepath.Base(path) != documentKey {
		return false
	}
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	last, ok := s.ownWrites[documentKey]
	return !ok || info.ModTime().After(last)
}
