// Package service provides the business logic over the unified document:
// typed collection operations with invariant enforcement, interaction
// state, debounced persistence, import/export and reset.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/aaronvstory/dashbash/internal/debounce"
	"github.com/aaronvstory/dashbash/internal/identity"
	"github.com/aaronvstory/dashbash/internal/interaction"
	"github.com/aaronvstory/dashbash/internal/models"
	"github.com/aaronvstory/dashbash/internal/repository"
)

// ErrUnknownCollection is returned for a collection name outside the four
// widget collections.
var ErrUnknownCollection = errors.New("unknown collection")

// saveKey coalesces every mutation into a single debounced document write.
const saveKey = "document"

// DocumentService owns the in-memory document. Every mutation runs
// synchronously under the document lock and schedules a debounced persist;
// the in-memory state stays authoritative even when a write fails.
type DocumentService struct {
	mu       sync.Mutex
	doc      *models.Document
	ui       *interaction.State
	store    repository.Store
	importer *repository.Importer
	deb      *debounce.Debouncer
	clock    identity.Clock
	log      *zap.Logger

	// importing suppresses debounced writes so partially-applied import
	// states are never flushed to storage.
	importing atomic.Bool
}

// New constructs the service. The document is empty until Load.
func New(store repository.Store, importer *repository.Importer, saveDelay time.Duration, clock identity.Clock, log *zap.Logger) *DocumentService {
	s := &DocumentService{
		store:    store,
		importer: importer,
		deb:      debounce.New(saveDelay),
		clock:    clock,
		log:      log,
	}
	s.doc = models.DefaultDocument()
	s.ui = interaction.New(&s.doc.UIState)
	return s
}

// Load hydrates the document from the store. With nothing persisted the
// seed defaults stay in place. A malformed persisted document keeps the
// current in-memory state and returns the error.
func (s *DocumentService) Load() error {
	doc, err := s.store.Load()
	if err != nil {
		s.log.Error("failed to load document", zap.Error(err))
		return err
	}
	if doc == nil {
		s.log.Info("no persisted document, seeding defaults")
		return nil
	}
	s.mu.Lock()
	s.doc = doc
	s.ui.Rebind(&s.doc.UIState)
	s.mu.Unlock()
	s.log.Info("document hydrated", zap.Int("items", doc.TotalItems()))
	return nil
}

// Reload re-hydrates from the store after an external change to the
// persisted document.
func (s *DocumentService) Reload() {
	if err := s.Load(); err != nil {
		s.log.Warn("keeping in-memory document", zap.Error(err))
	}
}

// UI exposes the interaction state (edit, drag, collapse).
func (s *DocumentService) UI() *interaction.State {
	return s.ui
}

// scheduleSave queues a debounced persist. Mutations arriving before the
// window expires coalesce into one write, last write wins.
func (s *DocumentService) scheduleSave() {
	if s.importing.Load() {
		return
	}
	s.deb.Debounce(saveKey, s.persist)
}

func (s *DocumentService) persist() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc.Timestamp = s.clock.Now()
	if err := s.store.Save(s.doc); err != nil {
		// not fatal: the session continues on in-memory state
		s.log.Error("failed to persist document", zap.Error(err))
		return
	}
	if !s.importing.Load() {
		s.log.Debug("document persisted", zap.Int("items", s.doc.TotalItems()))
	}
}

// Flush forces any pending debounced write out immediately.
func (s *DocumentService) Flush() {
	s.deb.Flush(saveKey, s.persist)
}

// Snapshot returns a deep copy of the document for read-only use.
func (s *DocumentService) Snapshot() (*models.Document, error) {
	s.mu.Lock()
	data, err := repository.Serialize(s.doc)
	s.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return repository.Deserialize(data)
}

// Export renders the document for file download.
func (s *DocumentService) Export() (string, []byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return repository.Export(s.doc, s.clock.Now())
}

// Import parses the payload on the import worker and applies it atomically.
// Collections absent from the payload are left untouched; a payload that is
// not valid JSON, or not a document object, is rejected and the prior state
// retained. Persistence is suppressed until the import has fully applied.
func (s *DocumentService) Import(ctx context.Context, payload []byte) error {
	s.importing.Store(true)
	defer s.importing.Store(false)

	res, err := s.importer.Parse(ctx, payload)
	if err != nil {
		return err
	}
	if !res.OK {
		return fmt.Errorf("%w: %s", repository.ErrImport, res.Err)
	}
	in, err := repository.ParseImport(res.Data)
	if err != nil {
		return err
	}

	s.mu.Lock()
	repository.ApplyImport(s.doc, in)
	s.ui.Rebind(&s.doc.UIState)
	items := s.doc.TotalItems()
	s.mu.Unlock()

	s.persist()
	s.log.Info("import applied", zap.Int("items", items))
	return nil
}

// ClearAll atomically resets every collection to its seed defaults and
// deletes the persisted document.
func (s *DocumentService) ClearAll() error {
	s.deb.Cancel(saveKey)
	s.mu.Lock()
	s.doc = models.DefaultDocument()
	s.ui.Rebind(&s.doc.UIState)
	s.mu.Unlock()
	if err := s.store.Delete(); err != nil {
		s.log.Error("failed to delete persisted document", zap.Error(err))
		return err
	}
	s.log.Info("all data cleared")
	return nil
}
