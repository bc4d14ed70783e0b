package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/aaronvstory/dashbash/internal/collection"
	"github.com/aaronvstory/dashbash/internal/identity"
	"github.com/aaronvstory/dashbash/internal/interaction"
	"github.com/aaronvstory/dashbash/internal/models"
	"github.com/aaronvstory/dashbash/internal/repository"
)

// spyStore records persistence calls so tests can assert on what, and how
// often, the service writes.
type spyStore struct {
	mu      sync.Mutex
	saved   []*models.Document
	deleted int
	loadDoc *models.Document
	loadErr error
}

func (s *spyStore) Load() (*models.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadDoc, s.loadErr
}

func (s *spyStore) Save(doc *models.Document) error {
	data, err := repository.Serialize(doc)
	if err != nil {
		return err
	}
	copied, err := repository.Deserialize(data)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saved = append(s.saved, copied)
	return nil
}

func (s *spyStore) Delete() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted++
	return nil
}

func (s *spyStore) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saved)
}

var testInstant = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

func newTestService(t *testing.T, store *spyStore, saveDelay time.Duration) *DocumentService {
	t.Helper()
	importer := repository.NewImporter()
	t.Cleanup(importer.Close)
	svc := New(store, importer, saveDelay, identity.FixedClock{Instant: testInstant}, zap.NewNop())
	require.NoError(t, svc.Load())
	return svc
}

func TestLoadSeedsDefaultsWhenNothingPersisted(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	doc, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMessages, doc.Collections.Messages)
	require.Len(t, doc.Collections.Notes, 1)
	assert.Equal(t, "General", doc.Collections.Notes[0].Name)
	assert.Len(t, doc.Collections.Roster, len(models.RosterCategorySeeds))
	assert.Equal(t, "99", doc.Settings.Target)
}

func TestMalformedPersistedDocumentKeepsSessionUsable(t *testing.T) {
	store := &spyStore{loadErr: repository.ErrMalformedDocument}
	importer := repository.NewImporter()
	t.Cleanup(importer.Close)
	svc := New(store, importer, time.Hour, identity.FixedClock{Instant: testInstant}, zap.NewNop())

	// the load error surfaces but the seed defaults stay in place
	require.ErrorIs(t, svc.Load(), repository.ErrMalformedDocument)

	doc, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, models.DefaultMessages, doc.Collections.Messages)

	// the session continues: mutations work and persist as usual
	svc.AddMessage("still alive")
	svc.Flush()
	require.Equal(t, 1, store.saveCount())
	assert.Contains(t, store.saved[0].Collections.Messages, "still alive")
}

func TestDeleteLastNotesCategoryRejected(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	before, err := svc.Snapshot()
	require.NoError(t, err)
	require.Len(t, before.Collections.Notes, 1)
	lastID := before.Collections.Notes[0].ID

	err = svc.DeleteCategory(models.Notes, lastID)
	require.ErrorIs(t, err, collection.ErrLastCategory)

	after, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before.Collections.Notes, after.Collections.Notes)
}

func TestDeleteNotesCategoryAllowedWhenAnotherRemains(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	extra, err := svc.AddCategory(models.Notes, "Scratch")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(models.Notes, extra))

	doc, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Len(t, doc.Collections.Notes, 1)
}

func TestRosterEmailValidation(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	catID, err := svc.AddCategory(models.Roster, "Team")
	require.NoError(t, err)
	a, err := svc.AddItem(models.Roster, catID)
	require.NoError(t, err)
	b, err := svc.AddItem(models.Roster, catID)
	require.NoError(t, err)

	require.NoError(t, svc.UpdateItemField(models.Roster, catID, a, "email", "worker@example.com"))

	t.Run("duplicate rejected case-insensitively", func(t *testing.T) {
		err := svc.UpdateItemField(models.Roster, catID, b, "email", "Worker@Example.COM")
		require.ErrorIs(t, err, ErrDuplicateEmail)

		doc, err := svc.Snapshot()
		require.NoError(t, err)
		cat := doc.Collections.Roster.Category(catID)
		require.NotNil(t, cat)
		assert.Equal(t, "", cat.Items[1].Email)
	})

	t.Run("malformed address with at-sign rejected", func(t *testing.T) {
		err := svc.UpdateItemField(models.Roster, catID, b, "email", "worker@nodot")
		require.ErrorIs(t, err, ErrInvalidEmail)
	})

	t.Run("partial input without at-sign stored", func(t *testing.T) {
		require.NoError(t, svc.UpdateItemField(models.Roster, catID, b, "email", "worker.typing"))
		doc, err := svc.Snapshot()
		require.NoError(t, err)
		assert.Equal(t, "worker.typing", doc.Collections.Roster.Category(catID).Items[1].Email)
	})

	t.Run("rewriting own email is not a duplicate", func(t *testing.T) {
		require.NoError(t, svc.UpdateItemField(models.Roster, catID, a, "email", "WORKER@example.com"))
	})
}

func TestRosterTimer(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	catID, err := svc.AddCategory(models.Roster, "Team")
	require.NoError(t, err)
	accID, err := svc.AddItem(models.Roster, catID)
	require.NoError(t, err)
	require.NoError(t, svc.UpdateItemField(models.Roster, catID, accID, "name", "Jordan"))

	assert.Equal(t, "Jordan", svc.AccountTitle(catID, accID))

	svc.StartTimer(catID, accID)
	doc, err := svc.Snapshot()
	require.NoError(t, err)
	acc := doc.Collections.Roster.Category(catID).Items[0]
	require.NotNil(t, acc.LastUsedAt)
	assert.True(t, acc.LastUsedAt.Equal(testInstant))
	assert.Equal(t, "Jordan (24h 0m left)", svc.AccountTitle(catID, accID))

	svc.ResetTimer(catID, accID)
	doc, err = svc.Snapshot()
	require.NoError(t, err)
	assert.Nil(t, doc.Collections.Roster.Category(catID).Items[0].LastUsedAt)
}

func TestAddNoteEntersEditMode(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	doc, err := svc.Snapshot()
	require.NoError(t, err)
	catID := doc.Collections.Notes[0].ID

	key, err := svc.AddItem(models.Notes, catID)
	require.NoError(t, err)
	assert.Equal(t, "1", key)

	ref, ok := svc.UI().Editing(models.Notes)
	require.True(t, ok)
	assert.Equal(t, interaction.Ref{CategoryID: catID, ItemKey: key}, ref)
}

func TestDeleteItemClearsEditState(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	doc, err := svc.Snapshot()
	require.NoError(t, err)
	catID := doc.Collections.Notes[0].ID

	key, err := svc.AddItem(models.Notes, catID)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteItem(models.Notes, catID, key))

	_, ok := svc.UI().Editing(models.Notes)
	assert.False(t, ok)
}

func TestDragReleasePerformsMove(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	src, err := svc.AddCategory(models.Stores, "East")
	require.NoError(t, err)
	dst, err := svc.AddCategory(models.Stores, "West")
	require.NoError(t, err)
	storeID, err := svc.AddItem(models.Stores, src)
	require.NoError(t, err)

	svc.Grab(interaction.DragSource{Collection: models.Stores, CategoryID: src, Index: 0})
	require.NoError(t, svc.Release(dst, 0))

	doc, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, doc.Collections.Stores.Category(src).Items)
	require.Len(t, doc.Collections.Stores.Category(dst).Items, 1)
	assert.Equal(t, storeID, doc.Collections.Stores.Category(dst).Items[0].ID)

	_, dragging := svc.UI().Dragging()
	assert.False(t, dragging)
}

func TestReleaseWithoutGrabIsNoOp(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	before, err := svc.Snapshot()
	require.NoError(t, err)
	require.NoError(t, svc.Release("anywhere", 0))
	after, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before.Collections, after.Collections)
}

func TestReorderSamePositionLeavesDocumentUnchanged(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	before, err := svc.Snapshot()
	require.NoError(t, err)
	require.NoError(t, svc.Reorder(models.Messages, "", 2, 2))
	after, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before.Collections.Messages, after.Collections.Messages)
}

func TestUnknownCollectionRejected(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	_, err := svc.AddCategory("widgets", "x")
	assert.ErrorIs(t, err, ErrUnknownCollection)
	assert.ErrorIs(t, svc.Reorder("widgets", "", 0, 1), ErrUnknownCollection)
	assert.ErrorIs(t, svc.DeleteItem("widgets", "", "0"), ErrUnknownCollection)
}

func TestDebouncedSaveCoalescesBursts(t *testing.T) {
	store := &spyStore{}
	svc := newTestService(t, store, 30*time.Millisecond)

	svc.AddMessage("one")
	svc.AddMessage("two")
	svc.AddMessage("three")

	require.Eventually(t, func() bool {
		return store.saveCount() > 0
	}, time.Second, 5*time.Millisecond)

	// the burst collapses into a single write carrying all three
	assert.Equal(t, 1, store.saveCount())
	store.mu.Lock()
	saved := store.saved[0]
	store.mu.Unlock()
	assert.Contains(t, saved.Collections.Messages, "one")
	assert.Contains(t, saved.Collections.Messages, "two")
	assert.Contains(t, saved.Collections.Messages, "three")
}

func TestFlushWritesImmediately(t *testing.T) {
	store := &spyStore{}
	svc := newTestService(t, store, time.Hour)

	svc.AddMessage("pending")
	assert.Equal(t, 0, store.saveCount())

	svc.Flush()
	require.Equal(t, 1, store.saveCount())
	assert.True(t, store.saved[0].Timestamp.Equal(testInstant))
}

func TestImportPartialDocumentLeavesOthersUntouched(t *testing.T) {
	store := &spyStore{}
	svc := newTestService(t, store, time.Hour)

	before, err := svc.Snapshot()
	require.NoError(t, err)

	payload := []byte(`{
		"version": "2.0",
		"collections": {"messages": ["only message"]}
	}`)
	require.NoError(t, svc.Import(context.Background(), payload))

	after, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []string{"only message"}, after.Collections.Messages)
	assert.Equal(t, before.Collections.Notes, after.Collections.Notes)
	assert.Equal(t, before.Collections.Roster, after.Collections.Roster)

	// import persists explicitly, bypassing the debounce window
	assert.Equal(t, 1, store.saveCount())
}

func TestImportRejectsMalformedPayload(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	before, err := svc.Snapshot()
	require.NoError(t, err)

	err = svc.Import(context.Background(), []byte("{not json"))
	require.ErrorIs(t, err, repository.ErrImport)

	err = svc.Import(context.Background(), []byte(`["valid", "json", "wrong shape"]`))
	require.ErrorIs(t, err, repository.ErrImport)

	after, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, before.Collections, after.Collections)
}

func TestClearAllResetsToSeedsAndDeletesPersisted(t *testing.T) {
	store := &spyStore{}
	svc := newTestService(t, store, time.Hour)

	catID, err := svc.AddCategory(models.Stores, "East")
	require.NoError(t, err)
	_, err = svc.AddItem(models.Stores, catID)
	require.NoError(t, err)

	require.NoError(t, svc.ClearAll())

	doc, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, doc.Collections.Stores)
	assert.Equal(t, models.DefaultMessages, doc.Collections.Messages)
	assert.Equal(t, 1, store.deleted)
}

func TestSetTargetPresetForcesAmount(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	svc.SetTarget("55", "120")
	doc, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "120", doc.Settings.Target)

	svc.SetTarget("87.50", "custom")
	doc, err = svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "87.50", doc.Settings.Target)
	assert.Equal(t, "custom", doc.Settings.TargetPreset)

	// empty custom amount keeps the previous target
	svc.SetTarget("", "custom")
	doc, err = svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, "87.50", doc.Settings.Target)
}

func TestPriceList(t *testing.T) {
	svc := newTestService(t, &spyStore{}, time.Hour)

	svc.AddPrice(12.99)
	svc.AddPrice(5.49)
	svc.RemovePrice(0)
	svc.RemovePrice(99)

	doc, err := svc.Snapshot()
	require.NoError(t, err)
	assert.Equal(t, []float64{5.49}, doc.Settings.Prices)

	svc.ClearPrices()
	doc, err = svc.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, doc.Settings.Prices)
}
