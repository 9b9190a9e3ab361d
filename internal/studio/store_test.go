package studio

import (
	"testing"
	"time"
)

// memorySlot is an in-memory Slot for store tests.
type memorySlot struct {
	documents map[string][]byte
}

func newMemorySlot() *memorySlot {
	return &memorySlot{documents: make(map[string][]byte)}
}

func (s *memorySlot) Load(key string) ([]byte, error) {
	return s.documents[key], nil
}

func (s *memorySlot) Save(key string, document []byte) error {
	s.documents[key] = document
	return nil
}

func TestStore_PrependIsMostRecentFirst(t *testing.T) {
	store := NewStore(newMemorySlot())

	first := testRecord(t, "first", "", time.Now())
	second := testRecord(t, "second", "", time.Now())
	store.Prepend(first)
	store.Prepend(second)

	all := store.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 records, got %d", len(all))
	}
	if all[0].ID != "second" || all[1].ID != "first" {
		t.Fatalf("expected most-recent-first order [second first], got [%s %s]", all[0].ID, all[1].ID)
	}
}

func TestStore_RemoveMissingIDIsNoOp(t *testing.T) {
	store := NewStore(newMemorySlot())
	store.Prepend(testRecord(t, "keep", "", time.Now()))

	store.Remove("absent")

	if store.Len() != 1 {
		t.Fatalf("expected 1 record after removing absent id, got %d", store.Len())
	}
}

func TestStore_RemoveDoesNotCascade(t *testing.T) {
	store := NewStore(newMemorySlot())
	parent := testRecord(t, "parent", "", time.Now())
	child := testRecord(t, "child", "parent", time.Now())
	store.Prepend(parent)
	store.Prepend(child)

	store.Remove("parent")

	if _, ok := store.Get("parent"); ok {
		t.Fatal("expected parent to be removed")
	}
	got, ok := store.Get("child")
	if !ok {
		t.Fatal("expected child to survive parent deletion")
	}
	// The back-reference is left dangling on purpose.
	if got.ParentID != "parent" {
		t.Fatalf("expected child parentId to stay %q, got %q", "parent", got.ParentID)
	}
}

func TestStore_PersistsAndReloads(t *testing.T) {
	slot := newMemorySlot()

	store := NewStore(slot)
	store.Prepend(testRecord(t, "a", "", time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)))
	store.Prepend(testRecord(t, "b", "a", time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))

	reloaded := NewStore(slot)
	if err := reloaded.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	all := reloaded.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 records after reload, got %d", len(all))
	}
	if all[0].ID != "b" || all[1].ID != "a" {
		t.Fatalf("expected reloaded order [b a], got [%s %s]", all[0].ID, all[1].ID)
	}
	if all[0].ParentID != "a" {
		t.Fatalf("expected parentId %q after reload, got %q", "a", all[0].ParentID)
	}
}

func TestStore_MalformedDocumentLoadsEmpty(t *testing.T) {
	slot := newMemorySlot()
	slot.documents[StorageKey] = []byte("{not valid json")

	store := NewStore(slot)
	if err := store.Load(); err != nil {
		t.Fatalf("Load should recover from a malformed document, got error: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store after malformed document, got %d records", store.Len())
	}
}

func TestStore_LoadWithoutPersistedDocument(t *testing.T) {
	store := NewStore(newMemorySlot())
	if err := store.Load(); err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty store, got %d records", store.Len())
	}
}
