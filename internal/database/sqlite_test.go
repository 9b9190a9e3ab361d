package database

import (
	"bytes"
	"testing"
)

func newTestSlotStore(t *testing.T) SlotStore {
	t.Helper()

	store, err := NewSQLiteSlotStore(":memory:")
	if err != nil {
		t.Fatalf("NewSQLiteSlotStore error: %v", err)
	}
	if err := store.EnsureSchema(); err != nil {
		t.Fatalf("EnsureSchema error: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestSQLite_IsReachable(t *testing.T) {
	store := newTestSlotStore(t)
	if !store.IsReachable() {
		t.Fatal("expected IsReachable to return true")
	}
}

func TestSQLite_LoadMissingKey(t *testing.T) {
	store := newTestSlotStore(t)

	document, err := store.Load("never-written")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if document != nil {
		t.Fatalf("expected nil document for missing key, got %v", document)
	}
}

func TestSQLite_SaveAndLoad(t *testing.T) {
	store := newTestSlotStore(t)

	want := []byte(`[{"id":"a"}]`)
	if err := store.Save("studio.records.v1", want); err != nil {
		t.Fatalf("Save error: %v", err)
	}

	got, err := store.Load("studio.records.v1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !bytes.Equal(got, want) {
		t.Fatalf("expected document %s, got %s", want, got)
	}
}

func TestSQLite_SaveReplacesDocument(t *testing.T) {
	store := newTestSlotStore(t)

	if err := store.Save("key", []byte("first")); err != nil {
		t.Fatalf("Save #1 error: %v", err)
	}
	if err := store.Save("key", []byte("second")); err != nil {
		t.Fatalf("Save #2 error: %v", err)
	}

	got, err := store.Load("key")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("expected replaced document %q, got %q", "second", got)
	}
}

func TestSQLite_Delete(t *testing.T) {
	store := newTestSlotStore(t)

	if err := store.Save("key", []byte("value")); err != nil {
		t.Fatalf("Save error: %v", err)
	}
	if err := store.Delete("key"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	got, err := store.Load("key")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil document after delete, got %s", got)
	}

	// Deleting a missing key is a no-op.
	if err := store.Delete("key"); err != nil {
		t.Fatalf("Delete of missing key error: %v", err)
	}
}

func TestNewSlotStore_UnsupportedType(t *testing.T) {
	if _, err := NewSlotStore("postgres", ""); err == nil {
		t.Fatal("expected error for unsupported database driver")
	}
}
