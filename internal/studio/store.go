package studio

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// StorageKey is the fixed slot key the whole record collection is persisted
// under. There is no migration scheme; an incompatible document is discarded
// wholesale on load.
const StorageKey = "studio.records.v1"

// Slot is the durable key-value slot the record collection is mirrored to.
// Load returns nil data (and no error) when the key has never been written.
type Slot interface {
	Load(key string) ([]byte, error)
	Save(key string, document []byte) error
}

// Store holds the session's records in most-recent-first display order and
// mirrors every mutation to the durable slot as one JSON document.
type Store struct {
	mu      sync.RWMutex
	slot    Slot
	records []*ImageRecord
}

// NewStore creates an empty store backed by the given slot. Call Load to
// restore the previously persisted collection.
func NewStore(slot Slot) *Store {
	return &Store{slot: slot}
}

// Load restores the persisted collection. A malformed or incompatible
// document is logged and treated as an empty store, never as a fatal error.
func (s *Store) Load() error {
	document, err := s.slot.Load(StorageKey)
	if err != nil {
		return err
	}
	if len(document) == 0 {
		return nil
	}

	var records []*ImageRecord
	if err := json.Unmarshal(document, &records); err != nil {
		slog.Warn("store: discarding malformed persisted document, starting empty",
			"key", StorageKey, "document_size_bytes", len(document), "error", err)
		return nil
	}

	s.mu.Lock()
	s.records = records
	s.mu.Unlock()
	return nil
}

// Prepend inserts a record at the front of the display order. The caller is
// trusted to supply a unique id.
func (s *Store) Prepend(record *ImageRecord) {
	s.mu.Lock()
	s.records = append([]*ImageRecord{record}, s.records...)
	s.mu.Unlock()

	s.persist()
}

// Remove deletes the record with the given id if present; a missing id is a
// no-op. Other records keep their parentId untouched, so children of a
// removed record become orphaned rather than repaired.
func (s *Store) Remove(id string) {
	s.mu.Lock()
	removed := false
	for i, record := range s.records {
		if record.ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			removed = true
			break
		}
	}
	s.mu.Unlock()

	if removed {
		s.persist()
	}
}

// All returns the full collection in display order.
func (s *Store) All() []*ImageRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	records := make([]*ImageRecord, len(s.records))
	copy(records, s.records)
	return records
}

// Get looks up a record by id.
func (s *Store) Get(id string) (*ImageRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, record := range s.records {
		if record.ID == id {
			return record, true
		}
	}
	return nil, false
}

// Len returns the number of records currently held.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// persist mirrors the whole collection to the durable slot. Failures are
// logged, not propagated: a missed save costs durability, not correctness of
// the in-memory session.
func (s *Store) persist() {
	s.mu.RLock()
	document, err := json.Marshal(s.records)
	s.mu.RUnlock()
	if err != nil {
		slog.Error("store: failed to serialize records", "error", err)
		return
	}

	if err := s.slot.Save(StorageKey, document); err != nil {
		slog.Error("store: failed to persist records",
			"key", StorageKey, "document_size_bytes", len(document), "error", err)
	}
}
