package database

import (
	"fmt"
	"log"
)

// SlotStore persists whole documents under fixed application keys. The studio
// stores its entire record collection as one document in one slot.
type SlotStore interface {
	// EnsureSchema creates the backing table if it does not exist yet.
	EnsureSchema() error
	// Load returns the document stored under key, or nil when the key has
	// never been written.
	Load(key string) ([]byte, error)
	// Save writes the document under key, replacing any previous value.
	Save(key string, document []byte) error
	// Delete removes the slot; a missing key is a no-op.
	Delete(key string) error
	IsReachable() bool
	Close() error
}

// NewSlotStore creates a slot store for the configured database type.
func NewSlotStore(databaseType, connectionString string) (SlotStore, error) {
	var store SlotStore
	var err error

	switch databaseType {
	case "sqlite":
		store, err = NewSQLiteSlotStore(connectionString)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", databaseType)
	}

	// Ensure schema exists (idempotent), important for in-memory SQLite
	log.Print("initializing database schema (ensuring slot table exists)")
	if err = store.EnsureSchema(); err != nil {
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}

	return store, nil
}
