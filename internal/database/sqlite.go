package database

import (
	"database/sql"
	"errors"

	_ "modernc.org/sqlite"
)

type SQLiteSlotStore struct {
	db               *sql.DB
	connectionString string
}

func NewSQLiteSlotStore(connectionString string) (SlotStore, error) {
	db, err := sql.Open("sqlite", connectionString)
	if err != nil {
		return nil, err
	}

	return &SQLiteSlotStore{
		db:               db,
		connectionString: connectionString,
	}, nil
}

func (s *SQLiteSlotStore) EnsureSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS slots (
		key TEXT PRIMARY KEY,
		document BLOB
	)`)
	return err
}

func (s *SQLiteSlotStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteSlotStore) IsReachable() bool {
	// In SQLite, the database file is created when you connect to it.
	// So we can assume it exists if we can successfully ping the database.
	err := s.db.Ping()
	return err == nil
}

func (s *SQLiteSlotStore) Load(key string) ([]byte, error) {
	row := s.db.QueryRow("SELECT document FROM slots WHERE key = ?", key)
	var document []byte
	if err := row.Scan(&document); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return document, nil
}

func (s *SQLiteSlotStore) Save(key string, document []byte) error {
	_, err := s.db.Exec(
		"INSERT INTO slots (key, document) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET document = excluded.document",
		key, document)
	return err
}

func (s *SQLiteSlotStore) Delete(key string) error {
	_, err := s.db.Exec("DELETE FROM slots WHERE key = ?", key)
	return err
}
