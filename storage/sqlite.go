package storage

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const createKVTable = `
CREATE TABLE IF NOT EXISTS engine_kv (
	k TEXT PRIMARY KEY,
	v TEXT NOT NULL
)`

const upsertKV = `
INSERT INTO engine_kv (k, v) VALUES (?, ?)
ON CONFLICT(k) DO UPDATE SET v = excluded.v`

// SQLiteStore is a Store backed by a single-table SQLite database. Sets are
// stored as sorted JSON arrays, flags as "true"/"false".
type SQLiteStore struct {
	db *sqlx.DB
}

// OpenSQLite opens (and creates if needed) the store database at path. The
// pool is capped at one connection; SQLite serializes writers anyway and a
// single connection avoids SQLITE_BUSY churn.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open store database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping store database: %w", err)
	}
	if _, err := db.Exec(createKVTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// LoadSet returns the persisted set for key, empty when absent.
func (s *SQLiteStore) LoadSet(key string) (map[string]struct{}, error) {
	raw, err := s.get(key)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{})
	if raw == "" {
		return set, nil
	}

	var ids []string
	if err := json.Unmarshal([]byte(raw), &ids); err != nil {
		return nil, fmt.Errorf("decode set %q: %w", key, err)
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set, nil
}

// SaveSet durably replaces the set stored under key.
func (s *SQLiteStore) SaveSet(key string, set map[string]struct{}) error {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("encode set %q: %w", key, err)
	}
	return s.put(key, string(raw))
}

// LoadBool returns the persisted flag for key, or def when absent.
func (s *SQLiteStore) LoadBool(key string, def bool) (bool, error) {
	raw, err := s.get(key)
	if err != nil {
		return def, err
	}
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return def, fmt.Errorf("decode flag %q: %w", key, err)
	}
	return v, nil
}

// SaveBool durably replaces the flag stored under key.
func (s *SQLiteStore) SaveBool(key string, value bool) error {
	return s.put(key, strconv.FormatBool(value))
}

func (s *SQLiteStore) get(key string) (string, error) {
	var raw string
	err := s.db.Get(&raw, "SELECT v FROM engine_kv WHERE k = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("load %q: %w", key, err)
	}
	return raw, nil
}

func (s *SQLiteStore) put(key, value string) error {
	if _, err := s.db.Exec(upsertKV, key, value); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}
