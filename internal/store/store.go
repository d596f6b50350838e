package store

import (
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Cache schema versions, kept in PRAGMA user_version:
// 0 - tables from schema.sql only
// 1 - compilations indexed by run_id so clearing a run does not scan the cache
const currentSchemaVersion = 1

// ErrNewerSchema is returned by Open for a cache written by a newer matchc.
// Such a file is left untouched.
var ErrNewerSchema = errors.New("cache schema is newer than this matchc")

// Store is the compile cache. Writes go through a single connection; WAL
// lets `matchc cache stats` read while a compile is writing.
type Store struct {
	db *sql.DB
}

// pragma is a connection setting Open applies and then reads back. Want is
// the value SQLite reports once the setting took effect.
type pragma struct {
	name, value, want string
}

var cachePragmas = []pragma{
	{"journal_mode", "WAL", "wal"},
	// A lost tail after a crash only costs a recompile.
	{"synchronous", "NORMAL", "1"},
	// Parallel compiles in one tree share the file.
	{"busy_timeout", "5000", "5000"},
	// Clearing a run removes its compilations.
	{"foreign_keys", "ON", "1"},
	{"temp_store", "MEMORY", "2"},
}

// Open opens the cache at path, creating it when missing, and brings its
// schema up to date. Opening an existing cache is idempotent.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}

	// Pragmas are per connection, so the pool must not grow past the one
	// they were applied to.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	return &Store{db: db}, nil
}

// Close releases the cache file.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	for _, p := range cachePragmas {
		if _, err := db.Exec(fmt.Sprintf("PRAGMA %s = %s", p.name, p.value)); err != nil {
			return fmt.Errorf("pragma %s: %w", p.name, err)
		}
		if err := checkPragma(db, p.name, p.want); err != nil {
			return err
		}
	}
	return nil
}

// checkPragma fails when SQLite silently kept another value, as it does for
// journal_mode on filesystems without shared memory.
func checkPragma(db *sql.DB, name, want string) error {
	var got string
	if err := db.QueryRow("PRAGMA " + name).Scan(&got); err != nil {
		return fmt.Errorf("pragma %s: %w", name, err)
	}
	if got != want {
		return fmt.Errorf("pragma %s = %q, want %q", name, got, want)
	}
	return nil
}

func applySchema(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version > currentSchemaVersion {
		return fmt.Errorf("%w: v%d, this matchc reads up to v%d", ErrNewerSchema, version, currentSchemaVersion)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("create tables: %w", err)
	}
	if version < 1 {
		if err := migrateToV1(db); err != nil {
			return err
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("write schema version: %w", err)
	}
	return nil
}

func migrateToV1(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE INDEX IF NOT EXISTS idx_compilations_run
		ON compilations(run_id)
	`)
	if err != nil {
		return fmt.Errorf("migrate cache to v1: %w", err)
	}
	return nil
}
