// Package store persists transcription history and dictionary entries in
// a local SQLite database.
package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Schema for the voxtyped store.
const schema = `
CREATE TABLE IF NOT EXISTS transcriptions (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    created_ns  INTEGER NOT NULL,
    mode        TEXT NOT NULL,
    model       TEXT NOT NULL,
    duration_ms INTEGER NOT NULL,
    raw_text    TEXT NOT NULL,
    text        TEXT NOT NULL,
    audio_path  TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_transcriptions_created ON transcriptions(created_ns);

CREATE TABLE IF NOT EXISTS dictionary_entries (
    id          INTEGER PRIMARY KEY AUTOINCREMENT,
    scope       TEXT NOT NULL,
    pattern     TEXT NOT NULL,
    replacement TEXT NOT NULL,
    created_ns  INTEGER NOT NULL,
    UNIQUE(scope, pattern)
);
`

// Store represents the SQLite store.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at the given path and applies
// the schema.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create database directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// InsertTranscription appends a transcription to history and returns its ID.
func (s *Store) InsertTranscription(t *Transcription) (int64, error) {
	result, err := s.db.Exec(`
		INSERT INTO transcriptions (created_ns, mode, model, duration_ms, raw_text, text, audio_path)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		t.CreatedNs, t.Mode, t.Model, t.DurationMs, t.RawText, t.Text, t.AudioPath,
	)
	if err != nil {
		return 0, fmt.Errorf("insert transcription: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("get last insert id: %w", err)
	}

	return id, nil
}

// GetTranscription retrieves a transcription by ID, nil when not found.
func (s *Store) GetTranscription(id int64) (*Transcription, error) {
	var t Transcription

	err := s.db.QueryRow(`
		SELECT id, created_ns, mode, model, duration_ms, raw_text, text, audio_path
		FROM transcriptions WHERE id = ?`, id,
	).Scan(&t.ID, &t.CreatedNs, &t.Mode, &t.Model, &t.DurationMs, &t.RawText, &t.Text, &t.AudioPath)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get transcription: %w", err)
	}

	return &t, nil
}

// RecentTranscriptions returns the newest transcriptions, newest first.
func (s *Store) RecentTranscriptions(limit int) ([]Transcription, error) {
	rows, err := s.db.Query(`
		SELECT id, created_ns, mode, model, duration_ms, raw_text, text, audio_path
		FROM transcriptions
		ORDER BY created_ns DESC
		LIMIT ?`, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query transcriptions: %w", err)
	}
	defer rows.Close()

	var out []Transcription
	for rows.Next() {
		var t Transcription
		if err := rows.Scan(&t.ID, &t.CreatedNs, &t.Mode, &t.Model, &t.DurationMs, &t.RawText, &t.Text, &t.AudioPath); err != nil {
			return nil, fmt.Errorf("scan transcription: %w", err)
		}
		out = append(out, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transcriptions: %w", err)
	}

	return out, nil
}

// CountTranscriptions returns the total number of history rows.
func (s *Store) CountTranscriptions() (int64, error) {
	var n int64
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM transcriptions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transcriptions: %w", err)
	}
	return n, nil
}

// PruneHistory deletes the oldest rows beyond limit. A limit of zero
// disables pruning. Returns the number of deleted rows.
func (s *Store) PruneHistory(limit int) (int64, error) {
	if limit <= 0 {
		return 0, nil
	}

	result, err := s.db.Exec(`
		DELETE FROM transcriptions
		WHERE id NOT IN (
			SELECT id FROM transcriptions ORDER BY created_ns DESC LIMIT ?
		)`, limit,
	)
	if err != nil {
		return 0, fmt.Errorf("prune history: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return n, nil
}

// DeleteTranscription removes one history row.
func (s *Store) DeleteTranscription(id int64) error {
	result, err := s.db.Exec(`DELETE FROM transcriptions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transcription: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("transcription not found: %d", id)
	}

	return nil
}

// UpsertDictionaryEntry inserts or updates a replacement rule.
func (s *Store) UpsertDictionaryEntry(r *DictionaryRow) error {
	_, err := s.db.Exec(`
		INSERT INTO dictionary_entries (scope, pattern, replacement, created_ns)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(scope, pattern) DO UPDATE SET replacement = excluded.replacement`,
		r.Scope, r.Pattern, r.Replacement, r.CreatedNs,
	)
	if err != nil {
		return fmt.Errorf("upsert dictionary entry: %w", err)
	}
	return nil
}

// DeleteDictionaryEntry removes a replacement rule by scope and pattern.
func (s *Store) DeleteDictionaryEntry(scope, pattern string) error {
	result, err := s.db.Exec(`
		DELETE FROM dictionary_entries WHERE scope = ? AND pattern = ?`,
		scope, pattern,
	)
	if err != nil {
		return fmt.Errorf("delete dictionary entry: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("dictionary entry not found: %s/%s", scope, pattern)
	}

	return nil
}

// DictionaryEntries returns all rules in a scope, oldest first.
func (s *Store) DictionaryEntries(scope string) ([]DictionaryRow, error) {
	rows, err := s.db.Query(`
		SELECT id, scope, pattern, replacement, created_ns
		FROM dictionary_entries
		WHERE scope = ?
		ORDER BY created_ns ASC, id ASC`, scope,
	)
	if err != nil {
		return nil, fmt.Errorf("query dictionary entries: %w", err)
	}
	defer rows.Close()

	var out []DictionaryRow
	for rows.Next() {
		var r DictionaryRow
		if err := rows.Scan(&r.ID, &r.Scope, &r.Pattern, &r.Replacement, &r.CreatedNs); err != nil {
			return nil, fmt.Errorf("scan dictionary entry: %w", err)
		}
		out = append(out, r)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate dictionary entries: %w", err)
	}

	return out, nil
}
