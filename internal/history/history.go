// Package history persists applied filter snapshots to a local sqlite file
// so recent views survive restarts and can be reapplied.
package history

import (
	"database/sql"
	_ "embed"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/rtaverse/dashboard/internal/filter"
)

//go:embed schema.sql
var schemaSQL string

// Entry is one recorded filter application.
type Entry struct {
	ID          int64
	AppliedAt   time.Time
	Description string
	Query       string
	Snapshot    filter.Snapshot
}

type Store struct {
	*sql.DB
}

// NewStore opens (or creates) the history database and applies the schema.
func NewStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db}, nil
}

// Record appends a committed snapshot to the history.
func (s *Store) Record(snap filter.Snapshot) (int64, error) {
	raw, err := json.Marshal(snap)
	if err != nil {
		return 0, fmt.Errorf("encode snapshot: %w", err)
	}
	res, err := s.Exec(
		`INSERT INTO filter_history (description, query, snapshot) VALUES (?, ?, ?)`,
		snap.Describe(), snap.Query(), string(raw),
	)
	if err != nil {
		return 0, fmt.Errorf("record filter history: %w", err)
	}
	return res.LastInsertId()
}

// Recent returns the newest entries, most recent first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.Query(
		`SELECT id, applied_at, description, query, snapshot
		 FROM filter_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query filter history: %w", err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			e       Entry
			applied string
			raw     string
		)
		if err := rows.Scan(&e.ID, &applied, &e.Description, &e.Query, &raw); err != nil {
			return nil, fmt.Errorf("scan filter history: %w", err)
		}
		if ts, err := time.Parse("2006-01-02T15:04:05.000Z", applied); err == nil {
			e.AppliedAt = ts
		}
		if err := json.Unmarshal([]byte(raw), &e.Snapshot); err != nil {
			return nil, fmt.Errorf("decode snapshot %d: %w", e.ID, err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Get fetches one entry by id.
func (s *Store) Get(id int64) (*Entry, error) {
	row := s.QueryRow(
		`SELECT id, applied_at, description, query, snapshot
		 FROM filter_history WHERE id = ?`, id)

	var (
		e       Entry
		applied string
		raw     string
	)
	if err := row.Scan(&e.ID, &applied, &e.Description, &e.Query, &raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("load filter history %d: %w", id, err)
	}
	if ts, err := time.Parse("2006-01-02T15:04:05.000Z", applied); err == nil {
		e.AppliedAt = ts
	}
	if err := json.Unmarshal([]byte(raw), &e.Snapshot); err != nil {
		return nil, fmt.Errorf("decode snapshot %d: %w", id, err)
	}
	return &e, nil
}

// Prune keeps only the newest keep entries.
func (s *Store) Prune(keep int) error {
	if keep <= 0 {
		keep = 100
	}
	_, err := s.Exec(
		`DELETE FROM filter_history WHERE id NOT IN
		 (SELECT id FROM filter_history ORDER BY id DESC LIMIT ?)`, keep)
	if err != nil {
		return fmt.Errorf("prune filter history: %w", err)
	}
	return nil
}
