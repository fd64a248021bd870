// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/danielhkuo/draft-warden/models"
)

// StorageError wraps any underlying I/O failure (lock timeout, closed
// connection, disk trouble). Callers treat the store as unavailable but
// retryable; a failed operation never takes down the process.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// Store is the persistent state for tracked drafts and cached user
// identities. Connections come from the pool per operation; sqlite's
// busy timeout bounds the wait for exclusive access.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// AddDraft upserts a draft row. Idempotent; always refreshes the
// timestamp, and a re-appearing title keeps its identity while the url
// and timestamp are overwritten.
func (s *Store) AddDraft(title, url string) error {
	_, err := s.db.Exec(`
		INSERT INTO draft (title, url, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (title) DO UPDATE SET url = excluded.url, created_at = excluded.created_at
	`, title, url, time.Now().UTC())
	if err != nil {
		return &StorageError{Op: "add draft", Err: err}
	}
	return nil
}

// RemoveDraft deletes a draft if present. Absence is not an error.
func (s *Store) RemoveDraft(title string) error {
	_, err := s.db.Exec(`DELETE FROM draft WHERE title = $1`, title)
	if err != nil {
		return &StorageError{Op: "remove draft", Err: err}
	}
	return nil
}

// GetDraft returns the draft for a title, or nil if it is not tracked.
func (s *Store) GetDraft(title string) (*models.Draft, error) {
	var d models.Draft
	err := s.db.QueryRow(`
		SELECT title, url, created_at FROM draft WHERE title = $1
	`, title).Scan(&d.Title, &d.URL, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "get draft", Err: err}
	}
	return &d, nil
}

// GetAllDrafts returns every tracked draft keyed by title.
func (s *Store) GetAllDrafts() (map[string]models.Draft, error) {
	rows, err := s.db.Query(`SELECT title, url, created_at FROM draft`)
	if err != nil {
		return nil, &StorageError{Op: "list drafts", Err: err}
	}
	defer rows.Close()

	drafts := make(map[string]models.Draft)
	for rows.Next() {
		var d models.Draft
		if err := rows.Scan(&d.Title, &d.URL, &d.CreatedAt); err != nil {
			return nil, &StorageError{Op: "scan draft", Err: err}
		}
		drafts[d.Title] = d
	}
	if err := rows.Err(); err != nil {
		return nil, &StorageError{Op: "list drafts", Err: err}
	}
	return drafts, nil
}

// AddUser upserts a cached user identity with a fresh timestamp.
func (s *Store) AddUser(username, externalID string) error {
	_, err := s.db.Exec(`
		INSERT INTO wiki_user (username, external_id, last_updated)
		VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET external_id = excluded.external_id, last_updated = excluded.last_updated
	`, username, externalID, time.Now().UTC())
	if err != nil {
		return &StorageError{Op: "add user", Err: err}
	}
	return nil
}

// GetUser returns the cached identity for a username, or nil if absent.
func (s *Store) GetUser(username string) (*models.UserIdentity, error) {
	var u models.UserIdentity
	err := s.db.QueryRow(`
		SELECT username, external_id, last_updated FROM wiki_user WHERE username = $1
	`, username).Scan(&u.Username, &u.ExternalID, &u.LastUpdated)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, &StorageError{Op: "get user", Err: err}
	}
	return &u, nil
}

// UserCacheAge reports how long ago a username's identity was refreshed.
// ok is false when the user has never been cached.
func (s *Store) UserCacheAge(username string) (time.Duration, bool, error) {
	u, err := s.GetUser(username)
	if err != nil {
		return 0, false, err
	}
	if u == nil {
		return 0, false, nil
	}
	return time.Since(u.LastUpdated), true, nil
}
