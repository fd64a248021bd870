// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/danielhkuo/draft-warden/cliparse"
	"github.com/danielhkuo/draft-warden/db"
	"github.com/danielhkuo/draft-warden/notify"
)

// SetupTestDB creates a fresh in-memory sqlite database with the full schema.
// Each call gets its own database; it lives until the connection closes.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := "file:" + uuid.NewString() + "?mode=memory&cache=shared&_pragma=busy_timeout(5000)"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	// Shared-cache in-memory DBs vanish when the last connection closes;
	// a single pooled connection keeps them alive for the test.
	conn.SetMaxOpenConns(1)

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	t.Cleanup(func() { conn.Close() })
	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:         8713,
		DatabaseType: "sqlite",
		WikiURL:      "https://wiki.example.org",
		WikiUsername: "WardenBot@WardenBot",
		WikiPassword: "test-password",
		Category:     "Drafts awaiting review",
		PollInterval: 60 * time.Second,
		SinkKeySalt:  "test-sink-salt",
	}
}

// AddTestDraft inserts a draft row directly
func AddTestDraft(t *testing.T, conn *sql.DB, title, url string) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO draft (title, url, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (title) DO UPDATE SET url = excluded.url, created_at = excluded.created_at
	`, title, url, time.Now().UTC())
	if err != nil {
		t.Fatalf("Failed to create test draft: %v", err)
	}
}

// AddTestUser inserts a cached user identity with the given age
func AddTestUser(t *testing.T, conn *sql.DB, username, externalID string, age time.Duration) {
	t.Helper()

	_, err := conn.Exec(`
		INSERT INTO wiki_user (username, external_id, last_updated) VALUES ($1, $2, $3)
		ON CONFLICT (username) DO UPDATE SET external_id = excluded.external_id, last_updated = excluded.last_updated
	`, username, externalID, time.Now().UTC().Add(-age))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
}

// MemorySink is a recording notify.Sink for tests. It can be told to
// fail specific titles to exercise partial-cycle behavior.
type MemorySink struct {
	mu        sync.Mutex
	Notified  []notify.NewDraft
	Archived  []string
	FailTitle string
}

func (m *MemorySink) NotifyNewDraft(ctx context.Context, d notify.NewDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailTitle != "" && d.Title == m.FailTitle {
		return errors.New("sink unavailable")
	}
	m.Notified = append(m.Notified, d)
	return nil
}

func (m *MemorySink) ArchiveThread(ctx context.Context, title string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Archived = append(m.Archived, title)
	return nil
}

// NotifiedTitles returns the titles notified so far, in order.
func (m *MemorySink) NotifiedTitles() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	titles := make([]string, 0, len(m.Notified))
	for _, d := range m.Notified {
		titles = append(titles, d.Title)
	}
	return titles
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
