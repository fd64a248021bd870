// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
)

// NewDraft is the payload for a newly appeared draft.
type NewDraft struct {
	Title      string
	URL        string
	Author     string
	ExternalID string // empty when the identity cache has nothing fresh
	FirstSeen  time.Time
}

// Sink delivers draft events to the chat workspace.
type Sink interface {
	// NotifyNewDraft surfaces a draft for review. Idempotent per title:
	// an open thread is a no-op, an archived one is reopened, a missing
	// one is created.
	NotifyNewDraft(ctx context.Context, d NewDraft) error

	// ArchiveThread closes the discussion thread for a decided draft.
	ArchiveThread(ctx context.Context, title string) error
}

type threadState int

const (
	threadOpen threadState = iota
	threadArchived
)

type thread struct {
	ID    string
	State threadState
}

// WebhookSink posts draft events to a chat-workspace webhook and owns
// the registry of known discussion threads, keyed by canonical thread
// name (the draft title). The registry is private state; collaborators
// hold the Sink, never the map.
type WebhookSink struct {
	url  string
	http *http.Client

	mu      sync.Mutex
	threads map[string]*thread
}

func NewWebhookSink(url string) *WebhookSink {
	return &WebhookSink{
		url:     url,
		http:    &http.Client{Timeout: 15 * time.Second},
		threads: make(map[string]*thread),
	}
}

type webhookEvent struct {
	Event    string `json:"event"`
	ThreadID string `json:"thread_id"`
	Title    string `json:"title"`
	URL      string `json:"url,omitempty"`
	Author   string `json:"author,omitempty"`
	AuthorID string `json:"author_id,omitempty"`
	Message  string `json:"message,omitempty"`
}

func (s *WebhookSink) NotifyNewDraft(ctx context.Context, d NewDraft) error {
	s.mu.Lock()
	th, known := s.threads[d.Title]
	if known && th.State == threadOpen {
		s.mu.Unlock()
		slog.Debug("thread already open", "title", d.Title)
		return nil
	}

	event := "thread_create"
	if known {
		event = "thread_reopen"
	} else {
		th = &thread{ID: uuid.NewString()}
		s.threads[d.Title] = th
	}
	threadID := th.ID
	s.mu.Unlock()

	firstSeen := d.FirstSeen
	if firstSeen.IsZero() {
		firstSeen = time.Now()
	}
	err := s.send(ctx, webhookEvent{
		Event:    event,
		ThreadID: threadID,
		Title:    d.Title,
		URL:      d.URL,
		Author:   d.Author,
		AuthorID: d.ExternalID,
		Message:  fmt.Sprintf("Draft by %s awaiting review (first seen %s)", d.Author, humanize.Time(firstSeen)),
	})
	if err != nil {
		if !known {
			// Creation never reached the workspace; forget the thread
			// so a later notify can create it cleanly.
			s.mu.Lock()
			delete(s.threads, d.Title)
			s.mu.Unlock()
		}
		return err
	}

	s.mu.Lock()
	th.State = threadOpen
	s.mu.Unlock()
	return nil
}

func (s *WebhookSink) ArchiveThread(ctx context.Context, title string) error {
	s.mu.Lock()
	th, known := s.threads[title]
	if !known || th.State == threadArchived {
		s.mu.Unlock()
		return nil
	}
	threadID := th.ID
	s.mu.Unlock()

	if err := s.send(ctx, webhookEvent{Event: "thread_archive", ThreadID: threadID, Title: title}); err != nil {
		return err
	}

	s.mu.Lock()
	th.State = threadArchived
	s.mu.Unlock()
	return nil
}

func (s *WebhookSink) send(ctx context.Context, e webhookEvent) error {
	if s.url == "" {
		// No webhook configured; log-only mode.
		slog.Info("sink event", "event", e.Event, "title", e.Title, "thread_id", e.ThreadID)
		return nil
	}

	body, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode sink event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build sink request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.http.Do(req)
	if err != nil {
		return fmt.Errorf("post sink event: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sink rejected event: status %d", resp.StatusCode)
	}
	return nil
}
