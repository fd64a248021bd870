package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type recordedEvent struct {
	Event    string `json:"event"`
	ThreadID string `json:"thread_id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
}

func newRecordingWorkspace(t *testing.T, failNext *bool) (*httptest.Server, func() []recordedEvent) {
	t.Helper()

	var mu sync.Mutex
	var events []recordedEvent

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failNext != nil && *failNext {
			*failNext = false
			http.Error(w, "workspace down", http.StatusServiceUnavailable)
			return
		}
		var e recordedEvent
		if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
			t.Errorf("Malformed sink event: %v", err)
		}
		mu.Lock()
		events = append(events, e)
		mu.Unlock()
		w.WriteHeader(http.StatusNoContent)
	}))
	t.Cleanup(srv.Close)

	return srv, func() []recordedEvent {
		mu.Lock()
		defer mu.Unlock()
		return append([]recordedEvent(nil), events...)
	}
}

func TestNotifyNewDraftIdempotent(t *testing.T) {
	srv, events := newRecordingWorkspace(t, nil)
	sink := NewWebhookSink(srv.URL)

	d := NewDraft{Title: "User:Alice/Drafts/Spawn", URL: "https://w/wiki/x", Author: "Alice"}

	if err := sink.NotifyNewDraft(context.Background(), d); err != nil {
		t.Fatalf("First notify failed: %v", err)
	}
	// Open thread: second notify is a no-op
	if err := sink.NotifyNewDraft(context.Background(), d); err != nil {
		t.Fatalf("Second notify failed: %v", err)
	}

	got := events()
	if len(got) != 1 {
		t.Fatalf("Expected 1 event, got %d", len(got))
	}
	if got[0].Event != "thread_create" {
		t.Errorf("Expected thread_create, got %s", got[0].Event)
	}
	if got[0].ThreadID == "" {
		t.Error("Expected a thread id")
	}
}

func TestArchiveThenReopen(t *testing.T) {
	srv, events := newRecordingWorkspace(t, nil)
	sink := NewWebhookSink(srv.URL)

	d := NewDraft{Title: "User:Bob/Drafts/Nether", Author: "Bob"}

	if err := sink.NotifyNewDraft(context.Background(), d); err != nil {
		t.Fatalf("Notify failed: %v", err)
	}
	if err := sink.ArchiveThread(context.Background(), d.Title); err != nil {
		t.Fatalf("Archive failed: %v", err)
	}
	// Archiving twice is a no-op
	if err := sink.ArchiveThread(context.Background(), d.Title); err != nil {
		t.Fatalf("Second archive failed: %v", err)
	}
	// Draft reappears: thread is reopened, not duplicated
	if err := sink.NotifyNewDraft(context.Background(), d); err != nil {
		t.Fatalf("Reopen notify failed: %v", err)
	}

	got := events()
	if len(got) != 3 {
		t.Fatalf("Expected 3 events, got %d: %+v", len(got), got)
	}
	if got[1].Event != "thread_archive" {
		t.Errorf("Expected thread_archive, got %s", got[1].Event)
	}
	if got[2].Event != "thread_reopen" {
		t.Errorf("Expected thread_reopen, got %s", got[2].Event)
	}
	if got[2].ThreadID != got[0].ThreadID {
		t.Error("Reopen should reuse the original thread id")
	}
}

func TestArchiveUnknownThreadIsNoop(t *testing.T) {
	srv, events := newRecordingWorkspace(t, nil)
	sink := NewWebhookSink(srv.URL)

	if err := sink.ArchiveThread(context.Background(), "User:Nobody/Drafts/Ghost"); err != nil {
		t.Fatalf("Archive of unknown thread should be a no-op: %v", err)
	}
	if len(events()) != 0 {
		t.Error("Expected no events for unknown thread")
	}
}

func TestFailedCreateCanRetry(t *testing.T) {
	failNext := true
	srv, events := newRecordingWorkspace(t, &failNext)
	sink := NewWebhookSink(srv.URL)

	d := NewDraft{Title: "User:Carol/Drafts/End", Author: "Carol"}

	if err := sink.NotifyNewDraft(context.Background(), d); err == nil {
		t.Fatal("Expected failure from workspace outage")
	}
	// A later notify should create the thread cleanly
	if err := sink.NotifyNewDraft(context.Background(), d); err != nil {
		t.Fatalf("Retry notify failed: %v", err)
	}

	got := events()
	if len(got) != 1 || got[0].Event != "thread_create" {
		t.Fatalf("Expected one thread_create after retry, got %+v", got)
	}
}

func TestLogOnlyModeWithoutURL(t *testing.T) {
	sink := NewWebhookSink("")

	d := NewDraft{Title: "User:Dave/Drafts/Farms", Author: "Dave"}
	if err := sink.NotifyNewDraft(context.Background(), d); err != nil {
		t.Fatalf("Log-only notify failed: %v", err)
	}
	if err := sink.ArchiveThread(context.Background(), d.Title); err != nil {
		t.Fatalf("Log-only archive failed: %v", err)
	}
}
