package poller

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeMover struct {
	mu    sync.Mutex
	moves [][2]string
	err   error
}

func (m *fakeMover) MovePage(ctx context.Context, from, to, reason string, leaveRedirect bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if !leaveRedirect {
		return errors.New("repair moves must leave a redirect")
	}
	m.moves = append(m.moves, [2]string{from, to})
	return nil
}

func TestRepairMovesIntoDraftsSpace(t *testing.T) {
	mover := &fakeMover{}
	r := NewWikiRepairer(mover)

	if err := r.Repair(context.Background(), "User:Bob/RandomPage"); err != nil {
		t.Fatalf("Repair failed: %v", err)
	}

	if len(mover.moves) != 1 {
		t.Fatalf("Expected one move, got %d", len(mover.moves))
	}
	if mover.moves[0] != [2]string{"User:Bob/RandomPage", "User:Bob/Drafts/RandomPage"} {
		t.Errorf("Unexpected move: %v", mover.moves[0])
	}
}

func TestRepairSkipsNonUserSpace(t *testing.T) {
	mover := &fakeMover{}
	r := NewWikiRepairer(mover)

	if err := r.Repair(context.Background(), "Template:Infobox"); err != nil {
		t.Fatalf("Non-user page should be skipped, not failed: %v", err)
	}
	if err := r.Repair(context.Background(), "User:Bob"); err != nil {
		t.Fatalf("Bare user page should be skipped: %v", err)
	}
	if len(mover.moves) != 0 {
		t.Errorf("Expected no moves, got %v", mover.moves)
	}
}

func TestRepairSurfacesMoveError(t *testing.T) {
	mover := &fakeMover{err: errors.New("permission denied")}
	r := NewWikiRepairer(mover)

	if err := r.Repair(context.Background(), "User:Bob/RandomPage"); err == nil {
		t.Error("Expected move error to surface")
	}
}
