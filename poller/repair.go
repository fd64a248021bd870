// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/draft-warden/models"
)

// PageMover is the single write the repairer needs.
type PageMover interface {
	MovePage(ctx context.Context, from, to, reason string, leaveRedirect bool) error
}

// WikiRepairer moves a misplaced review page into its author's Drafts
// space. Best effort: a page whose author cannot be derived from the
// title is only logged for a human to sort out.
type WikiRepairer struct {
	wiki PageMover
}

func NewWikiRepairer(w PageMover) *WikiRepairer {
	return &WikiRepairer{wiki: w}
}

func (r *WikiRepairer) Repair(ctx context.Context, title string) error {
	rest, ok := strings.CutPrefix(title, "User:")
	if !ok {
		slog.Warn("cannot repair page outside user space", "title", title)
		return nil
	}

	author, name, found := strings.Cut(rest, "/")
	if !found || name == "" {
		// Something like User:Bob - nothing to move it under.
		slog.Warn("cannot derive draft name for repair", "title", title)
		return nil
	}

	// User:Bob/RandomPage -> User:Bob/Drafts/RandomPage. A redirect is
	// left behind so the author's old link still works.
	target := models.DraftTitle(author, name)
	err := r.wiki.MovePage(ctx, title, target,
		"Moved to correct location, see [[Draft Creation Guide]] for info", true)
	if err != nil {
		return fmt.Errorf("repair move %q: %w", title, err)
	}

	slog.Info("repaired misplaced draft", "from", title, "to", target)
	return nil
}
