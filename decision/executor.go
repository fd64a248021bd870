// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package decision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/danielhkuo/draft-warden/models"
	"github.com/danielhkuo/draft-warden/notify"
	"github.com/danielhkuo/draft-warden/store"
)

// PageWriter is the slice of the wiki client the executor mutates
// pages through.
type PageWriter interface {
	PageContent(ctx context.Context, title string) (string, error)
	EditPage(ctx context.Context, title, text, summary string) error
	MovePage(ctx context.Context, from, to, reason string, leaveRedirect bool) error
	DeletePage(ctx context.Context, title, reason string) error
	Redirects(ctx context.Context, title string) ([]string, error)
}

// Executor applies the terminal outcome of a ballot to the wiki.
// It runs each step regardless of earlier failures and reports
// everything that went wrong joined into one error. There is no
// rollback; a partially applied decision is repaired by hand.
type Executor struct {
	wiki  PageWriter
	store *store.Store
	sink  notify.Sink
}

func New(wiki PageWriter, store *store.Store, sink notify.Sink) *Executor {
	return &Executor{wiki: wiki, store: store, sink: sink}
}

// Approve promotes a draft into mainspace: incoming redirects to the
// draft are deleted, the approved categories are appended, the page
// is moved to its bare name without leaving a redirect, the draft row
// is dropped, and the review thread is archived.
func (e *Executor) Approve(ctx context.Context, author, name, categories string) error {
	title := models.DraftTitle(author, name)
	var errs []error

	redirects, err := e.wiki.Redirects(ctx, title)
	if err != nil {
		slog.Error("failed to list redirects", "title", title, "error", err)
		errs = append(errs, fmt.Errorf("list redirects: %w", err))
	}
	for _, r := range redirects {
		if err := e.wiki.DeletePage(ctx, r, "Cleaning up redirects to approved draft"); err != nil {
			slog.Error("failed to delete redirect", "redirect", r, "error", err)
			errs = append(errs, fmt.Errorf("delete redirect %s: %w", r, err))
		}
	}

	if block := categoryBlock(categories); block != "" {
		content, err := e.wiki.PageContent(ctx, title)
		if err != nil {
			slog.Error("failed to fetch draft content", "title", title, "error", err)
			errs = append(errs, fmt.Errorf("fetch content: %w", err))
		} else {
			text := strings.TrimRight(content, "\n") + "\n" + block
			if err := e.wiki.EditPage(ctx, title, text, "Adding categories to approved draft"); err != nil {
				slog.Error("failed to add categories", "title", title, "error", err)
				errs = append(errs, fmt.Errorf("add categories: %w", err))
			}
		}
	}

	if err := e.wiki.MovePage(ctx, title, name, "Approved draft", false); err != nil {
		slog.Error("failed to move approved draft", "title", title, "target", name, "error", err)
		errs = append(errs, fmt.Errorf("move page: %w", err))
	}

	errs = append(errs, e.retire(ctx, title)...)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	slog.Info("draft approved", "title", title, "target", name)
	return nil
}

// Reject appends a rejection notice to the draft, drops the draft
// row, and archives the review thread. The page itself stays in the
// author's user space.
func (e *Executor) Reject(ctx context.Context, author, name, reason string) error {
	title := models.DraftTitle(author, name)
	var errs []error

	content, err := e.wiki.PageContent(ctx, title)
	if err != nil {
		slog.Error("failed to fetch draft content", "title", title, "error", err)
		errs = append(errs, fmt.Errorf("fetch content: %w", err))
	} else {
		notice := fmt.Sprintf("\n\n== Draft rejected ==\nThis draft was reviewed and rejected: %s\n", reason)
		if err := e.wiki.EditPage(ctx, title, content+notice, "Draft rejected after review"); err != nil {
			slog.Error("failed to append rejection notice", "title", title, "error", err)
			errs = append(errs, fmt.Errorf("append notice: %w", err))
		}
	}

	errs = append(errs, e.retire(ctx, title)...)

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	slog.Info("draft rejected", "title", title)
	return nil
}

// retire drops the local draft row and archives its review thread.
// Both decisions end the same way once the wiki work is done.
func (e *Executor) retire(ctx context.Context, title string) []error {
	var errs []error
	if err := e.store.RemoveDraft(title); err != nil {
		slog.Error("failed to remove draft row", "title", title, "error", err)
		errs = append(errs, fmt.Errorf("remove draft: %w", err))
	}
	if err := e.sink.ArchiveThread(ctx, title); err != nil {
		slog.Error("failed to archive review thread", "title", title, "error", err)
		errs = append(errs, fmt.Errorf("archive thread: %w", err))
	}
	return errs
}

// categoryBlock renders a comma-separated category list as wikitext,
// one membership line per category. Blank entries are dropped.
func categoryBlock(categories string) string {
	var lines []string
	for _, c := range strings.Split(categories, ",") {
		c = strings.TrimSpace(c)
		if c == "" {
			continue
		}
		lines = append(lines, fmt.Sprintf("[[Category:%s]]", c))
	}
	return strings.Join(lines, "\n")
}
