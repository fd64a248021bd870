// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/samber/lo"

	"github.com/danielhkuo/draft-warden/models"
	"github.com/danielhkuo/draft-warden/notify"
	"github.com/danielhkuo/draft-warden/store"
	"github.com/danielhkuo/draft-warden/wiki"
)

// categoryLimit caps a single category listing call.
const categoryLimit = 500

// WikiReader is the read-side slice of the wiki gateway the poller needs.
type WikiReader interface {
	ListCategoryMembers(ctx context.Context, category string, limit int) ([]wiki.CategoryMember, error)
	ResolveUsers(ctx context.Context, usernames []string) (map[string]string, error)
	PageURL(title string) string
}

// Repairer handles pages that landed in the review category with a
// malformed title. They are never tracked as drafts.
type Repairer interface {
	Repair(ctx context.Context, title string) error
}

// Poller keeps the store eventually consistent with the wiki's review
// category and emits exactly one new-draft event per newly appeared
// title.
type Poller struct {
	store    *store.Store
	wiki     WikiReader
	sink     notify.Sink
	repairer Repairer
	category string
	interval time.Duration
}

func New(s *store.Store, w WikiReader, sink notify.Sink, repairer Repairer, category string, interval time.Duration) *Poller {
	return &Poller{
		store:    s,
		wiki:     w,
		sink:     sink,
		repairer: repairer,
		category: category,
		interval: interval,
	}
}

// Run executes one cycle per interval until the context is cancelled.
// Cycle errors are logged at this boundary and never escape: a bad
// cycle means stale data for one interval, not a dead process.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if err := p.Cycle(ctx); err != nil {
			slog.Error("poll cycle failed", "error", err)
		}
		select {
		case <-ctx.Done():
			slog.Info("poller stopped")
			return
		case <-ticker.C:
		}
	}
}

// Cycle runs a single poll pass: snapshot store keys, fetch the
// category, validate and upsert, diff, then notify for newly appeared
// drafts. Per-page failures are logged and skipped so one bad page
// cannot starve the rest; the store upsert happens before notification,
// so a sink failure does not corrupt the next cycle's diff.
func (p *Poller) Cycle(ctx context.Context) error {
	old, err := p.store.GetAllDrafts()
	if err != nil {
		return fmt.Errorf("snapshot store: %w", err)
	}
	oldTitles := lo.Keys(old)

	members, err := p.wiki.ListCategoryMembers(ctx, p.category, categoryLimit)
	if err != nil {
		return fmt.Errorf("fetch category: %w", err)
	}

	for _, m := range members {
		if _, _, err := models.ParseDraftTitle(m.Title); err != nil {
			var ve *models.ValidationError
			if errors.As(err, &ve) {
				slog.Warn("malformed draft title, routing to repair", "title", m.Title)
				if err := p.repairer.Repair(ctx, m.Title); err != nil {
					slog.Error("page repair failed", "title", m.Title, "error", err)
				}
				continue
			}
			return err
		}
		// Duplicate titles inside one response collapse here; the
		// upsert is naturally idempotent.
		if err := p.store.AddDraft(m.Title, p.wiki.PageURL(m.Title)); err != nil {
			slog.Error("failed to upsert draft", "title", m.Title, "error", err)
		}
	}

	current, err := p.store.GetAllDrafts()
	if err != nil {
		return fmt.Errorf("re-read store: %w", err)
	}
	newTitles := lo.Without(lo.Keys(current), oldTitles...)
	sort.Strings(newTitles)

	for _, title := range newTitles {
		author, _, err := models.ParseDraftTitle(title)
		if err != nil {
			continue // cannot happen for stored titles, but stay safe
		}

		externalID := p.refreshIdentity(ctx, author)

		draft := current[title]
		err = p.sink.NotifyNewDraft(ctx, notify.NewDraft{
			Title:      title,
			URL:        draft.URL,
			Author:     author,
			ExternalID: externalID,
			FirstSeen:  draft.CreatedAt,
		})
		if err != nil {
			// The draft is already tracked; it will not be re-notified.
			// The thread appears when a human reruns the lookup or the
			// sink recovers and the draft is re-surfaced by command.
			slog.Error("failed to notify new draft", "title", title, "error", err)
			continue
		}
		slog.Info("new draft surfaced", "title", title, "author", author)
	}

	return nil
}

// refreshIdentity keeps the user cache warm for rendering. Failures
// only cost cosmetic output, never the cycle.
func (p *Poller) refreshIdentity(ctx context.Context, author string) string {
	age, cached, err := p.store.UserCacheAge(author)
	if err != nil {
		slog.Warn("user cache unavailable", "username", author, "error", err)
		return ""
	}

	if !cached || age >= models.UserCacheTTL {
		ids, err := p.wiki.ResolveUsers(ctx, []string{author})
		if err != nil {
			slog.Warn("failed to resolve user", "username", author, "error", err)
		} else if id, ok := ids[author]; ok {
			if err := p.store.AddUser(author, id); err != nil {
				slog.Warn("failed to cache user", "username", author, "error", err)
			}
		}
	}

	u, err := p.store.GetUser(author)
	if err != nil || u == nil {
		return ""
	}
	return u.ExternalID
}
