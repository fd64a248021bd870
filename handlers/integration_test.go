// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/danielhkuo/draft-warden/decision"
	"github.com/danielhkuo/draft-warden/models"
	"github.com/danielhkuo/draft-warden/poller"
	"github.com/danielhkuo/draft-warden/store"
	"github.com/danielhkuo/draft-warden/testutil"
	"github.com/danielhkuo/draft-warden/vote"
	"github.com/danielhkuo/draft-warden/wiki"
)

// integrationWiki fakes both sides of the wiki client: the read
// surface the poller consumes and the write surface the decision
// executor drives.
type integrationWiki struct {
	members  []wiki.CategoryMember
	resolved map[string]string
	pages    map[string]string

	moves   [][2]string
	deletes []string
}

func (f *integrationWiki) ListCategoryMembers(ctx context.Context, category string, limit int) ([]wiki.CategoryMember, error) {
	return f.members, nil
}

func (f *integrationWiki) ResolveUsers(ctx context.Context, usernames []string) (map[string]string, error) {
	out := make(map[string]string)
	for _, u := range usernames {
		if id, ok := f.resolved[u]; ok {
			out[u] = id
		}
	}
	return out, nil
}

func (f *integrationWiki) PageURL(title string) string {
	return "https://wiki.example.org/wiki/" + strings.ReplaceAll(title, " ", "_")
}

func (f *integrationWiki) PageContent(ctx context.Context, title string) (string, error) {
	return f.pages[title], nil
}

func (f *integrationWiki) EditPage(ctx context.Context, title, text, summary string) error {
	f.pages[title] = text
	return nil
}

func (f *integrationWiki) MovePage(ctx context.Context, from, to, reason string, leaveRedirect bool) error {
	f.moves = append(f.moves, [2]string{from, to})
	f.pages[to] = f.pages[from]
	delete(f.pages, from)
	return nil
}

func (f *integrationWiki) DeletePage(ctx context.Context, title, reason string) error {
	f.deletes = append(f.deletes, title)
	return nil
}

func (f *integrationWiki) Redirects(ctx context.Context, title string) ([]string, error) {
	return nil, nil
}

// TestFullReviewWorkflow exercises the complete path a draft takes:
// 1. The poller discovers it in the review category
// 2. The sink is notified exactly once
// 3. A ballot opens and an approve vote resolves it
// 4. Metadata (categories) triggers the decision executor
// 5. The page is promoted and the draft leaves the tracked set
func TestFullReviewWorkflow(t *testing.T) {
	conn := testutil.SetupTestDB(t)
	s := store.New(conn)
	sink := &testutil.MemorySink{}

	title := models.DraftTitle("Alice", "Cave Spiders")
	fw := &integrationWiki{
		members:  []wiki.CategoryMember{{Title: title}},
		resolved: map[string]string{"Alice": "1047"},
		pages:    map[string]string{title: "Cave spiders are small.\n"},
	}

	exec := decision.New(fw, s, sink)
	engine := vote.NewEngine(s, exec)
	p := poller.New(s, fw, sink, nil, "Drafts awaiting review", 0)

	ballotHandler := NewBallotHandler(engine)
	draftHandler := NewDraftHandler(s)

	// Step 1: poller picks up the draft
	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("Step 1 - Poll cycle failed: %v", err)
	}
	if got := sink.NotifiedTitles(); len(got) != 1 || got[0] != title {
		t.Fatalf("Step 1 - Expected one notification for %s, got %v", title, got)
	}

	// A second cycle must not re-notify
	if err := p.Cycle(context.Background()); err != nil {
		t.Fatalf("Step 1 - Second cycle failed: %v", err)
	}
	if got := sink.NotifiedTitles(); len(got) != 1 {
		t.Fatalf("Step 1 - Draft notified twice: %v", got)
	}

	// Step 2: the draft shows up in the listing
	req := testutil.MakeRequest("GET", "/drafts", nil, nil)
	w := httptest.NewRecorder()
	draftHandler.ListDrafts(w, req)
	var listing models.DraftListResponse
	testutil.AssertJSON(t, w, &listing)
	if len(listing.Drafts) != 1 || listing.Drafts[0].Title != title {
		t.Fatalf("Step 2 - Unexpected listing: %v", listing.Drafts)
	}

	// Step 3: open a single-vote ballot
	req = testutil.MakeRequest("POST", "/ballots", models.OpenBallotRequest{
		Author: "Alice", Name: "Cave Spiders", RequiredVotes: 1,
	}, nil)
	w = httptest.NewRecorder()
	ballotHandler.OpenBallot(w, req)
	testutil.AssertStatus(t, w, http.StatusCreated)

	// Step 4: a single approve resolves it
	req = testutil.MakeRequest("POST", "/ballots/Alice/Cave%20Spiders/votes", models.CastVoteRequest{
		Participant: "reviewer", Choice: models.ChoiceApprove,
	}, nil)
	req.SetPathValue("author", "Alice")
	req.SetPathValue("name", "Cave Spiders")
	w = httptest.NewRecorder()
	ballotHandler.CastVote(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	var castResp models.CastVoteResponse
	testutil.AssertJSON(t, w, &castResp)
	if castResp.Result != models.ResultApproved {
		t.Fatalf("Step 4 - Expected APPROVED, got %q", castResp.Result)
	}

	// Step 5: categories flow through to the executor
	req = testutil.MakeRequest("POST", "/ballots/Alice/Cave%20Spiders/metadata", models.MetadataRequest{
		Text: "Mobs, Hostile Mobs",
	}, nil)
	req.SetPathValue("author", "Alice")
	req.SetPathValue("name", "Cave Spiders")
	w = httptest.NewRecorder()
	ballotHandler.SubmitMetadata(w, req)
	testutil.AssertStatus(t, w, http.StatusOK)

	// The page moved to its bare name with categories appended
	if len(fw.moves) != 1 || fw.moves[0] != [2]string{title, "Cave Spiders"} {
		t.Fatalf("Step 5 - Unexpected moves: %v", fw.moves)
	}
	if body := fw.pages["Cave Spiders"]; !strings.Contains(body, "[[Category:Hostile Mobs]]") {
		t.Errorf("Step 5 - Categories missing from promoted page: %q", body)
	}

	// The draft left the tracked set and its thread is archived
	d, err := s.GetDraft(title)
	if err != nil {
		t.Fatalf("Step 5 - GetDraft failed: %v", err)
	}
	if d != nil {
		t.Error("Step 5 - Draft still tracked after approval")
	}
	if len(sink.Archived) != 1 || sink.Archived[0] != title {
		t.Errorf("Step 5 - Expected archived thread, got %v", sink.Archived)
	}

	// The identity cache was filled during discovery
	u, err := s.GetUser("Alice")
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if u == nil || u.ExternalID != "1047" {
		t.Errorf("Expected cached identity for Alice, got %+v", u)
	}
}
