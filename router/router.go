// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/draft-warden/cliparse"
	"github.com/danielhkuo/draft-warden/handlers"
	"github.com/danielhkuo/draft-warden/middleware"
	"github.com/danielhkuo/draft-warden/store"
	"github.com/danielhkuo/draft-warden/vote"
)

func NewRouter(s *store.Store, engine *vote.Engine, exec vote.Executor, cfg cliparse.Config) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	draftHandler := handlers.NewDraftHandler(s)
	ballotHandler := handlers.NewBallotHandler(engine)
	decisionHandler := handlers.NewDecisionHandler(s, exec)

	// Everything except /health requires the sink key
	protected := func(h http.HandlerFunc) http.HandlerFunc {
		return middleware.WithLogging(middleware.WithSinkAuth(cfg.SinkKeySalt, h))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Draft listing
	mux.HandleFunc("GET /drafts", protected(draftHandler.ListDrafts))

	// Ballot lifecycle
	mux.HandleFunc("POST /ballots", protected(ballotHandler.OpenBallot))
	mux.HandleFunc("GET /ballots/{author}/{name}", protected(ballotHandler.GetBallot))
	mux.HandleFunc("POST /ballots/{author}/{name}/votes", protected(ballotHandler.CastVote))
	mux.HandleFunc("POST /ballots/{author}/{name}/metadata", protected(ballotHandler.SubmitMetadata))

	// Manual decisions
	mux.HandleFunc("POST /drafts/{author}/{name}/approve", protected(decisionHandler.Approve))
	mux.HandleFunc("POST /drafts/{author}/{name}/reject", protected(decisionHandler.Reject))

	// Root endpoint
	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("draft-warden API v1"))
	})

	return mux
}
