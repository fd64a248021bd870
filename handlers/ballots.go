// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/draft-warden/middleware"
	"github.com/danielhkuo/draft-warden/models"
	"github.com/danielhkuo/draft-warden/vote"
)

type BallotHandler struct {
	engine *vote.Engine
}

func NewBallotHandler(engine *vote.Engine) *BallotHandler {
	return &BallotHandler{engine: engine}
}

// OpenBallot handles POST /ballots
func (h *BallotHandler) OpenBallot(w http.ResponseWriter, r *http.Request) {
	var req models.OpenBallotRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Author == "" || req.Name == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "author and name are required")
		return
	}

	opts := vote.Options{
		RequiredVotes: req.RequiredVotes,
		Duration:      time.Duration(req.DurationHours * float64(time.Hour)),
	}

	b, err := h.engine.Open(req.Author, req.Name, opts)
	switch {
	case errors.Is(err, vote.ErrUnknownDraft):
		middleware.ErrorResponse(w, http.StatusNotFound, "Draft is not tracked")
		return
	case errors.Is(err, vote.ErrBallotExists):
		middleware.ErrorResponse(w, http.StatusConflict, "A ballot is already open for this draft")
		return
	case err != nil:
		slog.Error("failed to open ballot", "author", req.Author, "name", req.Name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to open ballot")
		return
	}

	st := b.Status()
	middleware.JSONResponse(w, http.StatusCreated, models.OpenBallotResponse{
		Title:         st.Title,
		RequiredVotes: st.RequiredVotes,
		ClosesAt:      st.ClosesAt,
	})
}

// GetBallot handles GET /ballots/{author}/{name}
func (h *BallotHandler) GetBallot(w http.ResponseWriter, r *http.Request) {
	author, name := r.PathValue("author"), r.PathValue("name")

	b, err := h.engine.Get(author, name)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "No ballot open for this draft")
		return
	}

	st := b.Status()
	middleware.JSONResponse(w, http.StatusOK, models.BallotStatusResponse{
		Title:         st.Title,
		ApproveCount:  st.ApproveCount,
		RejectCount:   st.RejectCount,
		RequiredVotes: st.RequiredVotes,
		ClosesAt:      st.ClosesAt,
		ClosesIn:      humanize.Time(st.ClosesAt),
		Result:        st.Result,
	})
}

// CastVote handles POST /ballots/{author}/{name}/votes
func (h *BallotHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	author, name := r.PathValue("author"), r.PathValue("name")

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Participant == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "participant is required")
		return
	}

	st, err := h.engine.Cast(author, name, req.Participant, req.Choice)
	switch {
	case errors.Is(err, vote.ErrNoBallot):
		middleware.ErrorResponse(w, http.StatusNotFound, "No ballot open for this draft")
		return
	case errors.Is(err, vote.ErrInvalidChoice):
		middleware.ErrorResponse(w, http.StatusBadRequest, "choice must be approve or reject")
		return
	case err != nil:
		slog.Error("failed to cast vote", "author", author, "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to cast vote")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.CastVoteResponse{
		ApproveCount: st.ApproveCount,
		RejectCount:  st.RejectCount,
		Result:       st.Result,
	})
}

// SubmitMetadata handles POST /ballots/{author}/{name}/metadata.
// For an approved ballot the text is the category list; for a
// rejected one it is the reason. The call blocks until the decision
// has been applied to the wiki and reports how that went.
func (h *BallotHandler) SubmitMetadata(w http.ResponseWriter, r *http.Request) {
	author, name := r.PathValue("author"), r.PathValue("name")

	var req models.MetadataRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Text == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "text is required")
		return
	}

	err := h.engine.SubmitMetadata(author, name, req.Text)
	var stale *vote.StaleStateError
	switch {
	case errors.Is(err, vote.ErrNoBallot):
		middleware.ErrorResponse(w, http.StatusNotFound, "No ballot open for this draft")
		return
	case errors.Is(err, vote.ErrBallotOpen):
		middleware.ErrorResponse(w, http.StatusConflict, "Ballot has not resolved yet")
		return
	case errors.Is(err, vote.ErrMetadataWindowClosed):
		middleware.ErrorResponse(w, http.StatusConflict, "Metadata window closed")
		return
	case errors.As(err, &stale):
		middleware.ErrorResponse(w, http.StatusGone, "Draft no longer exists")
		return
	case err != nil:
		slog.Error("decision execution failed", "author", author, "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to apply decision to the wiki")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.DecisionResponse{Message: "Decision applied"})
}
