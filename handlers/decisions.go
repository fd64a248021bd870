// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/draft-warden/middleware"
	"github.com/danielhkuo/draft-warden/models"
	"github.com/danielhkuo/draft-warden/store"
	"github.com/danielhkuo/draft-warden/vote"
)

// DecisionHandler is the manual override path: it applies a decision
// to a tracked draft directly, without a ballot. The ballot flow in
// BallotHandler is the normal route.
type DecisionHandler struct {
	store *store.Store
	exec  vote.Executor
}

func NewDecisionHandler(store *store.Store, exec vote.Executor) *DecisionHandler {
	return &DecisionHandler{store: store, exec: exec}
}

// Approve handles POST /drafts/{author}/{name}/approve
func (h *DecisionHandler) Approve(w http.ResponseWriter, r *http.Request) {
	author, name := r.PathValue("author"), r.PathValue("name")

	var req models.ApproveRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if !h.tracked(w, author, name) {
		return
	}

	if err := h.exec.Approve(r.Context(), author, name, req.Categories); err != nil {
		slog.Error("manual approval failed", "author", author, "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to apply decision to the wiki")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.DecisionResponse{Message: "Draft approved"})
}

// Reject handles POST /drafts/{author}/{name}/reject
func (h *DecisionHandler) Reject(w http.ResponseWriter, r *http.Request) {
	author, name := r.PathValue("author"), r.PathValue("name")

	var req models.RejectRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.Reason == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "reason is required")
		return
	}

	if !h.tracked(w, author, name) {
		return
	}

	if err := h.exec.Reject(r.Context(), author, name, req.Reason); err != nil {
		slog.Error("manual rejection failed", "author", author, "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusBadGateway, "Failed to apply decision to the wiki")
		return
	}
	middleware.JSONResponse(w, http.StatusOK, models.DecisionResponse{Message: "Draft rejected"})
}

func (h *DecisionHandler) tracked(w http.ResponseWriter, author, name string) bool {
	d, err := h.store.GetDraft(models.DraftTitle(author, name))
	if err != nil {
		slog.Error("failed to look up draft", "author", author, "name", name, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return false
	}
	if d == nil {
		middleware.ErrorResponse(w, http.StatusNotFound, "Draft is not tracked")
		return false
	}
	return true
}
