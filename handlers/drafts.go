// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"sort"

	"github.com/danielhkuo/draft-warden/middleware"
	"github.com/danielhkuo/draft-warden/models"
	"github.com/danielhkuo/draft-warden/store"
)

type DraftHandler struct {
	store *store.Store
}

func NewDraftHandler(store *store.Store) *DraftHandler {
	return &DraftHandler{store: store}
}

// ListDrafts handles GET /drafts
func (h *DraftHandler) ListDrafts(w http.ResponseWriter, r *http.Request) {
	drafts, err := h.store.GetAllDrafts()
	if err != nil {
		slog.Error("failed to list drafts", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	list := make([]models.Draft, 0, len(drafts))
	for _, d := range drafts {
		list = append(list, d)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Title < list[j].Title })

	middleware.JSONResponse(w, http.StatusOK, models.DraftListResponse{Drafts: list})
}
