// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package api

import (
	"net/http"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelstats/reelstats/internal/logging"
	"github.com/reelstats/reelstats/internal/models"
)

// maxRequestBody caps rating request bodies at 64 KiB.
const maxRequestBody = 64 << 10

// CreateRatingRequest is the body for POST /api/v1/users/{userID}/ratings.
type CreateRatingRequest struct {
	Title          string `json:"title" validate:"required,max=500"`
	Rating         int    `json:"rating" validate:"min=1,max=5"`
	RatedOn        string `json:"rated_on" validate:"required,datetime=2006-01-02"`
	GenreIDs       []int  `json:"genre_ids" validate:"omitempty,dive,gte=0"`
	RuntimeMinutes *int   `json:"runtime_minutes" validate:"omitempty,gte=1,lte=1000"`
}

// CreateRating stores a new rating event and invalidates the user's cached
// analytics.
func (h *Handler) CreateRating(w http.ResponseWriter, r *http.Request) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	var req CreateRatingRequest
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body: "+err.Error(), nil)
		return
	}

	if apiErr := validateRequest(&req); apiErr != nil {
		respondJSON(w, http.StatusBadRequest, &models.APIResponse{
			Status:   "error",
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error:    apiErr,
		})
		return
	}

	ratedOn, err := time.ParseInLocation("2006-01-02", req.RatedOn, time.UTC)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "rated_on must be a valid date in YYYY-MM-DD format", nil)
		return
	}

	event := models.RatingEvent{
		UserID:         userID,
		Title:          req.Title,
		Rating:         req.Rating,
		RatedOn:        ratedOn,
		Genres:         req.GenreIDs,
		RuntimeMinutes: req.RuntimeMinutes,
	}
	if err := h.store.InsertRating(r.Context(), &event); err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to store rating", err)
		return
	}

	// Every cached aggregate for this user is now stale.
	removed := h.cache.DeletePrefix(userCachePrefix(userID))
	logging.Debug().
		Int64("user_id", userID).
		Str("rating_id", event.ID.String()).
		Int("cache_entries_invalidated", removed).
		Msg("Rating stored")

	respondJSON(w, http.StatusCreated, &models.APIResponse{
		Status:   "success",
		Data:     event,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
