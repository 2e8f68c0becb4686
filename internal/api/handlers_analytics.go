// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/reelstats/reelstats/internal/cache"
	"github.com/reelstats/reelstats/internal/metrics"
	"github.com/reelstats/reelstats/internal/models"
)

// userCachePrefix is the key prefix shared by all cached analytics for one
// user. Rating writes invalidate this prefix.
func userCachePrefix(userID int64) string {
	return fmt.Sprintf("user:%d:", userID)
}

// serveAnalytics is the shared execution path for all analytics endpoints:
// cache lookup, event load, aggregation, cache store, envelope response.
func (h *Handler) serveAnalytics(w http.ResponseWriter, r *http.Request, aggregation string, compute func(events []models.RatingEvent) interface{}) {
	userID, err := userIDFromRequest(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", err.Error(), nil)
		return
	}

	cacheKey := cache.Key(userCachePrefix(userID) + aggregation)
	if cached, ok := h.cache.Get(cacheKey); ok {
		metrics.RecordCacheAccess("analytics", true)
		respondJSON(w, http.StatusOK, &models.APIResponse{
			Status: "success",
			Data:   cached,
			Metadata: models.Metadata{
				Timestamp: time.Now(),
				Cached:    true,
			},
		})
		return
	}
	metrics.RecordCacheAccess("analytics", false)

	start := time.Now()
	events, err := h.store.GetUserRatingEvents(r.Context(), userID)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load rating events", err)
		return
	}

	result := compute(events)
	elapsed := time.Since(start)
	metrics.RecordAggregation(aggregation, len(events), elapsed)

	h.cache.Set(cacheKey, result)
	metrics.CacheSize.WithLabelValues("analytics").Set(float64(h.cache.Len()))

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: elapsed.Milliseconds(),
		},
	})
}

// Stats returns the summary statistics card: totals, average rating, streaks,
// and top genre.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	h.serveAnalytics(w, r, "stats", func(events []models.RatingEvent) interface{} {
		return h.engine.Stats(events)
	})
}

// Activity returns the rolling 365-day activity calendar grid.
func (h *Handler) Activity(w http.ResponseWriter, r *http.Request) {
	h.serveAnalytics(w, r, "activity", func(events []models.RatingEvent) interface{} {
		return h.engine.Activity(events)
	})
}

// Genres returns the top genres by primary genre count.
func (h *Handler) Genres(w http.ResponseWriter, r *http.Request) {
	h.serveAnalytics(w, r, "genres", func(events []models.RatingEvent) interface{} {
		return h.engine.Genres(events)
	})
}

// RatingDistribution returns the 1-5 star histogram.
func (h *Handler) RatingDistribution(w http.ResponseWriter, r *http.Request) {
	h.serveAnalytics(w, r, "distribution", func(events []models.RatingEvent) interface{} {
		return h.engine.RatingDistribution(events)
	})
}

// Dashboard returns all analytics in a single response for the initial page
// load.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.serveAnalytics(w, r, "dashboard", func(events []models.RatingEvent) interface{} {
		return h.engine.Dashboard(events)
	})
}
