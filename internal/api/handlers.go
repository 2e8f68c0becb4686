// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

// Package api provides HTTP routing and handlers for the analytics endpoints
// using the Chi router.
package api

import (
	"context"
	"time"

	"github.com/reelstats/reelstats/internal/analytics"
	"github.com/reelstats/reelstats/internal/cache"
	"github.com/reelstats/reelstats/internal/models"
)

// RatingStore is the persistence surface the handlers need. *store.Store
// satisfies it; tests may substitute their own.
type RatingStore interface {
	InsertRating(ctx context.Context, event *models.RatingEvent) error
	GetUserRatingEvents(ctx context.Context, userID int64) ([]models.RatingEvent, error)
	CountRatings(ctx context.Context, userID int64) (int64, error)
	Ping(ctx context.Context) error
}

// Handler holds the dependencies for all HTTP handlers.
type Handler struct {
	store   RatingStore
	engine  *analytics.Engine
	cache   *cache.Cache
	started time.Time
}

// NewHandler creates a handler with the given store, analytics engine, and
// response cache.
func NewHandler(store RatingStore, engine *analytics.Engine, responseCache *cache.Cache) *Handler {
	return &Handler{
		store:   store,
		engine:  engine,
		cache:   responseCache,
		started: time.Now(),
	}
}
