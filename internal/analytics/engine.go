// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package analytics

import (
	"math"
	"time"

	"github.com/reelstats/reelstats/internal/models"
)

// Engine is the facade over the four aggregators. It carries the two pieces
// of ambient state the pure functions need injected: the immutable genre
// id-to-name lookup and the clock that anchors "today" for streak and
// calendar computations.
//
// An Engine is safe for concurrent use; every method is a pure function of
// the event slice it is handed.
type Engine struct {
	genreNames map[int]string
	now        func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithClock replaces the engine's clock. Tests use this to pin "today".
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

// New creates an Engine with the given genre-name lookup. The lookup is
// copied so later mutation by the caller cannot leak into computations;
// pass DefaultGenreNames for the standard TMDB table.
func New(genreNames map[int]string, opts ...Option) *Engine {
	names := make(map[int]string, len(genreNames))
	for id, name := range genreNames {
		names[id] = name
	}
	e := &Engine{
		genreNames: names,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// today returns the engine clock's current UTC calendar date.
func (e *Engine) today() time.Time {
	return dateOnly(e.now())
}

// Streaks computes the current and longest consecutive-day rating streaks.
func (e *Engine) Streaks(events []models.RatingEvent) models.StreakResult {
	dates := make([]time.Time, 0, len(events))
	for _, ev := range events {
		dates = append(dates, ev.RatedOn)
	}
	return CalculateStreaks(dates, e.today())
}

// Activity builds the rolling-year activity calendar.
func (e *Engine) Activity(events []models.RatingEvent) models.ActivityCalendar {
	return BuildActivityCalendar(events, e.today())
}

// Genres computes the primary-genre distribution.
func (e *Engine) Genres(events []models.RatingEvent) models.GenreDistribution {
	return AggregateGenres(events, e.genreNames)
}

// RatingDistribution computes the rating-value histogram.
func (e *Engine) RatingDistribution(events []models.RatingEvent) models.RatingDistribution {
	return RatingHistogram(events)
}

// Summary computes the scalar rollups.
func (e *Engine) Summary(events []models.RatingEvent) models.SummaryStats {
	return Summarize(events)
}

// Stats combines summary, streaks and top genre into the stats payload.
// The displayed average is rounded to two decimal places here, at the edge
// of the pure core.
func (e *Engine) Stats(events []models.RatingEvent) models.StatsResponse {
	summary := Summarize(events)
	streaks := e.Streaks(events)

	resp := models.StatsResponse{
		TotalMovies:           summary.TotalMovies,
		TotalWatchTimeMinutes: summary.TotalWatchTimeMinutes,
		AverageRating:         math.Round(summary.AverageRating*100) / 100,
		CurrentStreak:         streaks.CurrentStreak,
		LongestStreak:         streaks.LongestStreak,
	}
	if top, ok := TopGenre(events, e.genreNames); ok {
		resp.TopGenre = &top
	}
	return resp
}

// Dashboard composes every aggregate into the single dashboard payload.
func (e *Engine) Dashboard(events []models.RatingEvent) models.DashboardResponse {
	return models.DashboardResponse{
		Stats:              e.Stats(events),
		Activity:           e.Activity(events),
		Genres:             e.Genres(events),
		RatingDistribution: e.RatingDistribution(events),
	}
}
