// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package models

// StreakResult holds the consecutive-day rating streaks for one user.
// LongestStreak is always >= CurrentStreak: the current run ending at today
// or yesterday is itself a run the longest-streak scan has seen.
type StreakResult struct {
	// CurrentStreak is the run of consecutive rating days ending at today
	// or yesterday. Zero when the most recent rating is older than that.
	CurrentStreak int `json:"current_streak"`

	// LongestStreak is the longest run of consecutive rating days anywhere
	// in the user's history
	LongestStreak int `json:"longest_streak"`
}

// PaddingCount is the sentinel count for activity grid cells that fall inside
// a week-aligned row but outside the true 365-day window. Renderers must
// distinguish these calendar padding cells from real zero-activity days.
const PaddingCount = -1

// ActivityDay is one cell of the activity calendar.
type ActivityDay struct {
	// Date in ISO format (2006-01-02)
	Date string `json:"date"`

	// Count is the number of ratings on that day, or PaddingCount for
	// grid padding cells
	Count int `json:"count"`

	// Level is the fixed rendering intensity: 0 for no activity,
	// 1 for one rating, 2 for two, 3 for three or more
	Level int `json:"level"`
}

// MonthLabel marks the week column where a month label should be rendered
// above the activity grid.
type MonthLabel struct {
	// WeekIndex is the zero-based week column the label belongs to
	WeekIndex int `json:"week_index"`

	// Label is the short month name, e.g. "Jan"
	Label string `json:"label"`
}

// ActivityCalendar is the rolling-year, contribution-style activity grid.
//
// Activity lists every date of the true 365-day window ending today, each
// exactly once with a non-negative count. Weeks is the same data laid out as
// Sunday-aligned columns of 7 cells, padded at both ends with PaddingCount
// cells so the grid renders as full weeks.
type ActivityCalendar struct {
	Activity    []ActivityDay   `json:"activity"`
	Weeks       [][]ActivityDay `json:"weeks"`
	MonthLabels []MonthLabel    `json:"month_labels"`
	StartDate   string          `json:"start_date"`
	EndDate     string          `json:"end_date"`
}

// GenreStats holds per-genre popularity and quality figures. Counting uses
// only each movie's primary genre, so one movie never inflates several
// buckets.
type GenreStats struct {
	GenreID   int    `json:"genre_id"`
	GenreName string `json:"genre_name"`
	Count     int    `json:"count"`

	// AverageRating is the mean rating of movies attributed to this genre,
	// rounded to one decimal place
	AverageRating float64 `json:"average_rating"`
}

// GenreDistribution is the top-genres response. Genres is sorted by count
// descending (ties in first-seen order) and truncated to at most 6 entries.
// TotalMovies counts events that contributed to some bucket, which equals the
// number of events carrying at least one genre tag.
type GenreDistribution struct {
	Genres      []GenreStats `json:"genres"`
	TotalMovies int          `json:"total_movies"`
}

// RatingCount is one bucket of the rating-value histogram.
type RatingCount struct {
	Rating int `json:"rating"`
	Count  int `json:"count"`
}

// RatingDistribution is the histogram of rating values. All five buckets
// (1 through 5) are always present, even at zero, and Total equals the sum
// of the bucket counts.
type RatingDistribution struct {
	Distribution []RatingCount `json:"distribution"`
	Total        int           `json:"total"`
}

// SummaryStats holds the scalar rollups over a user's full rating history.
type SummaryStats struct {
	TotalMovies int `json:"total_movies"`

	// AverageRating is the full-precision mean rating, 0 when the user has
	// no ratings. Display rounding is the API layer's concern.
	AverageRating float64 `json:"average_rating"`

	// TotalWatchTimeMinutes sums runtimes of rated movies with a known
	// runtime only
	TotalWatchTimeMinutes int `json:"total_watch_time_minutes"`
}

// StatsResponse is the combined stats-summary payload served by the API:
// the scalar rollups plus streaks and the user's most-rated genre.
type StatsResponse struct {
	TotalMovies           int     `json:"total_movies"`
	TotalWatchTimeMinutes int     `json:"total_watch_time_minutes"`
	AverageRating         float64 `json:"average_rating"`
	CurrentStreak         int     `json:"current_streak"`
	LongestStreak         int     `json:"longest_streak"`
	TopGenre              *string `json:"top_genre"`
}

// DashboardResponse bundles every analytics aggregate into the single
// payload the dashboard fetches on load.
type DashboardResponse struct {
	Stats              StatsResponse      `json:"stats"`
	Activity           ActivityCalendar   `json:"activity"`
	Genres             GenreDistribution  `json:"genres"`
	RatingDistribution RatingDistribution `json:"rating_distribution"`
}
