// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package analytics

import (
	"github.com/reelstats/reelstats/internal/models"
)

// Summarize computes the scalar rollups over a user's rating history.
// AverageRating is returned at full precision (0 for an empty history);
// rounding for display belongs to the caller. Watch time sums only events
// with a known runtime - a nil runtime is excluded, never counted as zero.
func Summarize(events []models.RatingEvent) models.SummaryStats {
	stats := models.SummaryStats{TotalMovies: len(events)}
	if len(events) == 0 {
		return stats
	}

	ratingSum := 0
	for _, ev := range events {
		ratingSum += ev.Rating
		if ev.RuntimeMinutes != nil {
			stats.TotalWatchTimeMinutes += *ev.RuntimeMinutes
		}
	}
	stats.AverageRating = float64(ratingSum) / float64(len(events))
	return stats
}

// RatingHistogram counts events per rating value. All five buckets (1-5) are
// always present so chart axes stay stable even for sparse histories.
func RatingHistogram(events []models.RatingEvent) models.RatingDistribution {
	counts := make(map[int]int, 5)
	for _, ev := range events {
		counts[ev.Rating]++
	}

	dist := make([]models.RatingCount, 0, 5)
	total := 0
	for rating := 1; rating <= 5; rating++ {
		dist = append(dist, models.RatingCount{Rating: rating, Count: counts[rating]})
		total += counts[rating]
	}

	return models.RatingDistribution{Distribution: dist, Total: total}
}
