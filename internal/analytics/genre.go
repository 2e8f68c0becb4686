// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package analytics

import (
	"fmt"
	"math"
	"sort"

	"github.com/reelstats/reelstats/internal/models"
)

// topGenreCount is the number of genres the distribution is truncated to.
const topGenreCount = 6

// genreName resolves a genre id against the lookup, falling back to an
// explicit unknown marker so unmapped ids are still distinguishable.
func genreName(names map[int]string, id int) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("Unknown (%d)", id)
}

// AggregateGenres computes the per-genre distribution using each event's
// primary genre only (the first entry of its genre list). Events without
// genres contribute to no bucket. Genres are ordered by count descending
// with ties kept in first-seen order, then truncated to the top 6.
func AggregateGenres(events []models.RatingEvent, names map[int]string) models.GenreDistribution {
	counts := make(map[int]int)
	sums := make(map[int]int)
	var order []int // first-seen order, the deterministic tie-breaker

	attributed := 0
	for _, ev := range events {
		if len(ev.Genres) == 0 {
			continue
		}
		primary := ev.Genres[0]
		if _, seen := counts[primary]; !seen {
			order = append(order, primary)
		}
		counts[primary]++
		sums[primary] += ev.Rating
		attributed++
	}

	genres := make([]models.GenreStats, 0, len(order))
	for _, id := range order {
		count := counts[id]
		avg := 0.0
		if count > 0 {
			avg = float64(sums[id]) / float64(count)
		}
		genres = append(genres, models.GenreStats{
			GenreID:       id,
			GenreName:     genreName(names, id),
			Count:         count,
			AverageRating: math.Round(avg*10) / 10,
		})
	}

	// Stable sort preserves first-seen order within equal counts.
	sort.SliceStable(genres, func(i, j int) bool { return genres[i].Count > genres[j].Count })

	if len(genres) > topGenreCount {
		genres = genres[:topGenreCount]
	}

	return models.GenreDistribution{Genres: genres, TotalMovies: attributed}
}

// TopGenre returns the name of the user's most-rated primary genre. Ties are
// broken by genre name ascending. The second return is false when no event
// carries a genre.
func TopGenre(events []models.RatingEvent, names map[int]string) (string, bool) {
	counts := make(map[int]int)
	for _, ev := range events {
		if len(ev.Genres) == 0 {
			continue
		}
		counts[ev.Genres[0]]++
	}
	if len(counts) == 0 {
		return "", false
	}

	maxCount := 0
	for _, c := range counts {
		if c > maxCount {
			maxCount = c
		}
	}

	var tied []string
	for id, c := range counts {
		if c == maxCount {
			tied = append(tied, genreName(names, id))
		}
	}
	sort.Strings(tied)
	return tied[0], true
}
