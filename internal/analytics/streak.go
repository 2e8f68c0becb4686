// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package analytics

import (
	"sort"
	"time"

	"github.com/reelstats/reelstats/internal/models"
)

// dateOnly truncates a timestamp to its UTC calendar date.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// uniqueSortedDates deduplicates the given timestamps into ascending UTC
// calendar dates. Multiple ratings on the same day collapse to one entry.
func uniqueSortedDates(dates []time.Time) []time.Time {
	seen := make(map[time.Time]struct{}, len(dates))
	unique := make([]time.Time, 0, len(dates))
	for _, d := range dates {
		day := dateOnly(d)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		unique = append(unique, day)
	}
	sort.Slice(unique, func(i, j int) bool { return unique[i].Before(unique[j]) })
	return unique
}

// CalculateStreaks computes the current and longest consecutive-day rating
// streaks from the given rating timestamps, evaluated against the given
// "today".
//
// The current streak is the run ending at today or yesterday. The one-day
// leniency is intentional product behavior: a user who has not rated yet
// today still has time left in the day and must not see their streak drop
// to zero.
func CalculateStreaks(dates []time.Time, today time.Time) models.StreakResult {
	unique := uniqueSortedDates(dates)
	if len(unique) == 0 {
		return models.StreakResult{}
	}

	today = dateOnly(today)
	yesterday := today.AddDate(0, 0, -1)

	// Longest streak: single ascending scan, run resets on any gap.
	longest := 1
	run := 1
	for i := 1; i < len(unique); i++ {
		if unique[i].Equal(unique[i-1].AddDate(0, 0, 1)) {
			run++
			if run > longest {
				longest = run
			}
		} else {
			run = 1
		}
	}

	// Current streak: anchored at the most recent rating date.
	last := unique[len(unique)-1]
	if !last.Equal(today) && !last.Equal(yesterday) {
		return models.StreakResult{CurrentStreak: 0, LongestStreak: longest}
	}

	current := 1
	for i := len(unique) - 2; i >= 0; i-- {
		if !unique[i+1].Equal(unique[i].AddDate(0, 0, 1)) {
			break
		}
		current++
	}

	return models.StreakResult{CurrentStreak: current, LongestStreak: longest}
}
