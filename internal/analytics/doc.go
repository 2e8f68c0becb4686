// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

// Package analytics computes dashboard aggregates from a user's raw rating
// history: consecutive-day streaks, the rolling-year activity calendar,
// genre distribution, the rating-value histogram, and scalar summary stats.
//
// Every computation is a pure function of its input slice. Nothing here does
// I/O, holds state between calls, or mutates the events it is given; callers
// fetch a user's events from the store and hand them over. Dates are assumed
// to be caller-normalized UTC calendar dates (midnights). With well-formed
// input the package never fails: degenerate cases such as an empty history
// produce zero-valued results, and every average is guarded against division
// by zero. A dashboard render must not be able to crash on aggregation.
package analytics
