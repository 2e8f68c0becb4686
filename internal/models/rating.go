// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package models

import (
	"time"

	"github.com/google/uuid"
)

// RatingEvent is a single movie rating in a user's history. It is the sole
// input of the analytics engine: the engine treats the collection as
// immutable and never writes back.
//
// RatedOn carries calendar-date semantics only. The store normalizes it to a
// UTC midnight before events reach the engine; the engine itself applies no
// timezone policy.
type RatingEvent struct {
	// ID uniquely identifies the rating event
	ID uuid.UUID `json:"id"`

	// UserID is the owner of the rating
	UserID int64 `json:"user_id"`

	// Title is the rated movie's title
	Title string `json:"title"`

	// Rating is the star rating, 1-5 inclusive. Range is enforced at the
	// API boundary; the engine does not re-validate.
	Rating int `json:"rating"`

	// RatedOn is the calendar date the rating was made (UTC midnight)
	RatedOn time.Time `json:"rated_on"`

	// Genres is the ordered genre id list for the rated movie. The first
	// entry is the primary genre used for distribution accounting. May be
	// empty.
	Genres []int `json:"genres"`

	// RuntimeMinutes is the movie runtime when known, nil otherwise.
	// Unknown runtimes are excluded from watch-time sums, not zero-filled.
	RuntimeMinutes *int `json:"runtime_minutes,omitempty"`

	// CreatedAt is when the event was stored
	CreatedAt time.Time `json:"created_at"`
}
