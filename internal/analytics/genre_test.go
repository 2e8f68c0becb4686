// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package analytics

import (
	"testing"

	"github.com/reelstats/reelstats/internal/models"
)

// ratedGenres builds an event with the given rating and genre list.
func ratedGenres(rating int, genres ...int) models.RatingEvent {
	return models.RatingEvent{Rating: rating, RatedOn: fixedToday, Genres: genres}
}

func TestAggregateGenres_Empty(t *testing.T) {
	dist := AggregateGenres(nil, DefaultGenreNames)
	if len(dist.Genres) != 0 {
		t.Errorf("Expected no genres, got %d", len(dist.Genres))
	}
	if dist.TotalMovies != 0 {
		t.Errorf("Expected total 0, got %d", dist.TotalMovies)
	}
}

func TestAggregateGenres_PrimaryGenreOnly(t *testing.T) {
	// Secondary genres must not inflate counts.
	events := []models.RatingEvent{
		ratedGenres(5, 28, 12, 878), // Action primary
		ratedGenres(4, 28, 35),      // Action primary
		ratedGenres(3, 12, 28),      // Adventure primary
	}
	dist := AggregateGenres(events, DefaultGenreNames)

	if len(dist.Genres) != 2 {
		t.Fatalf("Expected 2 genres, got %d", len(dist.Genres))
	}
	if dist.Genres[0].GenreName != "Action" || dist.Genres[0].Count != 2 {
		t.Errorf("Expected Action with count 2 first, got %s with count %d",
			dist.Genres[0].GenreName, dist.Genres[0].Count)
	}
	if dist.Genres[1].GenreName != "Adventure" || dist.Genres[1].Count != 1 {
		t.Errorf("Expected Adventure with count 1 second, got %s with count %d",
			dist.Genres[1].GenreName, dist.Genres[1].Count)
	}
	if dist.TotalMovies != 3 {
		t.Errorf("Expected total 3, got %d", dist.TotalMovies)
	}
}

func TestAggregateGenres_AverageRating(t *testing.T) {
	events := []models.RatingEvent{
		ratedGenres(3, 28),
		ratedGenres(4, 28),
		ratedGenres(5, 28),
	}
	dist := AggregateGenres(events, DefaultGenreNames)
	if len(dist.Genres) != 1 {
		t.Fatalf("Expected 1 genre, got %d", len(dist.Genres))
	}
	if dist.Genres[0].AverageRating != 4.0 {
		t.Errorf("Expected average 4.0, got %v", dist.Genres[0].AverageRating)
	}
}

func TestAggregateGenres_AverageRoundedToOneDecimal(t *testing.T) {
	events := []models.RatingEvent{
		ratedGenres(5, 18),
		ratedGenres(4, 18),
		ratedGenres(4, 18),
	}
	// 13/3 = 4.333... -> 4.3
	dist := AggregateGenres(events, DefaultGenreNames)
	if dist.Genres[0].AverageRating != 4.3 {
		t.Errorf("Expected average 4.3, got %v", dist.Genres[0].AverageRating)
	}
}

func TestAggregateGenres_EventsWithoutGenres(t *testing.T) {
	events := []models.RatingEvent{
		ratedGenres(5, 28),
		ratedGenres(4), // no genres: contributes to no bucket
		ratedGenres(3),
	}
	dist := AggregateGenres(events, DefaultGenreNames)
	if dist.TotalMovies != 1 {
		t.Errorf("Expected total 1 (only the attributed event), got %d", dist.TotalMovies)
	}
	sum := 0
	for _, g := range dist.Genres {
		sum += g.Count
	}
	if sum > len(events) {
		t.Errorf("Genre count sum %d exceeds event count %d", sum, len(events))
	}
}

func TestAggregateGenres_TopSixTruncation(t *testing.T) {
	ids := []int{28, 12, 16, 35, 80, 99, 18, 10751}
	var events []models.RatingEvent
	for i, id := range ids {
		// Descending counts: first id appears most often.
		for j := 0; j < len(ids)-i; j++ {
			events = append(events, ratedGenres(3, id))
		}
	}
	dist := AggregateGenres(events, DefaultGenreNames)

	if len(dist.Genres) != 6 {
		t.Fatalf("Expected distribution truncated to 6 genres, got %d", len(dist.Genres))
	}
	for i := 1; i < len(dist.Genres); i++ {
		if dist.Genres[i].Count > dist.Genres[i-1].Count {
			t.Errorf("Genres not sorted by count descending at index %d", i)
		}
	}
	if dist.TotalMovies != len(events) {
		t.Errorf("Expected total %d, got %d", len(events), dist.TotalMovies)
	}
}

func TestAggregateGenres_TiesKeepFirstSeenOrder(t *testing.T) {
	// Horror is seen before Comedy; equal counts must keep that order on
	// every run.
	events := []models.RatingEvent{
		ratedGenres(2, 27),
		ratedGenres(4, 35),
		ratedGenres(3, 27),
		ratedGenres(5, 35),
	}
	for run := 0; run < 5; run++ {
		dist := AggregateGenres(events, DefaultGenreNames)
		if dist.Genres[0].GenreName != "Horror" || dist.Genres[1].GenreName != "Comedy" {
			t.Fatalf("Run %d: expected [Horror, Comedy], got [%s, %s]",
				run, dist.Genres[0].GenreName, dist.Genres[1].GenreName)
		}
	}
}

func TestAggregateGenres_UnknownGenreID(t *testing.T) {
	dist := AggregateGenres([]models.RatingEvent{ratedGenres(4, 424242)}, DefaultGenreNames)
	if dist.Genres[0].GenreName != "Unknown (424242)" {
		t.Errorf("Expected unknown-id fallback name, got %q", dist.Genres[0].GenreName)
	}
}

func TestTopGenre(t *testing.T) {
	events := []models.RatingEvent{
		ratedGenres(5, 18),
		ratedGenres(4, 18),
		ratedGenres(3, 28),
	}
	top, ok := TopGenre(events, DefaultGenreNames)
	if !ok {
		t.Fatal("Expected a top genre")
	}
	if top != "Drama" {
		t.Errorf("Expected Drama, got %q", top)
	}
}

func TestTopGenre_TieBrokenAlphabetically(t *testing.T) {
	events := []models.RatingEvent{
		ratedGenres(5, 53), // Thriller
		ratedGenres(4, 28), // Action
	}
	top, ok := TopGenre(events, DefaultGenreNames)
	if !ok {
		t.Fatal("Expected a top genre")
	}
	if top != "Action" {
		t.Errorf("Expected alphabetical tie-break to pick Action, got %q", top)
	}
}

func TestTopGenre_NoGenres(t *testing.T) {
	if _, ok := TopGenre([]models.RatingEvent{ratedGenres(4)}, DefaultGenreNames); ok {
		t.Error("Expected no top genre when no event carries genres")
	}
}
