// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

package api

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/reelstats/reelstats/internal/analytics"
	"github.com/reelstats/reelstats/internal/cache"
	"github.com/reelstats/reelstats/internal/config"
	"github.com/reelstats/reelstats/internal/models"
	"github.com/reelstats/reelstats/internal/store"
)

// fixedToday pins the engine clock so streak and calendar results are stable.
var fixedToday = time.Date(2026, 8, 23, 10, 0, 0, 0, time.UTC)

type envelope struct {
	Status   string           `json:"status"`
	Data     json.RawMessage  `json:"data"`
	Metadata models.Metadata  `json:"metadata"`
	Error    *models.APIError `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	s, err := store.New(&config.DatabaseConfig{Path: "", MaxMemory: "256MB"})
	if err != nil {
		t.Fatalf("Failed to open in-memory store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	responseCache := cache.New(time.Minute)
	t.Cleanup(responseCache.Close)

	engine := analytics.New(analytics.DefaultGenreNames, analytics.WithClock(func() time.Time { return fixedToday }))
	handler := NewHandler(s, engine, responseCache)

	router := NewRouter(handler, &config.SecurityConfig{
		RateLimitDisabled: true,
		CORSOrigins:       []string{"*"},
	})
	return router.Setup()
}

func doRequest(t *testing.T, router http.Handler, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("Failed to decode response envelope %q: %v", rec.Body.String(), err)
	}
	return rec, env
}

func postRating(t *testing.T, router http.Handler, userID int64, title string, rating int, ratedOn string, genres []int, runtime *int) {
	t.Helper()
	rec, env := doRequest(t, router, http.MethodPost, fmt.Sprintf("/api/v1/users/%d/ratings", userID), CreateRatingRequest{
		Title:          title,
		Rating:         rating,
		RatedOn:        ratedOn,
		GenreIDs:       genres,
		RuntimeMinutes: runtime,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201 creating rating, got %d: %v", rec.Code, env.Error)
	}
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/health", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var status HealthStatus
	if err := json.Unmarshal(env.Data, &status); err != nil {
		t.Fatalf("Failed to decode health data: %v", err)
	}
	if status.Status != "ok" || status.Database != "ok" {
		t.Errorf("Expected healthy status, got %+v", status)
	}
}

func TestCreateRating(t *testing.T) {
	router := newTestRouter(t)

	runtime := 170
	rec, env := doRequest(t, router, http.MethodPost, "/api/v1/users/1/ratings", CreateRatingRequest{
		Title:          "Heat",
		Rating:         5,
		RatedOn:        "2026-08-22",
		GenreIDs:       []int{80, 18},
		RuntimeMinutes: &runtime,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %v", rec.Code, env.Error)
	}

	var event models.RatingEvent
	if err := json.Unmarshal(env.Data, &event); err != nil {
		t.Fatalf("Failed to decode created rating: %v", err)
	}
	if event.Title != "Heat" || event.Rating != 5 {
		t.Errorf("Unexpected event data: %+v", event)
	}
	if event.ID.String() == "00000000-0000-0000-0000-000000000000" {
		t.Error("Expected assigned rating ID")
	}
}

func TestCreateRating_Validation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		req  CreateRatingRequest
	}{
		{"missing title", CreateRatingRequest{Rating: 3, RatedOn: "2026-08-22"}},
		{"rating too high", CreateRatingRequest{Title: "Heat", Rating: 6, RatedOn: "2026-08-22"}},
		{"rating zero", CreateRatingRequest{Title: "Heat", RatedOn: "2026-08-22"}},
		{"bad date", CreateRatingRequest{Title: "Heat", Rating: 3, RatedOn: "22/08/2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, env := doRequest(t, router, http.MethodPost, "/api/v1/users/1/ratings", tt.req)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("Expected 400, got %d", rec.Code)
			}
			if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
				t.Errorf("Expected VALIDATION_ERROR, got %+v", env.Error)
			}
		})
	}
}

func TestCreateRating_BadUserID(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, http.MethodPost, "/api/v1/users/abc/ratings", CreateRatingRequest{
		Title: "Heat", Rating: 4, RatedOn: "2026-08-22",
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	if env.Error == nil || env.Error.Code != "VALIDATION_ERROR" {
		t.Errorf("Expected VALIDATION_ERROR, got %+v", env.Error)
	}
}

func TestCreateRating_UnknownField(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/1/ratings",
		bytes.NewReader([]byte(`{"title":"Heat","rating":4,"rated_on":"2026-08-22","bogus":true}`)))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown field, got %d", rec.Code)
	}
}

func TestStats_EmptyUser(t *testing.T) {
	router := newTestRouter(t)

	rec, env := doRequest(t, router, http.MethodGet, "/api/v1/users/42/analytics/stats", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var stats models.StatsResponse
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.TotalMovies != 0 || stats.AverageRating != 0 || stats.TopGenre != nil {
		t.Errorf("Expected zero stats for empty user, got %+v", stats)
	}
}

func TestStats_ReflectsRatings(t *testing.T) {
	router := newTestRouter(t)

	runtime := 100
	postRating(t, router, 1, "A", 4, "2026-08-22", []int{28}, &runtime)
	postRating(t, router, 1, "B", 5, "2026-08-23", []int{28, 18}, &runtime)

	_, env := doRequest(t, router, http.MethodGet, "/api/v1/users/1/analytics/stats", nil)
	var stats models.StatsResponse
	if err := json.Unmarshal(env.Data, &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.TotalMovies != 2 {
		t.Errorf("Expected 2 movies, got %d", stats.TotalMovies)
	}
	if stats.AverageRating != 4.5 {
		t.Errorf("Expected average 4.5, got %v", stats.AverageRating)
	}
	if stats.TotalWatchTimeMinutes != 200 {
		t.Errorf("Expected 200 minutes, got %d", stats.TotalWatchTimeMinutes)
	}
	// Rated yesterday and today relative to the pinned clock.
	if stats.CurrentStreak != 2 || stats.LongestStreak != 2 {
		t.Errorf("Expected streaks 2/2, got %d/%d", stats.CurrentStreak, stats.LongestStreak)
	}
	if stats.TopGenre == nil || *stats.TopGenre != "Action" {
		t.Errorf("Expected top genre Action, got %v", stats.TopGenre)
	}
}

func TestRatingDistribution(t *testing.T) {
	router := newTestRouter(t)

	postRating(t, router, 1, "A", 3, "2026-08-20", nil, nil)
	postRating(t, router, 1, "B", 3, "2026-08-21", nil, nil)
	postRating(t, router, 1, "C", 5, "2026-08-22", nil, nil)

	_, env := doRequest(t, router, http.MethodGet, "/api/v1/users/1/analytics/rating-distribution", nil)
	var dist models.RatingDistribution
	if err := json.Unmarshal(env.Data, &dist); err != nil {
		t.Fatalf("Failed to decode distribution: %v", err)
	}
	if dist.Total != 3 {
		t.Errorf("Expected total 3, got %d", dist.Total)
	}
	if len(dist.Distribution) != 5 {
		t.Fatalf("Expected 5 buckets, got %d", len(dist.Distribution))
	}
	if dist.Distribution[2].Count != 2 || dist.Distribution[4].Count != 1 {
		t.Errorf("Unexpected bucket counts: %+v", dist.Distribution)
	}
}

func TestActivityEndpoint(t *testing.T) {
	router := newTestRouter(t)

	postRating(t, router, 1, "A", 4, "2026-08-23", nil, nil)

	_, env := doRequest(t, router, http.MethodGet, "/api/v1/users/1/analytics/activity", nil)
	var calendar models.ActivityCalendar
	if err := json.Unmarshal(env.Data, &calendar); err != nil {
		t.Fatalf("Failed to decode calendar: %v", err)
	}
	if len(calendar.Activity) != 365 {
		t.Errorf("Expected 365 activity days, got %d", len(calendar.Activity))
	}
	if calendar.EndDate != "2026-08-23" {
		t.Errorf("Expected end date 2026-08-23, got %q", calendar.EndDate)
	}
	last := calendar.Activity[len(calendar.Activity)-1]
	if last.Count != 1 {
		t.Errorf("Expected today's count 1, got %d", last.Count)
	}
}

func TestDashboardComposition(t *testing.T) {
	router := newTestRouter(t)

	postRating(t, router, 1, "A", 4, "2026-08-22", []int{27}, nil)

	_, env := doRequest(t, router, http.MethodGet, "/api/v1/users/1/analytics/dashboard", nil)
	var dashboard models.DashboardResponse
	if err := json.Unmarshal(env.Data, &dashboard); err != nil {
		t.Fatalf("Failed to decode dashboard: %v", err)
	}
	if dashboard.Stats.TotalMovies != 1 {
		t.Errorf("Expected 1 movie in dashboard stats, got %d", dashboard.Stats.TotalMovies)
	}
	if len(dashboard.Genres.Genres) != 1 || dashboard.Genres.Genres[0].GenreName != "Horror" {
		t.Errorf("Expected Horror genre, got %+v", dashboard.Genres.Genres)
	}
	if dashboard.RatingDistribution.Total != 1 {
		t.Errorf("Expected distribution total 1, got %d", dashboard.RatingDistribution.Total)
	}
}

func TestCachingAndInvalidation(t *testing.T) {
	router := newTestRouter(t)

	postRating(t, router, 1, "A", 4, "2026-08-22", nil, nil)

	_, first := doRequest(t, router, http.MethodGet, "/api/v1/users/1/analytics/stats", nil)
	if first.Metadata.Cached {
		t.Error("Expected first read to miss the cache")
	}

	_, second := doRequest(t, router, http.MethodGet, "/api/v1/users/1/analytics/stats", nil)
	if !second.Metadata.Cached {
		t.Error("Expected second read to hit the cache")
	}

	// A write invalidates this user's cached analytics.
	postRating(t, router, 1, "B", 5, "2026-08-23", nil, nil)

	_, third := doRequest(t, router, http.MethodGet, "/api/v1/users/1/analytics/stats", nil)
	if third.Metadata.Cached {
		t.Error("Expected cache miss after rating write")
	}
	var stats models.StatsResponse
	if err := json.Unmarshal(third.Data, &stats); err != nil {
		t.Fatalf("Failed to decode stats: %v", err)
	}
	if stats.TotalMovies != 2 {
		t.Errorf("Expected fresh stats with 2 movies, got %d", stats.TotalMovies)
	}
}

func TestCacheIsolationBetweenUsers(t *testing.T) {
	router := newTestRouter(t)

	postRating(t, router, 1, "A", 4, "2026-08-22", nil, nil)
	postRating(t, router, 2, "B", 2, "2026-08-22", nil, nil)

	// Warm both caches.
	doRequest(t, router, http.MethodGet, "/api/v1/users/1/analytics/stats", nil)
	doRequest(t, router, http.MethodGet, "/api/v1/users/2/analytics/stats", nil)

	// Writing for user 1 must not evict user 2.
	postRating(t, router, 1, "C", 3, "2026-08-23", nil, nil)

	_, env := doRequest(t, router, http.MethodGet, "/api/v1/users/2/analytics/stats", nil)
	if !env.Metadata.Cached {
		t.Error("Expected user 2 cache to survive user 1 write")
	}
}

func TestMetricsEndpoint(t *testing.T) {
	router := newTestRouter(t)

	// Hit a metered endpoint first so the request counter has a sample.
	doRequest(t, router, http.MethodGet, "/api/v1/users/1/analytics/stats", nil)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200 from /metrics, got %d", rec.Code)
	}
	if !bytes.Contains(rec.Body.Bytes(), []byte("api_requests_total")) {
		t.Error("Expected Prometheus exposition to include api_requests_total")
	}
}

func TestRequestIDHeader(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("Expected X-Request-ID response header")
	}
}
