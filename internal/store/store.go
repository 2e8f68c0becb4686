// Reelstats - Movie Rating Analytics Dashboard
// Copyright 2026 Reelstats Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/reelstats/reelstats

// Package store persists rating events in DuckDB and loads them back for the
// analytics engine. DuckDB is embedded, so the store owns the full lifecycle:
// opening the database file, creating the schema, and checkpointing on close.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/reelstats/reelstats/internal/config"
	"github.com/reelstats/reelstats/internal/logging"
	"github.com/reelstats/reelstats/internal/metrics"
	"github.com/reelstats/reelstats/internal/models"
)

// defaultQueryTimeout bounds queries issued without a caller deadline.
const defaultQueryTimeout = 30 * time.Second

const ratingsTable = "ratings"

const createRatingsTable = `
CREATE TABLE IF NOT EXISTS ratings (
	id              UUID PRIMARY KEY,
	user_id         BIGINT NOT NULL,
	title           VARCHAR NOT NULL,
	rating          INTEGER NOT NULL,
	rated_on        DATE NOT NULL,
	genre_ids       VARCHAR NOT NULL DEFAULT '[]',
	runtime_minutes INTEGER,
	created_at      TIMESTAMP NOT NULL DEFAULT current_timestamp
)`

const createRatingsIndex = `
CREATE INDEX IF NOT EXISTS idx_ratings_user_rated_on ON ratings (user_id, rated_on)`

// Store wraps the DuckDB connection and provides rating event persistence.
type Store struct {
	conn *sql.DB
}

// New opens (or creates) the DuckDB database described by cfg and initializes
// the schema. An empty cfg.Path selects an in-memory database, which is what
// the tests use.
func New(cfg *config.DatabaseConfig) (*Store, error) {
	numThreads := cfg.Threads
	if numThreads <= 0 {
		numThreads = runtime.NumCPU()
	}

	var connStr string
	if cfg.Path == "" {
		connStr = ":memory:?autoinstall_known_extensions=false&autoload_known_extensions=false"
	} else {
		// Ensure the parent directory exists so DuckDB can create the file.
		dbDir := filepath.Dir(cfg.Path)
		if dbDir != "" && dbDir != "." {
			if err := os.MkdirAll(dbDir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dbDir, err)
			}
		}
		connStr = fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s&autoinstall_known_extensions=false&autoload_known_extensions=false",
			cfg.Path, numThreads, cfg.MaxMemory)
	}

	conn, err := sql.Open("duckdb", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{conn: conn}
	s.configureConnectionPool()

	if err := s.initialize(); err != nil {
		closeQuietly(conn)
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// configureConnectionPool sets connection pool parameters
func (s *Store) configureConnectionPool() {
	s.conn.SetMaxOpenConns(runtime.NumCPU())
	s.conn.SetMaxIdleConns(2)
	s.conn.SetConnMaxLifetime(time.Hour)
	s.conn.SetConnMaxIdleTime(5 * time.Minute)
}

// initialize creates the tables and indexes.
func (s *Store) initialize() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()

	if _, err := s.conn.ExecContext(ctx, createRatingsTable); err != nil {
		return fmt.Errorf("failed to create ratings table: %w", err)
	}
	if _, err := s.conn.ExecContext(ctx, createRatingsIndex); err != nil {
		return fmt.Errorf("failed to create ratings index: %w", err)
	}
	return nil
}

// Ping checks if the database connection is alive
func (s *Store) Ping(ctx context.Context) error {
	if s.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	return s.conn.PingContext(ctx)
}

// Close checkpoints and closes the database connection. The checkpoint
// flushes the WAL so the next startup does not replay it.
func (s *Store) Close() error {
	if s.conn == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), defaultQueryTimeout)
	defer cancel()
	if _, err := s.conn.ExecContext(ctx, "CHECKPOINT"); err != nil {
		logging.Warn().Err(err).Msg("Failed to checkpoint database before close")
	}
	return s.conn.Close()
}

// ensureContext attaches the default query timeout when the caller did not
// set a deadline.
func ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, defaultQueryTimeout)
}

// InsertRating persists a rating event. A zero event ID is replaced with a
// fresh UUID and a zero CreatedAt with the current time; both are written
// back to the event.
func (s *Store) InsertRating(ctx context.Context, event *models.RatingEvent) error {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now().UTC()
	}

	genres := event.Genres
	if genres == nil {
		genres = []int{}
	}
	genreJSON, err := json.Marshal(genres)
	if err != nil {
		return fmt.Errorf("failed to encode genre ids: %w", err)
	}

	var runtimeMinutes sql.NullInt32
	if event.RuntimeMinutes != nil {
		runtimeMinutes = sql.NullInt32{Int32: int32(*event.RuntimeMinutes), Valid: true}
	}

	start := time.Now()
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO ratings (id, user_id, title, rating, rated_on, genre_ids, runtime_minutes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID.String(),
		event.UserID,
		event.Title,
		event.Rating,
		event.RatedOn.UTC().Format("2006-01-02"),
		string(genreJSON),
		runtimeMinutes,
		event.CreatedAt.UTC(),
	)
	metrics.RecordDBQuery("INSERT", ratingsTable, time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to insert rating: %w", err)
	}
	metrics.RatingsStored.Inc()
	return nil
}

// GetUserRatingEvents loads all rating events for a user ordered by rated_on
// then created_at. Dates come back normalized to UTC midnight.
func (s *Store) GetUserRatingEvents(ctx context.Context, userID int64) ([]models.RatingEvent, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	rows, err := s.conn.QueryContext(ctx, `
		SELECT id, user_id, title, rating, rated_on, genre_ids, runtime_minutes, created_at
		FROM ratings
		WHERE user_id = ?
		ORDER BY rated_on, created_at`,
		userID,
	)
	metrics.RecordDBQuery("SELECT", ratingsTable, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer closeQuietly(rows)

	var events []models.RatingEvent
	for rows.Next() {
		event, err := scanRatingEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ratings: %w", err)
	}
	return events, nil
}

// CountRatings returns the number of stored rating events for a user.
func (s *Store) CountRatings(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := ensureContext(ctx)
	defer cancel()

	start := time.Now()
	var count int64
	err := s.conn.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ratings WHERE user_id = ?", userID,
	).Scan(&count)
	metrics.RecordDBQuery("SELECT", ratingsTable, time.Since(start), err)
	if err != nil {
		return 0, fmt.Errorf("failed to count ratings: %w", err)
	}
	return count, nil
}

func scanRatingEvent(rows *sql.Rows) (models.RatingEvent, error) {
	var (
		event          models.RatingEvent
		idStr          string
		ratedOn        time.Time
		genreJSON      string
		runtimeMinutes sql.NullInt32
		createdAt      time.Time
	)
	if err := rows.Scan(&idStr, &event.UserID, &event.Title, &event.Rating, &ratedOn, &genreJSON, &runtimeMinutes, &createdAt); err != nil {
		return models.RatingEvent{}, fmt.Errorf("failed to scan rating row: %w", err)
	}

	// The DuckDB driver returns UUID columns as 16 raw bytes rather than
	// their textual form.
	var id uuid.UUID
	var err error
	if len(idStr) == 16 {
		id, err = uuid.FromBytes([]byte(idStr))
	} else {
		id, err = uuid.Parse(idStr)
	}
	if err != nil {
		return models.RatingEvent{}, fmt.Errorf("failed to parse rating id %q: %w", idStr, err)
	}
	event.ID = id

	// DuckDB DATE values scan as timestamps; pin them to UTC midnight so
	// downstream date comparisons are driver-independent.
	event.RatedOn = time.Date(ratedOn.Year(), ratedOn.Month(), ratedOn.Day(), 0, 0, 0, 0, time.UTC)
	event.CreatedAt = createdAt.UTC()

	if err := json.Unmarshal([]byte(genreJSON), &event.Genres); err != nil {
		return models.RatingEvent{}, fmt.Errorf("failed to decode genre ids %q: %w", genreJSON, err)
	}
	if runtimeMinutes.Valid {
		minutes := int(runtimeMinutes.Int32)
		event.RuntimeMinutes = &minutes
	}
	return event, nil
}

// closeQuietly closes a resource and explicitly ignores any error
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
