package travel

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sequenceapp/backend/internal/domain"
)

// SQLiteCache is a read-through cache in front of another Estimator, backed
// by a local SQLite file. Keys are origin/destination coordinates rounded to
// 5 decimal places plus the travel mode, so re-planning the same pair never
// re-estimates it.
type SQLiteCache struct {
	db   *sql.DB
	next Estimator
}

// NewSQLiteCache wraps next with a cache over the given SQLite handle.
// Call EnsureSchema on the handle before first use.
func NewSQLiteCache(db *sql.DB, next Estimator) *SQLiteCache {
	return &SQLiteCache{db: db, next: next}
}

// EnsureSchema creates the travel_cache table if it does not exist.
func EnsureSchema(db *sql.DB) error {
	const q = `
	CREATE TABLE IF NOT EXISTS travel_cache (
		origin           TEXT NOT NULL,
		destination      TEXT NOT NULL,
		mode             TEXT NOT NULL,
		duration_minutes INTEGER NOT NULL,
		distance_label   TEXT NOT NULL,
		PRIMARY KEY (origin, destination, mode)
	)`
	if _, err := db.Exec(q); err != nil {
		return fmt.Errorf("travel.EnsureSchema: %w", err)
	}
	return nil
}

// Estimate returns the cached estimate for (from, to, mode) when present,
// otherwise delegates to the wrapped estimator and stores the result.
func (c *SQLiteCache) Estimate(ctx context.Context, from, to domain.Coordinates, mode domain.TravelMode) (Estimate, error) {
	origin := coordKey(from)
	destination := coordKey(to)

	const get = `
	SELECT duration_minutes, distance_label
	FROM travel_cache
	WHERE origin = ? AND destination = ? AND mode = ?`

	var est Estimate
	err := c.db.QueryRowContext(ctx, get, origin, destination, string(mode)).
		Scan(&est.DurationMinutes, &est.DistanceLabel)
	switch {
	case err == nil:
		return est, nil
	case !errors.Is(err, sql.ErrNoRows):
		return Estimate{}, fmt.Errorf("travel.SQLiteCache.Estimate: query: %w", err)
	}

	est, err = c.next.Estimate(ctx, from, to, mode)
	if err != nil {
		return Estimate{}, err
	}

	const put = `
	INSERT OR REPLACE INTO travel_cache (origin, destination, mode, duration_minutes, distance_label)
	VALUES (?, ?, ?, ?, ?)`
	if _, err := c.db.ExecContext(ctx, put, origin, destination, string(mode), est.DurationMinutes, est.DistanceLabel); err != nil {
		return Estimate{}, fmt.Errorf("travel.SQLiteCache.Estimate: store: %w", err)
	}

	return est, nil
}

func coordKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}
