package repo

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sequenceapp/backend/internal/domain"
)

// LibraryRepo persists the user's saved-location library as a flat
// collection. Membership and toggle logic live in the plan package; the repo
// only loads and replaces the whole collection, which keeps the pure logic
// and the storage concern apart.
type LibraryRepo interface {
	// List returns all saved locations in stored order.
	List(ctx context.Context) ([]domain.SavedLocation, error)

	// Replace overwrites the stored library with the given snapshot in one
	// transaction.
	Replace(ctx context.Context, library []domain.SavedLocation) error
}

// pgLibraryRepo is the Postgres implementation of LibraryRepo.
type pgLibraryRepo struct {
	db db
}

// NewLibraryRepo constructs a LibraryRepo backed by the provided db connection.
func NewLibraryRepo(db db) LibraryRepo {
	return &pgLibraryRepo{db: db}
}

func (r *pgLibraryRepo) List(ctx context.Context) ([]domain.SavedLocation, error) {
	const q = `
		SELECT id, name, address, lat, lng, opening_hours
		FROM saved_locations
		ORDER BY position ASC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.LibraryRepo.List: %w", err)
	}
	defer rows.Close()

	var library []domain.SavedLocation
	for rows.Next() {
		var (
			loc   domain.SavedLocation
			id    pgtype.UUID
			hours []byte
		)
		if err := rows.Scan(&id, &loc.Name, &loc.Address, &loc.Coords.Lat, &loc.Coords.Lng, &hours); err != nil {
			return nil, fmt.Errorf("repo.LibraryRepo.List: scan: %w", err)
		}
		loc.ID = uuid.UUID(id.Bytes)
		if hours != nil {
			loc.OpeningHours = &domain.WeeklySchedule{}
			if err := json.Unmarshal(hours, loc.OpeningHours); err != nil {
				return nil, fmt.Errorf("repo.LibraryRepo.List: opening hours: %w", err)
			}
		}
		library = append(library, loc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.LibraryRepo.List: rows: %w", err)
	}
	return library, nil
}

func (r *pgLibraryRepo) Replace(ctx context.Context, library []domain.SavedLocation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("repo.LibraryRepo.Replace: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM saved_locations`); err != nil {
		return fmt.Errorf("repo.LibraryRepo.Replace: clear: %w", err)
	}

	const insert = `
		INSERT INTO saved_locations (id, position, name, address, lat, lng, opening_hours)
		VALUES (@id, @position, @name, @address, @lat, @lng, @opening_hours)`

	for i, loc := range library {
		hours, err := marshalNullable(loc.OpeningHours)
		if err != nil {
			return fmt.Errorf("repo.LibraryRepo.Replace: location %s: %w", loc.ID, err)
		}
		args := pgx.NamedArgs{
			"id":            loc.ID,
			"position":      i,
			"name":          loc.Name,
			"address":       loc.Address,
			"lat":           loc.Coords.Lat,
			"lng":           loc.Coords.Lng,
			"opening_hours": hours,
		}
		if _, err := tx.Exec(ctx, insert, args); err != nil {
			return fmt.Errorf("repo.LibraryRepo.Replace: insert %s: %w", loc.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("repo.LibraryRepo.Replace: commit: %w", err)
	}
	return nil
}
