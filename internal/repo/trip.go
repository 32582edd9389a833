// Package repo contains all database access logic for the Sequence API.
// Each resource has its own file with an interface and a Postgres implementation.
// No business logic lives here — only SQL and type mapping.
package repo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/sequenceapp/backend/internal/domain"
)

// db is the minimal interface satisfied by *pgxpool.Pool, pgx.Conn, and pgx.Tx.
// Accepting this interface instead of *pgxpool.Pool directly allows integration
// tests to pass a transaction that is rolled back after each test, giving free
// per-test isolation without any manual cleanup.
type db interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TripRepo defines the persistence operations for the Trip aggregate.
// Trips are loaded and saved whole: a trip row plus its ordered stops and
// hotel stays. The service layer depends on this interface, not the concrete
// Postgres implementation, which allows unit-testing with a mock.
type TripRepo interface {
	// Create inserts a new trip aggregate and returns the persisted record.
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// GetByID retrieves a trip with all its stops and hotel stays.
	// Returns domain.ErrNotFound if no trip with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error)

	// List returns all trips (with children) ordered by most recently updated.
	List(ctx context.Context) ([]domain.Trip, error)

	// Save overwrites the whole aggregate in one transaction: the trip row is
	// updated and the stop/hotel collections are replaced to match the given
	// snapshot. Returns domain.ErrNotFound if the trip does not exist.
	Save(ctx context.Context, trip domain.Trip) (domain.Trip, error)

	// Delete removes a trip and (via FK cascade) its stops and hotel stays.
	// Returns domain.ErrNotFound if it does not exist.
	Delete(ctx context.Context, id uuid.UUID) error
}

// pgTripRepo is the Postgres implementation of TripRepo.
type pgTripRepo struct {
	db db
}

// NewTripRepo constructs a TripRepo backed by the provided db connection.
// In production pass *pgxpool.Pool; in tests pass a pgx.Tx for rollback isolation.
func NewTripRepo(db db) TripRepo {
	return &pgTripRepo{db: db}
}

// Create inserts the trip row and any initial stops/hotels in one transaction.
func (r *pgTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
		INSERT INTO trips (name, start_date, start_time, day_count)
		VALUES (@name, @start_date, @start_time, @day_count)
		RETURNING id, name, start_date, start_time, day_count, created_at, updated_at`

	args := pgx.NamedArgs{
		"name":       trip.Name,
		"start_date": trip.StartDate,
		"start_time": trip.StartTime,
		"day_count":  trip.DayCount,
	}

	created, err := scanTrip(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}

	if err := replaceChildren(ctx, tx, created.ID, trip.Stops, trip.Hotels); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Create: commit: %w", err)
	}

	created.Stops = trip.Stops
	created.Hotels = trip.Hotels
	return created, nil
}

// GetByID retrieves the full aggregate.
func (r *pgTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	const q = `
		SELECT id, name, start_date, start_time, day_count, created_at, updated_at
		FROM trips
		WHERE id = @id`

	trip, err := scanTrip(r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id}))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}

	if trip.Stops, err = r.loadStops(ctx, id); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	if trip.Hotels, err = r.loadHotels(ctx, id); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.GetByID: %w", err)
	}
	return trip, nil
}

// List returns all trips, most recently updated first, with children loaded.
func (r *pgTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	const q = `
		SELECT id, name, start_date, start_time, day_count, created_at, updated_at
		FROM trips
		ORDER BY updated_at DESC`

	rows, err := r.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
	}
	defer rows.Close()

	var trips []domain.Trip
	for rows.Next() {
		t, err := scanTrip(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: scan: %w", err)
		}
		trips = append(trips, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.TripRepo.List: rows: %w", err)
	}

	for i := range trips {
		if trips[i].Stops, err = r.loadStops(ctx, trips[i].ID); err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
		}
		if trips[i].Hotels, err = r.loadHotels(ctx, trips[i].ID); err != nil {
			return nil, fmt.Errorf("repo.TripRepo.List: %w", err)
		}
	}
	return trips, nil
}

// Save overwrites the aggregate: trip row updated, children replaced.
func (r *pgTripRepo) Save(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Save: begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const q = `
		UPDATE trips
		SET name       = @name,
		    start_date = @start_date,
		    start_time = @start_time,
		    day_count  = @day_count,
		    updated_at = now()
		WHERE id = @id
		RETURNING id, name, start_date, start_time, day_count, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":         trip.ID,
		"name":       trip.Name,
		"start_date": trip.StartDate,
		"start_time": trip.StartTime,
		"day_count":  trip.DayCount,
	}

	saved, err := scanTrip(tx.QueryRow(ctx, q, args))
	if err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Save: %w", err)
	}

	if err := replaceChildren(ctx, tx, trip.ID, trip.Stops, trip.Hotels); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Save: %w", err)
	}
	if err := tx.Commit(ctx); err != nil {
		return domain.Trip{}, fmt.Errorf("repo.TripRepo.Save: commit: %w", err)
	}

	saved.Stops = trip.Stops
	saved.Hotels = trip.Hotels
	return saved, nil
}

// Delete removes a trip by primary key; stops and hotels cascade.
func (r *pgTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	const q = `DELETE FROM trips WHERE id = @id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"id": id})
	if err != nil {
		return fmt.Errorf("repo.TripRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.TripRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

// replaceChildren deletes and re-inserts a trip's stops and hotel stays.
// The position column preserves the slice order, which is the trip's only
// sequencing signal.
func replaceChildren(ctx context.Context, tx pgx.Tx, tripID uuid.UUID, stops []domain.Stop, hotels []domain.HotelStay) error {
	if _, err := tx.Exec(ctx, `DELETE FROM stops WHERE trip_id = @trip_id`, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("clear stops: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM hotel_stays WHERE trip_id = @trip_id`, pgx.NamedArgs{"trip_id": tripID}); err != nil {
		return fmt.Errorf("clear hotel_stays: %w", err)
	}

	const insertStop = `
		INSERT INTO stops (id, trip_id, position, name, address, lat, lng,
		                   dwell_minutes, day, travel_mode, travel_to_next, opening_hours, source_url)
		VALUES (@id, @trip_id, @position, @name, @address, @lat, @lng,
		        @dwell_minutes, @day, @travel_mode, @travel_to_next, @opening_hours, @source_url)`

	for i, s := range stops {
		leg, err := marshalNullable(s.TravelToNext)
		if err != nil {
			return fmt.Errorf("stop %s travel leg: %w", s.ID, err)
		}
		hours, err := marshalNullable(s.OpeningHours)
		if err != nil {
			return fmt.Errorf("stop %s opening hours: %w", s.ID, err)
		}

		args := pgx.NamedArgs{
			"id":             s.ID,
			"trip_id":        tripID,
			"position":       i,
			"name":           s.Name,
			"address":        s.Address,
			"lat":            s.Coords.Lat,
			"lng":            s.Coords.Lng,
			"dwell_minutes":  s.DwellMinutes,
			"day":            s.Day,
			"travel_mode":    string(s.Mode),
			"travel_to_next": leg,
			"opening_hours":  hours,
			"source_url":     s.SourceURL,
		}
		if _, err := tx.Exec(ctx, insertStop, args); err != nil {
			return fmt.Errorf("insert stop %s: %w", s.ID, err)
		}
	}

	const insertHotel = `
		INSERT INTO hotel_stays (id, trip_id, position, name, address, lat, lng, start_day, end_day)
		VALUES (@id, @trip_id, @position, @name, @address, @lat, @lng, @start_day, @end_day)`

	for i, h := range hotels {
		args := pgx.NamedArgs{
			"id":        h.ID,
			"trip_id":   tripID,
			"position":  i,
			"name":      h.Name,
			"address":   h.Address,
			"lat":       h.Coords.Lat,
			"lng":       h.Coords.Lng,
			"start_day": h.StartDay,
			"end_day":   h.EndDay,
		}
		if _, err := tx.Exec(ctx, insertHotel, args); err != nil {
			return fmt.Errorf("insert hotel stay %s: %w", h.ID, err)
		}
	}

	return nil
}

func (r *pgTripRepo) loadStops(ctx context.Context, tripID uuid.UUID) ([]domain.Stop, error) {
	const q = `
		SELECT id, name, address, lat, lng, dwell_minutes, day, travel_mode,
		       travel_to_next, opening_hours, source_url
		FROM stops
		WHERE trip_id = @trip_id
		ORDER BY position ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("load stops: %w", err)
	}
	defer rows.Close()

	var stops []domain.Stop
	for rows.Next() {
		var (
			s     domain.Stop
			id    pgtype.UUID
			mode  string
			leg   []byte
			hours []byte
		)
		if err := rows.Scan(&id, &s.Name, &s.Address, &s.Coords.Lat, &s.Coords.Lng,
			&s.DwellMinutes, &s.Day, &mode, &leg, &hours, &s.SourceURL); err != nil {
			return nil, fmt.Errorf("load stops: scan: %w", err)
		}
		s.ID = uuid.UUID(id.Bytes)
		s.Mode = domain.TravelMode(mode)
		if leg != nil {
			s.TravelToNext = &domain.TravelLeg{}
			if err := json.Unmarshal(leg, s.TravelToNext); err != nil {
				return nil, fmt.Errorf("load stops: travel leg: %w", err)
			}
		}
		if hours != nil {
			s.OpeningHours = &domain.WeeklySchedule{}
			if err := json.Unmarshal(hours, s.OpeningHours); err != nil {
				return nil, fmt.Errorf("load stops: opening hours: %w", err)
			}
		}
		stops = append(stops, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load stops: rows: %w", err)
	}
	return stops, nil
}

func (r *pgTripRepo) loadHotels(ctx context.Context, tripID uuid.UUID) ([]domain.HotelStay, error) {
	const q = `
		SELECT id, name, address, lat, lng, start_day, end_day
		FROM hotel_stays
		WHERE trip_id = @trip_id
		ORDER BY position ASC`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("load hotel_stays: %w", err)
	}
	defer rows.Close()

	var hotels []domain.HotelStay
	for rows.Next() {
		var (
			h  domain.HotelStay
			id pgtype.UUID
		)
		if err := rows.Scan(&id, &h.Name, &h.Address, &h.Coords.Lat, &h.Coords.Lng, &h.StartDay, &h.EndDay); err != nil {
			return nil, fmt.Errorf("load hotel_stays: scan: %w", err)
		}
		h.ID = uuid.UUID(id.Bytes)
		hotels = append(hotels, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("load hotel_stays: rows: %w", err)
	}
	return hotels, nil
}

// scanner is satisfied by both pgx.Row and pgx.Rows, allowing scanTrip to be
// reused for both QueryRow and Query calls.
type scanner interface {
	Scan(dest ...any) error
}

// scanTrip maps a single trips row into a domain.Trip (without children).
func scanTrip(s scanner) (domain.Trip, error) {
	var (
		t     domain.Trip
		id    pgtype.UUID
		start pgtype.Date
	)

	err := s.Scan(&id, &t.Name, &start, &t.StartTime, &t.DayCount, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Trip{}, domain.ErrNotFound
		}
		return domain.Trip{}, err
	}

	t.ID = uuid.UUID(id.Bytes)
	t.StartDate = start.Time
	return t, nil
}

// marshalNullable renders v as JSONB bytes, or nil (SQL NULL) for a nil
// pointer.
func marshalNullable[T any](v *T) ([]byte, error) {
	if v == nil {
		return nil, nil
	}
	return json.Marshal(v)
}
