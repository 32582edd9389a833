// Package plan implements the structural edits on a trip: adding, removing
// and reordering stops, changing the day count, and managing hotel stays.
//
// Every function is a pure transformation: it takes a trip snapshot, returns
// a new snapshot, and never mutates its input. The caller owns the
// read-modify-write cycle against storage and is responsible for triggering
// a travel recompute after any edit that changes a day's adjacency.
package plan

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/sequenceapp/backend/internal/domain"
)

// DefaultDwellMinutes is assigned to newly added stops.
const DefaultDwellMinutes = 60

// AddStop appends a stop for the resolved place to the given day.
// Returns domain.ErrValidation when day is outside [1, trip.DayCount].
// The caller must recompute travel for that day afterwards.
func AddStop(trip domain.Trip, place domain.ResolvedPlace, day int) (domain.Trip, error) {
	if day < 1 || day > trip.DayCount {
		return domain.Trip{}, fmt.Errorf("%w: day %d is outside the trip's %d day(s)", domain.ErrValidation, day, trip.DayCount)
	}

	address := place.Address
	if strings.TrimSpace(address) == "" {
		address = fmt.Sprintf("%.4f, %.4f", place.Coords.Lat, place.Coords.Lng)
	}

	out := trip.Clone()
	out.Stops = append(out.Stops, domain.Stop{
		ID:           uuid.New(),
		Name:         place.Name,
		Address:      address,
		Coords:       place.Coords,
		DwellMinutes: DefaultDwellMinutes,
		Day:          day,
		Mode:         domain.ModeDriving,
		OpeningHours: place.OpeningHours,
		SourceURL:    place.SourceURL,
	})
	return out, nil
}

// RemoveStop deletes the stop with the given ID and returns the day it
// belonged to, so the caller can recompute that day's travel. A stale ID is
// a benign no-op (day 0): UI actions can race deletes, and a stop that is
// already gone is not an error.
func RemoveStop(trip domain.Trip, stopID uuid.UUID) (domain.Trip, int) {
	idx := indexOfStop(trip.Stops, stopID)
	if idx < 0 {
		return trip, 0
	}

	day := trip.Stops[idx].Day
	out := trip.Clone()
	out.Stops = append(out.Stops[:idx], out.Stops[idx+1:]...)
	return out, day
}

// ReorderStop swaps the stop at indexInDay (an index into the given day's
// filtered view) with its immediate neighbor in direction −1 (earlier) or +1
// (later). The day-local positions are translated back into the flat stop
// sequence before swapping. Asking to move past the boundary of the day is a
// no-op, not an error.
func ReorderStop(trip domain.Trip, day, indexInDay, direction int) (domain.Trip, error) {
	if direction != -1 && direction != 1 {
		return domain.Trip{}, fmt.Errorf("%w: direction must be -1 or +1", domain.ErrValidation)
	}

	// Collect the flat-sequence positions of the day's stops, in day order.
	var positions []int
	for i, s := range trip.Stops {
		if s.Day == day {
			positions = append(positions, i)
		}
	}

	if indexInDay < 0 || indexInDay >= len(positions) {
		return trip, nil
	}
	target := indexInDay + direction
	if target < 0 || target >= len(positions) {
		return trip, nil
	}

	out := trip.Clone()
	from, to := positions[indexInDay], positions[target]
	out.Stops[from], out.Stops[to] = out.Stops[to], out.Stops[from]
	return out, nil
}

// UpdateDwell sets a stop's dwell time, coercing negative values to zero.
// A stale stop ID is a benign no-op. Dwell changes shift the day's schedule
// but do not change adjacency, so no travel recompute is needed.
func UpdateDwell(trip domain.Trip, stopID uuid.UUID, minutes int) domain.Trip {
	idx := indexOfStop(trip.Stops, stopID)
	if idx < 0 {
		return trip
	}
	if minutes < 0 {
		minutes = 0
	}

	out := trip.Clone()
	out.Stops[idx].DwellMinutes = minutes
	return out
}

// RenameStop sets a stop's display name.
// Returns domain.ErrValidation when the name is empty or whitespace-only.
// A stale stop ID is a benign no-op.
func RenameStop(trip domain.Trip, stopID uuid.UUID, name string) (domain.Trip, error) {
	if strings.TrimSpace(name) == "" {
		return domain.Trip{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	idx := indexOfStop(trip.Stops, stopID)
	if idx < 0 {
		return trip, nil
	}

	out := trip.Clone()
	out.Stops[idx].Name = name
	return out, nil
}

// SetTravelMode changes how the traveller departs the given stop and drops
// the stop's cached leg, since it was estimated for the old mode. The caller
// must recompute travel for the stop's day. Returns the affected day, or 0
// for a stale ID (benign no-op).
func SetTravelMode(trip domain.Trip, stopID uuid.UUID, mode domain.TravelMode) (domain.Trip, int, error) {
	if !mode.Valid() {
		return domain.Trip{}, 0, fmt.Errorf("%w: unsupported travel mode %q", domain.ErrValidation, mode)
	}
	idx := indexOfStop(trip.Stops, stopID)
	if idx < 0 {
		return trip, 0, nil
	}

	out := trip.Clone()
	out.Stops[idx].Mode = mode
	out.Stops[idx].TravelToNext = nil
	return out, out.Stops[idx].Day, nil
}

// DayCountConfirmation reports that reducing the day count would delete the
// listed stops, and that the caller must obtain explicit confirmation before
// applying the change via ApplyDayCount. Deleting stops this way is the one
// irreversible structural edit and must never happen silently.
type DayCountConfirmation struct {
	NewCount int
	Orphaned []domain.Stop
}

// ChangeDayCount resizes the trip to newCount days.
//
// When no stop lives beyond newCount the change is applied directly and the
// returned confirmation is nil. When the reduction would orphan stops the
// trip is returned unchanged together with a confirmation listing exactly the
// stops whose day exceeds newCount.
func ChangeDayCount(trip domain.Trip, newCount int) (domain.Trip, *DayCountConfirmation, error) {
	if newCount < 1 {
		return domain.Trip{}, nil, fmt.Errorf("%w: a trip must have at least one day", domain.ErrValidation)
	}

	var orphaned []domain.Stop
	for _, s := range trip.Stops {
		if s.Day > newCount {
			orphaned = append(orphaned, s)
		}
	}
	if len(orphaned) > 0 {
		return trip, &DayCountConfirmation{NewCount: newCount, Orphaned: orphaned}, nil
	}

	out := trip.Clone()
	out.DayCount = newCount
	return out, nil, nil
}

// ApplyDayCount commits a confirmed day-count reduction: stops beyond
// newCount are deleted and the day count is clamped. Hotel stays are never
// implicitly deleted, even when their range now extends past the last day.
func ApplyDayCount(trip domain.Trip, newCount int) (domain.Trip, error) {
	if newCount < 1 {
		return domain.Trip{}, fmt.Errorf("%w: a trip must have at least one day", domain.ErrValidation)
	}

	out := trip.Clone()
	kept := out.Stops[:0]
	for _, s := range out.Stops {
		if s.Day <= newCount {
			kept = append(kept, s)
		}
	}
	out.Stops = kept
	out.DayCount = newCount
	return out, nil
}

// AddHotelStay appends a hotel stay covering [startDay, endDay].
// Returns domain.ErrValidation when the range is out of order, outside the
// trip, or overlaps an existing stay (at most one stay may be active per
// day, so overlapping ranges are rejected up front rather than silently
// resolved by pick-first at render time).
func AddHotelStay(trip domain.Trip, place domain.ResolvedPlace, startDay, endDay int) (domain.Trip, error) {
	if startDay < 1 || endDay < startDay || endDay > trip.DayCount {
		return domain.Trip{}, fmt.Errorf("%w: hotel stay days must satisfy 1 ≤ start ≤ end ≤ %d", domain.ErrValidation, trip.DayCount)
	}
	for _, h := range trip.Hotels {
		if startDay <= h.EndDay && h.StartDay <= endDay {
			return domain.Trip{}, fmt.Errorf("%w: hotel stay overlaps %q (days %d-%d)", domain.ErrValidation, h.Name, h.StartDay, h.EndDay)
		}
	}

	out := trip.Clone()
	out.Hotels = append(out.Hotels, domain.HotelStay{
		ID:       uuid.New(),
		Name:     place.Name,
		Address:  place.Address,
		Coords:   place.Coords,
		StartDay: startDay,
		EndDay:   endDay,
	})
	return out, nil
}

// RemoveHotelStay deletes the hotel stay with the given ID.
// A stale ID is a benign no-op. No travel recompute is needed: hotel
// transfer gaps are fixed, not cached.
func RemoveHotelStay(trip domain.Trip, hotelID uuid.UUID) domain.Trip {
	for i, h := range trip.Hotels {
		if h.ID == hotelID {
			out := trip.Clone()
			out.Hotels = append(out.Hotels[:i], out.Hotels[i+1:]...)
			return out
		}
	}
	return trip
}

func indexOfStop(stops []domain.Stop, id uuid.UUID) int {
	for i, s := range stops {
		if s.ID == id {
			return i
		}
	}
	return -1
}
