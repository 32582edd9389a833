// Package domain contains the core data types for the Sequence trip planner.
// This package has zero dependencies beyond uuid and is imported by every
// other internal package (timeline, plan, repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// DefaultTripName is assigned to trips created without an explicit name.
const DefaultTripName = "Untitled Adventure"

// DefaultStartTime is the time-of-day a day's schedule begins when the user
// has not picked one, in "HH:MM" 24-hour form.
const DefaultStartTime = "09:00"

// Trip is the aggregate root: an ordered sequence of stops spread across
// DayCount days, optionally bracketed by hotel stays.
//
// Stops are held as one flat ordered sequence for the whole trip. Order
// within the slice is the only sequencing signal; per-day views are obtained
// by filtering on Stop.Day while preserving relative order.
type Trip struct {
	ID        uuid.UUID   `json:"id"`
	Name      string      `json:"name"`
	StartDate time.Time   `json:"start_date"`
	StartTime string      `json:"start_time"` // "HH:MM", local clock
	DayCount  int         `json:"day_count"`  // ≥ 1
	Stops     []Stop      `json:"stops"`
	Hotels    []HotelStay `json:"hotels"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// HotelStay is a lodging booking spanning an inclusive 1-based day range.
// Unlike stops, hotel stays are never deleted implicitly when the trip is
// shortened; they are removed only by explicit user action.
type HotelStay struct {
	ID       uuid.UUID   `json:"id"`
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	Coords   Coordinates `json:"coords"`
	StartDay int         `json:"start_day"` // 1-based, ≤ EndDay
	EndDay   int         `json:"end_day"`
}

// Covers reports whether the stay is active on the given 1-based day.
func (h HotelStay) Covers(day int) bool {
	return h.StartDay <= day && day <= h.EndDay
}

// Clone returns a copy of the trip with its own stop and hotel slices, so a
// caller can transform the copy without the original observing the change.
// Stop elements are value-copied; the TravelToNext and OpeningHours pointers
// are shared because transforms replace them, never write through them.
func (t Trip) Clone() Trip {
	out := t
	if t.Stops != nil {
		out.Stops = make([]Stop, len(t.Stops))
		copy(out.Stops, t.Stops)
	}
	if t.Hotels != nil {
		out.Hotels = make([]HotelStay, len(t.Hotels))
		copy(out.Hotels, t.Hotels)
	}
	return out
}

// DayStops returns the trip's stops assigned to the given 1-based day, in the
// same relative order they hold in the flat sequence.
func (t Trip) DayStops(day int) []Stop {
	var out []Stop
	for _, s := range t.Stops {
		if s.Day == day {
			out = append(out, s)
		}
	}
	return out
}

// ActiveHotel returns the first hotel stay (in stored order) covering the
// given day, or nil if none does.
func (t Trip) ActiveHotel(day int) *HotelStay {
	for i := range t.Hotels {
		if t.Hotels[i].Covers(day) {
			return &t.Hotels[i]
		}
	}
	return nil
}
