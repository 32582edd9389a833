package timeline

import (
	"time"

	"github.com/sequenceapp/backend/internal/domain"
)

const (
	// DefaultTravelMinutes is assumed between two ordinary stops that have no
	// usable cached travel estimate.
	DefaultTravelMinutes = 15

	// HotelTransferMinutes is the fixed gap for any leg that touches a hotel
	// bracket. Hotel commutes are never looked up.
	HotelTransferMinutes = 30
)

// BuildDay computes the full, ordered timeline for one 1-based day of a trip.
//
// The result is a pure function of (day, trip.Stops, trip.Hotels,
// trip.StartDate, trip.StartTime). If a hotel stay covers the day, its start
// and end brackets enclose the day's stops; a day with neither stops nor an
// active hotel yields an empty slice.
//
// Timestamps are monotonically non-decreasing: each entry starts where the
// previous one ended plus the travel gap between them, and ends DwellMinutes
// later (brackets dwell for zero minutes).
func BuildDay(trip domain.Trip, day int) []domain.TimelineEntry {
	stops := trip.DayStops(day)
	hotel := trip.ActiveHotel(day)

	seq := make([]sequenced, 0, len(stops)+2)
	if hotel != nil {
		seq = append(seq, sequenced{hotel: hotel, suffix: " (Start)"})
	}
	for i := range stops {
		seq = append(seq, sequenced{stop: &stops[i]})
	}
	if hotel != nil {
		seq = append(seq, sequenced{hotel: hotel, suffix: " (End)"})
	}
	if len(seq) == 0 {
		return []domain.TimelineEntry{}
	}

	clock := dayStart(trip, day)

	out := make([]domain.TimelineEntry, 0, len(seq))
	for i, item := range seq {
		e := item.toEntry()
		e.Start = clock
		clock = clock.Add(time.Duration(item.dwellMinutes()) * time.Minute)
		e.End = clock

		if item.hotel != nil {
			// Hotel brackets are always treated as open, with no message.
			e.OpenStatus = domain.StatusOpen
		} else {
			e.OpenStatus, e.StatusMessage = Evaluate(e.Start, item.stop.OpeningHours)
		}

		if i < len(seq)-1 {
			e.TravelMinutesToNext, e.DistanceLabelToNext = travelGap(item, seq[i+1])
			clock = clock.Add(time.Duration(e.TravelMinutesToNext) * time.Minute)
		}

		out = append(out, e)
	}
	return out
}

// sequenced is one slot of a day's display sequence: either an ordinary stop
// or a hotel bracket point.
type sequenced struct {
	stop   *domain.Stop
	hotel  *domain.HotelStay
	suffix string // " (Start)" / " (End)" for hotel brackets
}

func (s sequenced) dwellMinutes() int {
	if s.stop == nil {
		return 0
	}
	if s.stop.DwellMinutes < 0 {
		return 0
	}
	return s.stop.DwellMinutes
}

func (s sequenced) toEntry() domain.TimelineEntry {
	if s.hotel != nil {
		return domain.TimelineEntry{
			StopID:         s.hotel.ID,
			DisplayName:    s.hotel.Name + s.suffix,
			Address:        s.hotel.Address,
			Coords:         s.hotel.Coords,
			IsHotelBracket: true,
		}
	}
	return domain.TimelineEntry{
		StopID:      s.stop.ID,
		DisplayName: s.stop.Name,
		Address:     s.stop.Address,
		Coords:      s.stop.Coords,
	}
}

// travelGap returns the minutes (and distance label, when known) between two
// consecutive sequence slots. A leg touching a hotel bracket always costs
// HotelTransferMinutes. Between two ordinary stops the cached leg is used
// only when it still points at the actual next stop; otherwise the default
// applies and the distance is reported as unavailable.
func travelGap(cur, next sequenced) (int, string) {
	if cur.hotel != nil || next.hotel != nil {
		return HotelTransferMinutes, ""
	}
	leg := cur.stop.TravelToNext
	if leg != nil && leg.ToStopID == next.stop.ID {
		return leg.DurationMinutes, leg.DistanceLabel
	}
	return DefaultTravelMinutes, ""
}

// dayStart returns the clock position at which the given day's schedule
// begins: trip.StartDate advanced day−1 days, at trip.StartTime. A missing
// or malformed start time falls back to 09:00.
func dayStart(trip domain.Trip, day int) time.Time {
	hour, minute := 9, 0
	if t, err := time.Parse("15:04", trip.StartTime); err == nil {
		hour, minute = t.Hour(), t.Minute()
	}
	d := trip.StartDate.AddDate(0, 0, day-1)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, minute, 0, 0, d.Location())
}
