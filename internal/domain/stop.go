package domain

import "github.com/google/uuid"

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// TravelMode selects how the traveller moves between two consecutive stops.
type TravelMode string

const (
	ModeDriving TravelMode = "driving"
	ModeWalking TravelMode = "walking"
	ModeTransit TravelMode = "transit"
)

// Valid reports whether m is one of the supported travel modes.
func (m TravelMode) Valid() bool {
	switch m {
	case ModeDriving, ModeWalking, ModeTransit:
		return true
	}
	return false
}

// TravelLeg is a cached travel estimate from one stop to the next stop of the
// same day. It is a cache, not a fact: any structural edit that changes the
// day's adjacency (insert, delete, reorder, mode change) invalidates it, and
// the timeline builder only trusts a leg whose ToStopID still matches the
// actual next stop.
type TravelLeg struct {
	ToStopID        uuid.UUID  `json:"to_stop_id"`
	Mode            TravelMode `json:"mode"`
	DistanceLabel   string     `json:"distance_label"`
	DurationMinutes int        `json:"duration_minutes"`
}

// Stop is a single planned visit within a trip day.
type Stop struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Coords       Coordinates     `json:"coords"`
	DwellMinutes int             `json:"dwell_minutes"` // ≥ 0
	Day          int             `json:"day"`           // 1-based, ≤ Trip.DayCount
	Mode         TravelMode      `json:"mode"`
	TravelToNext *TravelLeg      `json:"travel_to_next,omitempty"`
	OpeningHours *WeeklySchedule `json:"opening_hours,omitempty"`
	SourceURL    string          `json:"source_url,omitempty"`
}
