package domain

import (
	"time"

	"github.com/google/uuid"
)

// OpenStatus classifies whether a place is open at a computed arrival time.
type OpenStatus string

const (
	StatusOpen    OpenStatus = "open"
	StatusClosed  OpenStatus = "closed"
	StatusUnknown OpenStatus = "unknown"
)

// TimelineEntry is the computed, display-ready projection of one stop (or one
// hotel bracket point) for a single day. Entries are derived on every read
// and never persisted or mutated in place.
//
// For hotel brackets StopID carries the hotel stay's ID and dwell-related
// fields are zero. TravelMinutesToNext is 0 on the last entry of a day.
type TimelineEntry struct {
	StopID              uuid.UUID   `json:"stop_id"`
	DisplayName         string      `json:"display_name"`
	Address             string      `json:"address"`
	Coords              Coordinates `json:"coords"`
	Start               time.Time   `json:"start"`
	End                 time.Time   `json:"end"`
	TravelMinutesToNext int         `json:"travel_minutes_to_next"`
	DistanceLabelToNext string      `json:"distance_label_to_next,omitempty"`
	IsHotelBracket      bool        `json:"is_hotel_bracket"`
	OpenStatus          OpenStatus  `json:"open_status"`
	StatusMessage       string      `json:"status_message,omitempty"`
}
