package domain

import "github.com/google/uuid"

// ResolvedPlace is the outcome of resolving a user-pasted map link: a named
// place with coordinates and, when the source supplied them, opening hours.
// Address may be empty; callers substitute a coordinate-derived label.
type ResolvedPlace struct {
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Coords       Coordinates     `json:"coords"`
	OpeningHours *WeeklySchedule `json:"opening_hours,omitempty"`
	SourceURL    string          `json:"source_url,omitempty"`
}

// SavedLocation is a favorited place in the user's library, independent of
// any trip. The library is a flat, append-mostly collection with no ordering
// guarantees; membership keys on (rounded) coordinates, not ID.
type SavedLocation struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Address      string          `json:"address"`
	Coords       Coordinates     `json:"coords"`
	OpeningHours *WeeklySchedule `json:"opening_hours,omitempty"`
}
