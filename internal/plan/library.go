package plan

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/sequenceapp/backend/internal/domain"
)

// CoordinateKey reduces coordinates to a membership key with 5 decimal
// places (~1.1 m of latitude). Resolving the same place twice can yield
// minutely different floats, so exact equality would let duplicates through;
// rounding makes membership stable without a place-identifier registry.
func CoordinateKey(c domain.Coordinates) string {
	return fmt.Sprintf("%.5f,%.5f", c.Lat, c.Lng)
}

// IsSaved reports whether a place at the given coordinates is in the library.
func IsSaved(coords domain.Coordinates, library []domain.SavedLocation) bool {
	key := CoordinateKey(coords)
	for _, loc := range library {
		if CoordinateKey(loc.Coords) == key {
			return true
		}
	}
	return false
}

// ToggleSave adds the place to the library when absent and removes it when
// present, returning the new library and whether the place is now saved.
// Removal matches on coordinates rather than ID because the caller (holding
// a stop, not a library entry) does not know the library ID. Applying
// ToggleSave twice returns the library to its original membership.
func ToggleSave(place domain.ResolvedPlace, library []domain.SavedLocation) ([]domain.SavedLocation, bool) {
	key := CoordinateKey(place.Coords)

	out := make([]domain.SavedLocation, 0, len(library)+1)
	removed := false
	for _, loc := range library {
		if CoordinateKey(loc.Coords) == key {
			removed = true
			continue
		}
		out = append(out, loc)
	}
	if removed {
		return out, false
	}

	out = append(out, domain.SavedLocation{
		ID:           uuid.New(),
		Name:         place.Name,
		Address:      place.Address,
		Coords:       place.Coords,
		OpeningHours: place.OpeningHours,
	})
	return out, true
}

// RemoveSaved deletes a library entry by ID. A stale ID is a benign no-op.
func RemoveSaved(id uuid.UUID, library []domain.SavedLocation) []domain.SavedLocation {
	out := make([]domain.SavedLocation, 0, len(library))
	for _, loc := range library {
		if loc.ID == id {
			continue
		}
		out = append(out, loc)
	}
	return out
}
