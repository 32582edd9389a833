// Package travel estimates travel duration and distance between consecutive
// stops. The core never blocks on these estimates: a failed or missing
// estimate simply leaves the stop's cached leg empty and the timeline falls
// back to its fixed defaults.
package travel

import (
	"context"

	"github.com/sequenceapp/backend/internal/domain"
)

// Estimate is the travel cost between two coordinates for one mode.
type Estimate struct {
	DurationMinutes int
	DistanceLabel   string // e.g. "850 m", "12.4 km"
}

// Estimator is the contract for travel-time providers. Implementations must
// be safe for concurrent use.
type Estimator interface {
	// Estimate returns the travel duration and distance between two points
	// for the given mode.
	Estimate(ctx context.Context, from, to domain.Coordinates, mode domain.TravelMode) (Estimate, error)
}
