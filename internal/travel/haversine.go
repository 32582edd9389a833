package travel

import (
	"context"
	"fmt"
	"math"

	"github.com/golang/geo/s2"

	"github.com/sequenceapp/backend/internal/domain"
)

const earthRadiusMeters = 6371000.0

// metersPerMinute is the assumed average pace per travel mode, circuity
// included. Deliberately conservative: an urban drive rarely follows the
// great circle.
var metersPerMinute = map[domain.TravelMode]float64{
	domain.ModeDriving: 500, // 30 km/h door to door
	domain.ModeWalking: 80,  // 4.8 km/h
	domain.ModeTransit: 350, // 21 km/h including waits
}

// HaversineEstimator derives travel estimates from straight-line great-circle
// distance and a per-mode average speed. It needs no network and never
// fails, which makes it the terminal fallback in the estimator chain.
type HaversineEstimator struct{}

// NewHaversineEstimator returns a stateless great-circle estimator.
func NewHaversineEstimator() *HaversineEstimator {
	return &HaversineEstimator{}
}

// Estimate computes the great-circle distance between the two points and
// converts it to minutes at the mode's average pace. The duration is rounded
// up and never below one minute.
func (e *HaversineEstimator) Estimate(_ context.Context, from, to domain.Coordinates, mode domain.TravelMode) (Estimate, error) {
	if !mode.Valid() {
		return Estimate{}, fmt.Errorf("%w: unsupported travel mode %q", domain.ErrValidation, mode)
	}

	p1 := s2.LatLngFromDegrees(from.Lat, from.Lng)
	p2 := s2.LatLngFromDegrees(to.Lat, to.Lng)
	meters := p1.Distance(p2).Radians() * earthRadiusMeters

	minutes := int(math.Ceil(meters / metersPerMinute[mode]))
	if minutes < 1 {
		minutes = 1
	}

	return Estimate{
		DurationMinutes: minutes,
		DistanceLabel:   formatDistance(meters),
	}, nil
}

// formatDistance renders meters as a short human label: "850 m" below one
// kilometer, "12.4 km" above.
func formatDistance(meters float64) string {
	if meters < 1000 {
		return fmt.Sprintf("%.0f m", meters)
	}
	return fmt.Sprintf("%.1f km", meters/1000)
}
