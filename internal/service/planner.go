// Package service contains the business logic for the Sequence API.
// Services validate inputs, orchestrate repo calls, and thread trip
// snapshots through the pure plan and timeline packages.
// No SQL lives here — services depend on repo interfaces, not implementations.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/sequenceapp/backend/internal/domain"
	"github.com/sequenceapp/backend/internal/plan"
	"github.com/sequenceapp/backend/internal/repo"
	"github.com/sequenceapp/backend/internal/resolve"
	"github.com/sequenceapp/backend/internal/timeline"
	"github.com/sequenceapp/backend/internal/travel"
)

// PlannerService implements all trip planning operations: trip CRUD,
// structural edits, and timeline reads.
//
// Each mutating method performs one read-modify-write cycle: load the trip,
// transform it through plan, recompute the affected day's travel legs, save.
// Because the recompute runs inside the same call as the mutation that
// invalidated it, a later mutation's estimates always describe the later
// stop arrangement — stale estimates cannot overwrite newer ones.
type PlannerService struct {
	trips     repo.TripRepo
	library   repo.LibraryRepo
	resolver  resolve.Resolver
	estimator travel.Estimator
}

// NewPlannerService constructs a PlannerService from its collaborators.
func NewPlannerService(trips repo.TripRepo, library repo.LibraryRepo, resolver resolve.Resolver, estimator travel.Estimator) *PlannerService {
	return &PlannerService{trips: trips, library: library, resolver: resolver, estimator: estimator}
}

// CreateTrip persists a new trip, applying the product defaults for any
// zero-valued field: name "Untitled Adventure", today's date, 09:00 start,
// one day.
func (s *PlannerService) CreateTrip(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	if trip.Name == "" {
		trip.Name = domain.DefaultTripName
	}
	if trip.StartDate.IsZero() {
		now := time.Now()
		trip.StartDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	}
	if trip.StartTime == "" {
		trip.StartTime = domain.DefaultStartTime
	}
	if trip.DayCount == 0 {
		trip.DayCount = 1
	}
	if err := validateTripSettings(trip); err != nil {
		return domain.Trip{}, err
	}

	created, err := s.trips.Create(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.CreateTrip: %w", err)
	}
	return created, nil
}

// GetTrip returns a single trip aggregate by ID.
func (s *PlannerService) GetTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.GetTrip: %w", err)
	}
	return trip, nil
}

// ListTrips returns all trips, most recently updated first.
// Always returns a non-nil slice so callers can safely range over it.
func (s *PlannerService) ListTrips(ctx context.Context) ([]domain.Trip, error) {
	trips, err := s.trips.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.PlannerService.ListTrips: %w", err)
	}
	if trips == nil {
		return []domain.Trip{}, nil
	}
	return trips, nil
}

// UpdateTripSettings changes a trip's name, start date, or start time.
// These affect the computed timeline but not the stop collection, so no
// travel recompute is needed.
func (s *PlannerService) UpdateTripSettings(ctx context.Context, id uuid.UUID, name string, startDate time.Time, startTime string) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, id)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.UpdateTripSettings: %w", err)
	}

	trip.Name = name
	trip.StartDate = startDate
	trip.StartTime = startTime
	if err := validateTripSettings(trip); err != nil {
		return domain.Trip{}, err
	}

	saved, err := s.trips.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.UpdateTripSettings: %w", err)
	}
	return saved, nil
}

// DeleteTrip removes a trip and everything it owns.
func (s *PlannerService) DeleteTrip(ctx context.Context, id uuid.UUID) error {
	if err := s.trips.Delete(ctx, id); err != nil {
		return fmt.Errorf("service.PlannerService.DeleteTrip: %w", err)
	}
	return nil
}

// AddStop resolves the pasted input to a place and appends it to the given
// day, then recomputes that day's travel legs.
func (s *PlannerService) AddStop(ctx context.Context, tripID uuid.UUID, rawInput string, day int) (domain.Trip, error) {
	place, err := s.resolver.Resolve(ctx, rawInput)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddStop: %w", err)
	}
	return s.addResolvedStop(ctx, tripID, place, day)
}

// AddStopFromLibrary appends a previously saved location to the given day.
// Returns domain.ErrNotFound if the library has no entry with that ID.
func (s *PlannerService) AddStopFromLibrary(ctx context.Context, tripID, locationID uuid.UUID, day int) (domain.Trip, error) {
	library, err := s.library.List(ctx)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddStopFromLibrary: %w", err)
	}

	for _, loc := range library {
		if loc.ID == locationID {
			place := domain.ResolvedPlace{
				Name:         loc.Name,
				Address:      loc.Address,
				Coords:       loc.Coords,
				OpeningHours: loc.OpeningHours,
			}
			return s.addResolvedStop(ctx, tripID, place, day)
		}
	}
	return domain.Trip{}, fmt.Errorf("service.PlannerService.AddStopFromLibrary: %w", domain.ErrNotFound)
}

func (s *PlannerService) addResolvedStop(ctx context.Context, tripID uuid.UUID, place domain.ResolvedPlace, day int) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddStop: %w", err)
	}

	trip, err = plan.AddStop(trip, place, day)
	if err != nil {
		return domain.Trip{}, err
	}
	s.refreshTravel(ctx, &trip, day)

	saved, err := s.trips.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddStop: %w", err)
	}
	return saved, nil
}

// RemoveStop deletes a stop and recomputes the affected day. A stale stop ID
// saves the trip unchanged rather than failing: deletes can race the UI.
func (s *PlannerService) RemoveStop(ctx context.Context, tripID, stopID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.RemoveStop: %w", err)
	}

	trip, day := plan.RemoveStop(trip, stopID)
	if day > 0 {
		s.refreshTravel(ctx, &trip, day)
	}

	saved, err := s.trips.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.RemoveStop: %w", err)
	}
	return saved, nil
}

// MoveStop swaps a stop with its neighbor within its day (direction −1 moves
// it earlier, +1 later) and recomputes the day's travel legs. Moving past
// the boundary of the day is a no-op.
func (s *PlannerService) MoveStop(ctx context.Context, tripID, stopID uuid.UUID, direction int) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.MoveStop: %w", err)
	}

	day, indexInDay := locateStop(trip, stopID)
	if day == 0 {
		return trip, nil
	}

	trip, err = plan.ReorderStop(trip, day, indexInDay, direction)
	if err != nil {
		return domain.Trip{}, err
	}
	s.refreshTravel(ctx, &trip, day)

	saved, err := s.trips.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.MoveStop: %w", err)
	}
	return saved, nil
}

// UpdateStop changes a stop's dwell time, name, and/or travel mode. Nil
// fields are left untouched. Only a mode change invalidates travel legs.
func (s *PlannerService) UpdateStop(ctx context.Context, tripID, stopID uuid.UUID, dwellMinutes *int, name *string, mode *domain.TravelMode) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.UpdateStop: %w", err)
	}

	if dwellMinutes != nil {
		trip = plan.UpdateDwell(trip, stopID, *dwellMinutes)
	}
	if name != nil {
		trip, err = plan.RenameStop(trip, stopID, *name)
		if err != nil {
			return domain.Trip{}, err
		}
	}
	if mode != nil {
		var day int
		trip, day, err = plan.SetTravelMode(trip, stopID, *mode)
		if err != nil {
			return domain.Trip{}, err
		}
		if day > 0 {
			s.refreshTravel(ctx, &trip, day)
		}
	}

	saved, err := s.trips.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.UpdateStop: %w", err)
	}
	return saved, nil
}

// ChangeDayCount resizes the trip. When the reduction would delete stops and
// confirmed is false, the trip is left untouched and the returned
// confirmation lists exactly the stops that would be lost; the client must
// repeat the call with confirmed=true to commit. Growing the trip, or
// shrinking it without orphaning stops, never requires confirmation.
func (s *PlannerService) ChangeDayCount(ctx context.Context, tripID uuid.UUID, newCount int, confirmed bool) (domain.Trip, *plan.DayCountConfirmation, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("service.PlannerService.ChangeDayCount: %w", err)
	}

	var confirmation *plan.DayCountConfirmation
	if confirmed {
		trip, err = plan.ApplyDayCount(trip, newCount)
	} else {
		trip, confirmation, err = plan.ChangeDayCount(trip, newCount)
	}
	if err != nil {
		return domain.Trip{}, nil, err
	}
	if confirmation != nil {
		return trip, confirmation, nil
	}

	saved, err := s.trips.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("service.PlannerService.ChangeDayCount: %w", err)
	}
	return saved, nil, nil
}

// AddHotel resolves the pasted input and attaches it as a hotel stay over
// [startDay, endDay]. Hotel transfer gaps are fixed, so no recompute runs.
func (s *PlannerService) AddHotel(ctx context.Context, tripID uuid.UUID, rawInput string, startDay, endDay int) (domain.Trip, error) {
	place, err := s.resolver.Resolve(ctx, rawInput)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddHotel: %w", err)
	}

	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddHotel: %w", err)
	}

	trip, err = plan.AddHotelStay(trip, place, startDay, endDay)
	if err != nil {
		return domain.Trip{}, err
	}

	saved, err := s.trips.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.AddHotel: %w", err)
	}
	return saved, nil
}

// RemoveHotel deletes a hotel stay; a stale ID saves the trip unchanged.
func (s *PlannerService) RemoveHotel(ctx context.Context, tripID, hotelID uuid.UUID) (domain.Trip, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.RemoveHotel: %w", err)
	}

	trip = plan.RemoveHotelStay(trip, hotelID)

	saved, err := s.trips.Save(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.PlannerService.RemoveHotel: %w", err)
	}
	return saved, nil
}

// Timeline computes the display schedule for one day of a trip.
// Returns domain.ErrValidation when day is outside [1, trip.DayCount].
func (s *PlannerService) Timeline(ctx context.Context, tripID uuid.UUID, day int) ([]domain.TimelineEntry, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("service.PlannerService.Timeline: %w", err)
	}
	if day < 1 || day > trip.DayCount {
		return nil, fmt.Errorf("%w: day %d is outside the trip's %d day(s)", domain.ErrValidation, day, trip.DayCount)
	}
	return timeline.BuildDay(trip, day), nil
}

// refreshTravel recomputes the cached travel legs for every consecutive stop
// pair of one day, replacing whatever was cached before. An estimator
// failure clears the pair's leg instead of propagating: the timeline builder
// falls back to its default gap and the trip stays displayable.
func (s *PlannerService) refreshTravel(ctx context.Context, trip *domain.Trip, day int) {
	// Flat-sequence positions of the day's stops, in day order.
	var positions []int
	for i, st := range trip.Stops {
		if st.Day == day {
			positions = append(positions, i)
		}
	}

	for n, pos := range positions {
		cur := &trip.Stops[pos]
		if n == len(positions)-1 {
			cur.TravelToNext = nil
			continue
		}
		next := trip.Stops[positions[n+1]]

		est, err := s.estimator.Estimate(ctx, cur.Coords, next.Coords, cur.Mode)
		if err != nil {
			cur.TravelToNext = nil
			continue
		}
		cur.TravelToNext = &domain.TravelLeg{
			ToStopID:        next.ID,
			Mode:            cur.Mode,
			DistanceLabel:   est.DistanceLabel,
			DurationMinutes: est.DurationMinutes,
		}
	}
}

// locateStop returns the day and day-local index of a stop, or (0, 0) when
// the ID is stale.
func locateStop(trip domain.Trip, stopID uuid.UUID) (day, indexInDay int) {
	for _, st := range trip.Stops {
		if st.ID == stopID {
			day = st.Day
			break
		}
	}
	if day == 0 {
		return 0, 0
	}
	for _, st := range trip.DayStops(day) {
		if st.ID == stopID {
			return day, indexInDay
		}
		indexInDay++
	}
	return 0, 0
}

// validateTripSettings enforces the rules common to create and update.
func validateTripSettings(trip domain.Trip) error {
	if trip.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if trip.DayCount < 1 {
		return fmt.Errorf("%w: a trip must have at least one day", domain.ErrValidation)
	}
	if _, err := time.Parse("15:04", trip.StartTime); err != nil {
		return fmt.Errorf("%w: start time must be HH:MM", domain.ErrValidation)
	}
	return nil
}
