package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequenceapp/backend/internal/domain"
	"github.com/sequenceapp/backend/internal/repo"
	"github.com/sequenceapp/backend/internal/resolve"
	"github.com/sequenceapp/backend/internal/service"
	"github.com/sequenceapp/backend/internal/travel"
)

// mockTripRepo is a hand-written test double for repo.TripRepo.
// Each method is a function field — set only the ones your test needs.
// This is idiomatic Go: no mock generation library required for simple cases.
type mockTripRepo struct {
	create  func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	getByID func(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	list    func(ctx context.Context) ([]domain.Trip, error)
	save    func(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	delete  func(ctx context.Context, id uuid.UUID) error
}

func (m *mockTripRepo) Create(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.create(ctx, trip)
}
func (m *mockTripRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Trip, error) {
	return m.getByID(ctx, id)
}
func (m *mockTripRepo) List(ctx context.Context) ([]domain.Trip, error) {
	return m.list(ctx)
}
func (m *mockTripRepo) Save(ctx context.Context, trip domain.Trip) (domain.Trip, error) {
	return m.save(ctx, trip)
}
func (m *mockTripRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.delete(ctx, id)
}

var _ repo.TripRepo = (*mockTripRepo)(nil)

type mockLibraryRepo struct {
	list    func(ctx context.Context) ([]domain.SavedLocation, error)
	replace func(ctx context.Context, library []domain.SavedLocation) error
}

func (m *mockLibraryRepo) List(ctx context.Context) ([]domain.SavedLocation, error) {
	return m.list(ctx)
}
func (m *mockLibraryRepo) Replace(ctx context.Context, library []domain.SavedLocation) error {
	return m.replace(ctx, library)
}

var _ repo.LibraryRepo = (*mockLibraryRepo)(nil)

type mockResolver struct {
	resolve func(ctx context.Context, rawInput string) (domain.ResolvedPlace, error)
}

func (m *mockResolver) Resolve(ctx context.Context, rawInput string) (domain.ResolvedPlace, error) {
	return m.resolve(ctx, rawInput)
}

type mockEstimator struct {
	estimate func(ctx context.Context, from, to domain.Coordinates, mode domain.TravelMode) (travel.Estimate, error)
}

func (m *mockEstimator) Estimate(ctx context.Context, from, to domain.Coordinates, mode domain.TravelMode) (travel.Estimate, error) {
	return m.estimate(ctx, from, to, mode)
}

// ---- helpers ---------------------------------------------------------------

func validTrip() domain.Trip {
	return domain.Trip{
		ID:        uuid.New(),
		Name:      "Coast Run",
		StartDate: time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC),
		StartTime: "09:00",
		DayCount:  3,
	}
}

func stopOn(day int, name string) domain.Stop {
	return domain.Stop{
		ID:           uuid.New(),
		Name:         name,
		Address:      name + " address",
		DwellMinutes: 60,
		Day:          day,
		Mode:         domain.ModeDriving,
	}
}

// echoPlanner wires a planner whose repo echoes saves and serves the given
// trip, with a fixed-estimate estimator. Most mutation tests only care about
// the transformation, not what the DB returns.
func echoPlanner(trip domain.Trip) (*service.PlannerService, *mockResolver) {
	trips := &mockTripRepo{
		create:  func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		save:    func(_ context.Context, t domain.Trip) (domain.Trip, error) { return t, nil },
	}
	resolver := &mockResolver{
		resolve: func(_ context.Context, _ string) (domain.ResolvedPlace, error) {
			return domain.ResolvedPlace{
				Name:    "Space Needle",
				Address: "400 Broad St",
				Coords:  domain.Coordinates{Lat: 47.6205, Lng: -122.3493},
			}, nil
		},
	}
	estimator := &mockEstimator{
		estimate: func(_ context.Context, _, _ domain.Coordinates, _ domain.TravelMode) (travel.Estimate, error) {
			return travel.Estimate{DurationMinutes: 20, DistanceLabel: "10.0 km"}, nil
		},
	}
	return service.NewPlannerService(trips, &mockLibraryRepo{}, resolver, estimator), resolver
}

// ---- CreateTrip ------------------------------------------------------------

func TestPlannerService_CreateTrip_AppliesDefaults(t *testing.T) {
	svc, _ := echoPlanner(domain.Trip{})

	got, err := svc.CreateTrip(context.Background(), domain.Trip{})

	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTripName, got.Name)
	assert.Equal(t, domain.DefaultStartTime, got.StartTime)
	assert.Equal(t, 1, got.DayCount)
	assert.False(t, got.StartDate.IsZero())
}

func TestPlannerService_CreateTrip_KeepsExplicitValues(t *testing.T) {
	svc, _ := echoPlanner(domain.Trip{})

	got, err := svc.CreateTrip(context.Background(), validTrip())

	require.NoError(t, err)
	assert.Equal(t, "Coast Run", got.Name)
	assert.Equal(t, 3, got.DayCount)
}

func TestPlannerService_CreateTrip_BadStartTime(t *testing.T) {
	svc, _ := echoPlanner(domain.Trip{})

	trip := validTrip()
	trip.StartTime = "9 o'clock"

	_, err := svc.CreateTrip(context.Background(), trip)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestPlannerService_CreateTrip_RepoError(t *testing.T) {
	repoErr := errors.New("db exploded")
	trips := &mockTripRepo{
		create: func(_ context.Context, _ domain.Trip) (domain.Trip, error) {
			return domain.Trip{}, repoErr
		},
	}
	svc := service.NewPlannerService(trips, &mockLibraryRepo{}, &mockResolver{}, &mockEstimator{})

	_, err := svc.CreateTrip(context.Background(), validTrip())

	assert.ErrorIs(t, err, repoErr)
}

// ---- GetTrip / ListTrips ---------------------------------------------------

func TestPlannerService_GetTrip_NotFound(t *testing.T) {
	trips := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) {
			return domain.Trip{}, domain.ErrNotFound
		},
	}
	svc := service.NewPlannerService(trips, &mockLibraryRepo{}, &mockResolver{}, &mockEstimator{})

	_, err := svc.GetTrip(context.Background(), uuid.New())

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestPlannerService_ListTrips_EmptyIsNonNil(t *testing.T) {
	trips := &mockTripRepo{
		list: func(_ context.Context) ([]domain.Trip, error) { return nil, nil },
	}
	svc := service.NewPlannerService(trips, &mockLibraryRepo{}, &mockResolver{}, &mockEstimator{})

	got, err := svc.ListTrips(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

// ---- UpdateTripSettings ----------------------------------------------------

func TestPlannerService_UpdateTripSettings(t *testing.T) {
	svc, _ := echoPlanner(validTrip())

	newDate := time.Date(2026, 7, 4, 0, 0, 0, 0, time.UTC)
	got, err := svc.UpdateTripSettings(context.Background(), uuid.New(), "Renamed", newDate, "08:30")

	require.NoError(t, err)
	assert.Equal(t, "Renamed", got.Name)
	assert.Equal(t, newDate, got.StartDate)
	assert.Equal(t, "08:30", got.StartTime)
}

func TestPlannerService_UpdateTripSettings_EmptyName(t *testing.T) {
	svc, _ := echoPlanner(validTrip())

	_, err := svc.UpdateTripSettings(context.Background(), uuid.New(), "", time.Now(), "09:00")

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- AddStop ---------------------------------------------------------------

func TestPlannerService_AddStop_ResolvesAndAppends(t *testing.T) {
	svc, _ := echoPlanner(validTrip())

	got, err := svc.AddStop(context.Background(), uuid.New(), "https://maps.example/needle", 1)

	require.NoError(t, err)
	require.Len(t, got.Stops, 1)
	assert.Equal(t, "Space Needle", got.Stops[0].Name)
	assert.Equal(t, 1, got.Stops[0].Day)
}

func TestPlannerService_AddStop_UnresolvedInput(t *testing.T) {
	trip := validTrip()
	trips := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
	}
	resolver := &mockResolver{
		resolve: func(_ context.Context, _ string) (domain.ResolvedPlace, error) {
			return domain.ResolvedPlace{}, resolve.ErrUnresolved
		},
	}
	svc := service.NewPlannerService(trips, &mockLibraryRepo{}, resolver, &mockEstimator{})

	_, err := svc.AddStop(context.Background(), uuid.New(), "https://maps.app.goo.gl/x", 1)

	assert.ErrorIs(t, err, resolve.ErrUnresolved)
}

func TestPlannerService_AddStop_RecomputesTravelLegs(t *testing.T) {
	trip := validTrip()
	existing := stopOn(1, "Museum")
	trip.Stops = []domain.Stop{existing}

	svc, _ := echoPlanner(trip)

	got, err := svc.AddStop(context.Background(), trip.ID, "https://maps.example/needle", 1)

	require.NoError(t, err)
	require.Len(t, got.Stops, 2)
	// The prior last stop now carries a leg to the new stop; the new last
	// stop carries none.
	leg := got.Stops[0].TravelToNext
	require.NotNil(t, leg)
	assert.Equal(t, got.Stops[1].ID, leg.ToStopID)
	assert.Equal(t, 20, leg.DurationMinutes)
	assert.Equal(t, "10.0 km", leg.DistanceLabel)
	assert.Nil(t, got.Stops[1].TravelToNext)
}

func TestPlannerService_AddStop_EstimatorFailureClearsLeg(t *testing.T) {
	trip := validTrip()
	trip.Stops = []domain.Stop{stopOn(1, "Museum")}

	trips := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		save:    func(_ context.Context, tr domain.Trip) (domain.Trip, error) { return tr, nil },
	}
	resolver := &mockResolver{
		resolve: func(_ context.Context, _ string) (domain.ResolvedPlace, error) {
			return domain.ResolvedPlace{Name: "Needle", Coords: domain.Coordinates{Lat: 1, Lng: 2}}, nil
		},
	}
	estimator := &mockEstimator{
		estimate: func(_ context.Context, _, _ domain.Coordinates, _ domain.TravelMode) (travel.Estimate, error) {
			return travel.Estimate{}, errors.New("estimator down")
		},
	}
	svc := service.NewPlannerService(trips, &mockLibraryRepo{}, resolver, estimator)

	got, err := svc.AddStop(context.Background(), trip.ID, "input", 1)

	// The edit still lands; the timeline will fall back to its default gap.
	require.NoError(t, err)
	require.Len(t, got.Stops, 2)
	assert.Nil(t, got.Stops[0].TravelToNext)
}

func TestPlannerService_AddStopFromLibrary(t *testing.T) {
	trip := validTrip()
	loc := domain.SavedLocation{
		ID:     uuid.New(),
		Name:   "Pike Place",
		Coords: domain.Coordinates{Lat: 47.6097, Lng: -122.3423},
	}

	trips := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		save:    func(_ context.Context, tr domain.Trip) (domain.Trip, error) { return tr, nil },
	}
	library := &mockLibraryRepo{
		list: func(_ context.Context) ([]domain.SavedLocation, error) {
			return []domain.SavedLocation{loc}, nil
		},
	}
	svc := service.NewPlannerService(trips, library, &mockResolver{}, &mockEstimator{})

	got, err := svc.AddStopFromLibrary(context.Background(), trip.ID, loc.ID, 2)

	require.NoError(t, err)
	require.Len(t, got.Stops, 1)
	assert.Equal(t, "Pike Place", got.Stops[0].Name)
	assert.Equal(t, 2, got.Stops[0].Day)
}

func TestPlannerService_AddStopFromLibrary_UnknownLocation(t *testing.T) {
	library := &mockLibraryRepo{
		list: func(_ context.Context) ([]domain.SavedLocation, error) { return nil, nil },
	}
	svc := service.NewPlannerService(&mockTripRepo{}, library, &mockResolver{}, &mockEstimator{})

	_, err := svc.AddStopFromLibrary(context.Background(), uuid.New(), uuid.New(), 1)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

// ---- MoveStop --------------------------------------------------------------

func TestPlannerService_MoveStop(t *testing.T) {
	trip := validTrip()
	a, b := stopOn(1, "A"), stopOn(1, "B")
	trip.Stops = []domain.Stop{a, b}

	svc, _ := echoPlanner(trip)

	got, err := svc.MoveStop(context.Background(), trip.ID, b.ID, -1)

	require.NoError(t, err)
	assert.Equal(t, b.ID, got.Stops[0].ID)
	assert.Equal(t, a.ID, got.Stops[1].ID)
	// Legs were recomputed for the new order.
	require.NotNil(t, got.Stops[0].TravelToNext)
	assert.Equal(t, a.ID, got.Stops[0].TravelToNext.ToStopID)
}

func TestPlannerService_MoveStop_StaleIDIsNoOp(t *testing.T) {
	trip := validTrip()
	trip.Stops = []domain.Stop{stopOn(1, "A")}

	saves := 0
	trips := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		save: func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
			saves++
			return tr, nil
		},
	}
	svc := service.NewPlannerService(trips, &mockLibraryRepo{}, &mockResolver{}, &mockEstimator{})

	got, err := svc.MoveStop(context.Background(), trip.ID, uuid.New(), 1)

	require.NoError(t, err)
	assert.Len(t, got.Stops, 1)
	assert.Zero(t, saves, "a stale move should not write")
}

// ---- UpdateStop ------------------------------------------------------------

func TestPlannerService_UpdateStop_DwellOnly(t *testing.T) {
	trip := validTrip()
	s := stopOn(1, "Museum")
	s.TravelToNext = &domain.TravelLeg{ToStopID: uuid.New(), DurationMinutes: 9}
	trip.Stops = []domain.Stop{s}

	svc, _ := echoPlanner(trip)

	dwell := 120
	got, err := svc.UpdateStop(context.Background(), trip.ID, s.ID, &dwell, nil, nil)

	require.NoError(t, err)
	assert.Equal(t, 120, got.Stops[0].DwellMinutes)
	// Dwell does not change adjacency, so the cached leg survives.
	assert.NotNil(t, got.Stops[0].TravelToNext)
}

func TestPlannerService_UpdateStop_ModeChangeRecomputes(t *testing.T) {
	trip := validTrip()
	a, b := stopOn(1, "A"), stopOn(1, "B")
	trip.Stops = []domain.Stop{a, b}

	var estimatedModes []domain.TravelMode
	trips := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		save:    func(_ context.Context, tr domain.Trip) (domain.Trip, error) { return tr, nil },
	}
	estimator := &mockEstimator{
		estimate: func(_ context.Context, _, _ domain.Coordinates, mode domain.TravelMode) (travel.Estimate, error) {
			estimatedModes = append(estimatedModes, mode)
			return travel.Estimate{DurationMinutes: 40, DistanceLabel: "3.2 km"}, nil
		},
	}
	svc := service.NewPlannerService(trips, &mockLibraryRepo{}, &mockResolver{}, estimator)

	mode := domain.ModeWalking
	got, err := svc.UpdateStop(context.Background(), trip.ID, a.ID, nil, nil, &mode)

	require.NoError(t, err)
	assert.Equal(t, domain.ModeWalking, got.Stops[0].Mode)
	require.NotNil(t, got.Stops[0].TravelToNext)
	assert.Equal(t, 40, got.Stops[0].TravelToNext.DurationMinutes)
	assert.Equal(t, []domain.TravelMode{domain.ModeWalking}, estimatedModes)
}

func TestPlannerService_UpdateStop_EmptyNameRejected(t *testing.T) {
	trip := validTrip()
	s := stopOn(1, "Museum")
	trip.Stops = []domain.Stop{s}

	svc, _ := echoPlanner(trip)

	name := "  "
	_, err := svc.UpdateStop(context.Background(), trip.ID, s.ID, nil, &name, nil)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- ChangeDayCount --------------------------------------------------------

func TestPlannerService_ChangeDayCount_GrowNeverNeedsConfirmation(t *testing.T) {
	svc, _ := echoPlanner(validTrip())

	got, confirm, err := svc.ChangeDayCount(context.Background(), uuid.New(), 5, false)

	require.NoError(t, err)
	assert.Nil(t, confirm)
	assert.Equal(t, 5, got.DayCount)
}

func TestPlannerService_ChangeDayCount_ShrinkReturnsConfirmationWithoutSaving(t *testing.T) {
	trip := validTrip()
	orphan := stopOn(3, "Summit")
	trip.Stops = []domain.Stop{stopOn(1, "Museum"), orphan}

	saves := 0
	trips := &mockTripRepo{
		getByID: func(_ context.Context, _ uuid.UUID) (domain.Trip, error) { return trip, nil },
		save: func(_ context.Context, tr domain.Trip) (domain.Trip, error) {
			saves++
			return tr, nil
		},
	}
	svc := service.NewPlannerService(trips, &mockLibraryRepo{}, &mockResolver{}, &mockEstimator{})

	_, confirm, err := svc.ChangeDayCount(context.Background(), trip.ID, 2, false)

	require.NoError(t, err)
	require.NotNil(t, confirm)
	assert.Equal(t, 2, confirm.NewCount)
	require.Len(t, confirm.Orphaned, 1)
	assert.Equal(t, orphan.ID, confirm.Orphaned[0].ID)
	assert.Zero(t, saves, "an unconfirmed reduction must not write")
}

func TestPlannerService_ChangeDayCount_ConfirmedShrinkDeletesOrphans(t *testing.T) {
	trip := validTrip()
	keep := stopOn(1, "Museum")
	trip.Stops = []domain.Stop{keep, stopOn(3, "Summit")}

	svc, _ := echoPlanner(trip)

	got, confirm, err := svc.ChangeDayCount(context.Background(), trip.ID, 2, true)

	require.NoError(t, err)
	assert.Nil(t, confirm)
	assert.Equal(t, 2, got.DayCount)
	require.Len(t, got.Stops, 1)
	assert.Equal(t, keep.ID, got.Stops[0].ID)
}

// ---- Hotels ----------------------------------------------------------------

func TestPlannerService_AddHotel(t *testing.T) {
	svc, _ := echoPlanner(validTrip())

	got, err := svc.AddHotel(context.Background(), uuid.New(), "https://maps.example/inn", 1, 2)

	require.NoError(t, err)
	require.Len(t, got.Hotels, 1)
	assert.Equal(t, "Space Needle", got.Hotels[0].Name)
}

func TestPlannerService_AddHotel_OverlapRejected(t *testing.T) {
	trip := validTrip()
	trip.Hotels = []domain.HotelStay{{ID: uuid.New(), Name: "Inn", StartDay: 1, EndDay: 2}}

	svc, _ := echoPlanner(trip)

	_, err := svc.AddHotel(context.Background(), trip.ID, "https://maps.example/inn", 2, 3)

	assert.ErrorIs(t, err, domain.ErrValidation)
}

// ---- Timeline --------------------------------------------------------------

func TestPlannerService_Timeline(t *testing.T) {
	trip := validTrip()
	trip.Stops = []domain.Stop{stopOn(1, "Museum")}

	svc, _ := echoPlanner(trip)

	got, err := svc.Timeline(context.Background(), trip.ID, 1)

	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Museum", got[0].DisplayName)
}

func TestPlannerService_Timeline_DayOutOfRange(t *testing.T) {
	svc, _ := echoPlanner(validTrip())

	_, err := svc.Timeline(context.Background(), uuid.New(), 4)

	assert.ErrorIs(t, err, domain.ErrValidation)
}
