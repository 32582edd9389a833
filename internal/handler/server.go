// Package handler implements the HTTP surface of the Sequence API.
// All handlers are methods on Server, split into resource-specific files
// (trip.go, stop.go, hotel.go, library.go, timeline.go) that share the same
// struct so they can access its dependencies.
package handler

import (
	"context"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sequenceapp/backend/internal/domain"
	"github.com/sequenceapp/backend/internal/plan"
)

// PlannerServicer defines the planning operations the handlers depend on.
// Defining the interface here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject a mock without touching the database or service layer.
type PlannerServicer interface {
	CreateTrip(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetTrip(ctx context.Context, id uuid.UUID) (domain.Trip, error)
	ListTrips(ctx context.Context) ([]domain.Trip, error)
	UpdateTripSettings(ctx context.Context, id uuid.UUID, name string, startDate time.Time, startTime string) (domain.Trip, error)
	DeleteTrip(ctx context.Context, id uuid.UUID) error

	AddStop(ctx context.Context, tripID uuid.UUID, rawInput string, day int) (domain.Trip, error)
	AddStopFromLibrary(ctx context.Context, tripID, locationID uuid.UUID, day int) (domain.Trip, error)
	RemoveStop(ctx context.Context, tripID, stopID uuid.UUID) (domain.Trip, error)
	MoveStop(ctx context.Context, tripID, stopID uuid.UUID, direction int) (domain.Trip, error)
	UpdateStop(ctx context.Context, tripID, stopID uuid.UUID, dwellMinutes *int, name *string, mode *domain.TravelMode) (domain.Trip, error)

	ChangeDayCount(ctx context.Context, tripID uuid.UUID, newCount int, confirmed bool) (domain.Trip, *plan.DayCountConfirmation, error)

	AddHotel(ctx context.Context, tripID uuid.UUID, rawInput string, startDay, endDay int) (domain.Trip, error)
	RemoveHotel(ctx context.Context, tripID, hotelID uuid.UUID) (domain.Trip, error)

	Timeline(ctx context.Context, tripID uuid.UUID, day int) ([]domain.TimelineEntry, error)
}

// LibraryServicer defines the saved-location operations the handlers depend on.
type LibraryServicer interface {
	List(ctx context.Context) ([]domain.SavedLocation, error)
	Toggle(ctx context.Context, place domain.ResolvedPlace) ([]domain.SavedLocation, bool, error)
	Remove(ctx context.Context, id uuid.UUID) error
}

// Server holds the handler dependencies. Wire its Routes() into the chi
// router in main.go.
type Server struct {
	planner PlannerServicer
	library LibraryServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(planner PlannerServicer, library LibraryServicer) *Server {
	return &Server{planner: planner, library: library}
}

// Routes returns the full REST routing table of the API.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)

	r.Route("/trips", func(r chi.Router) {
		r.Get("/", s.ListTrips)
		r.Post("/", s.CreateTrip)
		r.Route("/{tripID}", func(r chi.Router) {
			r.Get("/", s.GetTrip)
			r.Put("/", s.UpdateTrip)
			r.Delete("/", s.DeleteTrip)

			r.Get("/timeline", s.GetTimeline)
			r.Post("/days", s.ChangeDayCount)

			r.Post("/stops", s.AddStop)
			r.Route("/stops/{stopID}", func(r chi.Router) {
				r.Patch("/", s.UpdateStop)
				r.Delete("/", s.DeleteStop)
				r.Post("/move", s.MoveStop)
			})

			r.Post("/hotels", s.AddHotel)
			r.Delete("/hotels/{hotelID}", s.DeleteHotel)
		})
	})

	r.Route("/library", func(r chi.Router) {
		r.Get("/", s.ListLibrary)
		r.Post("/toggle", s.ToggleLibrary)
		r.Delete("/{locationID}", s.DeleteLibraryEntry)
	})

	return r
}
