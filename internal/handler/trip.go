package handler

import (
	"net/http"
	"time"

	"github.com/sequenceapp/backend/internal/domain"
)

// tripResponse is the wire shape of a trip. Dates are calendar dates
// ("2006-01-02"); the start time stays in its "HH:MM" form.
type tripResponse struct {
	ID        string              `json:"id"`
	Name      string              `json:"name"`
	StartDate string              `json:"start_date"`
	StartTime string              `json:"start_time"`
	DayCount  int                 `json:"day_count"`
	Stops     []domain.Stop       `json:"stops"`
	Hotels    []domain.HotelStay  `json:"hotels"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func tripToResponse(t domain.Trip) tripResponse {
	stops := t.Stops
	if stops == nil {
		stops = []domain.Stop{}
	}
	hotels := t.Hotels
	if hotels == nil {
		hotels = []domain.HotelStay{}
	}
	return tripResponse{
		ID:        t.ID.String(),
		Name:      t.Name,
		StartDate: t.StartDate.Format("2006-01-02"),
		StartTime: t.StartTime,
		DayCount:  t.DayCount,
		Stops:     stops,
		Hotels:    hotels,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}

type createTripRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"` // "2006-01-02", defaults to today
	StartTime string `json:"start_time"` // "HH:MM", defaults to 09:00
	DayCount  int    `json:"day_count"`  // defaults to 1
}

// CreateTrip handles POST /trips. All fields are optional; omitted ones get
// the product defaults.
func (s *Server) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req createTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	trip := domain.Trip{
		Name:      req.Name,
		StartTime: req.StartTime,
		DayCount:  req.DayCount,
	}
	if req.StartDate != "" {
		start, err := time.Parse("2006-01-02", req.StartDate)
		if err != nil {
			respondBadRequest(w, "start_date must be YYYY-MM-DD")
			return
		}
		trip.StartDate = start
	}

	created, err := s.planner.CreateTrip(r.Context(), trip)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tripToResponse(created))
}

// ListTrips handles GET /trips.
func (s *Server) ListTrips(w http.ResponseWriter, r *http.Request) {
	trips, err := s.planner.ListTrips(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}

	out := make([]tripResponse, len(trips))
	for i, t := range trips {
		out[i] = tripToResponse(t)
	}
	respondJSON(w, http.StatusOK, out)
}

// GetTrip handles GET /trips/{tripID}.
func (s *Server) GetTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	trip, err := s.planner.GetTrip(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tripToResponse(trip))
}

type updateTripRequest struct {
	Name      string `json:"name"`
	StartDate string `json:"start_date"`
	StartTime string `json:"start_time"`
}

// UpdateTrip handles PUT /trips/{tripID}: renames the trip and/or moves its
// start date and start time.
func (s *Server) UpdateTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var req updateTripRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	start, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		respondBadRequest(w, "start_date must be YYYY-MM-DD")
		return
	}

	updated, err := s.planner.UpdateTripSettings(r.Context(), id, req.Name, start, req.StartTime)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tripToResponse(updated))
}

// DeleteTrip handles DELETE /trips/{tripID}.
func (s *Server) DeleteTrip(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	if err := s.planner.DeleteTrip(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}

type changeDayCountRequest struct {
	DayCount int  `json:"day_count"`
	Confirm  bool `json:"confirm"`
}

// dayCountConflict carries the stops a reduction would delete; the client
// must re-submit with confirm=true to commit.
type dayCountConflict struct {
	RequiresConfirmation bool          `json:"requires_confirmation"`
	DayCount             int           `json:"day_count"`
	OrphanedStops        []domain.Stop `json:"orphaned_stops"`
}

// ChangeDayCount handles POST /trips/{tripID}/days. Shrinking the trip below
// a day that still has stops returns 409 with the affected stops; nothing is
// deleted until the client repeats the request with confirm=true.
func (s *Server) ChangeDayCount(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var req changeDayCountRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, confirmation, err := s.planner.ChangeDayCount(r.Context(), id, req.DayCount, req.Confirm)
	if err != nil {
		respondError(w, r, err)
		return
	}
	if confirmation != nil {
		respondJSON(w, http.StatusConflict, dayCountConflict{
			RequiresConfirmation: true,
			DayCount:             confirmation.NewCount,
			OrphanedStops:        confirmation.Orphaned,
		})
		return
	}
	respondJSON(w, http.StatusOK, tripToResponse(updated))
}
