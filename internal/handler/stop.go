package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/sequenceapp/backend/internal/domain"
)

type addStopRequest struct {
	// Input is a pasted map link; LocationID picks a saved library entry
	// instead. Exactly one of the two must be set.
	Input      string `json:"input,omitempty"`
	LocationID string `json:"location_id,omitempty"`
	Day        int    `json:"day"`
}

// AddStop handles POST /trips/{tripID}/stops: resolves the pasted input (or
// copies the chosen library entry) and appends it to the given day.
func (s *Server) AddStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var req addStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var (
		updated domain.Trip
		err     error
	)
	switch {
	case req.Input != "" && req.LocationID == "":
		updated, err = s.planner.AddStop(r.Context(), tripID, req.Input, req.Day)
	case req.LocationID != "" && req.Input == "":
		locationID, parseErr := uuid.Parse(req.LocationID)
		if parseErr != nil {
			respondBadRequest(w, "invalid location_id")
			return
		}
		updated, err = s.planner.AddStopFromLibrary(r.Context(), tripID, locationID, req.Day)
	default:
		respondBadRequest(w, "exactly one of input or location_id is required")
		return
	}
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tripToResponse(updated))
}

// DeleteStop handles DELETE /trips/{tripID}/stops/{stopID}. A stop that is
// already gone is not an error; the current trip is returned either way.
func (s *Server) DeleteStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	stopID, ok := pathUUID(w, r, "stopID")
	if !ok {
		return
	}

	updated, err := s.planner.RemoveStop(r.Context(), tripID, stopID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tripToResponse(updated))
}

type moveStopRequest struct {
	Direction int `json:"direction"` // -1 earlier, +1 later
}

// MoveStop handles POST /trips/{tripID}/stops/{stopID}/move: swaps the stop
// with its neighbor within the same day. Moving past the edge of the day is
// a no-op.
func (s *Server) MoveStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	stopID, ok := pathUUID(w, r, "stopID")
	if !ok {
		return
	}

	var req moveStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	updated, err := s.planner.MoveStop(r.Context(), tripID, stopID, req.Direction)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tripToResponse(updated))
}

type updateStopRequest struct {
	DwellMinutes *int    `json:"dwell_minutes,omitempty"`
	Name         *string `json:"name,omitempty"`
	Mode         *string `json:"mode,omitempty"`
}

// UpdateStop handles PATCH /trips/{tripID}/stops/{stopID}: dwell time, name,
// and travel mode are each optional and applied only when present.
func (s *Server) UpdateStop(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	stopID, ok := pathUUID(w, r, "stopID")
	if !ok {
		return
	}

	var req updateStopRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	var mode *domain.TravelMode
	if req.Mode != nil {
		m := domain.TravelMode(*req.Mode)
		mode = &m
	}

	updated, err := s.planner.UpdateStop(r.Context(), tripID, stopID, req.DwellMinutes, req.Name, mode)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tripToResponse(updated))
}
