package handler

import "net/http"

type addHotelRequest struct {
	Input    string `json:"input"`
	StartDay int    `json:"start_day"`
	EndDay   int    `json:"end_day"`
}

// AddHotel handles POST /trips/{tripID}/hotels: resolves the pasted input
// and attaches it as a hotel stay bracketing [start_day, end_day].
func (s *Server) AddHotel(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	var req addHotelRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.Input == "" {
		respondBadRequest(w, "input is required")
		return
	}

	updated, err := s.planner.AddHotel(r.Context(), tripID, req.Input, req.StartDay, req.EndDay)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, tripToResponse(updated))
}

// DeleteHotel handles DELETE /trips/{tripID}/hotels/{hotelID}. A stay that
// is already gone is not an error; the current trip is returned either way.
func (s *Server) DeleteHotel(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}
	hotelID, ok := pathUUID(w, r, "hotelID")
	if !ok {
		return
	}

	updated, err := s.planner.RemoveHotel(r.Context(), tripID, hotelID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, tripToResponse(updated))
}
