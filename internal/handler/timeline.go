package handler

import (
	"net/http"
	"strconv"

	"github.com/sequenceapp/backend/internal/domain"
)

// timelineResponse wraps a day's computed entries.
type timelineResponse struct {
	Day     int                    `json:"day"`
	Entries []domain.TimelineEntry `json:"entries"`
}

// GetTimeline handles GET /trips/{tripID}/timeline?day=N. The day defaults
// to 1 when the query parameter is absent.
func (s *Server) GetTimeline(w http.ResponseWriter, r *http.Request) {
	tripID, ok := pathUUID(w, r, "tripID")
	if !ok {
		return
	}

	day := 1
	if raw := r.URL.Query().Get("day"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			respondBadRequest(w, "day must be an integer")
			return
		}
		day = parsed
	}

	entries, err := s.planner.Timeline(r.Context(), tripID, day)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, timelineResponse{Day: day, Entries: entries})
}
