package handler

import (
	"net/http"

	"github.com/sequenceapp/backend/internal/domain"
)

// ListLibrary handles GET /library.
func (s *Server) ListLibrary(w http.ResponseWriter, r *http.Request) {
	library, err := s.library.List(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, library)
}

// toggleLibraryResponse reports the library after the toggle and whether the
// place ended up saved (true) or removed (false).
type toggleLibraryResponse struct {
	Saved   bool                   `json:"saved"`
	Library []domain.SavedLocation `json:"library"`
}

// ToggleLibrary handles POST /library/toggle. The body is the place to
// save or unsave; membership is decided by its coordinates.
func (s *Server) ToggleLibrary(w http.ResponseWriter, r *http.Request) {
	var place domain.ResolvedPlace
	if !decodeJSON(w, r, &place) {
		return
	}
	if place.Name == "" {
		respondBadRequest(w, "name is required")
		return
	}

	library, saved, err := s.library.Toggle(r.Context(), place)
	if err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, toggleLibraryResponse{Saved: saved, Library: library})
}

// DeleteLibraryEntry handles DELETE /library/{locationID}. A stale ID is a
// benign no-op.
func (s *Server) DeleteLibraryEntry(w http.ResponseWriter, r *http.Request) {
	id, ok := pathUUID(w, r, "locationID")
	if !ok {
		return
	}

	if err := s.library.Remove(r.Context(), id); err != nil {
		respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusNoContent, nil)
}
