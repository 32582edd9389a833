package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/sequenceapp/backend/internal/domain"
	"github.com/sequenceapp/backend/internal/resolve"
)

// errorResponse is the JSON envelope for every non-2xx response.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// respondJSON writes v as the JSON response body with the given status.
func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// respondError maps a service error onto the right HTTP status and envelope:
// ErrNotFound → 404, ErrValidation and ErrUnresolved → 422, anything else →
// an opaque 500 (the detail goes to the log, not the client).
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondJSON(w, http.StatusNotFound, errorResponse{errorDetail{Code: "not_found", Message: unwrapMessage(err)}})
	case errors.Is(err, domain.ErrValidation), errors.Is(err, resolve.ErrUnresolved):
		respondJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
	default:
		slog.ErrorContext(r.Context(), "internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		respondJSON(w, http.StatusInternalServerError, errorResponse{errorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// respondBadRequest rejects a request before it reaches the service layer
// (malformed body, bad URL parameter).
func respondBadRequest(w http.ResponseWriter, message string) {
	respondJSON(w, http.StatusUnprocessableEntity, errorResponse{errorDetail{Code: "validation_error", Message: message}})
}

// decodeJSON decodes the request body into dst, translating the common
// failure modes into client responses. Returns false when a response has
// already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil {
		return true
	}

	var maxBytes *http.MaxBytesError
	if errors.As(err, &maxBytes) {
		respondJSON(w, http.StatusRequestEntityTooLarge, errorResponse{errorDetail{Code: "request_too_large", Message: "request body too large"}})
		return false
	}
	respondBadRequest(w, "invalid JSON body")
	return false
}

// pathUUID parses the named chi URL parameter as a UUID. Returns false when
// a response has already been written.
func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		respondBadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel
// error, e.g. "service.PlannerService.AddStop: validation error: day 4 is
// outside the trip's 2 day(s)" → "day 4 is outside the trip's 2 day(s)".
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	for _, marker := range []string{"validation error: ", "could not resolve location: "} {
		if i := strings.LastIndex(msg, marker); i >= 0 {
			return msg[i+len(marker):]
		}
	}
	if i := strings.LastIndex(msg, ": "); i >= 0 {
		return msg[i+2:]
	}
	return msg
}
