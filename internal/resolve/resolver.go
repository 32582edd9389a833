// Package resolve turns user-pasted map links into named places with
// coordinates. Resolution is best-effort by nature: a link that cannot be
// resolved is a recoverable condition (ErrUnresolved), never a crash, and
// the rest of the system keeps working with the places it already has.
package resolve

import (
	"context"
	"errors"

	"github.com/sequenceapp/backend/internal/domain"
)

// ErrUnresolved is returned when no name or coordinates could be extracted
// from the input. Handlers should map this to HTTP 422.
var ErrUnresolved = errors.New("could not resolve location")

// Resolver is the contract for place resolution. Implementations must be
// safe for concurrent use.
type Resolver interface {
	// Resolve turns a raw pasted input (usually a map URL) into a place.
	// Returns ErrUnresolved when the input yields nothing usable.
	Resolve(ctx context.Context, rawInput string) (domain.ResolvedPlace, error)
}
