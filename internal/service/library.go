package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/sequenceapp/backend/internal/domain"
	"github.com/sequenceapp/backend/internal/plan"
	"github.com/sequenceapp/backend/internal/repo"
)

// LibraryService implements the saved-location library operations.
// The toggle/membership logic itself is pure (plan package); this service
// owns the read-modify-write cycle against the library repo.
type LibraryService struct {
	library repo.LibraryRepo
}

// NewLibraryService constructs a LibraryService backed by the provided repo.
func NewLibraryService(library repo.LibraryRepo) *LibraryService {
	return &LibraryService{library: library}
}

// List returns every saved location.
// Always returns a non-nil slice so callers can safely range over it.
func (s *LibraryService) List(ctx context.Context) ([]domain.SavedLocation, error) {
	library, err := s.library.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service.LibraryService.List: %w", err)
	}
	if library == nil {
		return []domain.SavedLocation{}, nil
	}
	return library, nil
}

// Toggle saves the place when it is not in the library and removes it when
// it is, reporting whether it is saved afterwards. Membership keys on
// rounded coordinates, so the caller does not need a library ID.
func (s *LibraryService) Toggle(ctx context.Context, place domain.ResolvedPlace) ([]domain.SavedLocation, bool, error) {
	library, err := s.library.List(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("service.LibraryService.Toggle: %w", err)
	}

	updated, saved := plan.ToggleSave(place, library)
	if err := s.library.Replace(ctx, updated); err != nil {
		return nil, false, fmt.Errorf("service.LibraryService.Toggle: %w", err)
	}
	return updated, saved, nil
}

// Remove deletes a saved location by ID. A stale ID is a benign no-op.
func (s *LibraryService) Remove(ctx context.Context, id uuid.UUID) error {
	library, err := s.library.List(ctx)
	if err != nil {
		return fmt.Errorf("service.LibraryService.Remove: %w", err)
	}

	updated := plan.RemoveSaved(id, library)
	if len(updated) == len(library) {
		return nil
	}
	if err := s.library.Replace(ctx, updated); err != nil {
		return fmt.Errorf("service.LibraryService.Remove: %w", err)
	}
	return nil
}
