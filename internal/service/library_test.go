package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sequenceapp/backend/internal/domain"
	"github.com/sequenceapp/backend/internal/service"
)

func savedNeedle() domain.SavedLocation {
	return domain.SavedLocation{
		ID:     uuid.New(),
		Name:   "Space Needle",
		Coords: domain.Coordinates{Lat: 47.62053, Lng: -122.34930},
	}
}

func TestLibraryService_List_EmptyIsNonNil(t *testing.T) {
	library := &mockLibraryRepo{
		list: func(_ context.Context) ([]domain.SavedLocation, error) { return nil, nil },
	}
	svc := service.NewLibraryService(library)

	got, err := svc.List(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestLibraryService_Toggle_AddsNewPlace(t *testing.T) {
	var stored []domain.SavedLocation
	library := &mockLibraryRepo{
		list: func(_ context.Context) ([]domain.SavedLocation, error) { return nil, nil },
		replace: func(_ context.Context, l []domain.SavedLocation) error {
			stored = l
			return nil
		},
	}
	svc := service.NewLibraryService(library)

	place := domain.ResolvedPlace{
		Name:   "Space Needle",
		Coords: domain.Coordinates{Lat: 47.62053, Lng: -122.34930},
	}
	got, saved, err := svc.Toggle(context.Background(), place)

	require.NoError(t, err)
	assert.True(t, saved)
	require.Len(t, got, 1)
	assert.Len(t, stored, 1)
}

func TestLibraryService_Toggle_RemovesExistingPlace(t *testing.T) {
	existing := savedNeedle()
	var stored []domain.SavedLocation
	library := &mockLibraryRepo{
		list: func(_ context.Context) ([]domain.SavedLocation, error) {
			return []domain.SavedLocation{existing}, nil
		},
		replace: func(_ context.Context, l []domain.SavedLocation) error {
			stored = l
			return nil
		},
	}
	svc := service.NewLibraryService(library)

	got, saved, err := svc.Toggle(context.Background(), domain.ResolvedPlace{
		Name:   "Space Needle",
		Coords: existing.Coords,
	})

	require.NoError(t, err)
	assert.False(t, saved)
	assert.Empty(t, got)
	assert.Empty(t, stored)
}

func TestLibraryService_Remove_SkipsWriteWhenStale(t *testing.T) {
	replaces := 0
	library := &mockLibraryRepo{
		list: func(_ context.Context) ([]domain.SavedLocation, error) {
			return []domain.SavedLocation{savedNeedle()}, nil
		},
		replace: func(_ context.Context, _ []domain.SavedLocation) error {
			replaces++
			return nil
		},
	}
	svc := service.NewLibraryService(library)

	err := svc.Remove(context.Background(), uuid.New())

	require.NoError(t, err)
	assert.Zero(t, replaces, "a stale remove should not write")
}

func TestLibraryService_Remove_DeletesEntry(t *testing.T) {
	victim := savedNeedle()
	var stored []domain.SavedLocation
	library := &mockLibraryRepo{
		list: func(_ context.Context) ([]domain.SavedLocation, error) {
			return []domain.SavedLocation{victim}, nil
		},
		replace: func(_ context.Context, l []domain.SavedLocation) error {
			stored = l
			return nil
		},
	}
	svc := service.NewLibraryService(library)

	err := svc.Remove(context.Background(), victim.ID)

	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestLibraryService_Toggle_ReplaceError(t *testing.T) {
	repoErr := errors.New("db exploded")
	library := &mockLibraryRepo{
		list:    func(_ context.Context) ([]domain.SavedLocation, error) { return nil, nil },
		replace: func(_ context.Context, _ []domain.SavedLocation) error { return repoErr },
	}
	svc := service.NewLibraryService(library)

	_, _, err := svc.Toggle(context.Background(), domain.ResolvedPlace{Name: "X"})

	assert.ErrorIs(t, err, repoErr)
}
