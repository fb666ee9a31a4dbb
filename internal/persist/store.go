package persist

import (
	"context"

	"github.com/manav03panchal/plantcare/internal/model"
	"github.com/manav03panchal/plantcare/internal/storage"
)

// Store adapts the Badger plant repository to the Adapter contract.
type Store struct {
	repo *storage.PlantRepo
}

// NewStore returns an adapter backed by repo.
func NewStore(repo *storage.PlantRepo) *Store {
	return &Store{repo: repo}
}

// Load returns every stored plant, or (nil, nil) when there are none.
func (s *Store) Load(ctx context.Context) ([]model.Plant, error) {
	if err := ctx.Err(); err != nil {
		return nil, failure("load", "store", err)
	}
	plants, err := s.repo.List()
	if err != nil {
		return nil, failure("load", "store", err)
	}
	if len(plants) == 0 {
		return nil, nil
	}
	return plants, nil
}

// Save replaces the stored collection with plants.
func (s *Store) Save(ctx context.Context, plants []model.Plant) error {
	if err := ctx.Err(); err != nil {
		return failure("save", "store", err)
	}
	if err := s.repo.ReplaceAll(plants); err != nil {
		return failure("save", "store", err)
	}
	return nil
}
