package testutil

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/domain/category"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
)

// InMemoryCategoryStore implements category.Repository
type InMemoryCategoryStore struct {
	*InMemoryStore[*category.Category]
}

func NewInMemoryCategoryStore() *InMemoryCategoryStore {
	return &InMemoryCategoryStore{
		InMemoryStore: NewInMemoryStore[*category.Category](),
	}
}

// Add seeds a category into the store for tests.
func (s *InMemoryCategoryStore) Add(ctx context.Context, c *category.Category) error {
	if c == nil {
		return ierr.NewError("category cannot be nil").
			WithHint("Category data is required").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, c.ID, c)
}

func (s *InMemoryCategoryStore) Get(ctx context.Context, id string) (*category.Category, error) {
	c, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Category with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return c, nil
}
