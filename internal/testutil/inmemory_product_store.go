package testutil

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/domain/product"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
)

// InMemoryProductStore implements product.Repository
type InMemoryProductStore struct {
	*InMemoryStore[*product.Product]
}

func NewInMemoryProductStore() *InMemoryProductStore {
	return &InMemoryProductStore{
		InMemoryStore: NewInMemoryStore[*product.Product](),
	}
}

// Add seeds a product into the store for tests.
func (s *InMemoryProductStore) Add(ctx context.Context, p *product.Product) error {
	if p == nil {
		return ierr.NewError("product cannot be nil").
			WithHint("Product data is required").
			Mark(ierr.ErrValidation)
	}
	return s.InMemoryStore.Create(ctx, p.ID, p)
}

func (s *InMemoryProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	p, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Product with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return p, nil
}

func (s *InMemoryProductStore) ListByIDs(ctx context.Context, ids []string) ([]*product.Product, error) {
	result := make([]*product.Product, 0, len(ids))
	for _, id := range ids {
		p, err := s.InMemoryStore.Get(ctx, id)
		if err != nil {
			continue // missing products are omitted, matching the SQL IN behavior
		}
		result = append(result, p)
	}
	return result, nil
}
