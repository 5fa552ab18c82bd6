package testutil

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/domain/flattax"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/samber/lo"
)

// InMemoryFlatTaxStore implements flattax.Repository
type InMemoryFlatTaxStore struct {
	*InMemoryStore[*flattax.FlatTax]
}

func NewInMemoryFlatTaxStore() *InMemoryFlatTaxStore {
	return &InMemoryFlatTaxStore{
		InMemoryStore: NewInMemoryStore[*flattax.FlatTax](),
	}
}

// flatTaxFilterFn implements filtering logic for flat taxes
func flatTaxFilterFn(ctx context.Context, t *flattax.FlatTax, filter interface{}) bool {
	if t == nil {
		return false
	}

	f, ok := filter.(*types.FlatTaxFilter)
	if !ok {
		return true // No filter applied
	}

	if len(f.FlatTaxIDs) > 0 {
		if !lo.Contains(f.FlatTaxIDs, t.ID) {
			return false
		}
	}

	if f.TaxType != "" && t.TaxType != f.TaxType {
		return false
	}

	if f.QueryFilter != nil && f.Status != nil && t.Status != *f.Status {
		return false
	}

	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && t.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && t.CreatedAt.After(*f.EndTime) {
			return false
		}
	}

	return true
}

// flatTaxSortFn implements sorting logic for flat taxes
func flatTaxSortFn(i, j *flattax.FlatTax) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryFlatTaxStore) Create(ctx context.Context, t *flattax.FlatTax) error {
	if t == nil {
		return ierr.NewError("flat tax cannot be nil").
			WithHint("Flat tax data is required").
			Mark(ierr.ErrValidation)
	}

	err := s.InMemoryStore.Create(ctx, t.ID, t)
	if err != nil {
		return ierr.WithError(err).
			WithHint("A flat tax with this identifier already exists").
			WithReportableDetails(map[string]any{
				"flat_tax_id": t.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryFlatTaxStore) Get(ctx context.Context, id string) (*flattax.FlatTax, error) {
	t, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Flat tax with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return t, nil
}

func (s *InMemoryFlatTaxStore) List(ctx context.Context, filter *types.FlatTaxFilter) ([]*flattax.FlatTax, error) {
	return s.InMemoryStore.List(ctx, filter, flatTaxFilterFn, flatTaxSortFn)
}

func (s *InMemoryFlatTaxStore) Count(ctx context.Context, filter *types.FlatTaxFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, flatTaxFilterFn)
}

func (s *InMemoryFlatTaxStore) Update(ctx context.Context, t *flattax.FlatTax) error {
	if t == nil {
		return ierr.NewError("flat tax cannot be nil").
			WithHint("Flat tax data is required").
			Mark(ierr.ErrValidation)
	}

	err := s.InMemoryStore.Update(ctx, t.ID, t)
	if err != nil {
		return ierr.WithError(err).
			WithHintf("Flat tax with ID %s was not found", t.ID).
			Mark(ierr.ErrNotFound)
	}
	return nil
}

func (s *InMemoryFlatTaxStore) Delete(ctx context.Context, t *flattax.FlatTax) error {
	if t == nil {
		return ierr.NewError("flat tax cannot be nil").
			WithHint("Flat tax data is required").
			Mark(ierr.ErrValidation)
	}

	existing, err := s.Get(ctx, t.ID)
	if err != nil {
		return err
	}

	existing.Status = types.StatusArchived
	return s.InMemoryStore.Update(ctx, existing.ID, existing)
}
