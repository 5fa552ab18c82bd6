package testutil

import (
	"context"
	"sort"
	"sync"

	"github.com/midwaywholesale/pricing/internal/domain/order"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
)

// InMemoryOrderStore implements order.Repository. Line items are keyed by
// line item ID and grouped per order on read.
type InMemoryOrderStore struct {
	mu    sync.RWMutex
	lines map[string]*order.LineItem

	// getErr, when set, is returned from GetLineItems to exercise fallback paths.
	getErr error
}

func NewInMemoryOrderStore() *InMemoryOrderStore {
	return &InMemoryOrderStore{
		lines: make(map[string]*order.LineItem),
	}
}

// AddLineItem seeds a stored order line for tests.
func (s *InMemoryOrderStore) AddLineItem(ctx context.Context, li *order.LineItem) error {
	if li == nil {
		return ierr.NewError("line item cannot be nil").
			WithHint("Line item data is required").
			Mark(ierr.ErrValidation)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines[li.ID] = li
	return nil
}

// SetGetLineItemsError makes every subsequent GetLineItems call fail.
func (s *InMemoryOrderStore) SetGetLineItemsError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.getErr = err
}

func (s *InMemoryOrderStore) GetLineItems(ctx context.Context, orderID string) ([]*order.LineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.getErr != nil {
		return nil, s.getErr
	}

	var result []*order.LineItem
	for _, li := range s.lines {
		if li.OrderID == orderID {
			result = append(result, li)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (s *InMemoryOrderStore) UpdateLineItemTaxes(ctx context.Context, orderID string, updates []order.LineItemTaxUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range updates {
		for _, li := range s.lines {
			if li.OrderID != orderID || li.ProductID != u.ProductID {
				continue
			}
			li.TaxPercentage = u.TaxPercentage
			li.FlatTaxAmount = u.FlatTaxAmount
			li.Price = u.FinalPricePerUnit
		}
	}
	return nil
}

// Clear removes all line items from the store
func (s *InMemoryOrderStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = make(map[string]*order.LineItem)
	s.getErr = nil
}
