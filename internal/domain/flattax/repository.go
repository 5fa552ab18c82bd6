package flattax

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/types"
)

// Repository is the persistence contract for the flat tax catalog.
type Repository interface {
	Create(ctx context.Context, t *FlatTax) error
	Get(ctx context.Context, id string) (*FlatTax, error)
	List(ctx context.Context, filter *types.FlatTaxFilter) ([]*FlatTax, error)
	Count(ctx context.Context, filter *types.FlatTaxFilter) (int, error)
	Update(ctx context.Context, t *FlatTax) error
	Delete(ctx context.Context, t *FlatTax) error
}
