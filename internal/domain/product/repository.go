package product

import "context"

// Repository is the read contract this engine needs from the product store.
type Repository interface {
	Get(ctx context.Context, id string) (*Product, error)
	ListByIDs(ctx context.Context, ids []string) ([]*Product, error)
}
