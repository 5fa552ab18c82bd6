package category

import "context"

// Repository is the read contract this engine needs from the category store.
type Repository interface {
	Get(ctx context.Context, id string) (*Category, error)
}
