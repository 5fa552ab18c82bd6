package order

import "context"

// Repository is the contract this engine needs from the order store: read
// line items for reconstruction and write computed tax fields back.
type Repository interface {
	GetLineItems(ctx context.Context, orderID string) ([]*LineItem, error)
	UpdateLineItemTaxes(ctx context.Context, orderID string, updates []LineItemTaxUpdate) error
}
