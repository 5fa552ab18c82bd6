package category

import (
	"github.com/midwaywholesale/pricing/internal/types"
)

// Category is the subset of a product category this engine reads.
// ExcludeFromLoyalty removes every product of the category from the
// loyalty-eligible base calculation.
type Category struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	ExcludeFromLoyalty bool   `json:"exclude_from_loyalty"`

	types.BaseModel
}
