package flattax

import (
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// FlatTax is a catalog entry for a tax defined independently of a product's
// own percentage tax field: a per-unit, percentage or fixed amount scoped by
// customer tier, county, zip code and product assignment.
type FlatTax struct {
	ID      string            `json:"id"`
	Name    string            `json:"name"`
	TaxType types.FlatTaxType `json:"tax_type"`
	Amount  decimal.Decimal   `json:"amount"`

	// CustomerTiers restricts the tax to specific customer tiers.
	// Empty means the tax applies to all tiers.
	CustomerTiers []int `json:"customer_tiers,omitempty"`

	// CountyRestriction / ZipRestriction scope the tax to one jurisdiction.
	// Nil means no restriction.
	CountyRestriction *string `json:"county_restriction,omitempty"`
	ZipRestriction    *string `json:"zip_restriction,omitempty"`

	// ApplicableProducts is the legacy product-applicability list, consulted
	// only for items that carry no direct flat tax assignment. Entries are
	// product IDs or the wildcards "all" and "tobacco".
	ApplicableProducts []string `json:"applicable_products,omitempty"`

	types.BaseModel
}

// IsActive reports whether the entry participates in resolution.
// Archiving an entry removes it from resolution without deleting history.
func (t *FlatTax) IsActive() bool {
	return t.Status == types.StatusPublished
}

// AppliesToTier reports whether the entry is available to the given
// customer tier.
func (t *FlatTax) AppliesToTier(tier int) bool {
	if len(t.CustomerTiers) == 0 {
		return true
	}
	return lo.Contains(t.CustomerTiers, tier)
}
