package dto

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/domain/flattax"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

// FlatTaxResponse represents the response for flat tax operations
type FlatTaxResponse struct {
	*flattax.FlatTax `json:",inline"`
}

// ListFlatTaxesResponse represents the response for listing flat taxes
type ListFlatTaxesResponse struct {
	Items      []*FlatTaxResponse        `json:"items"`
	Pagination *types.PaginationResponse `json:"pagination,omitempty"`
}

// CreateFlatTaxRequest represents the request to create a flat tax catalog entry
type CreateFlatTaxRequest struct {
	// name is the human-readable name for the tax (required)
	Name string `json:"name" validate:"required"`

	// tax_type determines how the tax is calculated ("per_unit", "percentage" or "fixed")
	TaxType types.FlatTaxType `json:"tax_type" validate:"required"`

	// amount is the per-unit amount, percentage value or fixed charge depending on tax_type
	Amount decimal.Decimal `json:"amount"`

	// customer_tiers restricts the tax to specific customer tiers; empty means all tiers
	CustomerTiers []int `json:"customer_tiers,omitempty"`

	// county_restriction scopes the tax to a single county
	CountyRestriction *string `json:"county_restriction,omitempty"`

	// zip_restriction scopes the tax to a single zip code
	ZipRestriction *string `json:"zip_restriction,omitempty"`

	// applicable_products is the legacy product-applicability list
	// (product IDs or the wildcards "all" / "tobacco")
	ApplicableProducts []string `json:"applicable_products,omitempty"`
}

// UpdateFlatTaxRequest represents the request to update a flat tax entry.
// All fields are optional - only provided fields will be updated.
type UpdateFlatTaxRequest struct {
	Name               string           `json:"name,omitempty"`
	Amount             *decimal.Decimal `json:"amount,omitempty"`
	CustomerTiers      []int            `json:"customer_tiers,omitempty"`
	CountyRestriction  *string          `json:"county_restriction,omitempty"`
	ZipRestriction     *string          `json:"zip_restriction,omitempty"`
	ApplicableProducts []string         `json:"applicable_products,omitempty"`
}

// Validate validates the CreateFlatTaxRequest
func (r CreateFlatTaxRequest) Validate() error {
	if r.Name == "" {
		return ierr.NewError("name is required").
			WithHint("Flat tax name is required").
			Mark(ierr.ErrValidation)
	}

	if err := r.TaxType.Validate(); err != nil {
		return err
	}

	if r.Amount.IsNegative() {
		return ierr.NewError("amount cannot be negative").
			WithHint("Flat tax amount must be zero or positive").
			Mark(ierr.ErrValidation)
	}

	if r.TaxType == types.FlatTaxTypePercentage && r.Amount.GreaterThan(decimal.NewFromInt(100)) {
		return ierr.NewError("percentage amount out of range").
			WithHint("Percentage flat tax must be in range 0-100").
			Mark(ierr.ErrValidation)
	}

	for _, tier := range r.CustomerTiers {
		if tier < 0 {
			return ierr.NewError("customer tier cannot be negative").
				WithHint("Customer tiers must be zero or positive").
				Mark(ierr.ErrValidation)
		}
	}

	return nil
}

// Validate validates the UpdateFlatTaxRequest
func (r UpdateFlatTaxRequest) Validate() error {
	if r.Amount != nil && r.Amount.IsNegative() {
		return ierr.NewError("amount cannot be negative").
			WithHint("Flat tax amount must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToFlatTax converts the request to a domain model
func (r CreateFlatTaxRequest) ToFlatTax(ctx context.Context) *flattax.FlatTax {
	return &flattax.FlatTax{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_FLAT_TAX),
		Name:               r.Name,
		TaxType:            r.TaxType,
		Amount:             r.Amount,
		CustomerTiers:      r.CustomerTiers,
		CountyRestriction:  r.CountyRestriction,
		ZipRestriction:     r.ZipRestriction,
		ApplicableProducts: r.ApplicableProducts,
		BaseModel:          types.GetDefaultBaseModel(ctx),
	}
}
