package types

import (
	"slices"

	ierr "github.com/midwaywholesale/pricing/internal/errors"
)

// FlatTaxType determines how a flat tax contributes to a line's tax amount.
type FlatTaxType string

const (
	// FlatTaxTypePerUnit scales the amount by the line quantity.
	FlatTaxTypePerUnit FlatTaxType = "per_unit"
	// FlatTaxTypePercentage applies the amount as a percentage of the line subtotal.
	FlatTaxTypePercentage FlatTaxType = "percentage"
	// FlatTaxTypeFixed applies the amount once per line, regardless of quantity.
	FlatTaxTypeFixed FlatTaxType = "fixed"
)

func (t FlatTaxType) String() string {
	return string(t)
}

func (t FlatTaxType) Validate() error {
	allowedValues := []string{
		string(FlatTaxTypePerUnit),
		string(FlatTaxTypePercentage),
		string(FlatTaxTypeFixed),
	}
	if !slices.Contains(allowedValues, string(t)) {
		return ierr.NewError("invalid flat tax type").
			WithHint("Flat tax type must be per_unit, percentage or fixed").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// Wildcards recognized in a flat tax's legacy product-applicability list.
const (
	FlatTaxApplicabilityAll     = "all"
	FlatTaxApplicabilityTobacco = "tobacco"
)

// FlatTaxFilter represents filters for flat tax queries
type FlatTaxFilter struct {
	*QueryFilter
	*TimeRangeFilter
	FlatTaxIDs []string    `json:"flat_tax_ids,omitempty" form:"flat_tax_ids" validate:"omitempty"`
	TaxType    FlatTaxType `json:"tax_type,omitempty" form:"tax_type" validate:"omitempty"`
}

// NewFlatTaxFilter creates a new FlatTaxFilter with default values
func NewFlatTaxFilter() *FlatTaxFilter {
	return &FlatTaxFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// NewNoLimitFlatTaxFilter creates a new FlatTaxFilter with no pagination limits
func NewNoLimitFlatTaxFilter() *FlatTaxFilter {
	return &FlatTaxFilter{
		QueryFilter: NewNoLimitQueryFilter(),
	}
}

// Validate validates the FlatTaxFilter
func (f FlatTaxFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}

	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}

	for _, id := range f.FlatTaxIDs {
		if id == "" {
			return ierr.NewError("flat_tax_ids cannot contain empty strings").
				WithHint("Flat tax IDs must be non-empty strings").
				Mark(ierr.ErrValidation)
		}
	}

	if f.TaxType != "" {
		if err := f.TaxType.Validate(); err != nil {
			return err
		}
	}

	return nil
}

// GetLimit returns the limit for the FlatTaxFilter
func (f FlatTaxFilter) GetLimit() int {
	return f.QueryFilter.GetLimit()
}
