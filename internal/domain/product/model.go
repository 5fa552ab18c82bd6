package product

import (
	"bytes"
	"encoding/json"

	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

// Product is the subset of a catalog product this engine reads: price,
// category and the tax profile used during resolution.
type Product struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	CategoryID    string          `json:"category_id"`
	Price         decimal.Decimal `json:"price"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	IsTobacco     bool            `json:"is_tobacco"`
	FlatTaxes     Assignment      `json:"flat_tax_ids"`

	types.BaseModel
}

// TaxProfile carries the per-product inputs to tax resolution.
type TaxProfile struct {
	ProductID     string          `json:"product_id"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	IsTobacco     bool            `json:"is_tobacco"`
	FlatTaxes     Assignment      `json:"flat_tax_ids"`
}

// TaxProfile returns the product's tax profile.
func (p *Product) TaxProfile() TaxProfile {
	return TaxProfile{
		ProductID:     p.ID,
		TaxPercentage: p.TaxPercentage,
		IsTobacco:     p.IsTobacco,
		FlatTaxes:     p.FlatTaxes,
	}
}

// AssignmentKind distinguishes the three flat tax assignment states a
// product can be in. The legacy catalog stored these as a nullable id list:
// an explicit null meant "no flat taxes at all", an empty or missing list
// meant "fall back to each tax's product-applicability list", and a
// non-empty list named the applicable taxes authoritatively.
type AssignmentKind int

const (
	// AssignmentLegacy means the product carries no direct assignment data;
	// resolution falls back to each catalog entry's applicability list.
	AssignmentLegacy AssignmentKind = iota
	// AssignmentNone means the product is explicitly assigned no flat taxes.
	// It wins over every other resolution rule.
	AssignmentNone
	// AssignmentExplicit means the id list is authoritative: a catalog entry
	// applies iff its id is in the list.
	AssignmentExplicit
)

// Assignment is the tagged variant for a product's flat tax assignment.
// The zero value is the legacy state.
type Assignment struct {
	Kind AssignmentKind
	IDs  []string
}

// LegacyAssignment returns the no-direct-assignment state.
func LegacyAssignment() Assignment {
	return Assignment{Kind: AssignmentLegacy}
}

// NoAssignment returns the explicit "no flat taxes" state.
func NoAssignment() Assignment {
	return Assignment{Kind: AssignmentNone}
}

// ExplicitAssignment returns an authoritative assignment to the given ids.
// An empty list degrades to the legacy state, matching the stored form.
func ExplicitAssignment(ids []string) Assignment {
	if len(ids) == 0 {
		return LegacyAssignment()
	}
	return Assignment{Kind: AssignmentExplicit, IDs: ids}
}

// AssignmentFromStored reconstructs an Assignment from a nullable stored id
// list, preserving the null vs empty distinction.
func AssignmentFromStored(ids []string, isNull bool) Assignment {
	if isNull {
		return NoAssignment()
	}
	return ExplicitAssignment(ids)
}

// Contains reports whether the explicit id list contains the given id.
func (a Assignment) Contains(id string) bool {
	for _, v := range a.IDs {
		if v == id {
			return true
		}
	}
	return false
}

var jsonNull = []byte("null")

// MarshalJSON encodes the assignment in the stored wire form: null for
// explicitly-none, [] for legacy, and the id list for explicit assignments.
func (a Assignment) MarshalJSON() ([]byte, error) {
	switch a.Kind {
	case AssignmentNone:
		return jsonNull, nil
	case AssignmentExplicit:
		return json.Marshal(a.IDs)
	default:
		return []byte("[]"), nil
	}
}

// UnmarshalJSON decodes the stored wire form back into the tagged variant.
func (a *Assignment) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*a = NoAssignment()
		return nil
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*a = ExplicitAssignment(ids)
	return nil
}
