package service

import (
	"strings"

	"github.com/midwaywholesale/pricing/internal/api/dto"
	"github.com/midwaywholesale/pricing/internal/domain/flattax"
	"github.com/midwaywholesale/pricing/internal/domain/product"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/samber/lo"
)

// resolveApplicableFlatTaxes decides which flat tax catalog entries apply to
// one line item for one customer context. Pure function of its inputs.
//
// Each entry is filtered in order, short-circuiting on the first failing
// condition: archived entries drop first, then the tier, county and zip
// scope checks. The item's assignment then decides the rest: an explicit
// "no flat taxes" assignment returns empty regardless of the catalog, a
// non-empty direct assignment is authoritative (legacy matching is never
// consulted for it), and only items with no direct assignment data fall
// back to each entry's legacy product-applicability list.
func resolveApplicableFlatTaxes(catalog []*flattax.FlatTax, item dto.LineTaxRequest, taxCtx dto.CustomerTaxContext) []*flattax.FlatTax {
	// An explicit null assignment wins over everything: the item is assigned
	// no flat taxes at all.
	if item.FlatTaxes.Kind == product.AssignmentNone {
		return nil
	}

	var applicable []*flattax.FlatTax
	for _, entry := range catalog {
		if entry == nil || !entry.IsActive() {
			continue
		}

		if !entry.AppliesToTier(taxCtx.CustomerLevel) {
			continue
		}

		if entry.CountyRestriction != nil && !matchesJurisdiction(*entry.CountyRestriction, taxCtx.County) {
			continue
		}

		if entry.ZipRestriction != nil && !matchesJurisdiction(*entry.ZipRestriction, taxCtx.ZipCode) {
			continue
		}

		switch item.FlatTaxes.Kind {
		case product.AssignmentExplicit:
			if item.FlatTaxes.Contains(entry.ID) {
				applicable = append(applicable, entry)
			}
		default:
			if legacyListApplies(entry, item) {
				applicable = append(applicable, entry)
			}
		}
	}

	return applicable
}

// legacyListApplies checks an entry's legacy product-applicability list
// against an item with no direct assignment data. An entry with no list
// applies to all items by default; its scope restrictions were already
// checked by the caller.
func legacyListApplies(entry *flattax.FlatTax, item dto.LineTaxRequest) bool {
	if len(entry.ApplicableProducts) == 0 {
		return true
	}

	if lo.Contains(entry.ApplicableProducts, item.ProductID) {
		return true
	}

	if lo.Contains(entry.ApplicableProducts, types.FlatTaxApplicabilityAll) {
		return true
	}

	if item.IsTobacco && lo.Contains(entry.ApplicableProducts, types.FlatTaxApplicabilityTobacco) {
		return true
	}

	return false
}

func matchesJurisdiction(restriction, value string) bool {
	return strings.EqualFold(strings.TrimSpace(restriction), strings.TrimSpace(value))
}
