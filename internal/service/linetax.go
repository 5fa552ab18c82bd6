package service

import (
	"github.com/midwaywholesale/pricing/internal/api/dto"
	"github.com/midwaywholesale/pricing/internal/domain/flattax"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// flatTaxContribution is one flat tax's contribution to a single line,
// carried alongside the line result so the aggregator can merge amounts
// by tax identity.
type flatTaxContribution struct {
	tax    *flattax.FlatTax
	amount decimal.Decimal
}

// computeLineTax computes the itemized tax breakdown and the tax-inclusive
// prices for one line. Amounts are not rounded here: rounding happens once
// at the order aggregate and display boundary so per-line rounding error
// cannot compound across many lines.
//
// Malformed numeric inputs are not errors; negative or missing values are
// treated as zero so a stale or partially-edited tax definition can never
// hard-fail a checkout.
func computeLineTax(item dto.LineTaxRequest, applicable []*flattax.FlatTax) (dto.LineTaxResult, []flatTaxContribution) {
	quantity := item.Quantity
	if quantity < 0 {
		quantity = 0
	}
	quantityDec := decimal.NewFromInt(quantity)

	basePrice := safeAmount(item.BasePrice)
	itemTotalBeforeTax := basePrice.Mul(quantityDec)

	percentageTaxAmount := decimal.Zero
	if taxPercentage := safeAmount(item.TaxPercentage); taxPercentage.IsPositive() {
		percentageTaxAmount = itemTotalBeforeTax.Mul(taxPercentage).Div(hundred)
	}

	flatTaxAmount := decimal.Zero
	var contributions []flatTaxContribution
	for _, entry := range applicable {
		amount := safeAmount(entry.Amount)

		var contribution decimal.Decimal
		switch entry.TaxType {
		case types.FlatTaxTypePerUnit:
			contribution = amount.Mul(quantityDec)
		case types.FlatTaxTypePercentage:
			contribution = itemTotalBeforeTax.Mul(amount).Div(hundred)
		case types.FlatTaxTypeFixed:
			// A single fixed charge per line, not per unit.
			contribution = amount
		default:
			continue
		}

		flatTaxAmount = flatTaxAmount.Add(contribution)
		contributions = append(contributions, flatTaxContribution{tax: entry, amount: contribution})
	}

	totalTaxAmount := percentageTaxAmount.Add(flatTaxAmount)

	finalPricePerUnit := basePrice
	if quantity > 0 {
		finalPricePerUnit = basePrice.Add(totalTaxAmount.Div(quantityDec))
	}

	return dto.LineTaxResult{
		ProductID:           item.ProductID,
		BasePrice:           basePrice,
		Quantity:            quantity,
		ItemTotalBeforeTax:  itemTotalBeforeTax,
		PercentageTaxAmount: percentageTaxAmount,
		FlatTaxAmount:       flatTaxAmount,
		TotalTaxAmount:      totalTaxAmount,
		FinalPricePerUnit:   finalPricePerUnit,
		FinalTotalPrice:     itemTotalBeforeTax.Add(totalTaxAmount),
	}, contributions
}

// safeAmount treats negative amounts as zero; administrative validation is
// assumed authoritative upstream.
func safeAmount(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}
