package service

import (
	"testing"

	"github.com/midwaywholesale/pricing/internal/api/dto"
	"github.com/midwaywholesale/pricing/internal/domain/flattax"
	"github.com/midwaywholesale/pricing/internal/domain/product"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func activeFlatTax(id string, applicableProducts ...string) *flattax.FlatTax {
	return &flattax.FlatTax{
		ID:                 id,
		Name:               id,
		TaxType:            types.FlatTaxTypePerUnit,
		Amount:             decimal.NewFromInt(1),
		ApplicableProducts: applicableProducts,
		BaseModel:          types.BaseModel{Status: types.StatusPublished},
	}
}

func TestResolveApplicableFlatTaxes(t *testing.T) {
	taxCtx := dto.CustomerTaxContext{ApplyFlatTax: true}

	t.Run("empty legacy list applies to every item", func(t *testing.T) {
		catalog := []*flattax.FlatTax{activeFlatTax("ftax_1")}
		item := dto.LineTaxRequest{ProductID: "prod_any"}

		applicable := resolveApplicableFlatTaxes(catalog, item, taxCtx)
		assert.Len(t, applicable, 1)
	})

	t.Run("legacy list matches product id and wildcards", func(t *testing.T) {
		catalog := []*flattax.FlatTax{
			activeFlatTax("ftax_by_id", "prod_1"),
			activeFlatTax("ftax_all", types.FlatTaxApplicabilityAll),
			activeFlatTax("ftax_tobacco", types.FlatTaxApplicabilityTobacco),
			activeFlatTax("ftax_other", "prod_2"),
		}

		item := dto.LineTaxRequest{ProductID: "prod_1", IsTobacco: true}
		ids := lo.Map(resolveApplicableFlatTaxes(catalog, item, taxCtx), func(f *flattax.FlatTax, _ int) string {
			return f.ID
		})
		assert.ElementsMatch(t, []string{"ftax_by_id", "ftax_all", "ftax_tobacco"}, ids)

		nonTobacco := dto.LineTaxRequest{ProductID: "prod_3"}
		ids = lo.Map(resolveApplicableFlatTaxes(catalog, nonTobacco, taxCtx), func(f *flattax.FlatTax, _ int) string {
			return f.ID
		})
		assert.ElementsMatch(t, []string{"ftax_all"}, ids)
	})

	t.Run("explicit assignment never consults the legacy list", func(t *testing.T) {
		catalog := []*flattax.FlatTax{
			activeFlatTax("ftax_assigned", "prod_other"),
			activeFlatTax("ftax_wildcard", types.FlatTaxApplicabilityAll),
		}

		item := dto.LineTaxRequest{
			ProductID: "prod_1",
			FlatTaxes: product.ExplicitAssignment([]string{"ftax_assigned"}),
		}
		applicable := resolveApplicableFlatTaxes(catalog, item, taxCtx)
		assert.Len(t, applicable, 1)
		assert.Equal(t, "ftax_assigned", applicable[0].ID)
	})

	t.Run("none assignment returns nothing regardless of catalog", func(t *testing.T) {
		catalog := []*flattax.FlatTax{activeFlatTax("ftax_1", types.FlatTaxApplicabilityAll)}
		item := dto.LineTaxRequest{ProductID: "prod_1", FlatTaxes: product.NoAssignment()}

		assert.Empty(t, resolveApplicableFlatTaxes(catalog, item, taxCtx))
	})

	t.Run("zip restriction", func(t *testing.T) {
		tax := activeFlatTax("ftax_zip")
		tax.ZipRestriction = lo.ToPtr("60601")
		catalog := []*flattax.FlatTax{tax}
		item := dto.LineTaxRequest{ProductID: "prod_1"}

		assert.Len(t, resolveApplicableFlatTaxes(catalog, item, dto.CustomerTaxContext{
			ApplyFlatTax: true, ZipCode: "60601",
		}), 1)
		assert.Empty(t, resolveApplicableFlatTaxes(catalog, item, dto.CustomerTaxContext{
			ApplyFlatTax: true, ZipCode: "60602",
		}))
	})

	t.Run("scope checks run before assignment checks", func(t *testing.T) {
		tax := activeFlatTax("ftax_scoped")
		tax.CountyRestriction = lo.ToPtr("Cook")
		catalog := []*flattax.FlatTax{tax}

		// Even a direct assignment cannot pull in a tax outside its county.
		item := dto.LineTaxRequest{
			ProductID: "prod_1",
			FlatTaxes: product.ExplicitAssignment([]string{"ftax_scoped"}),
		}
		assert.Empty(t, resolveApplicableFlatTaxes(catalog, item, dto.CustomerTaxContext{
			ApplyFlatTax: true, County: "DuPage",
		}))
	})
}
