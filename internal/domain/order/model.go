package order

import (
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

// LineItem is one line of a stored order. Price is the tax-inclusive unit
// price shown at checkout; BasePrice is the tax-exclusive unit price when
// known. The tax fields are written back by the calculation service so that
// completed orders retain their breakdown independent of later catalog edits.
type LineItem struct {
	ID            string          `json:"id"`
	OrderID       string          `json:"order_id"`
	ProductID     string          `json:"product_id"`
	ProductName   string          `json:"product_name"`
	CategoryID    string          `json:"category_id"`
	Quantity      int64           `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	BasePrice     decimal.Decimal `json:"base_price"`
	TaxPercentage decimal.Decimal `json:"tax_percentage"`
	FlatTaxAmount decimal.Decimal `json:"flat_tax_amount"`

	types.BaseModel
}

// LineItemTaxUpdate carries the computed per-line tax fields written back
// onto a stored order line after calculation.
type LineItemTaxUpdate struct {
	ProductID           string
	TaxPercentage       decimal.Decimal
	PercentageTaxAmount decimal.Decimal
	FlatTaxAmount       decimal.Decimal
	TotalTaxAmount      decimal.Decimal
	FinalPricePerUnit   decimal.Decimal
	FinalTotalPrice     decimal.Decimal
}
