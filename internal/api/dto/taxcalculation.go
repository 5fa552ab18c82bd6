package dto

import (
	"github.com/midwaywholesale/pricing/internal/domain/product"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/shopspring/decimal"
)

// CustomerTaxContext carries the jurisdiction and tier context of the
// customer a calculation runs for. It is supplied per call and never
// persisted by the engine.
type CustomerTaxContext struct {
	CustomerLevel int    `json:"customer_level"`
	County        string `json:"county,omitempty"`
	ZipCode       string `json:"zip_code,omitempty"`
	ApplyFlatTax  bool   `json:"apply_flat_tax"`
}

// LineTaxRequest is the per-item input to a tax calculation, immutable once
// constructed for a calculation.
type LineTaxRequest struct {
	ProductID     string             `json:"product_id"`
	ProductName   string             `json:"product_name"`
	BasePrice     decimal.Decimal    `json:"base_price"`
	Quantity      int64              `json:"quantity"`
	TaxPercentage decimal.Decimal    `json:"tax_percentage"`
	IsTobacco     bool               `json:"is_tobacco"`
	FlatTaxes     product.Assignment `json:"flat_tax_ids"`
}

// LineTaxResult is the itemized tax breakdown for one line.
type LineTaxResult struct {
	ProductID           string          `json:"product_id"`
	BasePrice           decimal.Decimal `json:"base_price"`
	Quantity            int64           `json:"quantity"`
	ItemTotalBeforeTax  decimal.Decimal `json:"item_total_before_tax"`
	PercentageTaxAmount decimal.Decimal `json:"percentage_tax_amount"`
	FlatTaxAmount       decimal.Decimal `json:"flat_tax_amount"`
	TotalTaxAmount      decimal.Decimal `json:"total_tax_amount"`
	FinalPricePerUnit   decimal.Decimal `json:"final_price_per_unit"`
	FinalTotalPrice     decimal.Decimal `json:"final_total_price"`
}

// AppliedFlatTax summarizes one distinct flat tax across the whole order,
// with amounts summed over every line it applied to.
type AppliedFlatTax struct {
	TaxID     string          `json:"tax_id"`
	TaxName   string          `json:"tax_name"`
	TaxAmount decimal.Decimal `json:"tax_amount"`
	AppliedTo string          `json:"applied_to"`
}

// TobaccoItem is one regulated line collected for statutory tracking.
type TobaccoItem struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	Tax         decimal.Decimal `json:"tax"`
}

// TobaccoSalesTracking collects the order's regulated items and their totals.
type TobaccoSalesTracking struct {
	TobaccoItems      []TobaccoItem   `json:"tobacco_items"`
	TotalTobaccoValue decimal.Decimal `json:"total_tobacco_value"`
	TotalTobaccoTax   decimal.Decimal `json:"total_tobacco_tax"`
}

// CalculateOrderTaxRequest is the input to the order tax aggregator.
type CalculateOrderTaxRequest struct {
	OrderID       string           `json:"order_id"`
	CustomerID    string           `json:"customer_id"`
	CustomerLevel int              `json:"customer_level"`
	ApplyFlatTax  bool             `json:"apply_flat_tax"`
	County        string           `json:"county,omitempty"`
	ZipCode       string           `json:"zip_code,omitempty"`
	Items         []LineTaxRequest `json:"items"`
}

// Validate validates the CalculateOrderTaxRequest
func (r CalculateOrderTaxRequest) Validate() error {
	if r.OrderID == "" {
		return ierr.NewError("order_id is required").
			WithHint("Order ID is required").
			Mark(ierr.ErrValidation)
	}

	if r.CustomerID == "" {
		return ierr.NewError("customer_id is required").
			WithHint("Customer ID is required").
			Mark(ierr.ErrValidation)
	}

	if len(r.Items) == 0 {
		return ierr.NewError("items are required").
			WithHint("At least one line item is required").
			Mark(ierr.ErrValidation)
	}

	return nil
}

// Context returns the customer tax context carried by the request.
func (r CalculateOrderTaxRequest) Context() CustomerTaxContext {
	return CustomerTaxContext{
		CustomerLevel: r.CustomerLevel,
		County:        r.County,
		ZipCode:       r.ZipCode,
		ApplyFlatTax:  r.ApplyFlatTax,
	}
}

// OrderTaxResult is the aggregated tax breakdown for one order.
type OrderTaxResult struct {
	OrderID              string                `json:"order_id"`
	CustomerID           string                `json:"customer_id"`
	ItemTaxDetails       []LineTaxResult       `json:"item_tax_details"`
	FlatTaxesApplied     []AppliedFlatTax      `json:"flat_taxes_applied"`
	PercentageTaxTotal   decimal.Decimal       `json:"percentage_tax_total"`
	FlatTaxTotal         decimal.Decimal       `json:"flat_tax_total"`
	TotalTaxAmount       decimal.Decimal       `json:"total_tax_amount"`
	TobaccoSalesTracking *TobaccoSalesTracking `json:"tobacco_sales_tracking,omitempty"`
}

// ProjectDisplayPricesRequest is the input to the display price projector.
// Zip code is optional; catalog/browse callers that only know the county
// leave it empty.
type ProjectDisplayPricesRequest struct {
	CustomerID    string   `json:"customer_id"`
	CustomerLevel int      `json:"customer_level"`
	ApplyFlatTax  bool     `json:"apply_flat_tax"`
	County        string   `json:"county,omitempty"`
	ZipCode       string   `json:"zip_code,omitempty"`
	ProductIDs    []string `json:"product_ids,omitempty"`
}

// Context returns the customer tax context carried by the request.
func (r ProjectDisplayPricesRequest) Context() CustomerTaxContext {
	return CustomerTaxContext{
		CustomerLevel: r.CustomerLevel,
		County:        r.County,
		ZipCode:       r.ZipCode,
		ApplyFlatTax:  r.ApplyFlatTax,
	}
}

// ProductWithDisplayPrice is one product's projected price for catalog display.
type ProductWithDisplayPrice struct {
	ProductID      string          `json:"product_id"`
	ProductName    string          `json:"product_name"`
	OriginalPrice  decimal.Decimal `json:"original_price"`
	DisplayPrice   decimal.Decimal `json:"display_price"`
	FlatTaxAmount  decimal.Decimal `json:"flat_tax_amount"`
	HasTaxIncluded bool            `json:"has_tax_included"`
	HasTobaccoTax  bool            `json:"has_il_tobacco_tax"`
}
