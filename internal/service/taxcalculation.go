package service

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/api/dto"
	"github.com/midwaywholesale/pricing/internal/domain/flattax"
	"github.com/midwaywholesale/pricing/internal/domain/order"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

type TaxCalculationService interface {
	// CalculateOrderTax resolves and computes the full tax breakdown for an
	// order's line items. The audit/compliance emission runs as a
	// best-effort side effect and can never fail the calculation.
	CalculateOrderTax(ctx context.Context, req dto.CalculateOrderTaxRequest) (*dto.OrderTaxResult, error)

	// ApplyOrderTax calculates the order tax and writes the computed
	// per-line tax fields back onto the stored order items, so completed
	// orders retain their breakdown independent of later catalog edits.
	ApplyOrderTax(ctx context.Context, req dto.CalculateOrderTaxRequest) (*dto.OrderTaxResult, error)

	// ProjectDisplayPrices computes tax-inclusive display prices for catalog
	// browsing, using the same resolution rules as CalculateOrderTax.
	ProjectDisplayPrices(ctx context.Context, req dto.ProjectDisplayPricesRequest) ([]*dto.ProductWithDisplayPrice, error)
}

type taxCalculationService struct {
	ServiceParams
}

// NewTaxCalculationService creates a new instance of TaxCalculationService
func NewTaxCalculationService(params ServiceParams) TaxCalculationService {
	return &taxCalculationService{
		ServiceParams: params,
	}
}

func (s *taxCalculationService) CalculateOrderTax(ctx context.Context, req dto.CalculateOrderTaxRequest) (*dto.OrderTaxResult, error) {
	if err := req.Validate(); err != nil {
		s.Logger.Warnw("order tax calculation validation failed",
			"error", err,
			"order_id", req.OrderID,
			"customer_id", req.CustomerID,
		)
		return nil, err
	}

	taxCtx := req.Context()
	catalog := s.loadCatalog(ctx, taxCtx)

	result := &dto.OrderTaxResult{
		OrderID:            req.OrderID,
		CustomerID:         req.CustomerID,
		PercentageTaxTotal: decimal.Zero,
		FlatTaxTotal:       decimal.Zero,
		TotalTaxAmount:     decimal.Zero,
	}

	// Running merge of flat tax contributions keyed by tax identity.
	appliedByID := make(map[string]*dto.AppliedFlatTax)
	var appliedOrder []string
	var tobacco dto.TobaccoSalesTracking

	for _, item := range req.Items {
		var applicable []*flattax.FlatTax
		if taxCtx.ApplyFlatTax {
			applicable = resolveApplicableFlatTaxes(catalog, item, taxCtx)
		}

		lineResult, contributions := computeLineTax(item, applicable)
		result.ItemTaxDetails = append(result.ItemTaxDetails, lineResult)

		for _, c := range contributions {
			applied, ok := appliedByID[c.tax.ID]
			if !ok {
				applied = &dto.AppliedFlatTax{
					TaxID:     c.tax.ID,
					TaxName:   c.tax.Name,
					TaxAmount: decimal.Zero,
					AppliedTo: item.ProductName,
				}
				appliedByID[c.tax.ID] = applied
				appliedOrder = append(appliedOrder, c.tax.ID)
			}
			applied.TaxAmount = applied.TaxAmount.Add(c.amount)
		}

		result.PercentageTaxTotal = result.PercentageTaxTotal.Add(lineResult.PercentageTaxAmount)
		result.FlatTaxTotal = result.FlatTaxTotal.Add(lineResult.FlatTaxAmount)

		if item.IsTobacco {
			tobacco.TobaccoItems = append(tobacco.TobaccoItems, dto.TobaccoItem{
				ProductID:   item.ProductID,
				ProductName: item.ProductName,
				Quantity:    lineResult.Quantity,
				Value:       lineResult.ItemTotalBeforeTax.Round(2),
				Tax:         lineResult.TotalTaxAmount.Round(2),
			})
			tobacco.TotalTobaccoValue = tobacco.TotalTobaccoValue.Add(lineResult.ItemTotalBeforeTax)
			tobacco.TotalTobaccoTax = tobacco.TotalTobaccoTax.Add(lineResult.TotalTaxAmount)
		}
	}

	for _, id := range appliedOrder {
		applied := appliedByID[id]
		applied.TaxAmount = applied.TaxAmount.Round(2)
		result.FlatTaxesApplied = append(result.FlatTaxesApplied, *applied)
	}

	// Monetary totals round once, at the aggregate boundary.
	result.PercentageTaxTotal = result.PercentageTaxTotal.Round(2)
	result.FlatTaxTotal = result.FlatTaxTotal.Round(2)
	result.TotalTaxAmount = result.PercentageTaxTotal.Add(result.FlatTaxTotal)

	if len(tobacco.TobaccoItems) > 0 {
		tobacco.TotalTobaccoValue = tobacco.TotalTobaccoValue.Round(2)
		tobacco.TotalTobaccoTax = tobacco.TotalTobaccoTax.Round(2)
		result.TobaccoSalesTracking = &tobacco
	}

	s.Logger.Infow("order tax calculated",
		"order_id", req.OrderID,
		"customer_id", req.CustomerID,
		"percentage_tax_total", result.PercentageTaxTotal,
		"flat_tax_total", result.FlatTaxTotal,
		"total_tax_amount", result.TotalTaxAmount,
		"tobacco_items", len(tobacco.TobaccoItems),
	)

	s.emitAudit(ctx, req, result)

	return result, nil
}

func (s *taxCalculationService) ApplyOrderTax(ctx context.Context, req dto.CalculateOrderTaxRequest) (*dto.OrderTaxResult, error) {
	result, err := s.CalculateOrderTax(ctx, req)
	if err != nil {
		return nil, err
	}

	updates := make([]order.LineItemTaxUpdate, 0, len(result.ItemTaxDetails))
	for i, line := range result.ItemTaxDetails {
		updates = append(updates, order.LineItemTaxUpdate{
			ProductID:           line.ProductID,
			TaxPercentage:       safeAmount(req.Items[i].TaxPercentage),
			PercentageTaxAmount: line.PercentageTaxAmount.Round(2),
			FlatTaxAmount:       line.FlatTaxAmount.Round(2),
			TotalTaxAmount:      line.TotalTaxAmount.Round(2),
			FinalPricePerUnit:   line.FinalPricePerUnit.Round(2),
			FinalTotalPrice:     line.FinalTotalPrice.Round(2),
		})
	}

	if err := s.OrderRepo.UpdateLineItemTaxes(ctx, req.OrderID, updates); err != nil {
		s.Logger.Errorw("failed to write tax breakdown back onto order items",
			"error", err,
			"order_id", req.OrderID,
		)
		return nil, err
	}

	return result, nil
}

func (s *taxCalculationService) ProjectDisplayPrices(ctx context.Context, req dto.ProjectDisplayPricesRequest) ([]*dto.ProductWithDisplayPrice, error) {
	if len(req.ProductIDs) == 0 {
		return nil, ierr.NewError("product_ids are required").
			WithHint("At least one product ID is required").
			Mark(ierr.ErrValidation)
	}

	products, err := s.ProductRepo.ListByIDs(ctx, req.ProductIDs)
	if err != nil {
		s.Logger.Errorw("failed to list products for display pricing",
			"error", err,
			"customer_id", req.CustomerID,
		)
		return nil, err
	}

	taxCtx := req.Context()
	catalog := s.loadCatalog(ctx, taxCtx)

	projections := make([]*dto.ProductWithDisplayPrice, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}

		price := safeAmount(p.Price)
		displayPrice := price
		hasTaxIncluded := false

		if taxPercentage := safeAmount(p.TaxPercentage); taxPercentage.IsPositive() {
			displayPrice = displayPrice.Add(price.Mul(taxPercentage).Div(hundred))
			hasTaxIncluded = true
		}

		flatTaxAmount := decimal.Zero
		if taxCtx.ApplyFlatTax {
			// Resolution must agree with checkout: the projector feeds the
			// product's own tax profile through the same resolver.
			item := dto.LineTaxRequest{
				ProductID:   p.ID,
				ProductName: p.Name,
				Quantity:    1,
				IsTobacco:   p.IsTobacco,
				FlatTaxes:   p.FlatTaxes,
			}
			for _, entry := range resolveApplicableFlatTaxes(catalog, item, taxCtx) {
				amount := safeAmount(entry.Amount)

				var contribution decimal.Decimal
				switch entry.TaxType {
				case types.FlatTaxTypePercentage:
					// Percentage flat taxes compound on the running display
					// price, matching the observed legacy behavior.
					contribution = displayPrice.Mul(amount).Div(hundred)
				default:
					contribution = amount
				}

				flatTaxAmount = flatTaxAmount.Add(contribution)
				displayPrice = displayPrice.Add(contribution)
			}
			if flatTaxAmount.IsPositive() {
				hasTaxIncluded = true
			}
		}

		projections = append(projections, &dto.ProductWithDisplayPrice{
			ProductID:      p.ID,
			ProductName:    p.Name,
			OriginalPrice:  price.Round(2),
			DisplayPrice:   displayPrice.Round(2),
			FlatTaxAmount:  flatTaxAmount.Round(2),
			HasTaxIncluded: hasTaxIncluded,
			HasTobaccoTax:  p.IsTobacco && hasTaxIncluded,
		})
	}

	return projections, nil
}

// loadCatalog reads the active flat tax catalog. A failed read degrades to
// an empty catalog: pricing then silently applies no flat taxes rather than
// failing the checkout or browse flow, and the failure is logged for
// monitoring.
func (s *taxCalculationService) loadCatalog(ctx context.Context, taxCtx dto.CustomerTaxContext) []*flattax.FlatTax {
	if !taxCtx.ApplyFlatTax {
		return nil
	}

	catalog, err := s.FlatTaxRepo.List(ctx, types.NewNoLimitFlatTaxFilter())
	if err != nil {
		s.Logger.Errorw("failed to read flat tax catalog, proceeding without flat taxes",
			"error", err,
		)
		return nil
	}
	return catalog
}
