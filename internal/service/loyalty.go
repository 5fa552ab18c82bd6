package service

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/config"
	"github.com/midwaywholesale/pricing/internal/domain/order"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/shopspring/decimal"
)

type LoyaltyService interface {
	// EligibleBase reconstructs the tax-exclusive, category-filtered
	// subtotal of a completed order used for points accrual. If the
	// reconstruction fails it degrades to a conservative fraction of
	// fallbackTotal instead of failing the accrual.
	EligibleBase(ctx context.Context, orderID string, fallbackTotal decimal.Decimal) (decimal.Decimal, error)
}

type loyaltyService struct {
	ServiceParams
}

// NewLoyaltyService creates a new instance of LoyaltyService
func NewLoyaltyService(params ServiceParams) LoyaltyService {
	return &loyaltyService{
		ServiceParams: params,
	}
}

var one = decimal.NewFromInt(1)

func (s *loyaltyService) EligibleBase(ctx context.Context, orderID string, fallbackTotal decimal.Decimal) (decimal.Decimal, error) {
	if orderID == "" {
		return decimal.Zero, ierr.NewError("order_id is required").
			WithHint("Order ID is required").
			Mark(ierr.ErrValidation)
	}

	lines, err := s.OrderRepo.GetLineItems(ctx, orderID)
	if err != nil {
		return s.fallbackBase(orderID, fallbackTotal, err), nil
	}

	eligible := decimal.Zero
	for _, line := range lines {
		if line == nil {
			continue
		}

		excluded, err := s.categoryExcluded(ctx, line)
		if err != nil {
			return s.fallbackBase(orderID, fallbackTotal, err), nil
		}
		if excluded {
			// The whole tax-inclusive line value stays out of the base.
			continue
		}

		// Recover the pre-percentage-tax unit price, then strip the
		// line's stored flat tax amount.
		unitPrice := line.Price
		if line.TaxPercentage.IsPositive() {
			unitPrice = unitPrice.Div(one.Add(line.TaxPercentage.Div(hundred)))
		}
		lineBase := unitPrice.Mul(decimal.NewFromInt(line.Quantity)).Sub(line.FlatTaxAmount)
		eligible = eligible.Add(lineBase)
	}

	if eligible.IsNegative() {
		eligible = decimal.Zero
	}

	return eligible.Round(2), nil
}

// categoryExcluded resolves a line's category, via the product record when
// the line does not carry a category id, and reports its loyalty exclusion.
func (s *loyaltyService) categoryExcluded(ctx context.Context, line *order.LineItem) (bool, error) {
	categoryID := line.CategoryID
	if categoryID == "" {
		p, err := s.ProductRepo.Get(ctx, line.ProductID)
		if err != nil {
			return false, err
		}
		categoryID = p.CategoryID
	}
	if categoryID == "" {
		return false, nil
	}

	cat, err := s.CategoryRepo.Get(ctx, categoryID)
	if err != nil {
		return false, err
	}
	return cat.ExcludeFromLoyalty, nil
}

// fallbackBase is the documented approximation used when the line item
// reconstruction fails: a fixed fraction of the stored order total.
// Awarding some points on failure is preferred to blocking checkout.
func (s *loyaltyService) fallbackBase(orderID string, fallbackTotal decimal.Decimal, cause error) decimal.Decimal {
	rate := config.DefaultLoyaltyFallbackRate
	if s.Config != nil && s.Config.Loyalty.FallbackRate > 0 {
		rate = s.Config.Loyalty.FallbackRate
	}

	base := safeAmount(fallbackTotal).Mul(decimal.NewFromFloat(rate)).Round(2)

	s.Logger.Warnw("loyalty base reconstruction failed, using fallback approximation",
		"error", cause,
		"order_id", orderID,
		"fallback_rate", rate,
		"fallback_base", base,
	)

	return base
}
