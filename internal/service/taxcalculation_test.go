package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/midwaywholesale/pricing/internal/api/dto"
	"github.com/midwaywholesale/pricing/internal/domain/flattax"
	"github.com/midwaywholesale/pricing/internal/domain/order"
	"github.com/midwaywholesale/pricing/internal/domain/product"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/testutil"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TaxCalculationServiceSuite struct {
	testutil.BaseServiceTestSuite
	service  TaxCalculationService
	testData struct {
		flatTaxes struct {
			perUnitTobacco *flattax.FlatTax
			fixedCharge    *flattax.FlatTax
			countyScoped   *flattax.FlatTax
			tierScoped     *flattax.FlatTax
			archived       *flattax.FlatTax
		}
		now time.Time
	}
}

func TestTaxCalculationService(t *testing.T) {
	suite.Run(t, new(TaxCalculationServiceSuite))
}

func (s *TaxCalculationServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.setupService()
	s.setupTestData()
}

func (s *TaxCalculationServiceSuite) TearDownTest() {
	s.BaseServiceTestSuite.TearDownTest()
}

func (s *TaxCalculationServiceSuite) setupService() {
	s.service = NewTaxCalculationService(s.serviceParams())
}

func (s *TaxCalculationServiceSuite) serviceParams() ServiceParams {
	return ServiceParams{
		Logger:         s.GetLogger(),
		Config:         s.GetConfig(),
		FlatTaxRepo:    s.GetStores().FlatTaxRepo,
		ProductRepo:    s.GetStores().ProductRepo,
		CategoryRepo:   s.GetStores().CategoryRepo,
		OrderRepo:      s.GetStores().OrderRepo,
		TaxAuditRepo:   s.GetStores().TaxAuditRepo,
		ComplianceRepo: s.GetStores().ComplianceRepo,
	}
}

func (s *TaxCalculationServiceSuite) setupTestData() {
	s.testData.now = time.Now().UTC()

	s.testData.flatTaxes.perUnitTobacco = &flattax.FlatTax{
		ID:                 "ftax_tobacco_per_unit",
		Name:               "Tobacco Unit Tax",
		TaxType:            types.FlatTaxTypePerUnit,
		Amount:             decimal.NewFromFloat(1.50),
		ApplicableProducts: []string{types.FlatTaxApplicabilityTobacco},
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}

	s.testData.flatTaxes.fixedCharge = &flattax.FlatTax{
		ID:                 "ftax_fixed_charge",
		Name:               "Fixed Handling Charge",
		TaxType:            types.FlatTaxTypeFixed,
		Amount:             decimal.NewFromInt(2),
		ApplicableProducts: []string{"prod_premium_cigar"},
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}

	s.testData.flatTaxes.countyScoped = &flattax.FlatTax{
		ID:                 "ftax_cook_county",
		Name:               "Cook County Tax",
		TaxType:            types.FlatTaxTypePerUnit,
		Amount:             decimal.NewFromFloat(0.75),
		CountyRestriction:  lo.ToPtr("Cook"),
		ApplicableProducts: []string{types.FlatTaxApplicabilityAll},
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}

	s.testData.flatTaxes.tierScoped = &flattax.FlatTax{
		ID:                 "ftax_tier_two",
		Name:               "Tier Two Surcharge",
		TaxType:            types.FlatTaxTypeFixed,
		Amount:             decimal.NewFromInt(5),
		CustomerTiers:      []int{2},
		ApplicableProducts: []string{types.FlatTaxApplicabilityAll},
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}

	s.testData.flatTaxes.archived = &flattax.FlatTax{
		ID:                 "ftax_archived",
		Name:               "Retired Tax",
		TaxType:            types.FlatTaxTypePerUnit,
		Amount:             decimal.NewFromInt(9),
		ApplicableProducts: []string{types.FlatTaxApplicabilityAll},
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}
	s.testData.flatTaxes.archived.Status = types.StatusArchived

	for _, t := range []*flattax.FlatTax{
		s.testData.flatTaxes.perUnitTobacco,
		s.testData.flatTaxes.fixedCharge,
		s.testData.flatTaxes.countyScoped,
		s.testData.flatTaxes.tierScoped,
		s.testData.flatTaxes.archived,
	} {
		s.NoError(s.GetStores().FlatTaxRepo.Create(s.GetContext(), t))
	}
}

func (s *TaxCalculationServiceSuite) baseRequest() dto.CalculateOrderTaxRequest {
	return dto.CalculateOrderTaxRequest{
		OrderID:      "order_1",
		CustomerID:   "cust_1",
		ApplyFlatTax: true,
		Items: []dto.LineTaxRequest{
			{
				ProductID:   "prod_chew",
				ProductName: "Chewing Tobacco Tin",
				BasePrice:   decimal.NewFromInt(10),
				Quantity:    3,
				IsTobacco:   true,
			},
		},
	}
}

func (s *TaxCalculationServiceSuite) TestCalculateOrderTaxPerUnit() {
	result, err := s.service.CalculateOrderTax(s.GetContext(), s.baseRequest())
	s.NoError(err)
	s.NotNil(result)

	s.Len(result.ItemTaxDetails, 1)
	line := result.ItemTaxDetails[0]
	s.True(line.ItemTotalBeforeTax.Equal(decimal.NewFromInt(30)), "item total %s", line.ItemTotalBeforeTax)
	s.True(line.PercentageTaxAmount.IsZero())
	s.True(line.FlatTaxAmount.Equal(decimal.NewFromFloat(4.50)), "flat tax %s", line.FlatTaxAmount)
	s.True(line.FinalTotalPrice.Equal(decimal.NewFromFloat(34.50)), "final total %s", line.FinalTotalPrice)
	s.True(line.FinalPricePerUnit.Equal(decimal.NewFromFloat(11.50)))

	s.True(result.PercentageTaxTotal.IsZero())
	s.True(result.FlatTaxTotal.Equal(decimal.NewFromFloat(4.50)))
	s.True(result.TotalTaxAmount.Equal(decimal.NewFromFloat(4.50)))

	s.Len(result.FlatTaxesApplied, 1)
	s.Equal(s.testData.flatTaxes.perUnitTobacco.ID, result.FlatTaxesApplied[0].TaxID)
	s.Equal("Chewing Tobacco Tin", result.FlatTaxesApplied[0].AppliedTo)
}

func (s *TaxCalculationServiceSuite) TestCalculateOrderTaxPercentageAndFixed() {
	req := dto.CalculateOrderTaxRequest{
		OrderID:      "order_2",
		CustomerID:   "cust_1",
		ApplyFlatTax: true,
		Items: []dto.LineTaxRequest{
			{
				ProductID:     "prod_premium_cigar",
				ProductName:   "Premium Cigar",
				BasePrice:     decimal.NewFromInt(20),
				Quantity:      1,
				TaxPercentage: decimal.NewFromInt(45),
				IsTobacco:     true,
			},
		},
	}

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	line := result.ItemTaxDetails[0]
	s.True(line.PercentageTaxAmount.Equal(decimal.NewFromInt(9)), "percentage tax %s", line.PercentageTaxAmount)
	// Tobacco wildcard per-unit tax plus the product's fixed charge.
	s.True(line.FlatTaxAmount.Equal(decimal.NewFromFloat(3.50)), "flat tax %s", line.FlatTaxAmount)
	s.True(line.FinalTotalPrice.Equal(decimal.NewFromFloat(32.50)), "final total %s", line.FinalTotalPrice)

	s.True(result.TotalTaxAmount.Equal(result.PercentageTaxTotal.Add(result.FlatTaxTotal)))
}

func (s *TaxCalculationServiceSuite) TestCalculateOrderTaxFixedAppliesOncePerLine() {
	req := dto.CalculateOrderTaxRequest{
		OrderID:      "order_fixed",
		CustomerID:   "cust_1",
		ApplyFlatTax: true,
		Items: []dto.LineTaxRequest{
			{
				ProductID:   "prod_premium_cigar",
				ProductName: "Premium Cigar",
				BasePrice:   decimal.NewFromInt(20),
				Quantity:    4,
			},
		},
	}

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	// The fixed charge does not scale with quantity.
	s.True(result.FlatTaxTotal.Equal(decimal.NewFromInt(2)), "flat tax total %s", result.FlatTaxTotal)
}

func (s *TaxCalculationServiceSuite) TestCalculateOrderTaxDeterministic() {
	req := s.baseRequest()

	first, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)
	second, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	s.True(first.TotalTaxAmount.Equal(second.TotalTaxAmount))
	s.True(first.PercentageTaxTotal.Equal(second.PercentageTaxTotal))
	s.True(first.FlatTaxTotal.Equal(second.FlatTaxTotal))
	s.Equal(len(first.ItemTaxDetails), len(second.ItemTaxDetails))
	s.Equal(len(first.FlatTaxesApplied), len(second.FlatTaxesApplied))
}

func (s *TaxCalculationServiceSuite) TestCalculateOrderTaxAdditivity() {
	req := dto.CalculateOrderTaxRequest{
		OrderID:      "order_3",
		CustomerID:   "cust_1",
		ApplyFlatTax: true,
		County:       "cook",
		Items: []dto.LineTaxRequest{
			{
				ProductID:     "prod_chew",
				ProductName:   "Chewing Tobacco Tin",
				BasePrice:     decimal.NewFromFloat(10.99),
				Quantity:      3,
				TaxPercentage: decimal.NewFromFloat(8.25),
				IsTobacco:     true,
			},
			{
				ProductID:     "prod_lighter",
				ProductName:   "Lighter",
				BasePrice:     decimal.NewFromFloat(2.49),
				Quantity:      7,
				TaxPercentage: decimal.NewFromFloat(6.25),
			},
		},
	}

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	s.True(result.TotalTaxAmount.Equal(result.PercentageTaxTotal.Add(result.FlatTaxTotal)))
}

func (s *TaxCalculationServiceSuite) TestNullAssignmentWinsOverCatalog() {
	req := s.baseRequest()
	req.Items[0].FlatTaxes = product.NoAssignment()

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	s.True(result.FlatTaxTotal.IsZero(), "flat tax total %s", result.FlatTaxTotal)
	s.Empty(result.FlatTaxesApplied)
}

func (s *TaxCalculationServiceSuite) TestExplicitAssignmentIsAuthoritative() {
	req := s.baseRequest()
	// The fixed charge's legacy list names a different product; the direct
	// assignment applies it anyway and suppresses the tobacco wildcard tax.
	req.Items[0].FlatTaxes = product.ExplicitAssignment([]string{s.testData.flatTaxes.fixedCharge.ID})

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	s.Len(result.FlatTaxesApplied, 1)
	s.Equal(s.testData.flatTaxes.fixedCharge.ID, result.FlatTaxesApplied[0].TaxID)
	s.True(result.FlatTaxTotal.Equal(decimal.NewFromInt(2)))
}

func (s *TaxCalculationServiceSuite) TestCountyRestrictionMatchesCaseInsensitive() {
	req := s.baseRequest()
	req.County = "  cook  "

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	appliedIDs := lo.Map(result.FlatTaxesApplied, func(a dto.AppliedFlatTax, _ int) string {
		return a.TaxID
	})
	s.Contains(appliedIDs, s.testData.flatTaxes.countyScoped.ID)

	// A different county drops the scoped tax.
	req.County = "DuPage"
	result, err = s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)
	appliedIDs = lo.Map(result.FlatTaxesApplied, func(a dto.AppliedFlatTax, _ int) string {
		return a.TaxID
	})
	s.NotContains(appliedIDs, s.testData.flatTaxes.countyScoped.ID)
}

func (s *TaxCalculationServiceSuite) TestTierRestriction() {
	req := s.baseRequest()
	req.CustomerLevel = 2

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)
	appliedIDs := lo.Map(result.FlatTaxesApplied, func(a dto.AppliedFlatTax, _ int) string {
		return a.TaxID
	})
	s.Contains(appliedIDs, s.testData.flatTaxes.tierScoped.ID)

	req.CustomerLevel = 1
	result, err = s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)
	appliedIDs = lo.Map(result.FlatTaxesApplied, func(a dto.AppliedFlatTax, _ int) string {
		return a.TaxID
	})
	s.NotContains(appliedIDs, s.testData.flatTaxes.tierScoped.ID)
}

func (s *TaxCalculationServiceSuite) TestArchivedTaxesAreSkipped() {
	result, err := s.service.CalculateOrderTax(s.GetContext(), s.baseRequest())
	s.NoError(err)

	for _, applied := range result.FlatTaxesApplied {
		s.NotEqual(s.testData.flatTaxes.archived.ID, applied.TaxID)
	}
}

func (s *TaxCalculationServiceSuite) TestApplyFlatTaxDisabled() {
	req := s.baseRequest()
	req.ApplyFlatTax = false

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	s.True(result.FlatTaxTotal.IsZero())
	s.Empty(result.FlatTaxesApplied)
	s.NotNil(result.TobaccoSalesTracking, "tobacco tracking is independent of flat taxes")
}

func (s *TaxCalculationServiceSuite) TestTobaccoSalesTracking() {
	req := dto.CalculateOrderTaxRequest{
		OrderID:      "order_tob",
		CustomerID:   "cust_1",
		ApplyFlatTax: false,
		Items: []dto.LineTaxRequest{
			{
				ProductID:     "prod_chew",
				ProductName:   "Chewing Tobacco Tin",
				BasePrice:     decimal.NewFromInt(25),
				Quantity:      2,
				TaxPercentage: decimal.NewFromInt(10),
				IsTobacco:     true,
			},
			{
				ProductID:   "prod_lighter",
				ProductName: "Lighter",
				BasePrice:   decimal.NewFromInt(3),
				Quantity:    1,
			},
		},
	}

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	s.NotNil(result.TobaccoSalesTracking)
	tracking := result.TobaccoSalesTracking
	s.Len(tracking.TobaccoItems, 1)
	s.Equal("prod_chew", tracking.TobaccoItems[0].ProductID)
	s.True(tracking.TotalTobaccoValue.Equal(decimal.NewFromInt(50)), "tobacco value %s", tracking.TotalTobaccoValue)
	s.True(tracking.TotalTobaccoTax.Equal(decimal.NewFromInt(5)), "tobacco tax %s", tracking.TotalTobaccoTax)
}

func (s *TaxCalculationServiceSuite) TestNoTobaccoTrackingWithoutTobaccoItems() {
	req := dto.CalculateOrderTaxRequest{
		OrderID:    "order_plain",
		CustomerID: "cust_1",
		Items: []dto.LineTaxRequest{
			{
				ProductID:   "prod_lighter",
				ProductName: "Lighter",
				BasePrice:   decimal.NewFromInt(3),
				Quantity:    1,
			},
		},
	}

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)
	s.Nil(result.TobaccoSalesTracking)

	count, err := s.GetStores().ComplianceRepo.Count(s.GetContext(), types.NewRegulatedSalesFilter())
	s.NoError(err)
	s.Equal(0, count)
}

func (s *TaxCalculationServiceSuite) TestAuditRecordPerCalculation() {
	req := s.baseRequest()

	_, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)
	_, err = s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	filter := types.NewTaxCalculationAuditFilter()
	filter.OrderID = req.OrderID
	count, err := s.GetStores().TaxAuditRepo.Count(s.GetContext(), filter)
	s.NoError(err)
	s.Equal(2, count, "recalculation appends a new audit record")

	audits, err := s.GetStores().TaxAuditRepo.List(s.GetContext(), filter)
	s.NoError(err)
	s.Len(audits, 2)
	for _, a := range audits {
		s.Equal(req.CustomerID, a.CustomerID)
		s.NotEmpty(a.RequestPayload)
		s.NotEmpty(a.ResultPayload)
		s.Equal(types.ReportingPeriodOf(time.Now().UTC()), a.ReportingPeriod)
	}
}

func (s *TaxCalculationServiceSuite) TestRegulatedSalesRecordCreated() {
	req := s.baseRequest()

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)
	s.NotNil(result.TobaccoSalesTracking)

	filter := types.NewRegulatedSalesFilter()
	filter.OrderID = req.OrderID
	records, err := s.GetStores().ComplianceRepo.List(s.GetContext(), filter)
	s.NoError(err)
	s.Len(records, 1)

	record := records[0]
	s.Equal(types.ReportingStatusPending, record.ReportingStatus)
	s.True(strings.HasPrefix(record.RecordNumber, types.SHORT_ID_PREFIX_REGULATED_SALES))
	s.Len(record.Products, 1)
	s.True(record.TotalValue.Equal(decimal.NewFromInt(30)))
	s.True(record.TotalTax.Equal(decimal.NewFromFloat(4.50)))
}

func (s *TaxCalculationServiceSuite) TestAuditFailureDoesNotFailCalculation() {
	s.GetStores().TaxAuditRepo.(*testutil.InMemoryTaxAuditStore).SetCreateError(
		ierr.NewError("audit store down").Mark(ierr.ErrDatabase))
	s.GetStores().ComplianceRepo.(*testutil.InMemoryComplianceStore).SetCreateError(
		ierr.NewError("compliance store down").Mark(ierr.ErrDatabase))

	result, err := s.service.CalculateOrderTax(s.GetContext(), s.baseRequest())
	s.NoError(err)
	s.NotNil(result)
	s.True(result.TotalTaxAmount.Equal(decimal.NewFromFloat(4.50)))
}

func (s *TaxCalculationServiceSuite) TestCatalogReadFailureDegradesToNoFlatTaxes() {
	params := s.serviceParams()
	params.FlatTaxRepo = failingFlatTaxRepo{}
	svc := NewTaxCalculationService(params)

	result, err := svc.CalculateOrderTax(s.GetContext(), s.baseRequest())
	s.NoError(err)
	s.True(result.FlatTaxTotal.IsZero())
	s.Empty(result.FlatTaxesApplied)
}

func (s *TaxCalculationServiceSuite) TestCalculateOrderTaxValidation() {
	req := s.baseRequest()
	req.OrderID = ""
	_, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	req = s.baseRequest()
	req.CustomerID = ""
	_, err = s.service.CalculateOrderTax(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))

	req = s.baseRequest()
	req.Items = nil
	_, err = s.service.CalculateOrderTax(s.GetContext(), req)
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *TaxCalculationServiceSuite) TestNegativeInputsAreClampedToZero() {
	req := dto.CalculateOrderTaxRequest{
		OrderID:      "order_neg",
		CustomerID:   "cust_1",
		ApplyFlatTax: true,
		Items: []dto.LineTaxRequest{
			{
				ProductID:     "prod_bad",
				ProductName:   "Bad Data",
				BasePrice:     decimal.NewFromInt(-10),
				Quantity:      -3,
				TaxPercentage: decimal.NewFromInt(-5),
			},
		},
	}

	result, err := s.service.CalculateOrderTax(s.GetContext(), req)
	s.NoError(err)

	line := result.ItemTaxDetails[0]
	s.True(line.ItemTotalBeforeTax.IsZero())
	s.True(line.TotalTaxAmount.IsZero())
	s.Equal(int64(0), line.Quantity)
}

func (s *TaxCalculationServiceSuite) TestApplyOrderTaxWritesBackLineItems() {
	lineItem := &order.LineItem{
		ID:          "order_line_1",
		OrderID:     "order_1",
		ProductID:   "prod_chew",
		ProductName: "Chewing Tobacco Tin",
		Quantity:    3,
		Price:       decimal.NewFromInt(10),
		BasePrice:   decimal.NewFromInt(10),
		BaseModel:   types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().OrderRepo.(*testutil.InMemoryOrderStore).AddLineItem(s.GetContext(), lineItem))

	result, err := s.service.ApplyOrderTax(s.GetContext(), s.baseRequest())
	s.NoError(err)
	s.NotNil(result)

	lines, err := s.GetStores().OrderRepo.GetLineItems(s.GetContext(), "order_1")
	s.NoError(err)
	s.Len(lines, 1)
	s.True(lines[0].FlatTaxAmount.Equal(decimal.NewFromFloat(4.50)), "flat tax %s", lines[0].FlatTaxAmount)
	s.True(lines[0].Price.Equal(decimal.NewFromFloat(11.50)), "unit price %s", lines[0].Price)
}

func (s *TaxCalculationServiceSuite) TestProjectDisplayPrices() {
	products := []*product.Product{
		{
			ID:            "prod_chew",
			Name:          "Chewing Tobacco Tin",
			Price:         decimal.NewFromInt(10),
			TaxPercentage: decimal.NewFromInt(10),
			IsTobacco:     true,
			BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
		},
		{
			ID:        "prod_lighter",
			Name:      "Lighter",
			Price:     decimal.NewFromInt(3),
			BaseModel: types.GetDefaultBaseModel(s.GetContext()),
		},
	}
	store := s.GetStores().ProductRepo.(*testutil.InMemoryProductStore)
	for _, p := range products {
		s.NoError(store.Add(s.GetContext(), p))
	}

	projections, err := s.service.ProjectDisplayPrices(s.GetContext(), dto.ProjectDisplayPricesRequest{
		CustomerID:   "cust_1",
		ApplyFlatTax: true,
		ProductIDs:   []string{"prod_chew", "prod_lighter"},
	})
	s.NoError(err)
	s.Len(projections, 2)

	chew := projections[0]
	s.Equal("prod_chew", chew.ProductID)
	s.True(chew.OriginalPrice.Equal(decimal.NewFromInt(10)))
	// 10 + 10% percentage tax + 1.50 per-unit tobacco tax.
	s.True(chew.DisplayPrice.Equal(decimal.NewFromFloat(12.50)), "display price %s", chew.DisplayPrice)
	s.True(chew.FlatTaxAmount.Equal(decimal.NewFromFloat(1.50)))
	s.True(chew.HasTaxIncluded)
	s.True(chew.HasTobaccoTax)

	lighter := projections[1]
	s.True(lighter.DisplayPrice.Equal(decimal.NewFromInt(3)))
	s.False(lighter.HasTaxIncluded)
	s.False(lighter.HasTobaccoTax)
}

func (s *TaxCalculationServiceSuite) TestProjectDisplayPricesAgreesWithCheckout() {
	p := &product.Product{
		ID:            "prod_chew",
		Name:          "Chewing Tobacco Tin",
		Price:         decimal.NewFromInt(10),
		TaxPercentage: decimal.NewFromInt(10),
		IsTobacco:     true,
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}
	s.NoError(s.GetStores().ProductRepo.(*testutil.InMemoryProductStore).Add(s.GetContext(), p))

	projections, err := s.service.ProjectDisplayPrices(s.GetContext(), dto.ProjectDisplayPricesRequest{
		CustomerID:   "cust_1",
		ApplyFlatTax: true,
		ProductIDs:   []string{p.ID},
	})
	s.NoError(err)
	s.Len(projections, 1)

	checkout, err := s.service.CalculateOrderTax(s.GetContext(), dto.CalculateOrderTaxRequest{
		OrderID:      "order_parity",
		CustomerID:   "cust_1",
		ApplyFlatTax: true,
		Items: []dto.LineTaxRequest{
			{
				ProductID:     p.ID,
				ProductName:   p.Name,
				BasePrice:     p.Price,
				Quantity:      1,
				TaxPercentage: p.TaxPercentage,
				IsTobacco:     p.IsTobacco,
				FlatTaxes:     p.FlatTaxes,
			},
		},
	})
	s.NoError(err)

	s.True(projections[0].DisplayPrice.Equal(checkout.ItemTaxDetails[0].FinalPricePerUnit.Round(2)),
		"display %s vs checkout %s", projections[0].DisplayPrice, checkout.ItemTaxDetails[0].FinalPricePerUnit)
}

func (s *TaxCalculationServiceSuite) TestProjectDisplayPricesRequiresProductIDs() {
	_, err := s.service.ProjectDisplayPrices(s.GetContext(), dto.ProjectDisplayPricesRequest{
		CustomerID: "cust_1",
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

// failingFlatTaxRepo simulates an unavailable catalog store.
type failingFlatTaxRepo struct{}

func (failingFlatTaxRepo) Create(ctx context.Context, t *flattax.FlatTax) error {
	return ierr.NewError("catalog unavailable").Mark(ierr.ErrDatabase)
}

func (failingFlatTaxRepo) Get(ctx context.Context, id string) (*flattax.FlatTax, error) {
	return nil, ierr.NewError("catalog unavailable").Mark(ierr.ErrDatabase)
}

func (failingFlatTaxRepo) List(ctx context.Context, filter *types.FlatTaxFilter) ([]*flattax.FlatTax, error) {
	return nil, ierr.NewError("catalog unavailable").Mark(ierr.ErrDatabase)
}

func (failingFlatTaxRepo) Count(ctx context.Context, filter *types.FlatTaxFilter) (int, error) {
	return 0, ierr.NewError("catalog unavailable").Mark(ierr.ErrDatabase)
}

func (failingFlatTaxRepo) Update(ctx context.Context, t *flattax.FlatTax) error {
	return ierr.NewError("catalog unavailable").Mark(ierr.ErrDatabase)
}

func (failingFlatTaxRepo) Delete(ctx context.Context, t *flattax.FlatTax) error {
	return ierr.NewError("catalog unavailable").Mark(ierr.ErrDatabase)
}
