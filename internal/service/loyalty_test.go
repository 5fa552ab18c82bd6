package service

import (
	"testing"

	"github.com/midwaywholesale/pricing/internal/domain/category"
	"github.com/midwaywholesale/pricing/internal/domain/order"
	"github.com/midwaywholesale/pricing/internal/domain/product"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/testutil"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type LoyaltyServiceSuite struct {
	testutil.BaseServiceTestSuite
	service LoyaltyService
}

func TestLoyaltyService(t *testing.T) {
	suite.Run(t, new(LoyaltyServiceSuite))
}

func (s *LoyaltyServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewLoyaltyService(ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		ProductRepo:  s.GetStores().ProductRepo,
		CategoryRepo: s.GetStores().CategoryRepo,
		OrderRepo:    s.GetStores().OrderRepo,
	})
}

func (s *LoyaltyServiceSuite) TearDownTest() {
	s.BaseServiceTestSuite.TearDownTest()
}

func (s *LoyaltyServiceSuite) orderStore() *testutil.InMemoryOrderStore {
	return s.GetStores().OrderRepo.(*testutil.InMemoryOrderStore)
}

func (s *LoyaltyServiceSuite) addCategory(id string, excluded bool) {
	s.NoError(s.GetStores().CategoryRepo.(*testutil.InMemoryCategoryStore).Add(s.GetContext(), &category.Category{
		ID:                 id,
		Name:               id,
		ExcludeFromLoyalty: excluded,
		BaseModel:          types.GetDefaultBaseModel(s.GetContext()),
	}))
}

func (s *LoyaltyServiceSuite) TestExcludedCategoryStaysOutOfBase() {
	s.addCategory("cat_tobacco", true)
	s.addCategory("cat_general", false)

	s.NoError(s.orderStore().AddLineItem(s.GetContext(), &order.LineItem{
		ID:         "order_line_1",
		OrderID:    "order_1",
		ProductID:  "prod_carton",
		CategoryID: "cat_tobacco",
		Quantity:   1,
		Price:      decimal.NewFromInt(100),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))
	s.NoError(s.orderStore().AddLineItem(s.GetContext(), &order.LineItem{
		ID:         "order_line_2",
		OrderID:    "order_1",
		ProductID:  "prod_snacks",
		CategoryID: "cat_general",
		Quantity:   1,
		Price:      decimal.NewFromInt(50),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))

	base, err := s.service.EligibleBase(s.GetContext(), "order_1", decimal.NewFromInt(150))
	s.NoError(err)
	s.True(base.Equal(decimal.NewFromInt(50)), "eligible base %s", base)
}

func (s *LoyaltyServiceSuite) TestReconstructsTaxExclusiveBase() {
	s.addCategory("cat_general", false)

	// Stored unit price 11.00 is tax-inclusive at 10%; the pre-tax unit
	// price is 10.00, and the stored flat tax amount is stripped afterwards.
	s.NoError(s.orderStore().AddLineItem(s.GetContext(), &order.LineItem{
		ID:            "order_line_1",
		OrderID:       "order_1",
		ProductID:     "prod_chew",
		CategoryID:    "cat_general",
		Quantity:      2,
		Price:         decimal.NewFromInt(11),
		TaxPercentage: decimal.NewFromInt(10),
		FlatTaxAmount: decimal.NewFromFloat(1.50),
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}))

	base, err := s.service.EligibleBase(s.GetContext(), "order_1", decimal.NewFromInt(22))
	s.NoError(err)
	s.True(base.Equal(decimal.NewFromFloat(18.50)), "eligible base %s", base)
}

func (s *LoyaltyServiceSuite) TestCategoryResolvedThroughProductWhenLineHasNone() {
	s.addCategory("cat_tobacco", true)
	s.NoError(s.GetStores().ProductRepo.(*testutil.InMemoryProductStore).Add(s.GetContext(), &product.Product{
		ID:         "prod_carton",
		Name:       "Cigarette Carton",
		CategoryID: "cat_tobacco",
		Price:      decimal.NewFromInt(100),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))

	s.NoError(s.orderStore().AddLineItem(s.GetContext(), &order.LineItem{
		ID:        "order_line_1",
		OrderID:   "order_1",
		ProductID: "prod_carton",
		Quantity:  1,
		Price:     decimal.NewFromInt(100),
		BaseModel: types.GetDefaultBaseModel(s.GetContext()),
	}))

	base, err := s.service.EligibleBase(s.GetContext(), "order_1", decimal.NewFromInt(100))
	s.NoError(err)
	s.True(base.IsZero(), "eligible base %s", base)
}

func (s *LoyaltyServiceSuite) TestFallbackWhenLineItemsUnavailable() {
	s.orderStore().SetGetLineItemsError(
		ierr.NewError("order store down").Mark(ierr.ErrDatabase))

	base, err := s.service.EligibleBase(s.GetContext(), "order_1", decimal.NewFromInt(200))
	s.NoError(err)
	s.True(base.Equal(decimal.NewFromInt(170)), "fallback base %s", base)
}

func (s *LoyaltyServiceSuite) TestFallbackWhenCategoryLookupFails() {
	// The line references a category that does not exist.
	s.NoError(s.orderStore().AddLineItem(s.GetContext(), &order.LineItem{
		ID:         "order_line_1",
		OrderID:    "order_1",
		ProductID:  "prod_mystery",
		CategoryID: "cat_missing",
		Quantity:   1,
		Price:      decimal.NewFromInt(40),
		BaseModel:  types.GetDefaultBaseModel(s.GetContext()),
	}))

	base, err := s.service.EligibleBase(s.GetContext(), "order_1", decimal.NewFromInt(100))
	s.NoError(err)
	s.True(base.Equal(decimal.NewFromInt(85)), "fallback base %s", base)
}

func (s *LoyaltyServiceSuite) TestRequiresOrderID() {
	_, err := s.service.EligibleBase(s.GetContext(), "", decimal.NewFromInt(100))
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *LoyaltyServiceSuite) TestNegativeBaseClampsToZero() {
	s.addCategory("cat_general", false)

	// Flat tax exceeding the line value cannot drive the base negative.
	s.NoError(s.orderStore().AddLineItem(s.GetContext(), &order.LineItem{
		ID:            "order_line_1",
		OrderID:       "order_1",
		ProductID:     "prod_cheap",
		CategoryID:    "cat_general",
		Quantity:      1,
		Price:         decimal.NewFromInt(1),
		FlatTaxAmount: decimal.NewFromInt(5),
		BaseModel:     types.GetDefaultBaseModel(s.GetContext()),
	}))

	base, err := s.service.EligibleBase(s.GetContext(), "order_1", decimal.NewFromInt(1))
	s.NoError(err)
	s.True(base.IsZero(), "eligible base %s", base)
}

func (s *LoyaltyServiceSuite) TestEmptyOrderYieldsZeroBase() {
	base, err := s.service.EligibleBase(s.GetContext(), "order_without_lines", decimal.NewFromInt(75))
	s.NoError(err)
	s.True(base.IsZero())
}
