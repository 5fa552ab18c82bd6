package testutil

import (
	"context"
	"time"

	"github.com/midwaywholesale/pricing/internal/config"
	"github.com/midwaywholesale/pricing/internal/domain/category"
	"github.com/midwaywholesale/pricing/internal/domain/compliance"
	"github.com/midwaywholesale/pricing/internal/domain/flattax"
	"github.com/midwaywholesale/pricing/internal/domain/order"
	"github.com/midwaywholesale/pricing/internal/domain/product"
	"github.com/midwaywholesale/pricing/internal/domain/taxaudit"
	"github.com/midwaywholesale/pricing/internal/logger"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	FlatTaxRepo    flattax.Repository
	ProductRepo    product.Repository
	CategoryRepo   category.Repository
	OrderRepo      order.Repository
	TaxAuditRepo   taxaudit.Repository
	ComplianceRepo compliance.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx    context.Context
	stores Stores
	logger *logger.Logger
	config *config.Configuration
	now    time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	cfg := &config.Configuration{
		Deployment: config.DeploymentConfig{Mode: types.ModeLocal},
		Logging: config.LoggingConfig{
			Level: types.LogLevelInfo,
		},
		Loyalty: config.LoyaltyConfig{
			FallbackRate: config.DefaultLoyaltyFallbackRate,
		},
	}
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = GetContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	s.stores = Stores{
		FlatTaxRepo:    NewInMemoryFlatTaxStore(),
		ProductRepo:    NewInMemoryProductStore(),
		CategoryRepo:   NewInMemoryCategoryStore(),
		OrderRepo:      NewInMemoryOrderStore(),
		TaxAuditRepo:   NewInMemoryTaxAuditStore(),
		ComplianceRepo: NewInMemoryComplianceStore(),
	}
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.FlatTaxRepo.(*InMemoryFlatTaxStore).Clear()
	s.stores.ProductRepo.(*InMemoryProductStore).Clear()
	s.stores.CategoryRepo.(*InMemoryCategoryStore).Clear()
	s.stores.OrderRepo.(*InMemoryOrderStore).Clear()
	s.stores.TaxAuditRepo.(*InMemoryTaxAuditStore).Clear()
	s.stores.ComplianceRepo.(*InMemoryComplianceStore).Clear()
}

// GetContext returns the test context with the default identity set
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test repository set
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time in UTC
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}
