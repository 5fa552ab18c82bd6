package service

import (
	"github.com/midwaywholesale/pricing/internal/config"
	"github.com/midwaywholesale/pricing/internal/domain/category"
	"github.com/midwaywholesale/pricing/internal/domain/compliance"
	"github.com/midwaywholesale/pricing/internal/domain/flattax"
	"github.com/midwaywholesale/pricing/internal/domain/order"
	"github.com/midwaywholesale/pricing/internal/domain/product"
	"github.com/midwaywholesale/pricing/internal/domain/taxaudit"
	"github.com/midwaywholesale/pricing/internal/logger"
)

// ServiceParams holds common dependencies for services
type ServiceParams struct {
	Logger *logger.Logger
	Config *config.Configuration

	// Repositories
	FlatTaxRepo    flattax.Repository
	ProductRepo    product.Repository
	CategoryRepo   category.Repository
	OrderRepo      order.Repository
	TaxAuditRepo   taxaudit.Repository
	ComplianceRepo compliance.Repository
}
