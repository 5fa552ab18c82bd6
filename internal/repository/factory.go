package repository

import (
	"github.com/jmoiron/sqlx"
	"github.com/midwaywholesale/pricing/internal/cache"
	"github.com/midwaywholesale/pricing/internal/domain/category"
	"github.com/midwaywholesale/pricing/internal/domain/compliance"
	"github.com/midwaywholesale/pricing/internal/domain/flattax"
	"github.com/midwaywholesale/pricing/internal/domain/order"
	"github.com/midwaywholesale/pricing/internal/domain/product"
	"github.com/midwaywholesale/pricing/internal/domain/taxaudit"
	"github.com/midwaywholesale/pricing/internal/logger"
	postgresRepo "github.com/midwaywholesale/pricing/internal/repository/postgres"
)

func NewFlatTaxRepository(db *sqlx.DB, logger *logger.Logger, cache cache.Cache) flattax.Repository {
	return postgresRepo.NewFlatTaxRepository(db, logger, cache)
}

func NewProductRepository(db *sqlx.DB, logger *logger.Logger, cache cache.Cache) product.Repository {
	return postgresRepo.NewProductRepository(db, logger, cache)
}

func NewCategoryRepository(db *sqlx.DB, logger *logger.Logger, cache cache.Cache) category.Repository {
	return postgresRepo.NewCategoryRepository(db, logger, cache)
}

func NewOrderRepository(db *sqlx.DB, logger *logger.Logger) order.Repository {
	return postgresRepo.NewOrderRepository(db, logger)
}

func NewTaxAuditRepository(db *sqlx.DB, logger *logger.Logger) taxaudit.Repository {
	return postgresRepo.NewTaxAuditRepository(db, logger)
}

func NewComplianceRepository(db *sqlx.DB, logger *logger.Logger) compliance.Repository {
	return postgresRepo.NewComplianceRepository(db, logger)
}
