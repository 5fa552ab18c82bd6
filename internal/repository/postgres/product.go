package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/midwaywholesale/pricing/internal/cache"
	domainProduct "github.com/midwaywholesale/pricing/internal/domain/product"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/logger"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

type productRepository struct {
	db    *sqlx.DB
	log   *logger.Logger
	cache cache.Cache
}

func NewProductRepository(db *sqlx.DB, log *logger.Logger, cache cache.Cache) domainProduct.Repository {
	return &productRepository{
		db:    db,
		log:   log,
		cache: cache,
	}
}

type productRow struct {
	ID            string          `db:"id"`
	Name          string          `db:"name"`
	CategoryID    string          `db:"category_id"`
	Price         decimal.Decimal `db:"price"`
	TaxPercentage decimal.Decimal `db:"tax_percentage"`
	IsTobacco     bool            `db:"is_tobacco"`
	FlatTaxIDs    pq.StringArray  `db:"flat_tax_ids"`
	// flat_tax_ids is nullable: NULL is the explicit "no flat taxes"
	// assignment, distinct from an empty list.
	FlatTaxIDsNull bool      `db:"flat_tax_ids_null"`
	Status         string    `db:"status"`
	CreatedAt      time.Time `db:"created_at"`
	UpdatedAt      time.Time `db:"updated_at"`
	CreatedBy      string    `db:"created_by"`
	UpdatedBy      string    `db:"updated_by"`
}

func (r productRow) toDomain() *domainProduct.Product {
	return &domainProduct.Product{
		ID:            r.ID,
		Name:          r.Name,
		CategoryID:    r.CategoryID,
		Price:         r.Price,
		TaxPercentage: r.TaxPercentage,
		IsTobacco:     r.IsTobacco,
		FlatTaxes:     domainProduct.AssignmentFromStored(r.FlatTaxIDs, r.FlatTaxIDsNull),
		BaseModel: types.BaseModel{
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

const productColumns = `id, name, category_id, price, tax_percentage, is_tobacco,
	COALESCE(flat_tax_ids, '{}') AS flat_tax_ids, flat_tax_ids IS NULL AS flat_tax_ids_null,
	status, created_at, updated_at, created_by, updated_by`

func (r *productRepository) Get(ctx context.Context, id string) (*domainProduct.Product, error) {
	if value, found := r.cache.Get(ctx, cache.GenerateKey(cache.PrefixProduct, id)); found {
		if p, ok := value.(*domainProduct.Product); ok {
			return p, nil
		}
	}

	var row productRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+productColumns+`
		FROM products
		WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Product with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"product_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get product").
			Mark(ierr.ErrDatabase)
	}

	p := row.toDomain()
	r.cache.Set(ctx, cache.GenerateKey(cache.PrefixProduct, id), p, cache.DefaultExpiration)
	return p, nil
}

func (r *productRepository) ListByIDs(ctx context.Context, ids []string) ([]*domainProduct.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query, args, err := sqlx.In(`
		SELECT `+productColumns+`
		FROM products
		WHERE id IN (?) AND status != ?`,
		ids, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to build product query").
			Mark(ierr.ErrDatabase)
	}

	var rows []productRow
	if err := r.db.SelectContext(ctx, &rows, r.db.Rebind(query), args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list products").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*domainProduct.Product, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}

	r.log.Debugw("listing products by ids", "requested", len(ids), "found", len(result))
	return result, nil
}
