package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/midwaywholesale/pricing/internal/cache"
	domainCategory "github.com/midwaywholesale/pricing/internal/domain/category"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/logger"
	"github.com/midwaywholesale/pricing/internal/types"
)

type categoryRepository struct {
	db    *sqlx.DB
	log   *logger.Logger
	cache cache.Cache
}

func NewCategoryRepository(db *sqlx.DB, log *logger.Logger, cache cache.Cache) domainCategory.Repository {
	return &categoryRepository{
		db:    db,
		log:   log,
		cache: cache,
	}
}

type categoryRow struct {
	ID                 string    `db:"id"`
	Name               string    `db:"name"`
	ExcludeFromLoyalty bool      `db:"exclude_from_loyalty"`
	Status             string    `db:"status"`
	CreatedAt          time.Time `db:"created_at"`
	UpdatedAt          time.Time `db:"updated_at"`
	CreatedBy          string    `db:"created_by"`
	UpdatedBy          string    `db:"updated_by"`
}

func (r *categoryRepository) Get(ctx context.Context, id string) (*domainCategory.Category, error) {
	if value, found := r.cache.Get(ctx, cache.GenerateKey(cache.PrefixCategory, id)); found {
		if c, ok := value.(*domainCategory.Category); ok {
			return c, nil
		}
	}

	var row categoryRow
	err := r.db.GetContext(ctx, &row, `
		SELECT id, name, exclude_from_loyalty, status, created_at, updated_at, created_by, updated_by
		FROM categories
		WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Category with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"category_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get category").
			Mark(ierr.ErrDatabase)
	}

	c := &domainCategory.Category{
		ID:                 row.ID,
		Name:               row.Name,
		ExcludeFromLoyalty: row.ExcludeFromLoyalty,
		BaseModel: types.BaseModel{
			Status:    types.Status(row.Status),
			CreatedAt: row.CreatedAt,
			UpdatedAt: row.UpdatedAt,
			CreatedBy: row.CreatedBy,
			UpdatedBy: row.UpdatedBy,
		},
	}

	r.cache.Set(ctx, cache.GenerateKey(cache.PrefixCategory, id), c, cache.DefaultExpiration)
	return c, nil
}
