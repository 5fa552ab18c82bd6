package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/midwaywholesale/pricing/internal/cache"
	domainFlatTax "github.com/midwaywholesale/pricing/internal/domain/flattax"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/logger"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

type flatTaxRepository struct {
	db    *sqlx.DB
	log   *logger.Logger
	cache cache.Cache
}

func NewFlatTaxRepository(db *sqlx.DB, log *logger.Logger, cache cache.Cache) domainFlatTax.Repository {
	return &flatTaxRepository{
		db:    db,
		log:   log,
		cache: cache,
	}
}

type flatTaxRow struct {
	ID                 string          `db:"id"`
	Name               string          `db:"name"`
	TaxType            string          `db:"tax_type"`
	Amount             decimal.Decimal `db:"amount"`
	CustomerTiers      pq.Int64Array   `db:"customer_tiers"`
	CountyRestriction  sql.NullString  `db:"county_restriction"`
	ZipRestriction     sql.NullString  `db:"zip_restriction"`
	ApplicableProducts pq.StringArray  `db:"applicable_products"`
	Status             string          `db:"status"`
	CreatedAt          time.Time       `db:"created_at"`
	UpdatedAt          time.Time       `db:"updated_at"`
	CreatedBy          string          `db:"created_by"`
	UpdatedBy          string          `db:"updated_by"`
}

func (r flatTaxRow) toDomain() *domainFlatTax.FlatTax {
	tiers := make([]int, 0, len(r.CustomerTiers))
	for _, t := range r.CustomerTiers {
		tiers = append(tiers, int(t))
	}

	var county, zip *string
	if r.CountyRestriction.Valid {
		county = &r.CountyRestriction.String
	}
	if r.ZipRestriction.Valid {
		zip = &r.ZipRestriction.String
	}

	return &domainFlatTax.FlatTax{
		ID:                 r.ID,
		Name:               r.Name,
		TaxType:            types.FlatTaxType(r.TaxType),
		Amount:             r.Amount,
		CustomerTiers:      tiers,
		CountyRestriction:  county,
		ZipRestriction:     zip,
		ApplicableProducts: r.ApplicableProducts,
		BaseModel: types.BaseModel{
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

func fromDomainFlatTax(t *domainFlatTax.FlatTax) flatTaxRow {
	tiers := make(pq.Int64Array, 0, len(t.CustomerTiers))
	for _, tier := range t.CustomerTiers {
		tiers = append(tiers, int64(tier))
	}

	row := flatTaxRow{
		ID:                 t.ID,
		Name:               t.Name,
		TaxType:            string(t.TaxType),
		Amount:             t.Amount,
		CustomerTiers:      tiers,
		ApplicableProducts: pq.StringArray(t.ApplicableProducts),
		Status:             string(t.Status),
		CreatedAt:          t.CreatedAt,
		UpdatedAt:          t.UpdatedAt,
		CreatedBy:          t.CreatedBy,
		UpdatedBy:          t.UpdatedBy,
	}
	if t.CountyRestriction != nil {
		row.CountyRestriction = sql.NullString{String: *t.CountyRestriction, Valid: true}
	}
	if t.ZipRestriction != nil {
		row.ZipRestriction = sql.NullString{String: *t.ZipRestriction, Valid: true}
	}
	return row
}

const flatTaxColumns = `id, name, tax_type, amount, customer_tiers, county_restriction,
	zip_restriction, applicable_products, status, created_at, updated_at, created_by, updated_by`

func (r *flatTaxRepository) Create(ctx context.Context, t *domainFlatTax.FlatTax) error {
	r.log.Debugw("creating flat tax",
		"flat_tax_id", t.ID,
		"name", t.Name,
		"tax_type", t.TaxType,
	)

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO flat_taxes (`+flatTaxColumns+`)
		VALUES (:id, :name, :tax_type, :amount, :customer_tiers, :county_restriction,
			:zip_restriction, :applicable_products, :status, :created_at, :updated_at,
			:created_by, :updated_by)`,
		fromDomainFlatTax(t))
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHint("A flat tax with this identifier already exists").
				WithReportableDetails(map[string]any{
					"flat_tax_id": t.ID,
				}).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to create flat tax").
			WithReportableDetails(map[string]any{
				"flat_tax_id": t.ID,
				"name":        t.Name,
			}).
			Mark(ierr.ErrDatabase)
	}

	r.cache.DeleteByPrefix(ctx, cache.PrefixFlatTax)
	return nil
}

func (r *flatTaxRepository) Get(ctx context.Context, id string) (*domainFlatTax.FlatTax, error) {
	if cached := r.getCache(ctx, id); cached != nil {
		return cached, nil
	}

	r.log.Debugw("getting flat tax", "flat_tax_id", id)

	var row flatTaxRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+flatTaxColumns+`
		FROM flat_taxes
		WHERE id = $1 AND status != $2`,
		id, types.StatusDeleted)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Flat tax with ID %s was not found", id).
				WithReportableDetails(map[string]any{
					"flat_tax_id": id,
				}).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get flat tax").
			Mark(ierr.ErrDatabase)
	}

	flatTax := row.toDomain()
	r.setCache(ctx, flatTax)
	return flatTax, nil
}

func (r *flatTaxRepository) List(ctx context.Context, filter *types.FlatTaxFilter) ([]*domainFlatTax.FlatTax, error) {
	query, args, err := r.buildListQuery(`SELECT `+flatTaxColumns+` FROM flat_taxes`, filter, true)
	if err != nil {
		return nil, err
	}

	var rows []flatTaxRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list flat taxes").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*domainFlatTax.FlatTax, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}

	r.log.Debugw("listing flat taxes", "filter", filter, "count", len(result))
	return result, nil
}

func (r *flatTaxRepository) Count(ctx context.Context, filter *types.FlatTaxFilter) (int, error) {
	query, args, err := r.buildListQuery(`SELECT COUNT(*) FROM flat_taxes`, filter, false)
	if err != nil {
		return 0, err
	}

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count flat taxes").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *flatTaxRepository) Update(ctx context.Context, t *domainFlatTax.FlatTax) error {
	t.UpdatedAt = time.Now().UTC()
	t.UpdatedBy = types.GetUserID(ctx)

	res, err := r.db.NamedExecContext(ctx, `
		UPDATE flat_taxes SET
			name = :name,
			amount = :amount,
			customer_tiers = :customer_tiers,
			county_restriction = :county_restriction,
			zip_restriction = :zip_restriction,
			applicable_products = :applicable_products,
			updated_at = :updated_at,
			updated_by = :updated_by
		WHERE id = :id`,
		fromDomainFlatTax(t))
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to update flat tax").
			Mark(ierr.ErrDatabase)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ierr.NewError("flat tax not found").
			WithHintf("Flat tax with ID %s was not found", t.ID).
			Mark(ierr.ErrNotFound)
	}

	r.cache.DeleteByPrefix(ctx, cache.PrefixFlatTax)
	return nil
}

// Delete archives the flat tax, keeping its history available to audit
// queries while removing it from resolution.
func (r *flatTaxRepository) Delete(ctx context.Context, t *domainFlatTax.FlatTax) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE flat_taxes SET status = $1, updated_at = $2, updated_by = $3
		WHERE id = $4`,
		types.StatusArchived, time.Now().UTC(), types.GetUserID(ctx), t.ID)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to delete flat tax").
			Mark(ierr.ErrDatabase)
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return ierr.NewError("flat tax not found").
			WithHintf("Flat tax with ID %s was not found", t.ID).
			Mark(ierr.ErrNotFound)
	}

	r.cache.DeleteByPrefix(ctx, cache.PrefixFlatTax)
	return nil
}

// buildListQuery applies the filter to a base query. Pagination and sort
// are only applied when paginate is true.
func (r *flatTaxRepository) buildListQuery(base string, filter *types.FlatTaxFilter, paginate bool) (string, []interface{}, error) {
	if filter == nil {
		filter = types.NewFlatTaxFilter()
	}

	query := base + ` WHERE status = ?`
	args := []interface{}{filter.GetStatus()}

	if len(filter.FlatTaxIDs) > 0 {
		query += ` AND id IN (?)`
		args = append(args, filter.FlatTaxIDs)
	}

	if filter.TaxType != "" {
		query += ` AND tax_type = ?`
		args = append(args, string(filter.TaxType))
	}

	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			query += ` AND created_at >= ?`
			args = append(args, *filter.StartTime)
		}
		if filter.EndTime != nil {
			query += ` AND created_at <= ?`
			args = append(args, *filter.EndTime)
		}
	}

	if paginate {
		query += ` ORDER BY created_at ` + sortOrder(filter.QueryFilter)
		if !filter.IsUnlimited() {
			query += ` LIMIT ? OFFSET ?`
			args = append(args, filter.GetLimit(), filter.GetOffset())
		}
	}

	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, ierr.WithError(err).
			WithHint("Failed to build flat tax query").
			Mark(ierr.ErrDatabase)
	}

	return r.db.Rebind(query), args, nil
}

func (r *flatTaxRepository) getCache(ctx context.Context, id string) *domainFlatTax.FlatTax {
	if value, found := r.cache.Get(ctx, cache.GenerateKey(cache.PrefixFlatTax, id)); found {
		if flatTax, ok := value.(*domainFlatTax.FlatTax); ok {
			return flatTax
		}
	}
	return nil
}

func (r *flatTaxRepository) setCache(ctx context.Context, t *domainFlatTax.FlatTax) {
	r.cache.Set(ctx, cache.GenerateKey(cache.PrefixFlatTax, t.ID), t, cache.DefaultExpiration)
}
