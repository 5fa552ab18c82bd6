package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	domainCompliance "github.com/midwaywholesale/pricing/internal/domain/compliance"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/logger"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

type complianceRepository struct {
	db  *sqlx.DB
	log *logger.Logger
}

func NewComplianceRepository(db *sqlx.DB, log *logger.Logger) domainCompliance.Repository {
	return &complianceRepository{
		db:  db,
		log: log,
	}
}

type regulatedSalesRow struct {
	ID              string          `db:"id"`
	RecordNumber    string          `db:"record_number"`
	OrderID         string          `db:"order_id"`
	CustomerID      string          `db:"customer_id"`
	SaleDate        time.Time       `db:"sale_date"`
	Products        []byte          `db:"products"`
	TotalValue      decimal.Decimal `db:"total_value"`
	TotalTax        decimal.Decimal `db:"total_tax"`
	ReportingPeriod string          `db:"reporting_period"`
	ReportingStatus string          `db:"reporting_status"`
	CreatedAt       time.Time       `db:"created_at"`
	CreatedBy       string          `db:"created_by"`
}

func (r regulatedSalesRow) toDomain() (*domainCompliance.RegulatedSalesRecord, error) {
	var products []domainCompliance.RegulatedProduct
	if len(r.Products) > 0 {
		if err := json.Unmarshal(r.Products, &products); err != nil {
			return nil, ierr.WithError(err).
				WithHint("Failed to decode regulated sale products").
				WithReportableDetails(map[string]any{
					"record_id": r.ID,
				}).
				Mark(ierr.ErrDatabase)
		}
	}

	return &domainCompliance.RegulatedSalesRecord{
		ID:              r.ID,
		RecordNumber:    r.RecordNumber,
		OrderID:         r.OrderID,
		CustomerID:      r.CustomerID,
		SaleDate:        r.SaleDate,
		Products:        products,
		TotalValue:      r.TotalValue,
		TotalTax:        r.TotalTax,
		ReportingPeriod: r.ReportingPeriod,
		ReportingStatus: types.ReportingStatus(r.ReportingStatus),
		CreatedAt:       r.CreatedAt,
		CreatedBy:       r.CreatedBy,
	}, nil
}

const regulatedSalesColumns = `id, record_number, order_id, customer_id, sale_date, products,
	total_value, total_tax, reporting_period, reporting_status, created_at, created_by`

func (r *complianceRepository) Create(ctx context.Context, rec *domainCompliance.RegulatedSalesRecord) error {
	products, err := json.Marshal(rec.Products)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to encode regulated sale products").
			Mark(ierr.ErrValidation)
	}

	row := regulatedSalesRow{
		ID:              rec.ID,
		RecordNumber:    rec.RecordNumber,
		OrderID:         rec.OrderID,
		CustomerID:      rec.CustomerID,
		SaleDate:        rec.SaleDate,
		Products:        products,
		TotalValue:      rec.TotalValue,
		TotalTax:        rec.TotalTax,
		ReportingPeriod: rec.ReportingPeriod,
		ReportingStatus: rec.ReportingStatus.String(),
		CreatedAt:       rec.CreatedAt,
		CreatedBy:       rec.CreatedBy,
	}

	_, err = r.db.NamedExecContext(ctx, `
		INSERT INTO regulated_sales_records (`+regulatedSalesColumns+`)
		VALUES (:id, :record_number, :order_id, :customer_id, :sale_date, :products,
			:total_value, :total_tax, :reporting_period, :reporting_status, :created_at, :created_by)`,
		row)
	if err != nil {
		if isUniqueViolation(err) {
			return ierr.WithError(err).
				WithHintf("A regulated sales record with number %s already exists", rec.RecordNumber).
				Mark(ierr.ErrAlreadyExists)
		}
		return ierr.WithError(err).
			WithHint("Failed to persist regulated sales record").
			WithReportableDetails(map[string]any{
				"record_id": rec.ID,
				"order_id":  rec.OrderID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *complianceRepository) Get(ctx context.Context, id string) (*domainCompliance.RegulatedSalesRecord, error) {
	var row regulatedSalesRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+regulatedSalesColumns+`
		FROM regulated_sales_records
		WHERE id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Regulated sales record with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get regulated sales record").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain()
}

func (r *complianceRepository) List(ctx context.Context, filter *types.RegulatedSalesFilter) ([]*domainCompliance.RegulatedSalesRecord, error) {
	query, args := r.buildListQuery(`SELECT `+regulatedSalesColumns+` FROM regulated_sales_records`, filter, true)

	var rows []regulatedSalesRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list regulated sales records").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*domainCompliance.RegulatedSalesRecord, 0, len(rows))
	for _, row := range rows {
		rec, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	return result, nil
}

func (r *complianceRepository) Count(ctx context.Context, filter *types.RegulatedSalesFilter) (int, error) {
	query, args := r.buildListQuery(`SELECT COUNT(*) FROM regulated_sales_records`, filter, false)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count regulated sales records").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *complianceRepository) MarkFiled(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE regulated_sales_records
		SET reporting_status = $1
		WHERE id = $2 AND reporting_status = $3`,
		types.ReportingStatusFiled.String(), id, types.ReportingStatusPending.String())
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to mark regulated sales record as filed").
			Mark(ierr.ErrDatabase)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to mark regulated sales record as filed").
			Mark(ierr.ErrDatabase)
	}
	if affected == 0 {
		return ierr.NewErrorf("regulated sales record %s not found or already filed", id).
			WithHint("Only pending records can be marked filed").
			Mark(ierr.ErrNotFound)
	}

	r.log.Infow("marked regulated sales record as filed", "record_id", id)
	return nil
}

func (r *complianceRepository) buildListQuery(base string, filter *types.RegulatedSalesFilter, paginate bool) (string, []interface{}) {
	if filter == nil {
		filter = types.NewRegulatedSalesFilter()
	}

	query := base + ` WHERE 1=1`
	var args []interface{}

	if filter.OrderID != "" {
		args = append(args, filter.OrderID)
		query += ` AND order_id = ?`
	}

	if filter.ReportingPeriod != "" {
		args = append(args, filter.ReportingPeriod)
		query += ` AND reporting_period = ?`
	}

	if filter.ReportingStatus != "" {
		args = append(args, filter.ReportingStatus.String())
		query += ` AND reporting_status = ?`
	}

	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			args = append(args, *filter.StartTime)
			query += ` AND sale_date >= ?`
		}
		if filter.EndTime != nil {
			args = append(args, *filter.EndTime)
			query += ` AND sale_date <= ?`
		}
	}

	if paginate {
		query += ` ORDER BY sale_date ` + sortOrder(filter.QueryFilter)
		if !filter.IsUnlimited() {
			args = append(args, filter.GetLimit(), filter.GetOffset())
			query += ` LIMIT ? OFFSET ?`
		}
	}

	return r.db.Rebind(query), args
}
