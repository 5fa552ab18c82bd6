package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"
	domainTaxAudit "github.com/midwaywholesale/pricing/internal/domain/taxaudit"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/logger"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

type taxAuditRepository struct {
	db  *sqlx.DB
	log *logger.Logger
}

// NewTaxAuditRepository returns the append-only store for calculation
// audit records. There is deliberately no update or delete path.
func NewTaxAuditRepository(db *sqlx.DB, log *logger.Logger) domainTaxAudit.Repository {
	return &taxAuditRepository{
		db:  db,
		log: log,
	}
}

type taxAuditRow struct {
	ID                 string          `db:"id"`
	OrderID            string          `db:"order_id"`
	CustomerID         string          `db:"customer_id"`
	RequestPayload     []byte          `db:"request_payload"`
	ResultPayload      []byte          `db:"result_payload"`
	PercentageTaxTotal decimal.Decimal `db:"percentage_tax_total"`
	FlatTaxTotal       decimal.Decimal `db:"flat_tax_total"`
	TotalTaxAmount     decimal.Decimal `db:"total_tax_amount"`
	ReportingPeriod    string          `db:"reporting_period"`
	CreatedAt          time.Time       `db:"created_at"`
	CreatedBy          string          `db:"created_by"`
}

func (r taxAuditRow) toDomain() *domainTaxAudit.TaxCalculationAudit {
	return &domainTaxAudit.TaxCalculationAudit{
		ID:                 r.ID,
		OrderID:            r.OrderID,
		CustomerID:         r.CustomerID,
		RequestPayload:     json.RawMessage(r.RequestPayload),
		ResultPayload:      json.RawMessage(r.ResultPayload),
		PercentageTaxTotal: r.PercentageTaxTotal,
		FlatTaxTotal:       r.FlatTaxTotal,
		TotalTaxAmount:     r.TotalTaxAmount,
		ReportingPeriod:    r.ReportingPeriod,
		CreatedAt:          r.CreatedAt,
		CreatedBy:          r.CreatedBy,
	}
}

const taxAuditColumns = `id, order_id, customer_id, request_payload, result_payload,
	percentage_tax_total, flat_tax_total, total_tax_amount, reporting_period, created_at, created_by`

func (r *taxAuditRepository) Create(ctx context.Context, a *domainTaxAudit.TaxCalculationAudit) error {
	row := taxAuditRow{
		ID:                 a.ID,
		OrderID:            a.OrderID,
		CustomerID:         a.CustomerID,
		RequestPayload:     a.RequestPayload,
		ResultPayload:      a.ResultPayload,
		PercentageTaxTotal: a.PercentageTaxTotal,
		FlatTaxTotal:       a.FlatTaxTotal,
		TotalTaxAmount:     a.TotalTaxAmount,
		ReportingPeriod:    a.ReportingPeriod,
		CreatedAt:          a.CreatedAt,
		CreatedBy:          a.CreatedBy,
	}

	_, err := r.db.NamedExecContext(ctx, `
		INSERT INTO tax_calculation_audits (`+taxAuditColumns+`)
		VALUES (:id, :order_id, :customer_id, :request_payload, :result_payload,
			:percentage_tax_total, :flat_tax_total, :total_tax_amount,
			:reporting_period, :created_at, :created_by)`,
		row)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to persist tax calculation audit record").
			WithReportableDetails(map[string]any{
				"audit_id": a.ID,
				"order_id": a.OrderID,
			}).
			Mark(ierr.ErrDatabase)
	}
	return nil
}

func (r *taxAuditRepository) Get(ctx context.Context, id string) (*domainTaxAudit.TaxCalculationAudit, error) {
	var row taxAuditRow
	err := r.db.GetContext(ctx, &row, `
		SELECT `+taxAuditColumns+`
		FROM tax_calculation_audits
		WHERE id = $1`,
		id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ierr.WithError(err).
				WithHintf("Tax calculation audit with ID %s was not found", id).
				Mark(ierr.ErrNotFound)
		}
		return nil, ierr.WithError(err).
			WithHint("Failed to get tax calculation audit").
			Mark(ierr.ErrDatabase)
	}
	return row.toDomain(), nil
}

func (r *taxAuditRepository) List(ctx context.Context, filter *types.TaxCalculationAuditFilter) ([]*domainTaxAudit.TaxCalculationAudit, error) {
	query, args := r.buildListQuery(`SELECT `+taxAuditColumns+` FROM tax_calculation_audits`, filter, true)

	var rows []taxAuditRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to list tax calculation audits").
			Mark(ierr.ErrDatabase)
	}

	result := make([]*domainTaxAudit.TaxCalculationAudit, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

func (r *taxAuditRepository) Count(ctx context.Context, filter *types.TaxCalculationAuditFilter) (int, error) {
	query, args := r.buildListQuery(`SELECT COUNT(*) FROM tax_calculation_audits`, filter, false)

	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return 0, ierr.WithError(err).
			WithHint("Failed to count tax calculation audits").
			Mark(ierr.ErrDatabase)
	}
	return count, nil
}

func (r *taxAuditRepository) buildListQuery(base string, filter *types.TaxCalculationAuditFilter, paginate bool) (string, []interface{}) {
	if filter == nil {
		filter = types.NewTaxCalculationAuditFilter()
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

	if filter.TimeRangeFilter != nil {
		if filter.StartTime != nil {
			args = append(args, *filter.StartTime)
			query += ` AND created_at >= ?`
		}
		if filter.EndTime != nil {
			args = append(args, *filter.EndTime)
			query += ` AND created_at <= ?`
		}
	}

	if paginate {
		query += ` ORDER BY created_at ` + sortOrder(filter.QueryFilter)
		if !filter.IsUnlimited() {
			args = append(args, filter.GetLimit(), filter.GetOffset())
			query += ` LIMIT ? OFFSET ?`
		}
	}

	return r.db.Rebind(query), args
}
