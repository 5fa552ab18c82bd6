package postgres

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	domainOrder "github.com/midwaywholesale/pricing/internal/domain/order"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/logger"
	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

type orderRepository struct {
	db  *sqlx.DB
	log *logger.Logger
}

func NewOrderRepository(db *sqlx.DB, log *logger.Logger) domainOrder.Repository {
	return &orderRepository{
		db:  db,
		log: log,
	}
}

type orderLineItemRow struct {
	ID            string          `db:"id"`
	OrderID       string          `db:"order_id"`
	ProductID     string          `db:"product_id"`
	ProductName   string          `db:"product_name"`
	CategoryID    string          `db:"category_id"`
	Quantity      int64           `db:"quantity"`
	Price         decimal.Decimal `db:"price"`
	BasePrice     decimal.Decimal `db:"base_price"`
	TaxPercentage decimal.Decimal `db:"tax_percentage"`
	FlatTaxAmount decimal.Decimal `db:"flat_tax_amount"`
	Status        string          `db:"status"`
	CreatedAt     time.Time       `db:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at"`
	CreatedBy     string          `db:"created_by"`
	UpdatedBy     string          `db:"updated_by"`
}

func (r orderLineItemRow) toDomain() *domainOrder.LineItem {
	return &domainOrder.LineItem{
		ID:            r.ID,
		OrderID:       r.OrderID,
		ProductID:     r.ProductID,
		ProductName:   r.ProductName,
		CategoryID:    r.CategoryID,
		Quantity:      r.Quantity,
		Price:         r.Price,
		BasePrice:     r.BasePrice,
		TaxPercentage: r.TaxPercentage,
		FlatTaxAmount: r.FlatTaxAmount,
		BaseModel: types.BaseModel{
			Status:    types.Status(r.Status),
			CreatedAt: r.CreatedAt,
			UpdatedAt: r.UpdatedAt,
			CreatedBy: r.CreatedBy,
			UpdatedBy: r.UpdatedBy,
		},
	}
}

func (r *orderRepository) GetLineItems(ctx context.Context, orderID string) ([]*domainOrder.LineItem, error) {
	var rows []orderLineItemRow
	err := r.db.SelectContext(ctx, &rows, `
		SELECT id, order_id, product_id, product_name, COALESCE(category_id, '') AS category_id,
			quantity, price, COALESCE(base_price, 0) AS base_price,
			COALESCE(tax_percentage, 0) AS tax_percentage,
			COALESCE(flat_tax_amount, 0) AS flat_tax_amount,
			status, created_at, updated_at, created_by, updated_by
		FROM order_line_items
		WHERE order_id = $1 AND status != $2
		ORDER BY created_at ASC`,
		orderID, types.StatusDeleted)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Failed to get order line items").
			WithReportableDetails(map[string]any{
				"order_id": orderID,
			}).
			Mark(ierr.ErrDatabase)
	}

	result := make([]*domainOrder.LineItem, 0, len(rows))
	for _, row := range rows {
		result = append(result, row.toDomain())
	}
	return result, nil
}

// UpdateLineItemTaxes writes the computed per-line tax fields back onto the
// stored order items in one transaction, so a completed order keeps its tax
// breakdown independent of later catalog edits.
func (r *orderRepository) UpdateLineItemTaxes(ctx context.Context, orderID string, updates []domainOrder.LineItemTaxUpdate) error {
	if len(updates) == 0 {
		return nil
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return ierr.WithError(err).
			WithHint("Failed to begin order tax update").
			Mark(ierr.ErrDatabase)
	}
	defer tx.Rollback() //nolint:errcheck

	now := time.Now().UTC()
	userID := types.GetUserID(ctx)

	for _, u := range updates {
		_, err := tx.ExecContext(ctx, `
			UPDATE order_line_items SET
				tax_percentage = $1,
				percentage_tax_amount = $2,
				flat_tax_amount = $3,
				total_tax_amount = $4,
				price = $5,
				final_total_price = $6,
				updated_at = $7,
				updated_by = $8
			WHERE order_id = $9 AND product_id = $10`,
			u.TaxPercentage, u.PercentageTaxAmount, u.FlatTaxAmount, u.TotalTaxAmount,
			u.FinalPricePerUnit, u.FinalTotalPrice, now, userID, orderID, u.ProductID)
		if err != nil {
			return ierr.WithError(err).
				WithHint("Failed to update order line item tax fields").
				WithReportableDetails(map[string]any{
					"order_id":   orderID,
					"product_id": u.ProductID,
				}).
				Mark(ierr.ErrDatabase)
		}
	}

	if err := tx.Commit(); err != nil {
		return ierr.WithError(err).
			WithHint("Failed to commit order tax update").
			Mark(ierr.ErrDatabase)
	}

	r.log.Debugw("updated order line item tax fields",
		"order_id", orderID,
		"line_items", len(updates),
	)
	return nil
}
