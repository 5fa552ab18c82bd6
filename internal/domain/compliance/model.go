package compliance

import (
	"time"

	"github.com/midwaywholesale/pricing/internal/types"
	"github.com/shopspring/decimal"
)

// RegulatedProduct is one tobacco line of a regulated sale.
type RegulatedProduct struct {
	ProductID   string          `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int64           `json:"quantity"`
	Value       decimal.Decimal `json:"value"`
	Tax         decimal.Decimal `json:"tax"`
}

// RegulatedSalesRecord is the IL-TP1-style statutory sales record created
// once per order containing at least one regulated (tobacco) item. The
// record stays pending until the periodic filing process, which lives
// outside this engine, transitions it to filed.
type RegulatedSalesRecord struct {
	ID              string                `json:"id"`
	RecordNumber    string                `json:"record_number"`
	OrderID         string                `json:"order_id"`
	CustomerID      string                `json:"customer_id"`
	SaleDate        time.Time             `json:"sale_date"`
	Products        []RegulatedProduct    `json:"products"`
	TotalValue      decimal.Decimal       `json:"total_value"`
	TotalTax        decimal.Decimal       `json:"total_tax"`
	ReportingPeriod string                `json:"reporting_period"`
	ReportingStatus types.ReportingStatus `json:"reporting_status"`
	CreatedAt       time.Time             `json:"created_at"`
	CreatedBy       string                `json:"created_by"`
}
