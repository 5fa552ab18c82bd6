package taxaudit

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

// TaxCalculationAudit is an append-only record of one order tax calculation:
// the full request and result as opaque serialized payloads plus the numeric
// summary fields. Rows are never mutated or deleted; an order recalculated
// before completion produces one row per invocation.
type TaxCalculationAudit struct {
	ID                  string          `json:"id"`
	OrderID             string          `json:"order_id"`
	CustomerID          string          `json:"customer_id"`
	RequestPayload      json.RawMessage `json:"request_payload"`
	ResultPayload       json.RawMessage `json:"result_payload"`
	PercentageTaxTotal  decimal.Decimal `json:"percentage_tax_total"`
	FlatTaxTotal        decimal.Decimal `json:"flat_tax_total"`
	TotalTaxAmount      decimal.Decimal `json:"total_tax_amount"`
	ReportingPeriod     string          `json:"reporting_period"`
	CreatedAt           time.Time       `json:"created_at"`
	CreatedBy           string          `json:"created_by"`
}
