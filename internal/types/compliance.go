package types

import (
	"slices"
	"time"

	ierr "github.com/midwaywholesale/pricing/internal/errors"
)

// ReportingStatus is the filing status of a regulated sales record.
// Records are created pending and transitioned to filed by the periodic
// filing process, which lives outside this engine.
type ReportingStatus string

const (
	ReportingStatusPending ReportingStatus = "pending"
	ReportingStatusFiled   ReportingStatus = "filed"
)

func (s ReportingStatus) String() string {
	return string(s)
}

func (s ReportingStatus) Validate() error {
	allowedValues := []string{
		string(ReportingStatusPending),
		string(ReportingStatusFiled),
	}
	if !slices.Contains(allowedValues, string(s)) {
		return ierr.NewError("invalid reporting status").
			WithHint("Reporting status must be either pending or filed").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ReportingPeriodLayout is the YYYY-MM layout statutory reports are keyed by.
const ReportingPeriodLayout = "2006-01"

// ReportingPeriodOf returns the YYYY-MM reporting period containing t.
func ReportingPeriodOf(t time.Time) string {
	return t.UTC().Format(ReportingPeriodLayout)
}

// CurrentReportingPeriod returns the reporting period of the current date.
func CurrentReportingPeriod() string {
	return ReportingPeriodOf(time.Now())
}

// TaxCalculationAuditFilter represents filters for audit record queries
type TaxCalculationAuditFilter struct {
	*QueryFilter
	*TimeRangeFilter
	OrderID         string `json:"order_id,omitempty" form:"order_id" validate:"omitempty"`
	ReportingPeriod string `json:"reporting_period,omitempty" form:"reporting_period" validate:"omitempty"`
}

// NewTaxCalculationAuditFilter creates a new filter with default values
func NewTaxCalculationAuditFilter() *TaxCalculationAuditFilter {
	return &TaxCalculationAuditFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// Validate validates the TaxCalculationAuditFilter
func (f TaxCalculationAuditFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}
	return nil
}

// RegulatedSalesFilter represents filters for regulated sales record queries
type RegulatedSalesFilter struct {
	*QueryFilter
	*TimeRangeFilter
	OrderID         string          `json:"order_id,omitempty" form:"order_id" validate:"omitempty"`
	ReportingPeriod string          `json:"reporting_period,omitempty" form:"reporting_period" validate:"omitempty"`
	ReportingStatus ReportingStatus `json:"reporting_status,omitempty" form:"reporting_status" validate:"omitempty"`
}

// NewRegulatedSalesFilter creates a new filter with default values
func NewRegulatedSalesFilter() *RegulatedSalesFilter {
	return &RegulatedSalesFilter{
		QueryFilter: NewDefaultQueryFilter(),
	}
}

// Validate validates the RegulatedSalesFilter
func (f RegulatedSalesFilter) Validate() error {
	if f.QueryFilter != nil {
		if err := f.QueryFilter.Validate(); err != nil {
			return err
		}
	}
	if f.TimeRangeFilter != nil {
		if err := f.TimeRangeFilter.Validate(); err != nil {
			return err
		}
	}
	if f.ReportingStatus != "" {
		if err := f.ReportingStatus.Validate(); err != nil {
			return err
		}
	}
	return nil
}
