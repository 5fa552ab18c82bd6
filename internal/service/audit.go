package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/midwaywholesale/pricing/internal/api/dto"
	"github.com/midwaywholesale/pricing/internal/domain/compliance"
	"github.com/midwaywholesale/pricing/internal/domain/taxaudit"
	"github.com/midwaywholesale/pricing/internal/types"
)

// emitAudit persists the calculation audit record and, when regulated
// items are present, the statutory sales record. Both writes are
// best-effort: pricing correctness is real-time-critical while audit
// completeness is eventually-consistent-acceptable, so failures here are
// logged and never propagated to the caller.
func (s *taxCalculationService) emitAudit(ctx context.Context, req dto.CalculateOrderTaxRequest, result *dto.OrderTaxResult) {
	now := time.Now().UTC()
	period := types.ReportingPeriodOf(now)

	requestPayload, err := json.Marshal(req)
	if err != nil {
		s.Logger.Errorw("failed to serialize tax calculation request for audit",
			"error", err,
			"order_id", req.OrderID,
		)
	}

	resultPayload, err := json.Marshal(result)
	if err != nil {
		s.Logger.Errorw("failed to serialize tax calculation result for audit",
			"error", err,
			"order_id", req.OrderID,
		)
	}

	audit := &taxaudit.TaxCalculationAudit{
		ID:                 types.GenerateUUIDWithPrefix(types.UUID_PREFIX_TAX_CALCULATION_AUDIT),
		OrderID:            req.OrderID,
		CustomerID:         req.CustomerID,
		RequestPayload:     requestPayload,
		ResultPayload:      resultPayload,
		PercentageTaxTotal: result.PercentageTaxTotal,
		FlatTaxTotal:       result.FlatTaxTotal,
		TotalTaxAmount:     result.TotalTaxAmount,
		ReportingPeriod:    period,
		CreatedAt:          now,
		CreatedBy:          types.GetUserID(ctx),
	}

	if err := s.TaxAuditRepo.Create(ctx, audit); err != nil {
		s.Logger.Errorw("failed to persist tax calculation audit record",
			"error", err,
			"order_id", req.OrderID,
			"audit_id", audit.ID,
		)
	}

	tracking := result.TobaccoSalesTracking
	if tracking == nil || len(tracking.TobaccoItems) == 0 {
		return
	}

	record := &compliance.RegulatedSalesRecord{
		ID:              types.GenerateUUIDWithPrefix(types.UUID_PREFIX_REGULATED_SALES_RECORD),
		RecordNumber:    types.GenerateShortIDWithPrefix(types.SHORT_ID_PREFIX_REGULATED_SALES),
		OrderID:         req.OrderID,
		CustomerID:      req.CustomerID,
		SaleDate:        now,
		TotalValue:      tracking.TotalTobaccoValue,
		TotalTax:        tracking.TotalTobaccoTax,
		ReportingPeriod: period,
		ReportingStatus: types.ReportingStatusPending,
		CreatedAt:       now,
		CreatedBy:       types.GetUserID(ctx),
	}
	for _, item := range tracking.TobaccoItems {
		record.Products = append(record.Products, compliance.RegulatedProduct{
			ProductID:   item.ProductID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			Value:       item.Value,
			Tax:         item.Tax,
		})
	}

	if err := s.ComplianceRepo.Create(ctx, record); err != nil {
		s.Logger.Errorw("failed to persist regulated sales record",
			"error", err,
			"order_id", req.OrderID,
			"record_id", record.ID,
			"reporting_period", period,
		)
		return
	}

	s.Logger.Infow("regulated sales record created",
		"order_id", req.OrderID,
		"record_id", record.ID,
		"record_number", record.RecordNumber,
		"reporting_period", period,
		"tobacco_items", len(record.Products),
	)
}
