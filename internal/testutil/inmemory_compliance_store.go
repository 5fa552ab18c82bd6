package testutil

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/domain/compliance"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/types"
)

// InMemoryComplianceStore implements compliance.Repository
type InMemoryComplianceStore struct {
	*InMemoryStore[*compliance.RegulatedSalesRecord]

	// createErr, when set, is returned from Create to exercise the
	// best-effort compliance path.
	createErr error
}

func NewInMemoryComplianceStore() *InMemoryComplianceStore {
	return &InMemoryComplianceStore{
		InMemoryStore: NewInMemoryStore[*compliance.RegulatedSalesRecord](),
	}
}

// SetCreateError makes every subsequent Create call fail.
func (s *InMemoryComplianceStore) SetCreateError(err error) {
	s.createErr = err
}

// regulatedSalesFilterFn implements filtering logic for regulated sales records
func regulatedSalesFilterFn(ctx context.Context, r *compliance.RegulatedSalesRecord, filter interface{}) bool {
	if r == nil {
		return false
	}

	f, ok := filter.(*types.RegulatedSalesFilter)
	if !ok {
		return true
	}

	if f.OrderID != "" && r.OrderID != f.OrderID {
		return false
	}

	if f.ReportingPeriod != "" && r.ReportingPeriod != f.ReportingPeriod {
		return false
	}

	if f.ReportingStatus != "" && r.ReportingStatus != f.ReportingStatus {
		return false
	}

	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && r.SaleDate.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && r.SaleDate.After(*f.EndTime) {
			return false
		}
	}

	return true
}

// regulatedSalesSortFn implements sorting logic for regulated sales records
func regulatedSalesSortFn(i, j *compliance.RegulatedSalesRecord) bool {
	if i == nil || j == nil {
		return false
	}
	return i.SaleDate.After(j.SaleDate)
}

func (s *InMemoryComplianceStore) Create(ctx context.Context, r *compliance.RegulatedSalesRecord) error {
	if s.createErr != nil {
		return s.createErr
	}

	if r == nil {
		return ierr.NewError("regulated sales record cannot be nil").
			WithHint("Regulated sales record data is required").
			Mark(ierr.ErrValidation)
	}

	err := s.InMemoryStore.Create(ctx, r.ID, r)
	if err != nil {
		return ierr.WithError(err).
			WithHint("A regulated sales record with this identifier already exists").
			WithReportableDetails(map[string]any{
				"record_id": r.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryComplianceStore) Get(ctx context.Context, id string) (*compliance.RegulatedSalesRecord, error) {
	r, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Regulated sales record with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return r, nil
}

func (s *InMemoryComplianceStore) List(ctx context.Context, filter *types.RegulatedSalesFilter) ([]*compliance.RegulatedSalesRecord, error) {
	return s.InMemoryStore.List(ctx, filter, regulatedSalesFilterFn, regulatedSalesSortFn)
}

func (s *InMemoryComplianceStore) Count(ctx context.Context, filter *types.RegulatedSalesFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, regulatedSalesFilterFn)
}

func (s *InMemoryComplianceStore) MarkFiled(ctx context.Context, id string) error {
	r, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if r.ReportingStatus != types.ReportingStatusPending {
		return ierr.NewErrorf("regulated sales record %s is not pending", id).
			WithHint("Only pending records can be marked filed").
			Mark(ierr.ErrInvalidOperation)
	}

	r.ReportingStatus = types.ReportingStatusFiled
	return s.InMemoryStore.Update(ctx, r.ID, r)
}
