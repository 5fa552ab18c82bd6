package testutil

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/domain/taxaudit"
	ierr "github.com/midwaywholesale/pricing/internal/errors"
	"github.com/midwaywholesale/pricing/internal/types"
)

// InMemoryTaxAuditStore implements taxaudit.Repository
type InMemoryTaxAuditStore struct {
	*InMemoryStore[*taxaudit.TaxCalculationAudit]

	// createErr, when set, is returned from Create to exercise the
	// best-effort audit path.
	createErr error
}

func NewInMemoryTaxAuditStore() *InMemoryTaxAuditStore {
	return &InMemoryTaxAuditStore{
		InMemoryStore: NewInMemoryStore[*taxaudit.TaxCalculationAudit](),
	}
}

// SetCreateError makes every subsequent Create call fail.
func (s *InMemoryTaxAuditStore) SetCreateError(err error) {
	s.createErr = err
}

// taxAuditFilterFn implements filtering logic for audit records
func taxAuditFilterFn(ctx context.Context, a *taxaudit.TaxCalculationAudit, filter interface{}) bool {
	if a == nil {
		return false
	}

	f, ok := filter.(*types.TaxCalculationAuditFilter)
	if !ok {
		return true
	}

	if f.OrderID != "" && a.OrderID != f.OrderID {
		return false
	}

	if f.ReportingPeriod != "" && a.ReportingPeriod != f.ReportingPeriod {
		return false
	}

	if f.TimeRangeFilter != nil {
		if f.StartTime != nil && a.CreatedAt.Before(*f.StartTime) {
			return false
		}
		if f.EndTime != nil && a.CreatedAt.After(*f.EndTime) {
			return false
		}
	}

	return true
}

// taxAuditSortFn implements sorting logic for audit records
func taxAuditSortFn(i, j *taxaudit.TaxCalculationAudit) bool {
	if i == nil || j == nil {
		return false
	}
	return i.CreatedAt.After(j.CreatedAt)
}

func (s *InMemoryTaxAuditStore) Create(ctx context.Context, a *taxaudit.TaxCalculationAudit) error {
	if s.createErr != nil {
		return s.createErr
	}

	if a == nil {
		return ierr.NewError("audit record cannot be nil").
			WithHint("Audit record data is required").
			Mark(ierr.ErrValidation)
	}

	err := s.InMemoryStore.Create(ctx, a.ID, a)
	if err != nil {
		return ierr.WithError(err).
			WithHint("An audit record with this identifier already exists").
			WithReportableDetails(map[string]any{
				"audit_id": a.ID,
			}).
			Mark(ierr.ErrAlreadyExists)
	}
	return nil
}

func (s *InMemoryTaxAuditStore) Get(ctx context.Context, id string) (*taxaudit.TaxCalculationAudit, error) {
	a, err := s.InMemoryStore.Get(ctx, id)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHintf("Audit record with ID %s was not found", id).
			Mark(ierr.ErrNotFound)
	}
	return a, nil
}

func (s *InMemoryTaxAuditStore) List(ctx context.Context, filter *types.TaxCalculationAuditFilter) ([]*taxaudit.TaxCalculationAudit, error) {
	return s.InMemoryStore.List(ctx, filter, taxAuditFilterFn, taxAuditSortFn)
}

func (s *InMemoryTaxAuditStore) Count(ctx context.Context, filter *types.TaxCalculationAuditFilter) (int, error) {
	return s.InMemoryStore.Count(ctx, filter, taxAuditFilterFn)
}
