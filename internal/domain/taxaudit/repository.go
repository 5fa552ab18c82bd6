package taxaudit

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/types"
)

// Repository is the persistence contract for calculation audit records.
// The store is append-only: there is no update or delete.
type Repository interface {
	Create(ctx context.Context, a *TaxCalculationAudit) error
	Get(ctx context.Context, id string) (*TaxCalculationAudit, error)
	List(ctx context.Context, filter *types.TaxCalculationAuditFilter) ([]*TaxCalculationAudit, error)
	Count(ctx context.Context, filter *types.TaxCalculationAuditFilter) (int, error)
}
