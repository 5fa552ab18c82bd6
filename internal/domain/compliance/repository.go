package compliance

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/types"
)

// Repository is the persistence contract for regulated sales records.
// Records are queryable by external compliance-reporting tooling for the
// monthly filing; MarkFiled is invoked by that tooling, not by this engine.
type Repository interface {
	Create(ctx context.Context, r *RegulatedSalesRecord) error
	Get(ctx context.Context, id string) (*RegulatedSalesRecord, error)
	List(ctx context.Context, filter *types.RegulatedSalesFilter) ([]*RegulatedSalesRecord, error)
	Count(ctx context.Context, filter *types.RegulatedSalesFilter) (int, error)
	MarkFiled(ctx context.Context, id string) error
}
