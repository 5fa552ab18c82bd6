package postgres

import (
	"errors"

	"github.com/lib/pq"
	"github.com/midwaywholesale/pricing/internal/types"
)

// sortOrder returns a safe ORDER BY direction for the filter.
func sortOrder(filter *types.QueryFilter) string {
	if filter != nil && filter.GetOrder() == types.OrderAsc {
		return "ASC"
	}
	return "DESC"
}

// isUniqueViolation reports whether err is a postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation"
}
