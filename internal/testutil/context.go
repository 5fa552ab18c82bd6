package testutil

import (
	"context"

	"github.com/midwaywholesale/pricing/internal/types"
)

// GetContext returns a context pre-populated with the default test identity.
func GetContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}
