package testutil

import (
	"context"

	"github.com/flexcargo/flexcargo/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, types.CtxTenantID, types.DefaultTenantID)
	ctx = context.WithValue(ctx, types.CtxUserID, types.DefaultUserID)
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// TenantContext returns a test context scoped to tenantID
func TenantContext(tenantID string) context.Context {
	return types.SetTenantID(SetupContext(), tenantID)
}
