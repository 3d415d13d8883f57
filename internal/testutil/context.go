package testutil

import (
	"context"

	"github.com/facturalo/facturalo/internal/types"
)

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetTenantID(ctx, types.DefaultTenantID)
	ctx = types.SetUserID(ctx, types.DefaultUserID)
	ctx = types.SetRoles(ctx, []types.UserRole{types.UserRoleOwner})
	ctx = context.WithValue(ctx, types.CtxRequestID, types.GenerateUUID())
	return ctx
}

// SetupContextWithRoles returns a tenant context carrying the given roles
func SetupContextWithRoles(roles ...types.UserRole) context.Context {
	ctx := SetupContext()
	return types.SetRoles(ctx, roles)
}
