package rbac

import (
	"context"
	"testing"

	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/stretchr/testify/assert"
)

func TestHasPermission(t *testing.T) {
	testCases := []struct {
		name    string
		roles   []types.UserRole
		perm    Permission
		granted bool
	}{
		{
			name:    "owner_creates_invoices",
			roles:   []types.UserRole{types.UserRoleOwner},
			perm:    PermInvoiceCreate,
			granted: true,
		},
		{
			name:    "owner_manages_sequences",
			roles:   []types.UserRole{types.UserRoleOwner},
			perm:    PermSequenceManage,
			granted: true,
		},
		{
			name:    "accountant_creates_invoices",
			roles:   []types.UserRole{types.UserRoleAccountant},
			perm:    PermInvoiceCreate,
			granted: true,
		},
		{
			name:    "accountant_cannot_manage_sequences",
			roles:   []types.UserRole{types.UserRoleAccountant},
			perm:    PermSequenceManage,
			granted: false,
		},
		{
			name:    "sales_writes_customers",
			roles:   []types.UserRole{types.UserRoleSales},
			perm:    PermCustomerWrite,
			granted: true,
		},
		{
			name:    "sales_cannot_write_products",
			roles:   []types.UserRole{types.UserRoleSales},
			perm:    PermProductWrite,
			granted: false,
		},
		{
			name:    "viewer_reads_invoices",
			roles:   []types.UserRole{types.UserRoleViewer},
			perm:    PermInvoiceRead,
			granted: true,
		},
		{
			name:    "viewer_cannot_create_invoices",
			roles:   []types.UserRole{types.UserRoleViewer},
			perm:    PermInvoiceCreate,
			granted: false,
		},
		{
			name:    "any_role_grants",
			roles:   []types.UserRole{types.UserRoleViewer, types.UserRoleAdmin},
			perm:    PermSequenceManage,
			granted: true,
		},
		{
			name:    "no_roles_denied",
			roles:   nil,
			perm:    PermInvoiceRead,
			granted: false,
		},
		{
			name:    "unknown_role_denied",
			roles:   []types.UserRole{types.UserRole("intern")},
			perm:    PermInvoiceRead,
			granted: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.granted, HasPermission(tc.roles, tc.perm))
		})
	}
}

func TestAuthorize(t *testing.T) {
	ctx := context.WithValue(context.Background(), types.CtxRoles, []types.UserRole{types.UserRoleViewer})

	assert.NoError(t, Authorize(ctx, PermInvoiceRead))

	err := Authorize(ctx, PermInvoiceCreate)
	assert.Error(t, err)
	assert.True(t, ierr.IsPermissionDenied(err))

	// A context without roles gets nothing
	err = Authorize(context.Background(), PermInvoiceRead)
	assert.Error(t, err)
	assert.True(t, ierr.IsPermissionDenied(err))
}
