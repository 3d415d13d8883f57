package rbac

import (
	"context"

	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/facturalo/facturalo/internal/types"
)

// Permission names one capability, entity plus action.
type Permission struct {
	Entity string
	Action string
}

var (
	PermInvoiceCreate  = Permission{Entity: "invoice", Action: "create"}
	PermInvoiceRead    = Permission{Entity: "invoice", Action: "read"}
	PermSequenceManage = Permission{Entity: "sequence", Action: "manage"}
	PermSequenceRead   = Permission{Entity: "sequence", Action: "read"}
	PermCustomerWrite  = Permission{Entity: "customer", Action: "write"}
	PermCustomerRead   = Permission{Entity: "customer", Action: "read"}
	PermProductWrite   = Permission{Entity: "product", Action: "write"}
	PermProductRead    = Permission{Entity: "product", Action: "read"}
)

// rolePermissions is the capability table. Grants are explicit; a role has
// exactly the permissions listed here and nothing else.
var rolePermissions = map[types.UserRole][]Permission{
	types.UserRoleOwner: {
		PermInvoiceCreate, PermInvoiceRead,
		PermSequenceManage, PermSequenceRead,
		PermCustomerWrite, PermCustomerRead,
		PermProductWrite, PermProductRead,
	},
	types.UserRoleAdmin: {
		PermInvoiceCreate, PermInvoiceRead,
		PermSequenceManage, PermSequenceRead,
		PermCustomerWrite, PermCustomerRead,
		PermProductWrite, PermProductRead,
	},
	types.UserRoleAccountant: {
		PermInvoiceCreate, PermInvoiceRead,
		PermSequenceRead,
		PermCustomerRead,
		PermProductRead,
	},
	types.UserRoleSales: {
		PermInvoiceCreate, PermInvoiceRead,
		PermSequenceRead,
		PermCustomerWrite, PermCustomerRead,
		PermProductRead,
	},
	types.UserRoleViewer: {
		PermInvoiceRead,
		PermSequenceRead,
		PermCustomerRead,
		PermProductRead,
	},
}

// HasPermission reports whether any of the given roles grants the permission.
func HasPermission(roles []types.UserRole, perm Permission) bool {
	for _, role := range roles {
		for _, granted := range rolePermissions[role] {
			if granted == perm {
				return true
			}
		}
	}
	return false
}

// Authorize checks the permission against the roles carried in the context
// and returns a permission denied error when none of them grants it.
func Authorize(ctx context.Context, perm Permission) error {
	roles := types.GetRoles(ctx)
	if HasPermission(roles, perm) {
		return nil
	}
	return ierr.NewError("permission denied").
		WithHintf("You do not have permission to %s %s", perm.Action, perm.Entity).
		WithReportableDetails(map[string]any{
			"entity": perm.Entity,
			"action": perm.Action,
		}).
		Mark(ierr.ErrPermissionDenied)
}
