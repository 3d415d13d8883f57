package types

import (
	ierr "github.com/facturalo/facturalo/internal/errors"
	"github.com/samber/lo"
)

// UserRole is an enumerated role a caller holds within a tenant. Roles are
// never matched as free-form strings; permission checks go through the
// capability table in the rbac package.
type UserRole string

const (
	UserRoleOwner      UserRole = "owner"
	UserRoleAdmin      UserRole = "admin"
	UserRoleAccountant UserRole = "accountant"
	UserRoleSales      UserRole = "sales"
	UserRoleViewer     UserRole = "viewer"
)

func (r UserRole) String() string {
	return string(r)
}

func (r UserRole) Validate() error {
	allowed := []UserRole{
		UserRoleOwner,
		UserRoleAdmin,
		UserRoleAccountant,
		UserRoleSales,
		UserRoleViewer,
	}
	if !lo.Contains(allowed, r) {
		return ierr.NewError("invalid role").
			WithHint("Please provide a valid role").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ParseUserRoles converts raw role names into typed roles, rejecting unknown
// names instead of silently ignoring them.
func ParseUserRoles(names []string) ([]UserRole, error) {
	roles := make([]UserRole, 0, len(names))
	for _, name := range names {
		role := UserRole(name)
		if err := role.Validate(); err != nil {
			return nil, err
		}
		roles = append(roles, role)
	}
	return roles, nil
}
