package middleware

import (
	"net/http"
	"strings"

	"github.com/facturalo/facturalo/internal/logger"
	"github.com/facturalo/facturalo/internal/types"
	"github.com/gin-gonic/gin"
)

// GuestAuthenticateMiddleware allows requests without authentication. It
// sets a default tenant, user and the owner role, for local development
// only.
func GuestAuthenticateMiddleware(c *gin.Context) {
	ctx := c.Request.Context()
	ctx = types.SetTenantID(ctx, types.DefaultTenantID)
	ctx = types.SetUserID(ctx, types.DefaultUserID)
	ctx = types.SetRoles(ctx, []types.UserRole{types.UserRoleOwner})
	c.Request = c.Request.WithContext(ctx)
	c.Next()
}

// TenantAuthenticateMiddleware resolves the caller's tenant, user and roles
// from trusted gateway headers and rejects requests carrying unknown role
// names. RBAC decisions downstream only ever see typed roles.
func TenantAuthenticateMiddleware(logger *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tenantID := c.GetHeader(types.HeaderTenantID)
		userID := c.GetHeader(types.HeaderUserID)
		if tenantID == "" || userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		var roleNames []string
		if raw := c.GetHeader(types.HeaderRoles); raw != "" {
			for _, name := range strings.Split(raw, ",") {
				if name = strings.TrimSpace(name); name != "" {
					roleNames = append(roleNames, name)
				}
			}
		}
		roles, err := types.ParseUserRoles(roleNames)
		if err != nil {
			logger.Debugw("rejected request with unknown role names",
				"tenant_id", tenantID,
				"roles", roleNames,
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid roles"})
			c.Abort()
			return
		}

		ctx := c.Request.Context()
		ctx = types.SetTenantID(ctx, tenantID)
		ctx = types.SetUserID(ctx, userID)
		ctx = types.SetRoles(ctx, roles)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}
