package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/internal/presentation/http/dto/response"
	"github.com/sangkips/salon-api/pkg/utils"
)

const (
	// TenantHeader lets a super admin act on one salon
	TenantHeader = "X-Tenant-ID"

	principalKey = "principal"
)

// AuthMiddleware authenticates the bearer token and scopes the request to
// the caller's salon. Super admins read across salons unless they name one
// in the X-Tenant-ID header.
func AuthMiddleware(verifier utils.TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "Authorization header is required")
			c.Abort()
			return
		}

		parts := strings.Fields(authHeader)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			response.Unauthorized(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		principal, err := verifier.Verify(c.Request.Context(), parts[1])
		if err != nil || principal == nil {
			response.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}
		if len(principal.Permissions) == 0 {
			principal.Permissions = utils.PermissionsForRoles(principal.Roles)
		}

		tenantID := principal.TenantID
		ctx := c.Request.Context()
		if principal.IsSuperAdmin() {
			if override := strings.TrimSpace(c.GetHeader(TenantHeader)); override != "" {
				tenantID = override
			} else {
				ctx = infraRepo.WithSkipTenantScope(ctx, true)
			}
		}
		if tenantID != "" {
			ctx = infraRepo.WithTenant(ctx, tenantID)
		}
		c.Request = c.Request.WithContext(ctx)

		c.Set(principalKey, principal)
		c.Set("user_id", principal.UserID)
		c.Set("user_email", principal.Email)
		c.Set("user_roles", principal.Roles)
		c.Set("user_permissions", principal.Permissions)
		c.Set("tenant_id", tenantID)

		c.Next()
	}
}

// GetPrincipal returns the authenticated caller, or nil
func GetPrincipal(c *gin.Context) *utils.Principal {
	v, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	p, _ := v.(*utils.Principal)
	return p
}

// GetTenantID retrieves the tenant ID from gin context
func GetTenantID(c *gin.Context) string {
	return c.GetString("tenant_id")
}

// RequireTenant rejects requests that are not scoped to a salon
func RequireTenant() gin.HandlerFunc {
	return func(c *gin.Context) {
		if GetTenantID(c) == "" {
			response.BadRequest(c, "Tenant context required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequirePermission creates a middleware that requires a specific permission
func RequirePermission(permission string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil {
			response.Forbidden(c, "Access denied")
			c.Abort()
			return
		}

		if !principal.IsSuperAdmin() && !principal.HasPermission(permission) {
			response.Forbidden(c, "You do not have permission to perform this action")
			c.Abort()
			return
		}

		c.Next()
	}
}

// RequireRole creates a middleware that requires one of the roles
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal := GetPrincipal(c)
		if principal == nil || !principal.HasRole(roles...) {
			response.Forbidden(c, "Insufficient role privileges")
			c.Abort()
			return
		}
		c.Next()
	}
}
