package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
)

// Keys used to store the authenticated caller in the request context.
const (
	userIDKey   = contextKey("userID")
	tenantIDKey = contextKey("tenantID")
	rolesKey    = contextKey("roles")
)

// WithCaller returns a copy of ctx carrying the authenticated user, tenant and roles.
func WithCaller(ctx context.Context, userID, tenantID string, roles []string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, tenantIDKey, tenantID)
	return context.WithValue(ctx, rolesKey, roles)
}

// GetUserIDFromContext retrieves the authenticated user ID from the Gin context.
// It returns the user ID and a boolean indicating if it was found.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, userIDKey)
}

// GetTenantIDFromContext retrieves the caller's tenant ID from the Gin context.
func GetTenantIDFromContext(c *gin.Context) (string, bool) {
	return stringFromContext(c, tenantIDKey)
}

// TenantIDFromCtx retrieves the caller's tenant ID from a standard context.
func TenantIDFromCtx(ctx context.Context) (string, bool) {
	tenantID, ok := ctx.Value(tenantIDKey).(string)
	return tenantID, ok && tenantID != ""
}

// RolesFromCtx retrieves the caller's roles from a standard context.
func RolesFromCtx(ctx context.Context) []string {
	roles, _ := ctx.Value(rolesKey).([]string)
	return roles
}

func stringFromContext(c *gin.Context, key contextKey) (string, bool) {
	if val, exists := c.Get(string(key)); exists {
		s, ok := val.(string)
		return s, ok && s != ""
	}
	s, ok := c.Request.Context().Value(key).(string)
	return s, ok && s != ""
}
