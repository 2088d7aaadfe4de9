package middleware

import (
	"errors"
	"net/http"

	"github.com/bookkeep/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TenantIDKey is the gin context key holding the resolved tenant ID
	TenantIDKey = "tenant_id"
	// TenantHeaderKey is the request header carrying the tenant ID
	TenantHeaderKey = "X-Tenant-ID"
)

// ErrTenantIDRequired is returned when no tenant ID is present in the context
var ErrTenantIDRequired = errors.New("tenant_id is required but not found in context")

// TenantMiddlewareConfig holds configuration for tenant middleware
type TenantMiddlewareConfig struct {
	// SkipPaths are paths that don't require tenant context (e.g. health check)
	SkipPaths []string
	// Required determines whether requests without a tenant are rejected
	Required bool
}

// DefaultTenantConfig returns default tenant middleware configuration
func DefaultTenantConfig() TenantMiddlewareConfig {
	return TenantMiddlewareConfig{
		SkipPaths: []string{"/health", "/metrics"},
		Required:  true,
	}
}

// TenantMiddleware resolves the tenant from the X-Tenant-ID header and
// stores it in the gin context. Authentication is a separate concern;
// this middleware only establishes the data scope.
func TenantMiddleware() gin.HandlerFunc {
	return TenantMiddlewareWithConfig(DefaultTenantConfig())
}

// TenantMiddlewareWithConfig returns a tenant middleware with custom configuration
func TenantMiddlewareWithConfig(cfg TenantMiddlewareConfig) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(cfg.SkipPaths))
	for _, p := range cfg.SkipPaths {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		if _, ok := skip[c.Request.URL.Path]; ok {
			c.Next()
			return
		}

		raw := c.GetHeader(TenantHeaderKey)
		if raw == "" {
			if cfg.Required {
				c.AbortWithStatusJSON(http.StatusUnauthorized,
					dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Missing "+TenantHeaderKey+" header"))
				return
			}
			c.Next()
			return
		}

		tenantID, err := uuid.Parse(raw)
		if err != nil || tenantID == uuid.Nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "Invalid tenant ID format"))
			return
		}

		c.Set(TenantIDKey, tenantID.String())
		c.Next()
	}
}

// GetTenantID returns the tenant ID string from the gin context
func GetTenantID(c *gin.Context) string {
	return c.GetString(TenantIDKey)
}

// GetTenantUUID returns the tenant ID from the gin context as a UUID
func GetTenantUUID(c *gin.Context) (uuid.UUID, error) {
	raw := GetTenantID(c)
	if raw == "" {
		return uuid.Nil, ErrTenantIDRequired
	}
	return uuid.Parse(raw)
}
