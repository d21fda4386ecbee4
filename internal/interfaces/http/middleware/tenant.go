package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/stockflow/backend/internal/infrastructure/auth"
	"github.com/stockflow/backend/internal/infrastructure/tenantctx"
)

// TenantContext installs the tenant and user of the authenticated identity in
// the request's tenant context. Requests whose token carries no tenant pass
// through without one; tenant-scoped operations then reject them.
// It must run after JWTAuth.
func TenantContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFromContext(c.Request.Context())
		if !ok || id.TenantID == "" {
			c.Next()
			return
		}
		c.Request = c.Request.WithContext(tenantctx.With(c.Request.Context(), tenantctx.RequestContext{
			TenantID: id.TenantID,
			UserID:   id.Subject,
		}))
		c.Next()
	}
}
