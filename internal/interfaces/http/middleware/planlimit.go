package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stockflow/backend/internal/application/planlimit"
	"github.com/stockflow/backend/internal/domain/billing"
	"github.com/stockflow/backend/internal/infrastructure/logger"
	"github.com/stockflow/backend/internal/interfaces/http/dto"
	"go.uber.org/zap"
)

// RequirePlanLimit guards the rest of the handler chain with the plan-limit
// gate. Denials become 403 ERR_FORBIDDEN with the gate's message; lookup or
// counting failures become 500.
func RequirePlanLimit(gate *planlimit.Gate, limit billing.LimitType) gin.HandlerFunc {
	return func(c *gin.Context) {
		op := planlimit.HTTP(c.Request.Method+" "+c.FullPath(), limit)
		err := gate.Guard(c.Request.Context(), op, func(ctx context.Context) error {
			c.Request = c.Request.WithContext(ctx)
			c.Next()
			return nil
		})
		if err == nil {
			return
		}

		if planlimit.IsForbidden(err) {
			abortWithError(c, http.StatusForbidden, dto.ErrCodeForbidden, err.Error())
			return
		}
		logger.L(c.Request.Context()).Error("Plan limit check failed",
			zap.String("limit", limit.String()),
			zap.Error(err),
		)
		abortWithError(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
	}
}
