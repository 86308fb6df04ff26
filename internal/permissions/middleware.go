package permissions

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creerlio-backend/internal/shared/server/middleware"
	"creerlio-backend/internal/shared/server/respond"
	"creerlio-backend/internal/shared/telemetry"
)

// RequireBusinessRole aborts with 403 unless the caller holds one of roles on
// the business named by the route parameter param.
func RequireBusinessRole(checker *Checker, roles []Role, param string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := middleware.UserIDFromContext(c)
		businessID := c.Param(param)
		ok, err := checker.HasBusinessRole(c.Request.Context(), userID, businessID, roles)
		if err != nil {
			telemetry.Error("permissions.check_failed", map[string]any{
				"user_id":     userID,
				"business_id": businessID,
				"error":       err,
			})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "permission check failed", nil)
			return
		}
		if !ok {
			respond.Error(c, http.StatusForbidden, "forbidden", "insufficient role for this business", nil)
			return
		}
		c.Next()
	}
}
