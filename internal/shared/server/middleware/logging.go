package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"creerlio-backend/internal/shared/telemetry"
)

// probe routes are logged at debug level so scrapes do not drown real traffic
var probeRoutes = map[string]struct{}{
	"/health":        {},
	"/api/v1/health": {},
	"/metrics":       {},
}

// Logging emits one "request.complete" line per request with the route
// template, latency and any domain IDs handlers set on the context.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		fields := map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.Request.URL.Path,
			"route":       c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"client_ip":   c.ClientIP(),
			"user_agent":  c.Request.UserAgent(),
		}
		for _, key := range []string{"resumeId", "businessId", "talentId"} {
			if v := c.GetString(key); v != "" {
				fields[key] = v
			}
		}
		if _, probe := probeRoutes[c.FullPath()]; probe {
			telemetry.Debug("request.complete", fields)
			return
		}
		telemetry.Info("request.complete", fields)
	}
}
