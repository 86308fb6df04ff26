package respond

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"creerlio-backend/internal/shared/telemetry"
)

// ErrorBody is the payload of every error response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// ErrorResponse wraps the error body: {"error":{"code","message","details"}}.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// Error logs and writes the standard error body, then aborts the chain.
// 5xx log at error level, 404 at info, other 4xx at warn.
func Error(c *gin.Context, status int, code, message string, details any) {
	fields := map[string]any{
		"status":     status,
		"code":       code,
		"message":    message,
		"route":      c.FullPath(),
		"path":       c.Request.URL.Path,
		"method":     c.Request.Method,
		"request_id": c.GetString("requestId"),
	}
	if userID := c.GetString("userId"); userID != "" {
		fields["user_id"] = userID
	}
	switch {
	case status >= http.StatusInternalServerError:
		telemetry.Error("http.error", fields)
	case status == http.StatusNotFound:
		telemetry.Info("http.error", fields)
	default:
		telemetry.Warn("http.error", fields)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}
