package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"resume-ats/internal/shared/server/respond"
	"resume-ats/internal/shared/telemetry"
)

// Recovery turns a handler panic into a logged 500. If the handler already
// started writing, the status line is gone and only the log remains.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecoveryWithWriter(nil, func(c *gin.Context, rec any) {
		fields := map[string]any{
			"request_id": RequestIDFromContext(c),
			"error":      fmt.Sprint(rec),
			"stack":      string(debug.Stack()),
			"route":      c.FullPath(),
		}
		if userID := UserIDFromContext(c); userID != "" {
			fields["user_id"] = userID
		}
		telemetry.Error("http.panic", fields)
		if c.Writer.Written() {
			c.Abort()
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal", "Unexpected server error")
	})
}
