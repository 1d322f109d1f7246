package middleware

import (
	"net/http"

	"gramroute/internal/logger"
	"gramroute/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AdminOnly lets the request through only when the token carries the admin
// flag. The flag is not re-checked against the database.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !IsAdmin(c) {
			logger.WithRequestID(GetRequestID(c)).Warn("Admin route denied",
				zap.String("path", c.Request.URL.Path),
				zap.String("event", "admin_access_denied"),
			)
			utils.AbortWithError(c, http.StatusForbidden, "Insufficient permissions")
			return
		}

		c.Next()
	}
}
