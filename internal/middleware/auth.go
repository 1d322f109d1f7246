package middleware

import (
	"net/http"
	"strings"

	"gramroute/internal/config"
	"gramroute/internal/logger"
	appErrors "gramroute/pkg/errors"
	"gramroute/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Context keys set by AuthMiddleware.
const (
	UserIDKey   = "userID"
	EmailKey    = "email"
	UsernameKey = "username"
	IsAdminKey  = "isAdmin"
)

// AuthMiddleware verifies the bearer token. A missing or malformed header is
// 401; a token that fails verification is 403.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, "Not logged in")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		claims, err := utils.ValidateToken(strings.TrimSpace(parts[1]), cfg.JWT.Secret)
		if err != nil {
			logger.WithRequestID(GetRequestID(c)).Debug("Token rejected",
				zap.Error(err),
				zap.String("event", "token_rejected"),
			)
			utils.AbortWithError(c, http.StatusForbidden, "Invalid login session")
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Set(EmailKey, claims.Email)
		c.Set(UsernameKey, claims.Username)
		c.Set(IsAdminKey, claims.IsAdmin)

		c.Next()
	}
}

// GetUserID returns the authenticated caller's id.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	v, exists := c.Get(UserIDKey)
	if !exists {
		return uuid.Nil, appErrors.ErrUnauthorized
	}
	id, ok := v.(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, appErrors.ErrUnauthorized
	}
	return id, nil
}

// IsAdmin reports the admin flag carried by the caller's token.
func IsAdmin(c *gin.Context) bool {
	return c.GetBool(IsAdminKey)
}
