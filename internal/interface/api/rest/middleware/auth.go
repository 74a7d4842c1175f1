package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"files-manager-api/internal/application/ports"
)

const (
	HeaderToken = "X-Token"

	CtxUserID = "userID"
)

// AuthMiddleware resolves X-Token to a user id. A missing, unknown or expired
// token is a plain 401.
func AuthMiddleware(sessions ports.SessionResolver, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader(HeaderToken)
		if token == "" {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "Unauthorized"},
			)
			return
		}

		userID, ok, err := sessions.Resolve(c.Request.Context(), token)
		if err != nil {
			logger.Error("Resolve() error", zap.Error(err))
			c.AbortWithStatusJSON(
				http.StatusInternalServerError,
				gin.H{"error": "failed to resolve session"},
			)
			return
		}
		if !ok {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				gin.H{"error": "Unauthorized"},
			)
			return
		}

		c.Set(CtxUserID, userID)

		c.Next()
	}
}

func UserID(c *gin.Context) string { return c.GetString(CtxUserID) }
