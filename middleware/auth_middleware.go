package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/taskboard-api/apperrors"
	"github.com/taskboard-api/policy"
)

const callerKey = "caller"

// Authenticator resolves a bearer token to the calling user
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*policy.Caller, error)
}

// AuthMiddleware creates a middleware that requires a valid access token and
// stores the caller on the gin context
func AuthMiddleware(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Authentication credentials were not provided.",
			})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"detail": "Authorization header must be of the form: Bearer <token>",
			})
			return
		}

		caller, err := auth.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
		if err != nil {
			message := "Given token not valid for any token type"
			if ae, ok := apperrors.As(err); ok && ae.Code == apperrors.CodeUnauthorized {
				message = ae.Message
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": message})
			return
		}

		c.Set(callerKey, caller)
		c.Next()
	}
}

// CallerFrom returns the caller stored by AuthMiddleware, or nil
func CallerFrom(c *gin.Context) *policy.Caller {
	v, ok := c.Get(callerKey)
	if !ok {
		return nil
	}
	caller, _ := v.(*policy.Caller)
	return caller
}
