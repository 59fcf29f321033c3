package middleware

import (
	"strings"

	"github.com/employeest/employeest-api/internal/constants"
	apierrors "github.com/employeest/employeest-api/internal/errors"
	"github.com/employeest/employeest-api/internal/utils"
	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// TokenValidator validates bearer access tokens
type TokenValidator interface {
	ValidateToken(tokenString string) (*utils.TokenClaims, error)
}

// RequireAuth checks if the user is authenticated via session cookie or an
// Authorization: Bearer token. The session wins when both are present.
func RequireAuth(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		if userID := session.Get(constants.ContextKeyUserID); userID != nil {
			// Store user ID in context for easy access in handlers
			c.Set(constants.ContextKeyUserID, userID)
			c.Next()
			return
		}

		tokenString, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok || tokens == nil {
			apierrors.Unauthorized(c, "")
			return
		}

		claims, err := tokens.ValidateToken(tokenString)
		if err != nil {
			apierrors.Unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(constants.ContextKeyUserID, claims.UserID)
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}
