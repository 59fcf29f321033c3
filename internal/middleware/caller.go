package middleware

import (
	"context"
	"errors"
	"log"

	"github.com/employeest/employeest-api/internal/constants"
	apierrors "github.com/employeest/employeest-api/internal/errors"
	"github.com/employeest/employeest-api/internal/models"
	"github.com/employeest/employeest-api/internal/policy"
	"github.com/employeest/employeest-api/internal/services"
	"github.com/gin-gonic/gin"
)

// CallerResolver loads the identity the policy evaluates
type CallerResolver interface {
	ResolveCaller(ctx context.Context, userID uint64) (policy.Caller, error)
}

// ResolveCaller loads the authenticated user's role into the context. It
// must run after RequireAuth. A session pointing at a deleted user is
// treated as unauthenticated.
func ResolveCaller(resolver CallerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := GetUserID(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		caller, err := resolver.ResolveCaller(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, services.ErrNotFound) {
				apierrors.Unauthorized(c, "User no longer exists")
				return
			}
			log.Printf("[%s] failed to resolve caller %d: %v", GetRequestID(c), userID, err)
			apierrors.InternalError(c, "")
			return
		}

		c.Set(constants.ContextKeyCaller, caller)
		c.Next()
	}
}

// GetCaller retrieves the caller stored by ResolveCaller
func GetCaller(c *gin.Context) (policy.Caller, bool) {
	value, exists := c.Get(constants.ContextKeyCaller)
	if !exists {
		return policy.Caller{}, false
	}
	caller, ok := value.(policy.Caller)
	return caller, ok
}

// RequireRole lets the request through only if the caller holds one of roles
func RequireRole(roles ...models.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, exists := GetCaller(c)
		if !exists {
			apierrors.Unauthorized(c, "")
			return
		}

		for _, role := range roles {
			if caller.Role == role {
				c.Next()
				return
			}
		}

		apierrors.Forbidden(c, "Insufficient role")
	}
}
