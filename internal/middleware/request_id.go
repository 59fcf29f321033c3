package middleware

import (
	"github.com/employeest/employeest-api/internal/constants"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestID tags each request with an id, reusing a client supplied
// X-Request-ID when present, and echoes it in the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(constants.HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}

		c.Set(constants.ContextKeyRequestID, id)
		c.Header(constants.HeaderRequestID, id)
		c.Next()
	}
}

// GetRequestID returns the id assigned by RequestID, or "-"
func GetRequestID(c *gin.Context) string {
	if id := c.GetString(constants.ContextKeyRequestID); id != "" {
		return id
	}
	return "-"
}
