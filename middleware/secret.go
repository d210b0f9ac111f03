package middleware

import (
	"crypto/subtle"
	"net/http"

	"vapicalendar/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	VapiSecretHeader    = "x-vapi-secret"
	UnauthorizedMessage = "Unauthorized: Invalid or missing x-vapi-secret header"
)

// VapiSecret rejects requests whose x-vapi-secret header does not match
// secret. An empty configured secret rejects everything.
func VapiSecret(secret string) gin.HandlerFunc {
	expected := []byte(secret)
	return func(c *gin.Context) {
		presented := c.GetHeader(VapiSecretHeader)
		if secret == "" || presented == "" || subtle.ConstantTimeCompare([]byte(presented), expected) != 1 {
			loggerFrom(c).Warn("Invalid or missing VAPI secret", zap.Bool("headerPresent", presented != ""))
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.FunctionResult{Result: UnauthorizedMessage})
			return
		}
		c.Next()
	}
}
