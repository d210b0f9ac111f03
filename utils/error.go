package utils

import (
	"fmt"
	"net/http"
	"time"

	"vapicalendar/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandler is a middleware to catch panics and return the generic failure body.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				GetLogger().Error("Unhandled panic",
					zap.Any("error", rec),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"))

				c.AbortWithStatusJSON(http.StatusInternalServerError, FailureResult(fmt.Errorf("panic: %v", rec)))
			}
		}()
		c.Next()
	}
}

// FailureResult builds the 500 body with a diagnostic side-channel. The stack
// trace goes to the log only.
func FailureResult(err error) models.FunctionResult {
	return models.FunctionResult{
		Result: models.GenericFailureResult,
		Error: &models.ErrorDetails{
			Timestamp: time.Now().UTC().Format(time.RFC3339),
			Type:      fmt.Sprintf("%T", err),
			Message:   err.Error(),
		},
	}
}
