// File: handlers/bundle.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandlerBundle groups the endpoint handlers and the route-level settings
// routes.RegisterRoutes needs.
type HandlerBundle struct {
	Logger *zap.Logger

	// Calendar function-call endpoints
	LocalWebhookEnabled bool
	LocalWebhook        gin.HandlerFunc
	HostedWebhook       gin.HandlerFunc
	VapiSecret          string
	MaxRequestsPerMin   int

	// Operations
	Health gin.HandlerFunc
}
