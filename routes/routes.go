package routes

import (
	"net/http"
	"time"

	"vapicalendar/handlers"
	"vapicalendar/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterLocalWebhookRoutes registers the unauthenticated local webhook.
func RegisterLocalWebhookRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if !hb.LocalWebhookEnabled {
		return
	}
	api := r.Group("/webhook")
	{
		api.Use(middleware.RateLimitMiddleware(hb.MaxRequestsPerMin))
		api.POST("/calendar", hb.LocalWebhook)
	}
}

// RegisterHostedFunctionRoutes registers the hosted function endpoint: CORS
// for browser preflights, then the shared-secret check on POST.
func RegisterHostedFunctionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/functions/v1")
	{
		api.Use(cors.New(cors.Config{
			AllowAllOrigins: true,
			AllowMethods:    []string{"POST", "OPTIONS"},
			AllowHeaders:    []string{"authorization", "x-client-info", "apikey", "content-type", middleware.VapiSecretHeader},
			ExposeHeaders:   []string{"Content-Length", middleware.RequestIDHeader},
			MaxAge:          12 * time.Hour,
		}))
		api.OPTIONS("/calendar", func(c *gin.Context) {
			c.String(http.StatusOK, "ok")
		})
		api.POST("/calendar",
			middleware.RateLimitMiddleware(hb.MaxRequestsPerMin),
			middleware.VapiSecret(hb.VapiSecret),
			hb.HostedWebhook,
		)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Health == nil {
		r.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm the VAPI calendar webhook"})
		})
		return
	}
	r.GET("/health", hb.Health)
}

// RegisterRoutes centralizes registration of all endpoints and the
// request-scoped logger.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Logger != nil {
		r.Use(middleware.RequestLogger(hb.Logger))
	}

	RegisterLocalWebhookRoutes(r, hb)
	RegisterHostedFunctionRoutes(r, hb)
	RegisterHealthRoute(r, hb)
}
