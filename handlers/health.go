package handlers

import (
	"net/http"

	"vapicalendar/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last health snapshot. A nil monitor only reports liveness.
func HealthHandler(monitor *utils.HealthMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if monitor == nil {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
			return
		}

		snapshot := monitor.Status()
		code, status := http.StatusOK, "ok"
		if !snapshot.CheckedAt.IsZero() && !snapshot.Healthy {
			code, status = http.StatusServiceUnavailable, "degraded"
		}
		c.JSON(code, gin.H{"status": status, "health": snapshot})
	}
}
