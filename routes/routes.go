package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/fperezb/diet-agent-telegram/controllers"
	"github.com/fperezb/diet-agent-telegram/middlewares"
)

// SetupRouter wires the HTTP surface: the Telegram webhook, health check,
// and the admin-token-protected operational endpoints.
func SetupRouter(
	webhook *controllers.WebhookController,
	maint *controllers.MaintenanceController,
	realtime *controllers.RealtimeController,
	adminToken string,
) *gin.Engine {
	r := gin.Default()

	r.GET("/health", controllers.Health)
	r.POST("/webhook", webhook.Handle)

	admin := r.Group("/admin")
	admin.Use(middlewares.AdminAuth(adminToken))
	{
		admin.GET("/stats", maint.Stats)
		admin.POST("/purge", maint.Purge)
		admin.GET("/ws/alerts", realtime.AlertsWS)
	}

	return r
}
