package routers

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grabsync/internal/app/server/handlers/dashboard"
	"grabsync/internal/app/server/handlers/order"
	"grabsync/internal/app/server/handlers/simulator"
	"grabsync/internal/app/server/handlers/webhook"
	"grabsync/internal/app/server/middlewares"
)

// SetupRoutes 配置所有路由
// 路径保持与 cPanel 时代一致，Grab 侧与看板前端无需改造
func SetupRoutes(
	webhookHandler *webhook.WebhookHandler,
	orderHandler *order.OrderHandler,
	dashboardHandler *dashboard.DashboardHandler,
	simulatorHandler *simulator.GineeSimulatorHandler,
) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.CORS())
	r.Use(middlewares.Prometheus())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "ok",
			"service": "grabsync",
			"message": "Service is running",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/webhook/grab", webhookHandler.Receive)
	r.POST("/sync-order/:id", orderHandler.Resync)
	r.GET("/orders/:id", orderHandler.Get)
	r.GET("/dashboard", dashboardHandler.Get)

	if simulatorHandler != nil {
		r.POST("/simulate/ginee", simulatorHandler.Simulate)
	}

	return r
}
