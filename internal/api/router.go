package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/d60-Lab/agexport-console/config"
	"github.com/d60-Lab/agexport-console/internal/api/handler"
	"github.com/d60-Lab/agexport-console/internal/api/middleware"
)

// NewRouter 组装路由；管理端接口（录单、看板）走 JWT
func NewRouter(cfg *config.Config, h *handler.Handler) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gzip.Gzip(gzip.DefaultCompression))
	r.Use(cors.Default())
	r.Use(otelgin.Middleware("agexport-console"))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	v1 := r.Group("/api/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", middleware.RateLimit(10, 20), h.CreateOrder)
			orders.GET("", h.ListOrders)
			orders.GET("/:id", h.GetOrder)
			orders.PUT("/:id", h.UpdateOrderStatus)
			orders.DELETE("/:id", h.DeleteOrder)
			orders.GET("/:id/events", h.ListOrderEvents)
		}

		admin := v1.Group("", middleware.JWTAuth(cfg.Auth.JWTSecret))
		{
			admin.POST("/ordermanagement", h.CreateAdminOrder)
			admin.GET("/ordermanagement", h.ListAdminOrders)
			admin.PUT("/ordermanagement", h.UpdateAdminOrder)
			admin.DELETE("/ordermanagement", h.DeleteAdminOrder)

			admin.GET("/dashboard/stats", h.DashboardStats)
			admin.GET("/dashboard/charts", h.DashboardCharts)
		}

		v1.GET("/exchange-rate", h.ExchangeRate)
	}
	return r
}
