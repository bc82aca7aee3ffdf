package routes

import (
	"github.com/BerniceZTT/jira_dashboard/config"
	"github.com/BerniceZTT/jira_dashboard/controllers"
	"github.com/BerniceZTT/jira_dashboard/middleware"

	"github.com/gin-gonic/gin"
)

// NewRouter 创建gin实例并挂载中间件与路由
func NewRouter(cfg *config.Config, ctl *controllers.Controller) *gin.Engine {
	router := gin.New()

	router.Use(middleware.RequestID())
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.CORS())
	router.Use(middleware.ErrorHandler())
	router.Use(middleware.OperationLoggerMiddleware())

	RegisterRoutes(router, cfg, ctl)
	return router
}

// RegisterRoutes 注册所有路由
func RegisterRoutes(router *gin.Engine, cfg *config.Config, ctl *controllers.Controller) {
	RegisterJiraDashboardRoutes(router, ctl)
	RegisterDashboardRoutes(router, ctl)
	RegisterFieldMappingRoutes(router, ctl)
	RegisterPageRoutes(router, cfg, ctl)

	// 健康检查路由
	router.GET("/api/health", ctl.Health)
}
