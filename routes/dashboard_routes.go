package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/jira_dashboard/config"
	"github.com/BerniceZTT/jira_dashboard/controllers"
	"github.com/BerniceZTT/jira_dashboard/middleware"
)

// RegisterJiraDashboardRoutes 数据入口
func RegisterJiraDashboardRoutes(router *gin.Engine, ctl *controllers.Controller) {
	router.POST("/api/jira-dashboard", ctl.JiraDashboard)
}

// RegisterDashboardRoutes 派生视图
func RegisterDashboardRoutes(router *gin.Engine, ctl *controllers.Controller) {
	dashboardRoutes := router.Group("/api/dashboard")

	dashboardRoutes.GET("/metrics", ctl.GetMetrics)
	dashboardRoutes.GET("/orders", ctl.GetOrders)
	dashboardRoutes.GET("/web-projects", ctl.GetWebProjects)
	dashboardRoutes.GET("/cash-flow", ctl.GetCashFlow)
	dashboardRoutes.GET("/export", ctl.ExportDashboard)
}

// RegisterFieldMappingRoutes 字段映射
func RegisterFieldMappingRoutes(router *gin.Engine, ctl *controllers.Controller) {
	fieldMappingRoutes := router.Group("/api/field-mappings")

	fieldMappingRoutes.GET("", ctl.GetFieldMappings)
	fieldMappingRoutes.PUT("", ctl.UpdateFieldMappings)
}

// RegisterPageRoutes 嵌入式页面
func RegisterPageRoutes(router *gin.Engine, cfg *config.Config, ctl *controllers.Controller) {
	router.GET("/dashboard", middleware.EmbedGuard(cfg.EmbedAllowedOrigins), ctl.DashboardPage)
}
