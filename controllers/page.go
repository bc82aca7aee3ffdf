package controllers

import (
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/jira_dashboard/repository"
	"github.com/BerniceZTT/jira_dashboard/utils"
)

var dashboardPage = template.Must(template.New("dashboard").Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Executive Dashboard</title>
</head>
<body>
<div id="root" data-api="/api/jira-dashboard" data-last-synced="{{.LastSynced}}"></div>
</body>
</html>
`))

// DashboardPage 嵌入式看板页面外壳，访问控制由EmbedGuard完成
// GET /dashboard
func (ctl *Controller) DashboardPage(c *gin.Context) {
	status := ctl.State.Status()
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(http.StatusOK)
	if err := dashboardPage.Execute(c.Writer, status); err != nil {
		utils.Logger.Error().Err(err).Msg("[看板] 渲染页面失败")
	}
}

// Health 健康检查，附带最近一次同步的状态
// GET /api/health
func (ctl *Controller) Health(c *gin.Context) {
	db, err := repository.GetDatabaseStatus()
	if err != nil {
		db = map[string]interface{}{"error": err.Error()}
	}
	c.JSON(http.StatusOK, gin.H{
		"status":   "ok",
		"sync":     ctl.State.Status(),
		"database": db,
	})
}
