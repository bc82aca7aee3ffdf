package controllers

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/utils"
)

// JiraDashboard 看板数据入口，按action分发
// POST /api/jira-dashboard
func (ctl *Controller) JiraDashboard(c *gin.Context) {
	action := parseAction(c)
	c.Set("action", action)

	utils.Logger.Info().
		Str("requestId", c.GetString(utils.RequestIDKey)).
		Str("action", action).
		Msg("[JIRA看板] 收到请求")

	switch action {
	case models.ActionDashboard:
		data, err := ctl.State.Sync(c.Request.Context())
		if err != nil {
			utils.Logger.Error().Err(err).Msg("[JIRA看板] 同步失败")
			utils.ErrorResponse(c, err.Error(), http.StatusInternalServerError)
			return
		}
		utils.SuccessResponse(c, data, "")

	case models.ActionFields:
		fields, err := ctl.Fields.FetchFields(c.Request.Context())
		if err != nil {
			utils.Logger.Error().Err(err).Msg("[JIRA看板] 获取字段失败")
			utils.ErrorResponse(c, err.Error(), http.StatusInternalServerError)
			return
		}
		if fields == nil {
			fields = []models.JiraField{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "fields": fields})

	default:
		utils.HandleError(c, utils.CreateBadRequestError(fmt.Sprintf("Unknown action: %s", action)))
	}
}

// parseAction 请求体缺失或无法解析时默认为dashboard
func parseAction(c *gin.Context) string {
	if c.Request.Body == nil {
		return models.ActionDashboard
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil || len(strings.TrimSpace(string(body))) == 0 {
		return models.ActionDashboard
	}

	var req models.DashboardRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return models.ActionDashboard
	}
	if action := strings.TrimSpace(req.Action); action != "" {
		return action
	}
	return models.ActionDashboard
}
