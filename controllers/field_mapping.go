package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/repository"
	"github.com/BerniceZTT/jira_dashboard/utils"
)

// GetFieldMappings 查看字段映射：基础映射、覆盖项、生效映射
// GET /api/field-mappings
func (ctl *Controller) GetFieldMappings(c *gin.Context) {
	utils.Logger.Info().Msg("[字段映射] 获取字段映射")
	ctx := c.Request.Context()

	effective, err := ctl.Mappings.FieldMapping(ctx)
	if err != nil {
		utils.HandleError(c, utils.NewAppError("获取字段映射失败", http.StatusInternalServerError, err))
		return
	}

	override, err := ctl.Mappings.Override(ctx)
	if err != nil && !errors.Is(err, repository.ErrDisabled) {
		utils.HandleError(c, utils.NewAppError("获取覆盖配置失败", http.StatusInternalServerError, err))
		return
	}

	utils.SuccessResponse(c, gin.H{
		"base":            ctl.Mappings.Base(),
		"override":        override,
		"effective":       effective,
		"overrideEnabled": repository.Enabled(),
	}, "")
}

// UpdateFieldMappings 保存字段映射覆盖项，下次同步生效
// PUT /api/field-mappings
func (ctl *Controller) UpdateFieldMappings(c *gin.Context) {
	var req models.UpdateFieldMappingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.HandleError(c, utils.CreateBadRequestError("请求参数错误: "+err.Error()))
		return
	}

	effective, err := ctl.Mappings.SaveOverride(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		if errors.Is(err, repository.ErrDisabled) {
			utils.HandleError(c, utils.CreateServiceUnavailableError("MongoDB"))
			return
		}
		utils.HandleError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"effective": effective}, "字段映射已更新")
}
