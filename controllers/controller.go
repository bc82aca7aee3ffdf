package controllers

import (
	"context"

	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/service"
)

// FieldsFetcher JIRA字段元数据来源
type FieldsFetcher interface {
	FetchFields(ctx context.Context) ([]models.JiraField, error)
}

// MappingStore 字段映射存储
type MappingStore interface {
	Base() models.FieldMapping
	FieldMapping(ctx context.Context) (models.FieldMapping, error)
	Override(ctx context.Context) (*models.SystemConfig, error)
	SaveOverride(ctx context.Context, req models.UpdateFieldMappingRequest, updater string) (models.FieldMapping, error)
}

// Controller 看板接口依赖
type Controller struct {
	Fields   FieldsFetcher
	State    *service.DashboardState
	Mappings MappingStore
}

// NewController 创建控制器
func NewController(fields FieldsFetcher, state *service.DashboardState, mappings MappingStore) *Controller {
	return &Controller{Fields: fields, State: state, Mappings: mappings}
}
