package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ConfigType 配置类型枚举
type ConfigType string

const (
	// ConfigTypeJiraFieldMapping JIRA自定义字段映射
	ConfigTypeJiraFieldMapping ConfigType = "jira_field_mapping"
)

// FieldMappingConfigKey 字段映射配置在集合中的唯一键
const FieldMappingConfigKey = "default"

// 订单字段的语义名
const (
	FieldCustomer          = "customer"
	FieldSalesOrderNumber  = "salesOrderNumber"
	FieldProductName       = "productName"
	FieldQuantity          = "quantity"
	FieldOrderTotal        = "orderTotal"
	FieldDepositAmount     = "depositAmount"
	FieldFinalPayment      = "finalPayment"
	FieldCommissionDue     = "commissionDue"
	FieldCommissionPercent = "commissionPercent"
	FieldDateOrdered       = "dateOrdered"
	FieldEstShipDate       = "estShipDate"
	FieldActualShipDate    = "actualShipDate"
	FieldExpectedStatus    = "expectedStatus"
	FieldOrderHealth       = "orderHealth"
	FieldAgent             = "agent"
	FieldAccountManager    = "accountManager"
	FieldOrderNotes        = "orderNotes"
)

// 网站项目字段的语义名
const (
	FieldEpicName  = "epicName"
	FieldStartDate = "startDate"
)

// FieldMapping 语义名 -> JIRA字段标识 的映射表
type FieldMapping struct {
	Orders      map[string]string `yaml:"orders" json:"orders" bson:"orders"`
	WebProjects map[string]string `yaml:"webProjects" json:"webProjects" bson:"webProjects"`
}

// Order 返回订单字段对应的JIRA字段标识
func (m FieldMapping) Order(name string) string {
	return m.Orders[name]
}

// WebProject 返回网站项目字段对应的JIRA字段标识
func (m FieldMapping) WebProject(name string) string {
	return m.WebProjects[name]
}

// Merge 用override中的非空项覆盖当前映射，返回新映射
func (m FieldMapping) Merge(override FieldMapping) FieldMapping {
	out := FieldMapping{
		Orders:      make(map[string]string, len(m.Orders)),
		WebProjects: make(map[string]string, len(m.WebProjects)),
	}
	for k, v := range m.Orders {
		out.Orders[k] = v
	}
	for k, v := range m.WebProjects {
		out.WebProjects[k] = v
	}
	for k, v := range override.Orders {
		if v != "" {
			out.Orders[k] = v
		}
	}
	for k, v := range override.WebProjects {
		if v != "" {
			out.WebProjects[k] = v
		}
	}
	return out
}

// SystemConfig 系统配置模型 (MongoDB文档结构)
type SystemConfig struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	ConfigType  ConfigType         `bson:"configType" json:"configType"`
	ConfigKey   string             `bson:"configKey" json:"configKey"`
	ConfigValue interface{}        `bson:"configValue" json:"configValue"`
	Description string             `bson:"description" json:"description"`
	IsEnabled   bool               `bson:"isEnabled" json:"isEnabled"`

	CreatedAt time.Time `bson:"createdAt,omitempty" json:"createdAt,omitempty"`

	// 更新信息
	UpdaterName string    `bson:"updaterName,omitempty" json:"updaterName,omitempty"`
	UpdatedAt   time.Time `bson:"updatedAt,omitempty" json:"updatedAt,omitempty"`
}

// UpdateFieldMappingRequest 更新字段映射请求
type UpdateFieldMappingRequest struct {
	Orders      map[string]string `json:"orders"`
	WebProjects map[string]string `json:"webProjects"`
	Description string            `json:"description"`
	IsEnabled   *bool             `json:"isEnabled,omitempty"`
}
