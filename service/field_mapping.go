package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/BerniceZTT/jira_dashboard/config"
	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/repository"
	"github.com/BerniceZTT/jira_dashboard/utils"
)

// FieldMappingStore 字段映射：基础映射(内置+文件) + MongoDB中的覆盖项
type FieldMappingStore struct {
	base models.FieldMapping
}

// NewFieldMappingStore 创建字段映射存储
func NewFieldMappingStore(base models.FieldMapping) *FieldMappingStore {
	return &FieldMappingStore{base: base}
}

// Base 基础映射
func (s *FieldMappingStore) Base() models.FieldMapping {
	return s.base
}

// FieldMapping 当前生效的映射，每次同步时读取，修改覆盖项后无需重启
func (s *FieldMappingStore) FieldMapping(ctx context.Context) (models.FieldMapping, error) {
	if !repository.Enabled() {
		return s.base, nil
	}

	override, err := s.Override(ctx)
	if err != nil {
		return s.base, err
	}
	if override == nil || !override.IsEnabled {
		return s.base, nil
	}

	mapping, err := ParseFieldMappingValue(override.ConfigValue)
	if err != nil {
		return s.base, err
	}
	return s.base.Merge(mapping), nil
}

// Override 读取覆盖配置，不存在时返回nil
func (s *FieldMappingStore) Override(ctx context.Context) (*models.SystemConfig, error) {
	collection := repository.Collection(repository.SystemConfigsCollection)
	if collection == nil {
		return nil, repository.ErrDisabled
	}

	var cfg models.SystemConfig
	err := collection.FindOne(ctx, bson.M{
		"configType": models.ConfigTypeJiraFieldMapping,
		"configKey":  models.FieldMappingConfigKey,
	}).Decode(&cfg)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("读取字段映射配置失败: %w", err)
	}
	return &cfg, nil
}

// SaveOverride 保存覆盖配置 (upsert)，返回保存后生效的映射
func (s *FieldMappingStore) SaveOverride(ctx context.Context, req models.UpdateFieldMappingRequest, updater string) (models.FieldMapping, error) {
	collection := repository.Collection(repository.SystemConfigsCollection)
	if collection == nil {
		return s.base, repository.ErrDisabled
	}

	value := models.FieldMapping{Orders: req.Orders, WebProjects: req.WebProjects}
	if err := validateFieldMapping(value); err != nil {
		return s.base, err
	}

	now := time.Now()
	update := bson.M{
		"$set": bson.M{
			"configValue": value,
			"description": req.Description,
			"isEnabled":   utils.BoolPtr(req.IsEnabled, true),
			"updaterName": updater,
			"updatedAt":   now,
		},
		"$setOnInsert": bson.M{
			"configType": models.ConfigTypeJiraFieldMapping,
			"configKey":  models.FieldMappingConfigKey,
			"createdAt":  now,
		},
	}

	_, err := repository.ExecuteDbOperation(func() (interface{}, error) {
		return collection.UpdateOne(ctx, bson.M{
			"configType": models.ConfigTypeJiraFieldMapping,
			"configKey":  models.FieldMappingConfigKey,
		}, update, options.Update().SetUpsert(true))
	}, 3)
	if err != nil {
		return s.base, fmt.Errorf("保存字段映射配置失败: %w", err)
	}

	utils.Logger.Info().Str("updater", updater).Msg("[字段映射] 覆盖配置已保存")
	return s.FieldMapping(ctx)
}

// ParseFieldMappingValue 解析configValue：文档(bson.D/bson.M/map)、YAML文本或映射结构体
func ParseFieldMappingValue(value interface{}) (models.FieldMapping, error) {
	switch v := value.(type) {
	case nil:
		return models.FieldMapping{}, fmt.Errorf("字段映射配置为空")
	case models.FieldMapping:
		return v, nil
	case *models.FieldMapping:
		if v == nil {
			return models.FieldMapping{}, fmt.Errorf("字段映射配置为空")
		}
		return *v, nil
	case string:
		return config.ParseFieldMapping([]byte(v))
	}

	// 通用方式：通过BSON序列化/反序列化
	data, err := bson.Marshal(value)
	if err != nil {
		return models.FieldMapping{}, fmt.Errorf("无法解析字段映射配置，实际类型: %T: %w", value, err)
	}
	var mapping models.FieldMapping
	if err := bson.Unmarshal(data, &mapping); err != nil {
		return models.FieldMapping{}, fmt.Errorf("BSON 反序列化失败: %w", err)
	}
	return mapping, nil
}

// validateFieldMapping 至少包含一项，且语义名、字段标识均不能为空
func validateFieldMapping(m models.FieldMapping) error {
	if len(m.Orders) == 0 && len(m.WebProjects) == 0 {
		return utils.CreateBadRequestError("字段映射不能为空")
	}
	for _, section := range []map[string]string{m.Orders, m.WebProjects} {
		for name, id := range section {
			if name == "" || id == "" {
				return utils.CreateBadRequestError(fmt.Sprintf("无效的字段映射项: %q -> %q", name, id))
			}
		}
	}
	return nil
}
