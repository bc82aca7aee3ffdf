package config

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/BerniceZTT/jira_dashboard/models"
)

//go:embed field_mapping.yaml
var defaultFieldMappingYAML []byte

// DefaultFieldMapping 内置的默认字段映射
func DefaultFieldMapping() models.FieldMapping {
	mapping, err := ParseFieldMapping(defaultFieldMappingYAML)
	if err != nil {
		// 内置文件随二进制发布，解析失败属于构建错误
		panic(fmt.Sprintf("内置字段映射解析失败: %v", err))
	}
	return mapping
}

// ParseFieldMapping 解析YAML格式的字段映射
func ParseFieldMapping(data []byte) (models.FieldMapping, error) {
	var mapping models.FieldMapping
	if err := yaml.Unmarshal(data, &mapping); err != nil {
		return models.FieldMapping{}, fmt.Errorf("解析字段映射失败: %w", err)
	}
	if mapping.Orders == nil {
		mapping.Orders = map[string]string{}
	}
	if mapping.WebProjects == nil {
		mapping.WebProjects = map[string]string{}
	}
	return mapping, nil
}

// LoadFieldMapping 加载字段映射：内置默认值，再用文件中的项覆盖
func LoadFieldMapping(path string) (models.FieldMapping, error) {
	mapping := DefaultFieldMapping()
	if path == "" {
		return mapping, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return mapping, fmt.Errorf("读取字段映射文件失败: %w", err)
	}
	override, err := ParseFieldMapping(data)
	if err != nil {
		return mapping, err
	}
	return mapping.Merge(override), nil
}
