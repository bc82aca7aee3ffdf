package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config 应用配置
type Config struct {
	Port  int
	Debug bool

	// JIRA 连接信息，缺失任一项时dashboard动作返回配置错误
	JiraDomain   string
	JiraEmail    string
	JiraAPIToken string
	JiraTimeout  time.Duration // 0 表示不设置超时

	// JQL 查询参数
	OrdersProject string
	WebProject    string
	OrdersLimit   int
	WebLimit      int

	FieldMappingFile    string
	EmbedAllowedOrigins []string

	// MongoDB 可选，仅用于字段映射覆盖和操作日志
	MongoURI string
	MongoDB  string
}

// LoadConfig 从环境变量加载配置
func LoadConfig() *Config {
	return &Config{
		Port:                getEnvInt("PORT", 8080),
		Debug:               getEnv("GIN_MODE", "debug") == "debug",
		JiraDomain:          strings.TrimSpace(os.Getenv("JIRA_DOMAIN")),
		JiraEmail:           strings.TrimSpace(os.Getenv("JIRA_EMAIL")),
		JiraAPIToken:        strings.TrimSpace(os.Getenv("JIRA_API_TOKEN")),
		JiraTimeout:         time.Duration(getEnvInt("JIRA_TIMEOUT_SEC", 0)) * time.Second,
		OrdersProject:       getEnv("JIRA_ORDERS_PROJECT", "CM"),
		WebProject:          getEnv("JIRA_WEB_PROJECT", "WEB"),
		OrdersLimit:         getEnvInt("JIRA_ORDERS_LIMIT", 100),
		WebLimit:            getEnvInt("JIRA_WEB_LIMIT", 50),
		FieldMappingFile:    getEnv("FIELD_MAPPING_FILE", ""),
		EmbedAllowedOrigins: getEnvList("EMBED_ALLOWED_ORIGINS", nil),
		MongoURI:            getEnv("MONGO_URI", ""),
		MongoDB:             getEnv("MONGO_DB", "jira_dashboard"),
	}
}

// getEnv 获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt 获取整型环境变量，解析失败返回默认值
func getEnvInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList 获取逗号分隔的列表
func getEnvList(key string, defaultValue []string) []string {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
