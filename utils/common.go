package utils

import (
	"net/url"
	"strings"
)

// RequestIDKey gin上下文中请求ID的键
const RequestIDKey = "requestId"

// OriginOf 从URL中提取 scheme://host[:port]
func OriginOf(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return strings.ToLower(u.Scheme + "://" + u.Host)
}

// IsAllowedOrigin 检查来源是否在白名单中，白名单项可为完整origin或"*"
func IsAllowedOrigin(origin string, allowList []string) bool {
	origin = OriginOf(origin)
	if origin == "" {
		return false
	}
	for _, allowed := range allowList {
		allowed = strings.TrimSpace(allowed)
		if allowed == "*" {
			return true
		}
		if OriginOf(allowed) == origin {
			return true
		}
	}
	return false
}

// BoolPtr 返回指针值，nil时返回默认值
func BoolPtr(b *bool, defaultValue bool) bool {
	if b == nil {
		return defaultValue
	}
	return *b
}
