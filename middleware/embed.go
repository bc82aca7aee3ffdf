package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/jira_dashboard/utils"
)

const accessDeniedPage = `<!DOCTYPE html>
<html lang="en">
<head><meta charset="utf-8"><title>Access Denied</title></head>
<body>
<h1>Access Denied</h1>
<p>This dashboard can only be viewed inside an approved host application.</p>
</body>
</html>
`

// EmbedGuard 看板页面只允许被白名单中的父页面以iframe嵌入
//
// 顶层导航 (Sec-Fetch-Dest: document) 直接拒绝；父页面来源取自Referer，其次Origin。
func EmbedGuard(allowList []string) gin.HandlerFunc {
	frameAncestors := "'none'"
	if len(allowList) > 0 {
		frameAncestors = strings.Join(allowList, " ")
	}

	return func(c *gin.Context) {
		c.Header("Content-Security-Policy", "frame-ancestors "+frameAncestors)

		if reason, ok := embedAllowed(c.Request, allowList); !ok {
			utils.Logger.Warn().
				Str("reason", reason).
				Str("referer", c.Request.Referer()).
				Str("requestId", c.GetString(utils.RequestIDKey)).
				Msg("[看板] 拒绝访问")
			c.Header("Content-Type", "text/html; charset=utf-8")
			c.AbortWithStatus(http.StatusForbidden)
			_, _ = c.Writer.WriteString(accessDeniedPage)
			return
		}
		c.Next()
	}
}

// embedAllowed 判断请求是否来自允许的父页面
func embedAllowed(r *http.Request, allowList []string) (string, bool) {
	dest := strings.ToLower(r.Header.Get("Sec-Fetch-Dest"))
	if dest == "document" {
		return "top-level navigation", false
	}
	if dest != "" && dest != "iframe" && dest != "frame" {
		return "unexpected destination " + dest, false
	}

	parent := r.Referer()
	if parent == "" {
		parent = r.Header.Get("Origin")
	}
	if parent == "" {
		return "missing parent origin", false
	}
	if !utils.IsAllowedOrigin(parent, allowList) {
		return "origin not allowed", false
	}
	return "", true
}
