package models

import "encoding/json"

// JiraIssue JIRA搜索接口返回的issue
type JiraIssue struct {
	ID     string         `json:"id"`
	Key    string         `json:"key"`
	Fields map[string]any `json:"fields"`
}

// JiraSearchResult /rest/api/3/search 响应
type JiraSearchResult struct {
	StartAt    int         `json:"startAt"`
	MaxResults int         `json:"maxResults"`
	Total      int         `json:"total"`
	Issues     []JiraIssue `json:"issues"`
}

// JiraSearchRequest JQL查询参数
type JiraSearchRequest struct {
	JQL        string
	MaxResults int
	Fields     []string
}

// JiraField 字段元数据，原样透传
type JiraField = json.RawMessage

// DashboardRequest /api/jira-dashboard 请求体
type DashboardRequest struct {
	Action string `json:"action"`
}

const (
	ActionDashboard = "dashboard"
	ActionFields    = "fields"
)
