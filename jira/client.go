package jira

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/utils"
)

const (
	searchPath = "/rest/api/3/search"
	fieldPath  = "/rest/api/3/field"
)

// ErrNotConfigured JIRA连接信息缺失
var ErrNotConfigured = errors.New("JIRA配置缺失")

// ConfigError 描述缺失的配置项
type ConfigError struct {
	Missing []string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s", ErrNotConfigured.Error(), strings.Join(e.Missing, ", "))
}

func (e *ConfigError) Unwrap() error {
	return ErrNotConfigured
}

// UpstreamError JIRA返回非2xx响应
type UpstreamError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("jira %s status=%d body=%s", e.Op, e.StatusCode, e.Body)
}

// Client JIRA REST API 客户端 (Basic认证: 账号邮箱 + API Token)
type Client struct {
	baseURL string
	email   string
	token   string
	http    *http.Client
}

// NewClient 创建客户端。domain可以是主机名(acme.atlassian.net)或完整URL；timeout为0时不设置超时
func NewClient(domain, email, token string, timeout time.Duration) *Client {
	return &Client{
		baseURL: normalizeBaseURL(domain),
		email:   strings.TrimSpace(email),
		token:   strings.TrimSpace(token),
		http:    &http.Client{Timeout: timeout},
	}
}

func normalizeBaseURL(domain string) string {
	domain = strings.TrimRight(strings.TrimSpace(domain), "/")
	if domain == "" {
		return ""
	}
	if !strings.HasPrefix(domain, "http://") && !strings.HasPrefix(domain, "https://") {
		domain = "https://" + domain
	}
	return domain
}

// Validate 检查三项连接信息是否齐全
func (c *Client) Validate() error {
	var missing []string
	if c == nil || c.baseURL == "" {
		missing = append(missing, "JIRA_DOMAIN")
	}
	if c == nil || c.email == "" {
		missing = append(missing, "JIRA_EMAIL")
	}
	if c == nil || c.token == "" {
		missing = append(missing, "JIRA_API_TOKEN")
	}
	if len(missing) > 0 {
		return &ConfigError{Missing: missing}
	}
	return nil
}

// Search 执行JQL查询
func (c *Client) Search(ctx context.Context, req models.JiraSearchRequest) (*models.JiraSearchResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	fields := req.Fields
	if len(fields) == 0 {
		fields = []string{"*all"}
	}
	query := url.Values{}
	query.Set("jql", req.JQL)
	query.Set("maxResults", strconv.Itoa(req.MaxResults))
	query.Set("fields", strings.Join(fields, ","))

	var out models.JiraSearchResult
	if err := c.getJSON(ctx, "search", searchPath+"?"+query.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Fields 获取字段元数据，原样返回
func (c *Client) Fields(ctx context.Context) ([]models.JiraField, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	var out []models.JiraField
	if err := c.getJSON(ctx, "field", fieldPath, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) getJSON(ctx context.Context, op, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}
	req.SetBasicAuth(c.email, c.token)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		utils.LogUpstreamCall(http.MethodGet, path, 0, time.Since(start), err)
		return fmt.Errorf("jira %s: %w", op, err)
	}
	defer resp.Body.Close()
	utils.LogUpstreamCall(http.MethodGet, path, resp.StatusCode, time.Since(start), nil)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		blob, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return &UpstreamError{Op: op, StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(blob))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("jira %s: 解析响应失败: %w", op, err)
	}
	return nil
}
