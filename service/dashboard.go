package service

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BerniceZTT/jira_dashboard/config"
	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/utils"
)

// IssueClient JIRA查询接口
type IssueClient interface {
	Validate() error
	Search(ctx context.Context, req models.JiraSearchRequest) (*models.JiraSearchResult, error)
	Fields(ctx context.Context) ([]models.JiraField, error)
}

// FieldMappingSource 字段映射来源
type FieldMappingSource interface {
	FieldMapping(ctx context.Context) (models.FieldMapping, error)
}

// DashboardService 拉取JIRA数据并转换为看板数据
type DashboardService struct {
	client   IssueClient
	mappings FieldMappingSource

	ordersProject string
	webProject    string
	ordersLimit   int
	webLimit      int

	now func() time.Time
}

// NewDashboardService 创建看板服务
func NewDashboardService(client IssueClient, mappings FieldMappingSource, cfg *config.Config) *DashboardService {
	return &DashboardService{
		client:        client,
		mappings:      mappings,
		ordersProject: cfg.OrdersProject,
		webProject:    cfg.WebProject,
		ordersLimit:   cfg.OrdersLimit,
		webLimit:      cfg.WebLimit,
		now:           time.Now,
	}
}

// OrdersJQL 订单查询语句
func OrdersJQL(project string) string {
	return fmt.Sprintf(`project = "%s" ORDER BY created DESC`, project)
}

// WebProjectsJQL 网站项目Epic查询语句
func WebProjectsJQL(project string) string {
	return fmt.Sprintf(`project = "%s" AND issuetype = Epic ORDER BY created DESC`, project)
}

// FetchDashboard 依次查询订单和网站项目，任一步失败则整体失败
func (s *DashboardService) FetchDashboard(ctx context.Context) (*models.DashboardData, error) {
	if err := s.client.Validate(); err != nil {
		return nil, err
	}

	mapping, err := s.mappings.FieldMapping(ctx)
	if err != nil {
		return nil, utils.NewAppError("加载字段映射失败", http.StatusInternalServerError, err)
	}

	utils.Logger.Info().
		Str("ordersProject", s.ordersProject).
		Str("webProject", s.webProject).
		Msg("开始同步JIRA数据")

	orderResult, err := s.client.Search(ctx, models.JiraSearchRequest{
		JQL:        OrdersJQL(s.ordersProject),
		MaxResults: s.ordersLimit,
		Fields:     []string{"*all"},
	})
	if err != nil {
		return nil, utils.NewAppError("获取订单失败", http.StatusInternalServerError, err)
	}

	webResult, err := s.client.Search(ctx, models.JiraSearchRequest{
		JQL:        WebProjectsJQL(s.webProject),
		MaxResults: s.webLimit,
		Fields:     []string{"*all"},
	})
	if err != nil {
		return nil, utils.NewAppError("获取网站项目失败", http.StatusInternalServerError, err)
	}

	now := s.now()
	data := BuildDashboardData(Normalizer{Mapping: mapping, Now: now}, orderResult.Issues, webResult.Issues)
	data.LastSynced = now.UTC().Format(time.RFC3339)

	utils.Logger.Info().
		Int("orders", len(data.Orders)).
		Int("webProjects", len(data.WebProjects)).
		Msg("JIRA数据同步完成")

	return data, nil
}

// FetchFields 透传JIRA字段元数据
func (s *DashboardService) FetchFields(ctx context.Context) ([]models.JiraField, error) {
	return s.client.Fields(ctx)
}

// BuildDashboardData 映射issue并生成汇总与筛选选项
func BuildDashboardData(n Normalizer, orderIssues, webIssues []models.JiraIssue) *models.DashboardData {
	orders := make([]models.Order, 0, len(orderIssues))
	for _, issue := range orderIssues {
		orders = append(orders, n.MapOrder(issue))
	}
	projects := make([]models.WebProject, 0, len(webIssues))
	for _, issue := range webIssues {
		projects = append(projects, n.MapWebProject(issue))
	}

	return &models.DashboardData{
		Summary:         BuildSummary(orders, projects),
		Orders:          orders,
		WebProjects:     projects,
		Customers:       FilterOptions(models.AllCustomers, orders, func(o models.Order) string { return o.Customer }),
		Agents:          FilterOptions(models.AllAgents, orders, func(o models.Order) string { return o.Agent }),
		AccountManagers: FilterOptions(models.AllAccountManagers, orders, func(o models.Order) string { return o.AccountManager }),
	}
}

// BuildSummary 汇总订单与项目
func BuildSummary(orders []models.Order, projects []models.WebProject) models.DashboardSummary {
	customers := make(map[string]struct{})
	revenue := decimal.Zero
	outstanding := decimal.Zero
	for _, o := range orders {
		customers[o.Customer] = struct{}{}
		revenue = revenue.Add(o.OrderTotal)
		outstanding = outstanding.Add(o.RemainingDue)
	}

	return models.DashboardSummary{
		TotalCustomers:      len(customers),
		TotalOrders:         len(orders),
		TotalRevenue:        revenue,
		OutstandingPayments: outstanding,
		OrderHealth:         HealthDistribution(orders),
		TotalProjects:       len(projects),
		ActiveProjects:      CountActiveProjects(projects),
	}
}

// FilterOptions 去重排序后的筛选选项，首项为"All …"哨兵
func FilterOptions(sentinel string, orders []models.Order, value func(models.Order) string) []string {
	seen := make(map[string]struct{})
	var values []string
	for _, o := range orders {
		v := value(o)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		values = append(values, v)
	}
	sort.Strings(values)
	return append([]string{sentinel}, values...)
}
