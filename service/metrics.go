package service

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BerniceZTT/jira_dashboard/models"
)

// 健康状态在分布图中的顺序，前三项始终输出
var healthOrder = []models.OrderHealth{
	models.OrderHealthOnTrack,
	models.OrderHealthAtRisk,
	models.OrderHealthOffTrack,
	models.OrderHealthComplete,
	models.OrderHealthPendingDeposit,
	models.OrderHealthOnHold,
	models.OrderHealthWhiteLabel,
}

// isAll 空值或"All …"哨兵表示不过滤
func isAll(value, sentinel string) bool {
	value = strings.TrimSpace(value)
	return value == "" || value == sentinel
}

// MatchesFilter 三个筛选条件AND组合
func MatchesFilter(o models.Order, f models.MetricsFilter) bool {
	return (isAll(f.Customer, models.AllCustomers) || f.Customer == o.Customer) &&
		(isAll(f.Agent, models.AllAgents) || f.Agent == o.Agent) &&
		(isAll(f.AccountManager, models.AllAccountManagers) || f.AccountManager == o.AccountManager)
}

// FilterOrders 返回通过筛选的订单，保持原顺序
func FilterOrders(orders []models.Order, f models.MetricsFilter) []models.Order {
	out := make([]models.Order, 0, len(orders))
	for _, o := range orders {
		if MatchesFilter(o, f) {
			out = append(out, o)
		}
	}
	return out
}

// ComputeMetrics 计算派生指标
//
// 客户数、订单数、未收款、健康分布基于筛选后的订单；
// 月度收入和应付佣金基于全部订单；进行中项目数与订单筛选无关。
func ComputeMetrics(orders []models.Order, projects []models.WebProject, f models.MetricsFilter) models.DashboardMetrics {
	filtered := FilterOrders(orders, f)

	customers := make(map[string]struct{})
	outstanding := decimal.Zero
	for _, o := range filtered {
		customers[o.Customer] = struct{}{}
		outstanding = outstanding.Add(o.RemainingDue)
	}

	revenue := decimal.Zero
	commissions := decimal.Zero
	for _, o := range orders {
		revenue = revenue.Add(o.OrderTotal)
		commissions = commissions.Add(o.CommissionDue)
	}

	return models.DashboardMetrics{
		Filter:              f,
		ActiveCustomers:     len(customers),
		ActiveOrders:        len(filtered),
		MonthlyRevenue:      revenue,
		CommissionsDue:      commissions,
		OutstandingPayments: outstanding,
		ActiveProjects:      CountActiveProjects(projects),
		OrderHealth:         HealthDistribution(filtered),
		CashFlow:            ProjectCashFlow(filtered),
		AgentPayments:       AgentPayments(filtered),
		ActiveCustomerList:  ActiveCustomers(filtered),
	}
}

// HealthDistribution 订单健康状态分布
func HealthDistribution(orders []models.Order) models.HealthHistogram {
	counts := make(map[models.OrderHealth]int)
	for _, o := range orders {
		counts[o.OrderHealth]++
	}

	histogram := models.HealthHistogram{}
	for i, health := range healthOrder {
		if i < 3 || counts[health] > 0 {
			histogram = append(histogram, models.ChartDataItem{Name: string(health), Value: counts[health]})
		}
	}
	return histogram
}

// CountActiveProjects 进行中的网站项目数
func CountActiveProjects(projects []models.WebProject) int {
	count := 0
	for _, p := range projects {
		if p.EpicStatus == models.EpicStatusActive {
			count++
		}
	}
	return count
}

// AgentPayments 按代理汇总佣金，未分配代理的订单不计入
func AgentPayments(orders []models.Order) []models.AgentPayment {
	byAgent := make(map[string]*models.AgentPayment)
	var names []string
	for _, o := range orders {
		if o.Agent == "" {
			continue
		}
		payment, ok := byAgent[o.Agent]
		if !ok {
			payment = &models.AgentPayment{Agent: o.Agent, TotalCommission: decimal.Zero}
			byAgent[o.Agent] = payment
			names = append(names, o.Agent)
		}
		payment.OrderCount++
		payment.TotalCommission = payment.TotalCommission.Add(o.CommissionDue)
		payment.Commissions = append(payment.Commissions, models.Commission{
			OrderID:           o.ID,
			SalesOrderNumber:  o.SalesOrderNumber,
			Customer:          o.Customer,
			CommissionDue:     o.CommissionDue,
			CommissionPercent: o.CommissionPercent,
		})
	}

	out := make([]models.AgentPayment, 0, len(names))
	for _, name := range names {
		out = append(out, *byAgent[name])
	}
	// 佣金从高到低，相同按名称
	sort.SliceStable(out, func(i, j int) bool {
		if c := out[i].TotalCommission.Cmp(out[j].TotalCommission); c != 0 {
			return c > 0
		}
		return out[i].Agent < out[j].Agent
	})
	return out
}

// ActiveCustomers 按客户汇总订单
func ActiveCustomers(orders []models.Order) []models.ActiveCustomer {
	byName := make(map[string]*models.ActiveCustomer)
	var names []string
	for _, o := range orders {
		c, ok := byName[o.Customer]
		if !ok {
			c = &models.ActiveCustomer{
				Name:        o.Customer,
				TotalValue:  decimal.Zero,
				Outstanding: decimal.Zero,
				Status:      o.OrderHealth,
			}
			byName[o.Customer] = c
			names = append(names, o.Customer)
		}
		c.OrderCount++
		c.TotalValue = c.TotalValue.Add(o.OrderTotal)
		c.Outstanding = c.Outstanding.Add(o.RemainingDue)
		if models.OrderHealthSeverity[o.OrderHealth] > models.OrderHealthSeverity[c.Status] {
			c.Status = o.OrderHealth
		}
	}

	sort.Strings(names)
	out := make([]models.ActiveCustomer, 0, len(names))
	for _, name := range names {
		out = append(out, *byName[name])
	}
	return out
}
