package models

import (
	"github.com/shopspring/decimal"
)

// 筛选器哨兵值
const (
	AllCustomers       = "All Customers"
	AllAgents          = "All Agents"
	AllAccountManagers = "All Account Managers"
)

// 图表数据项
type ChartDataItem struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
}

// HealthHistogram 订单健康状态分布
type HealthHistogram []ChartDataItem

// Count 返回指定健康状态的订单数
func (h HealthHistogram) Count(health OrderHealth) int {
	for _, item := range h {
		if item.Name == string(health) {
			return item.Value
		}
	}
	return 0
}

// 数据看板汇总
type DashboardSummary struct {
	TotalCustomers      int             `json:"totalCustomers"`      // 客户数 (去重)
	TotalOrders         int             `json:"totalOrders"`         // 订单总数
	TotalRevenue        decimal.Decimal `json:"totalRevenue"`        // 订单总额
	OutstandingPayments decimal.Decimal `json:"outstandingPayments"` // 未收款
	OrderHealth         HealthHistogram `json:"orderHealth"`         // 健康状态分布
	TotalProjects       int             `json:"totalProjects"`       // 网站项目总数
	ActiveProjects      int             `json:"activeProjects"`      // 进行中的网站项目
}

// DashboardData dashboard动作的响应数据
type DashboardData struct {
	Summary         DashboardSummary `json:"summary"`
	Orders          []Order          `json:"orders"`
	WebProjects     []WebProject     `json:"webProjects"`
	Customers       []string         `json:"customers"`
	Agents          []string         `json:"agents"`
	AccountManagers []string         `json:"accountManagers"`
	LastSynced      string           `json:"lastSynced"`
}

// MetricsFilter 看板筛选条件，空值或"All …"哨兵表示不过滤
type MetricsFilter struct {
	Customer       string `json:"customer" form:"customer"`
	Agent          string `json:"agent" form:"agent"`
	AccountManager string `json:"accountManager" form:"accountManager"`
}

// CashFlowProjection 按发货日期聚合的现金流预测
type CashFlowProjection struct {
	Date           string          `json:"date"`
	ExpectedAmount decimal.Decimal `json:"expectedAmount"`
	Customer       string          `json:"customer"` // 单个客户名或"N customers"
	OrderCount     int             `json:"orderCount"`
	Orders         []Order         `json:"orders,omitempty"`
}

// Field 按JSON字段名取值
func (p CashFlowProjection) Field(key string) any {
	switch key {
	case "date":
		return p.Date
	case "expectedAmount":
		return p.ExpectedAmount
	case "customer":
		return p.Customer
	case "orderCount":
		return p.OrderCount
	}
	return nil
}

// Commission 单个订单的佣金记录
type Commission struct {
	OrderID           string          `json:"orderId"`
	SalesOrderNumber  string          `json:"salesOrderNumber"`
	Customer          string          `json:"customer"`
	CommissionDue     decimal.Decimal `json:"commissionDue"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`
}

// AgentPayment 按代理汇总的佣金
type AgentPayment struct {
	Agent           string          `json:"agent"`
	OrderCount      int             `json:"orderCount"`
	TotalCommission decimal.Decimal `json:"totalCommission"`
	Commissions     []Commission    `json:"commissions"`
}

// ActiveCustomer 客户维度汇总
type ActiveCustomer struct {
	Name        string          `json:"name"`
	OrderCount  int             `json:"orderCount"`
	TotalValue  decimal.Decimal `json:"totalValue"`
	Outstanding decimal.Decimal `json:"outstanding"`
	Status      OrderHealth     `json:"status"` // 该客户订单中最严重的健康状态
}

// DashboardMetrics 派生指标
type DashboardMetrics struct {
	Filter              MetricsFilter        `json:"filter"`
	ActiveCustomers     int                  `json:"activeCustomers"`     // 筛选后
	ActiveOrders        int                  `json:"activeOrders"`        // 筛选后
	MonthlyRevenue      decimal.Decimal      `json:"monthlyRevenue"`      // 全部订单
	CommissionsDue      decimal.Decimal      `json:"commissionsDue"`      // 全部订单
	OutstandingPayments decimal.Decimal      `json:"outstandingPayments"` // 筛选后
	ActiveProjects      int                  `json:"activeProjects"`      // 与订单筛选无关
	OrderHealth         HealthHistogram      `json:"orderHealth"`         // 筛选后
	CashFlow            []CashFlowProjection `json:"cashFlow"`
	AgentPayments       []AgentPayment       `json:"agentPayments"`
	ActiveCustomerList  []ActiveCustomer     `json:"activeCustomerList"`
}
