package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BerniceZTT/jira_dashboard/models"
)

// CashFlowMaxRows 现金流表最多显示的日期数，更晚的日期直接丢弃
const CashFlowMaxRows = 12

type cashFlowBucket struct {
	amount    decimal.Decimal
	customers map[string]struct{}
	firstName string
	orders    []models.Order
}

// ProjectCashFlow 按发货日期聚合剩余应收款
func ProjectCashFlow(orders []models.Order) []models.CashFlowProjection {
	buckets := make(map[string]*cashFlowBucket)
	for _, o := range orders {
		if !o.RemainingDue.IsPositive() {
			continue
		}
		date := calendarDay(o.ShipDate())
		if date == "" {
			continue
		}

		b, ok := buckets[date]
		if !ok {
			b = &cashFlowBucket{amount: decimal.Zero, customers: make(map[string]struct{}), firstName: o.Customer}
			buckets[date] = b
		}
		b.amount = b.amount.Add(o.RemainingDue)
		b.customers[o.Customer] = struct{}{}
		b.orders = append(b.orders, o)
	}

	dates := make([]string, 0, len(buckets))
	for date := range buckets {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	if len(dates) > CashFlowMaxRows {
		dates = dates[:CashFlowMaxRows]
	}

	out := make([]models.CashFlowProjection, 0, len(dates))
	for _, date := range dates {
		b := buckets[date]
		customer := b.firstName
		if len(b.customers) > 1 {
			customer = fmt.Sprintf("%d customers", len(b.customers))
		}
		out = append(out, models.CashFlowProjection{
			Date:           date,
			ExpectedAmount: b.amount,
			Customer:       customer,
			OrderCount:     len(b.orders),
			Orders:         b.orders,
		})
	}
	return out
}

// calendarDay 归一化为 YYYY-MM-DD，无法解析的日期不参与分组
func calendarDay(s string) string {
	if s == "" {
		return ""
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t.Format("2006-01-02")
	}
	if t, ok := fieldTime(s); ok {
		return t.UTC().Format("2006-01-02")
	}
	return ""
}
