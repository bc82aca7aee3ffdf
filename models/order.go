package models

import (
	"github.com/shopspring/decimal"
)

func init() {
	// 金额字段以JSON数字输出，与前端契约保持一致
	decimal.MarshalJSONWithoutQuotes = true
}

// OrderHealth 订单健康状态枚举
type OrderHealth string

const (
	OrderHealthOnTrack        OrderHealth = "on-track"
	OrderHealthAtRisk         OrderHealth = "at-risk"
	OrderHealthOffTrack       OrderHealth = "off-track"
	OrderHealthComplete       OrderHealth = "complete"
	OrderHealthPendingDeposit OrderHealth = "pending-deposit"
	OrderHealthOnHold         OrderHealth = "on-hold"
	OrderHealthWhiteLabel     OrderHealth = "white-label"
)

// OrderHealthSeverity 健康状态严重程度，数值越大越严重
var OrderHealthSeverity = map[OrderHealth]int{
	OrderHealthComplete:       0,
	OrderHealthWhiteLabel:     1,
	OrderHealthOnTrack:        2,
	OrderHealthPendingDeposit: 3,
	OrderHealthOnHold:         4,
	OrderHealthAtRisk:         5,
	OrderHealthOffTrack:       6,
}

// Order 生产订单 (来自CM项目)
type Order struct {
	ID               string `json:"id"`
	JiraKey          string `json:"jiraKey"`
	SalesOrderNumber string `json:"salesOrderNumber"`
	Customer         string `json:"customer"`
	ProductName      string `json:"productName"`
	Quantity         int    `json:"quantity"`

	// 金额
	OrderTotal        decimal.Decimal `json:"orderTotal"`
	DepositAmount     decimal.Decimal `json:"depositAmount"`
	RemainingDue      decimal.Decimal `json:"remainingDue"` // orderTotal - depositAmount
	FinalPayment      decimal.Decimal `json:"finalPayment"`
	CommissionDue     decimal.Decimal `json:"commissionDue"`
	CommissionPercent decimal.Decimal `json:"commissionPercent"`

	// 日期 (YYYY-MM-DD)
	StartDate      string `json:"startDate,omitempty"`
	DueDate        string `json:"dueDate,omitempty"`
	EstShipDate    string `json:"estShipDate,omitempty"`
	ActualShipDate string `json:"actualShipDate,omitempty"`

	CurrentStatus      string      `json:"currentStatus"`
	ExpectedStatus     string      `json:"expectedStatus,omitempty"`
	OrderHealth        OrderHealth `json:"orderHealth"`
	DaysBehindSchedule int         `json:"daysBehindSchedule"`
	DaysInProduction   int         `json:"daysInProduction"`

	Agent          string `json:"agent,omitempty"`
	AccountManager string `json:"accountManager,omitempty"`
	OrderNotes     string `json:"orderNotes,omitempty"`
}

// ShipDate 现金流使用的发货日期：预计发货日期，其次截止日期
func (o Order) ShipDate() string {
	if o.EstShipDate != "" {
		return o.EstShipDate
	}
	return o.DueDate
}

// Field 按JSON字段名取值，供表格搜索/筛选/排序使用
func (o Order) Field(key string) any {
	switch key {
	case "id":
		return o.ID
	case "jiraKey":
		return o.JiraKey
	case "salesOrderNumber":
		return o.SalesOrderNumber
	case "customer":
		return o.Customer
	case "productName":
		return o.ProductName
	case "quantity":
		return o.Quantity
	case "orderTotal":
		return o.OrderTotal
	case "depositAmount":
		return o.DepositAmount
	case "remainingDue":
		return o.RemainingDue
	case "finalPayment":
		return o.FinalPayment
	case "commissionDue":
		return o.CommissionDue
	case "commissionPercent":
		return o.CommissionPercent
	case "startDate":
		return optional(o.StartDate)
	case "dueDate":
		return optional(o.DueDate)
	case "estShipDate":
		return optional(o.EstShipDate)
	case "actualShipDate":
		return optional(o.ActualShipDate)
	case "currentStatus":
		return o.CurrentStatus
	case "expectedStatus":
		return optional(o.ExpectedStatus)
	case "orderHealth":
		return string(o.OrderHealth)
	case "daysBehindSchedule":
		return o.DaysBehindSchedule
	case "daysInProduction":
		return o.DaysInProduction
	case "agent":
		return optional(o.Agent)
	case "accountManager":
		return optional(o.AccountManager)
	case "orderNotes":
		return optional(o.OrderNotes)
	}
	return nil
}

// optional 空字符串视为缺失值
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}
