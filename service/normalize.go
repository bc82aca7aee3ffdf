package service

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BerniceZTT/jira_dashboard/models"
)

const (
	day = 24 * time.Hour

	// 截止日期在该天数内视为有风险
	atRiskWindow = 7 * day

	unknownCustomer = "Unknown"
)

// JIRA 日期/时间格式
var jiraTimeLayouts = []string{
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// Normalizer 将JIRA issue映射为看板实体
type Normalizer struct {
	Mapping models.FieldMapping
	Now     time.Time
}

// MapOrder 将CM项目的issue映射为订单
func (n Normalizer) MapOrder(issue models.JiraIssue) models.Order {
	f := issue.Fields
	summary := fieldText(f["summary"])
	orderField := func(name string) any {
		id := n.Mapping.Order(name)
		if id == "" {
			return nil
		}
		return f[id]
	}

	order := models.Order{
		ID:               issue.ID,
		JiraKey:          issue.Key,
		SalesOrderNumber: firstNonEmpty(fieldText(orderField(models.FieldSalesOrderNumber)), issue.Key),
		Customer:         customerName(fieldText(orderField(models.FieldCustomer)), summary),
		ProductName:      firstNonEmpty(fieldText(orderField(models.FieldProductName)), productFromSummary(summary)),
		Quantity:         int(fieldNumber(orderField(models.FieldQuantity)).IntPart()),

		OrderTotal:        fieldNumber(orderField(models.FieldOrderTotal)),
		DepositAmount:     fieldNumber(orderField(models.FieldDepositAmount)),
		FinalPayment:      fieldNumber(orderField(models.FieldFinalPayment)),
		CommissionDue:     fieldNumber(orderField(models.FieldCommissionDue)),
		CommissionPercent: fieldNumber(orderField(models.FieldCommissionPercent)),

		EstShipDate:    dayString(orderField(models.FieldEstShipDate)),
		ActualShipDate: dayString(orderField(models.FieldActualShipDate)),
		DueDate:        dayString(f["duedate"]),

		CurrentStatus:  statusName(f["status"]),
		ExpectedStatus: fieldText(orderField(models.FieldExpectedStatus)),

		Agent:          fieldText(orderField(models.FieldAgent)),
		AccountManager: fieldText(orderField(models.FieldAccountManager)),
		OrderNotes:     fieldText(orderField(models.FieldOrderNotes)),
	}
	order.RemainingDue = order.OrderTotal.Sub(order.DepositAmount)

	// 开始日期：下单日期，其次创建时间
	start, hasStart := fieldTime(orderField(models.FieldDateOrdered))
	if !hasStart {
		start, hasStart = fieldTime(f["created"])
	}
	if hasStart {
		order.StartDate = start.UTC().Format("2006-01-02")
		order.DaysInProduction = DaysInProduction(&start, n.Now)
	}

	var due *time.Time
	if t, ok := fieldTime(f["duedate"]); ok {
		due = &t
	}
	order.OrderHealth = ClassifyOrderHealth(fieldText(orderField(models.FieldOrderHealth)), due, n.Now)
	order.DaysBehindSchedule = DaysBehindSchedule(due, n.Now)

	return order
}

// MapWebProject 将WEB项目的Epic映射为网站项目
func (n Normalizer) MapWebProject(issue models.JiraIssue) models.WebProject {
	f := issue.Fields
	projectField := func(name string) any {
		id := n.Mapping.WebProject(name)
		if id == "" {
			return nil
		}
		return f[id]
	}

	project := models.WebProject{
		ID:         issue.ID,
		EpicKey:    issue.Key,
		EpicName:   firstNonEmpty(fieldText(projectField(models.FieldEpicName)), fieldText(f["summary"])),
		EpicStatus: ClassifyEpicStatus(statusName(f["status"])),
		StartDate:  dayString(projectField(models.FieldStartDate)),
		DueDate:    dayString(f["duedate"]),
	}

	// 子任务按状态分类计数
	if subtasks, ok := f["subtasks"].([]any); ok {
		for _, raw := range subtasks {
			sub, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			project.TotalTasks++
			subFields, _ := sub["fields"].(map[string]any)
			switch statusCategory(subFields["status"]) {
			case "done":
				project.Completed++
			case "indeterminate":
				project.InProgress++
			default:
				project.NotStarted++
			}
		}
	}
	if project.TotalTasks > 0 {
		project.PercentComplete = int(math.Round(float64(project.Completed) / float64(project.TotalTasks) * 100))
	}

	if due, ok := fieldTime(f["duedate"]); ok {
		project.IsOffTrack = due.Before(n.Now) && project.EpicStatus != models.EpicStatusComplete
	}

	return project
}

// ClassifyOrderHealth 计算订单健康状态：优先使用覆盖字段的文本，否则按截止日期推断
func ClassifyOrderHealth(override string, due *time.Time, now time.Time) models.OrderHealth {
	if text := strings.ToLower(strings.TrimSpace(override)); text != "" {
		switch {
		case strings.Contains(text, "off"), strings.Contains(text, "behind"):
			return models.OrderHealthOffTrack
		case strings.Contains(text, "risk"), strings.Contains(text, "warning"):
			return models.OrderHealthAtRisk
		default:
			return models.OrderHealthOnTrack
		}
	}

	if due == nil {
		return models.OrderHealthOnTrack
	}
	remaining := due.Sub(now)
	switch {
	case remaining < 0:
		return models.OrderHealthOffTrack
	case remaining <= atRiskWindow:
		return models.OrderHealthAtRisk
	default:
		return models.OrderHealthOnTrack
	}
}

// DaysBehindSchedule ceil((now - due) / 1天)，不小于0
func DaysBehindSchedule(due *time.Time, now time.Time) int {
	if due == nil {
		return 0
	}
	days := ceilDays(now.Sub(*due))
	if days < 0 {
		return 0
	}
	return days
}

// DaysInProduction ceil((now - start) / 1天)
func DaysInProduction(start *time.Time, now time.Time) int {
	if start == nil {
		return 0
	}
	return ceilDays(now.Sub(*start))
}

// ClassifyEpicStatus 按状态名映射Epic状态
func ClassifyEpicStatus(status string) models.EpicStatus {
	s := strings.ToLower(status)
	switch {
	case strings.Contains(s, "done"), strings.Contains(s, "complete"), strings.Contains(s, "closed"):
		return models.EpicStatusComplete
	case strings.Contains(s, "hold"), strings.Contains(s, "blocked"), strings.Contains(s, "paused"):
		return models.EpicStatusOnHold
	default:
		return models.EpicStatusActive
	}
}

func ceilDays(d time.Duration) int {
	return int(math.Ceil(float64(d) / float64(day)))
}

// customerName 客户字段 -> 标题中" - "之前的文本 -> "Unknown"
func customerName(field, summary string) string {
	if field != "" {
		return field
	}
	if name, _, _ := strings.Cut(summary, " - "); strings.TrimSpace(name) != "" {
		return strings.TrimSpace(name)
	}
	return unknownCustomer
}

func productFromSummary(summary string) string {
	if _, product, found := strings.Cut(summary, " - "); found {
		return strings.TrimSpace(product)
	}
	return ""
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func statusName(v any) string {
	if m, ok := v.(map[string]any); ok {
		return fieldText(m["name"])
	}
	return fieldText(v)
}

func statusCategory(v any) string {
	status, ok := v.(map[string]any)
	if !ok {
		return ""
	}
	category, ok := status["statusCategory"].(map[string]any)
	if !ok {
		return ""
	}
	return fieldText(category["key"])
}

// fieldText 将JIRA字段值转为文本：字符串、数字、选项对象、用户对象、数组、ADF文档
func fieldText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	case map[string]any:
		if x["type"] == "doc" {
			return strings.TrimSpace(adfText(x))
		}
		for _, key := range []string{"value", "displayName", "name", "key"} {
			if s := fieldText(x[key]); s != "" {
				return s
			}
		}
		return ""
	case []any:
		parts := make([]string, 0, len(x))
		for _, item := range x {
			if s := fieldText(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	default:
		return ""
	}
}

// adfText 提取Atlassian文档格式中的纯文本
func adfText(node map[string]any) string {
	var b strings.Builder
	if text, ok := node["text"].(string); ok {
		b.WriteString(text)
	}
	if children, ok := node["content"].([]any); ok {
		for i, raw := range children {
			child, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			if i > 0 && child["type"] == "paragraph" {
				b.WriteString("\n")
			}
			b.WriteString(adfText(child))
		}
	}
	return b.String()
}

// fieldNumber 将JIRA字段值转为金额/数量，无法解析时为0
func fieldNumber(v any) decimal.Decimal {
	switch x := v.(type) {
	case float64:
		return decimal.NewFromFloat(x)
	case int:
		return decimal.NewFromInt(int64(x))
	case int64:
		return decimal.NewFromInt(x)
	case json.Number:
		d, err := decimal.NewFromString(x.String())
		if err != nil {
			return decimal.Zero
		}
		return d
	case string:
		s := strings.NewReplacer("$", "", ",", "", "%", "", " ", "").Replace(x)
		if s == "" {
			return decimal.Zero
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return decimal.Zero
		}
		return d
	case map[string]any:
		return fieldNumber(x["value"])
	default:
		return decimal.Zero
	}
}

// fieldTime 解析JIRA日期或时间字段
func fieldTime(v any) (time.Time, bool) {
	s := fieldText(v)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range jiraTimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// dayString 日期字段格式化为 YYYY-MM-DD (UTC)，无法解析时为空
func dayString(v any) string {
	t, ok := fieldTime(v)
	if !ok {
		return ""
	}
	return t.UTC().Format("2006-01-02")
}
