package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/service"
	"github.com/BerniceZTT/jira_dashboard/utils"
)

// 各表格参与搜索的字段
var (
	orderSearchKeys      = []string{"jiraKey", "salesOrderNumber", "customer", "productName", "agent", "accountManager"}
	webProjectSearchKeys = []string{"epicKey", "epicName"}
	cashFlowSearchKeys   = []string{"date", "customer"}
)

// TableResponse 表格视图响应
type TableResponse[T any] struct {
	Rows  []T                `json:"rows"`
	Total int                `json:"total"`
	Table service.TableState `json:"table"`
}

// GetMetrics 派生指标
// GET /api/dashboard/metrics
func (ctl *Controller) GetMetrics(c *gin.Context) {
	data, ok := ctl.currentData(c)
	if !ok {
		return
	}
	filter := bindMetricsFilter(c)

	utils.Logger.Info().
		Str("customer", filter.Customer).
		Str("agent", filter.Agent).
		Str("accountManager", filter.AccountManager).
		Msg("[看板] 计算指标")

	utils.SuccessResponse(c, service.ComputeMetrics(data.Orders, data.WebProjects, filter), "")
}

// GetOrders 订单表
// GET /api/dashboard/orders
func (ctl *Controller) GetOrders(c *gin.Context) {
	data, ok := ctl.currentData(c)
	if !ok {
		return
	}
	orders := service.FilterOrders(data.Orders, bindMetricsFilter(c))
	state := tableStateFromQuery(c, orderSearchKeys...)
	rows := service.ApplyTable(state, orders)

	utils.SuccessResponse(c, TableResponse[models.Order]{Rows: rows, Total: len(rows), Table: *state}, "")
}

// GetWebProjects 网站项目表，不受订单筛选影响
// GET /api/dashboard/web-projects
func (ctl *Controller) GetWebProjects(c *gin.Context) {
	data, ok := ctl.currentData(c)
	if !ok {
		return
	}
	state := tableStateFromQuery(c, webProjectSearchKeys...)
	rows := service.ApplyTable(state, data.WebProjects)

	utils.SuccessResponse(c, TableResponse[models.WebProject]{Rows: rows, Total: len(rows), Table: *state}, "")
}

// GetCashFlow 现金流预测表
// GET /api/dashboard/cash-flow
func (ctl *Controller) GetCashFlow(c *gin.Context) {
	data, ok := ctl.currentData(c)
	if !ok {
		return
	}
	projections := service.ProjectCashFlow(service.FilterOrders(data.Orders, bindMetricsFilter(c)))
	state := tableStateFromQuery(c, cashFlowSearchKeys...)
	rows := service.ApplyTable(state, projections)

	utils.SuccessResponse(c, TableResponse[models.CashFlowProjection]{Rows: rows, Total: len(rows), Table: *state}, "")
}

// ExportDashboard 导出筛选后的看板为xlsx
// GET /api/dashboard/export
func (ctl *Controller) ExportDashboard(c *gin.Context) {
	data, ok := ctl.currentData(c)
	if !ok {
		return
	}
	filter := bindMetricsFilter(c)
	orders := service.FilterOrders(data.Orders, filter)
	metrics := service.ComputeMetrics(data.Orders, data.WebProjects, filter)

	var buf bytes.Buffer
	if err := service.WriteWorkbook(&buf, service.DashboardSheets(orders, data.WebProjects, metrics)); err != nil {
		utils.HandleError(c, utils.NewAppError("导出失败", http.StatusInternalServerError, err))
		return
	}

	filename := fmt.Sprintf("jira-dashboard-%s.xlsx", time.Now().Format("20060102"))
	utils.Logger.Info().Int("orders", len(orders)).Str("file", filename).Msg("[看板] 导出Excel")

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// currentData 返回当前看板数据，尚无数据时先同步；失败时已写入错误响应
func (ctl *Controller) currentData(c *gin.Context) (*models.DashboardData, bool) {
	data, err := ctl.State.Current(c.Request.Context())
	if err != nil {
		utils.HandleError(c, err)
		return nil, false
	}
	if data == nil {
		utils.ErrorResponse(c, "暂无看板数据", http.StatusServiceUnavailable)
		return nil, false
	}
	return data, true
}

// bindMetricsFilter 读取customer/agent/accountManager参数
func bindMetricsFilter(c *gin.Context) models.MetricsFilter {
	var filter models.MetricsFilter
	_ = c.ShouldBindQuery(&filter)
	return filter
}

// tableStateFromQuery 从查询参数构建表格状态
//
//	search=acme        搜索关键字
//	sort=orderTotal    依次应用的排序切换，可重复
//	filter=agent:Bob   键值筛选，可重复
func tableStateFromQuery(c *gin.Context, searchKeys ...string) *service.TableState {
	state := service.NewTableState(searchKeys...)
	state.SetSearch(c.Query("search"))

	for _, key := range c.QueryArray("sort") {
		state.ToggleSort(strings.TrimSpace(key))
	}

	for _, raw := range c.QueryArray("filter") {
		key, value, found := strings.Cut(raw, ":")
		if !found {
			continue
		}
		state.SetFilter(strings.TrimSpace(key), strings.TrimSpace(value))
	}
	return state
}
