package controllers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BerniceZTT/jira_dashboard/config"
	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/service"
)

type stubFetcher struct {
	calls int
	data  *models.DashboardData
	err   error
}

func (s *stubFetcher) FetchDashboard(ctx context.Context) (*models.DashboardData, error) {
	s.calls++
	return s.data, s.err
}

type stubFields struct {
	fields []models.JiraField
	err    error
}

func (s stubFields) FetchFields(ctx context.Context) ([]models.JiraField, error) {
	return s.fields, s.err
}

func testData() *models.DashboardData {
	orders := []models.Order{
		{ID: "1", JiraKey: "CM-1", Customer: "Acme", Agent: "Bob", OrderTotal: decimal.NewFromInt(100), RemainingDue: decimal.NewFromInt(100), EstShipDate: "2024-07-01", OrderHealth: models.OrderHealthOnTrack},
		{ID: "2", JiraKey: "CM-2", Customer: "Acme", Agent: "Carol", OrderTotal: decimal.NewFromInt(300), RemainingDue: decimal.NewFromInt(250), EstShipDate: "2024-07-01", OrderHealth: models.OrderHealthAtRisk},
		{ID: "3", JiraKey: "CM-3", Customer: "Globex", Agent: "Bob", OrderTotal: decimal.NewFromInt(200), RemainingDue: decimal.NewFromInt(0), OrderHealth: models.OrderHealthOffTrack},
	}
	projects := []models.WebProject{
		{EpicKey: "WEB-1", EpicName: "Acme Storefront", EpicStatus: models.EpicStatusActive},
		{EpicKey: "WEB-2", EpicName: "Globex Intranet", EpicStatus: models.EpicStatusComplete},
	}
	return &models.DashboardData{
		Summary:     service.BuildSummary(orders, projects),
		Orders:      orders,
		WebProjects: projects,
		LastSynced:  "2024-06-15T12:00:00Z",
	}
}

func setupRouter(fetcher *stubFetcher, fields stubFields) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctl := NewController(fields, service.NewDashboardState(fetcher), service.NewFieldMappingStore(config.DefaultFieldMapping()))

	r := gin.New()
	r.POST("/api/jira-dashboard", ctl.JiraDashboard)
	r.GET("/api/dashboard/metrics", ctl.GetMetrics)
	r.GET("/api/dashboard/orders", ctl.GetOrders)
	r.GET("/api/dashboard/web-projects", ctl.GetWebProjects)
	r.GET("/api/dashboard/cash-flow", ctl.GetCashFlow)
	r.GET("/api/dashboard/export", ctl.ExportDashboard)
	r.GET("/api/field-mappings", ctl.GetFieldMappings)
	r.PUT("/api/field-mappings", ctl.UpdateFieldMappings)
	r.GET("/api/health", ctl.Health)
	r.GET("/dashboard", ctl.DashboardPage)
	return r
}

func perform(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body), w.Body.String())
	return body
}

func TestJiraDashboard_DefaultsToDashboardAction(t *testing.T) {
	for _, body := range []string{"", "{}", "not json", `{"action":""}`, `{"action":"dashboard"}`} {
		fetcher := &stubFetcher{data: testData()}
		w := perform(setupRouter(fetcher, stubFields{}), http.MethodPost, "/api/jira-dashboard", body)

		require.Equal(t, http.StatusOK, w.Code, body)
		resp := decode(t, w)
		assert.Equal(t, true, resp["success"])
		data := resp["data"].(map[string]interface{})
		assert.Len(t, data["orders"], 3)
		assert.Equal(t, "2024-06-15T12:00:00Z", data["lastSynced"])
		assert.Equal(t, 1, fetcher.calls)
	}
}

func TestJiraDashboard_MoneyIsJSONNumber(t *testing.T) {
	w := perform(setupRouter(&stubFetcher{data: testData()}, stubFields{}), http.MethodPost, "/api/jira-dashboard", "")
	data := decode(t, w)["data"].(map[string]interface{})
	summary := data["summary"].(map[string]interface{})
	assert.Equal(t, float64(600), summary["totalRevenue"])
}

func TestJiraDashboard_FieldsAction(t *testing.T) {
	fields := stubFields{fields: []models.JiraField{json.RawMessage(`{"id":"customfield_10050","name":"Customer","custom":true}`)}}
	w := perform(setupRouter(&stubFetcher{}, fields), http.MethodPost, "/api/jira-dashboard", `{"action":"fields"}`)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	list := resp["fields"].([]interface{})
	require.Len(t, list, 1)
	assert.Equal(t, "Customer", list[0].(map[string]interface{})["name"])
}

func TestJiraDashboard_UnknownAction(t *testing.T) {
	fetcher := &stubFetcher{data: testData()}
	w := perform(setupRouter(fetcher, stubFields{}), http.MethodPost, "/api/jira-dashboard", `{"action":"purge"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Contains(t, resp["error"], "purge")
	assert.Zero(t, fetcher.calls)
}

func TestJiraDashboard_FailuresAre500Envelopes(t *testing.T) {
	w := perform(setupRouter(&stubFetcher{err: errors.New("JIRA配置缺失: JIRA_API_TOKEN")}, stubFields{}), http.MethodPost, "/api/jira-dashboard", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "JIRA配置缺失: JIRA_API_TOKEN", resp["error"])

	w = perform(setupRouter(&stubFetcher{}, stubFields{err: errors.New("jira field status=401")}), http.MethodPost, "/api/jira-dashboard", `{"action":"fields"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestGetMetrics_AppliesFilter(t *testing.T) {
	r := setupRouter(&stubFetcher{data: testData()}, stubFields{})

	all := decode(t, perform(r, http.MethodGet, "/api/dashboard/metrics", ""))["data"].(map[string]interface{})
	assert.Equal(t, float64(3), all["activeOrders"])
	assert.Equal(t, float64(2), all["activeCustomers"])

	acme := decode(t, perform(r, http.MethodGet, "/api/dashboard/metrics?customer=Acme", ""))["data"].(map[string]interface{})
	assert.Equal(t, float64(2), acme["activeOrders"])
	assert.Equal(t, float64(1), acme["activeCustomers"])
	assert.Equal(t, float64(350), acme["outstandingPayments"])
	assert.Equal(t, all["monthlyRevenue"], acme["monthlyRevenue"])
	assert.Equal(t, float64(1), acme["activeProjects"])

	sentinel := decode(t, perform(r, http.MethodGet, "/api/dashboard/metrics?customer=All+Customers&agent=All+Agents", ""))["data"].(map[string]interface{})
	assert.Equal(t, float64(3), sentinel["activeOrders"])
}

func TestGetOrders_TableQuery(t *testing.T) {
	r := setupRouter(&stubFetcher{data: testData()}, stubFields{})

	resp := decode(t, perform(r, http.MethodGet, "/api/dashboard/orders?search=ACME&sort=orderTotal&sort=orderTotal", ""))
	data := resp["data"].(map[string]interface{})
	rows := data["rows"].([]interface{})
	require.Len(t, rows, 2)
	assert.Equal(t, "CM-2", rows[0].(map[string]interface{})["jiraKey"])
	assert.Equal(t, "CM-1", rows[1].(map[string]interface{})["jiraKey"])
	table := data["table"].(map[string]interface{})
	assert.Equal(t, "desc", table["sortDirection"])

	resp = decode(t, perform(r, http.MethodGet, "/api/dashboard/orders?filter=agent:bob", ""))
	rows = resp["data"].(map[string]interface{})["rows"].([]interface{})
	assert.Len(t, rows, 2)

	resp = decode(t, perform(r, http.MethodGet, "/api/dashboard/orders?agent=Carol", ""))
	assert.Equal(t, float64(1), resp["data"].(map[string]interface{})["total"])
}

func TestGetWebProjects_Search(t *testing.T) {
	r := setupRouter(&stubFetcher{data: testData()}, stubFields{})

	resp := decode(t, perform(r, http.MethodGet, "/api/dashboard/web-projects?search=globex&customer=Acme", ""))
	rows := resp["data"].(map[string]interface{})["rows"].([]interface{})
	require.Len(t, rows, 1)
	assert.Equal(t, "WEB-2", rows[0].(map[string]interface{})["epicKey"])
}

func TestGetCashFlow(t *testing.T) {
	r := setupRouter(&stubFetcher{data: testData()}, stubFields{})

	resp := decode(t, perform(r, http.MethodGet, "/api/dashboard/cash-flow", ""))
	rows := resp["data"].(map[string]interface{})["rows"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})
	assert.Equal(t, "2024-07-01", row["date"])
	assert.Equal(t, float64(350), row["expectedAmount"])
	assert.Equal(t, "Acme", row["customer"])
	assert.Equal(t, float64(2), row["orderCount"])
}

func TestDashboardViews_SyncFailureWithoutData(t *testing.T) {
	r := setupRouter(&stubFetcher{err: errors.New("jira search status=503")}, stubFields{})

	w := perform(r, http.MethodGet, "/api/dashboard/metrics", "")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])
}

func TestExportDashboard(t *testing.T) {
	w := perform(setupRouter(&stubFetcher{data: testData()}, stubFields{}), http.MethodGet, "/api/dashboard/export", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	// xlsx为zip格式
	assert.True(t, strings.HasPrefix(w.Body.String(), "PK"))
}

func TestFieldMappings(t *testing.T) {
	r := setupRouter(&stubFetcher{}, stubFields{})

	w := perform(r, http.MethodGet, "/api/field-mappings", "")
	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, false, data["overrideEnabled"])
	effective := data["effective"].(map[string]interface{})
	orders := effective["orders"].(map[string]interface{})
	assert.Equal(t, config.DefaultFieldMapping().Order(models.FieldCustomer), orders[models.FieldCustomer])

	w = perform(r, http.MethodPut, "/api/field-mappings", `{"orders":{"customer":"customfield_1"}}`)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, false, decode(t, w)["success"])

	w = perform(r, http.MethodPut, "/api/field-mappings", `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndPage(t *testing.T) {
	fetcher := &stubFetcher{data: testData()}
	r := setupRouter(fetcher, stubFields{})
	perform(r, http.MethodPost, "/api/jira-dashboard", "")

	resp := decode(t, perform(r, http.MethodGet, "/api/health", ""))
	assert.Equal(t, "ok", resp["status"])
	sync := resp["sync"].(map[string]interface{})
	assert.Equal(t, true, sync["hasData"])

	w := perform(r, http.MethodGet, "/dashboard", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `data-last-synced="2024-06-15T12:00:00Z"`)
}
