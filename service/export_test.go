package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/BerniceZTT/jira_dashboard/models"
)

func TestWriteWorkbook_DashboardSheets(t *testing.T) {
	orders := sampleOrders()
	orders[0].JiraKey = "CM-1"
	orders[0].EstShipDate = "2024-07-01"
	metrics := ComputeMetrics(orders, sampleProjects(), models.MetricsFilter{})

	var buf bytes.Buffer
	require.NoError(t, WriteWorkbook(&buf, DashboardSheets(orders, sampleProjects(), metrics)))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetOrders, SheetCashFlow, SheetWebProjects, SheetAgentPayments}, f.GetSheetList())

	header, err := f.GetCellValue(SheetOrders, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Key", header)

	key, err := f.GetCellValue(SheetOrders, "A2")
	require.NoError(t, err)
	assert.Equal(t, "CM-1", key)

	rows, err := f.GetRows(SheetOrders)
	require.NoError(t, err)
	assert.Len(t, rows, len(orders)+1)

	date, err := f.GetCellValue(SheetCashFlow, "A2")
	require.NoError(t, err)
	assert.Equal(t, "2024-07-01", date)

	agent, err := f.GetCellValue(SheetAgentPayments, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Bob", agent)

	projects, err := f.GetRows(SheetWebProjects)
	require.NoError(t, err)
	assert.Len(t, projects, len(sampleProjects())+1)
}

func TestWriteWorkbook_RequiresSheets(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, WriteWorkbook(&buf, nil))
	assert.Zero(t, buf.Len())
}
