package service

import (
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/BerniceZTT/jira_dashboard/models"
)

// ExportSheet 导出的工作表
type ExportSheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// 工作表名称
const (
	SheetOrders        = "Orders"
	SheetCashFlow      = "Cash Flow"
	SheetWebProjects   = "Web Projects"
	SheetAgentPayments = "Agent Payments"
)

// DashboardSheets 按筛选后的视图生成工作表
func DashboardSheets(orders []models.Order, projects []models.WebProject, metrics models.DashboardMetrics) []ExportSheet {
	orderSheet := ExportSheet{
		Name: SheetOrders,
		Headers: []string{
			"Key", "Sales Order", "Customer", "Product", "Quantity",
			"Order Total", "Deposit", "Remaining Due", "Commission Due",
			"Start Date", "Due Date", "Est. Ship Date", "Status", "Health",
			"Days Behind", "Days In Production", "Agent", "Account Manager",
		},
	}
	for _, o := range orders {
		orderSheet.Rows = append(orderSheet.Rows, []interface{}{
			o.JiraKey, o.SalesOrderNumber, o.Customer, o.ProductName, o.Quantity,
			o.OrderTotal.InexactFloat64(), o.DepositAmount.InexactFloat64(),
			o.RemainingDue.InexactFloat64(), o.CommissionDue.InexactFloat64(),
			o.StartDate, o.DueDate, o.EstShipDate, o.CurrentStatus, string(o.OrderHealth),
			o.DaysBehindSchedule, o.DaysInProduction, o.Agent, o.AccountManager,
		})
	}

	cashSheet := ExportSheet{
		Name:    SheetCashFlow,
		Headers: []string{"Date", "Expected Amount", "Customer", "Orders"},
	}
	for _, p := range metrics.CashFlow {
		cashSheet.Rows = append(cashSheet.Rows, []interface{}{
			p.Date, p.ExpectedAmount.InexactFloat64(), p.Customer, p.OrderCount,
		})
	}

	projectSheet := ExportSheet{
		Name: SheetWebProjects,
		Headers: []string{
			"Epic", "Name", "Status", "Total Tasks", "Not Started", "In Progress",
			"Completed", "% Complete", "Start Date", "Due Date", "Off Track",
		},
	}
	for _, p := range projects {
		projectSheet.Rows = append(projectSheet.Rows, []interface{}{
			p.EpicKey, p.EpicName, string(p.EpicStatus), p.TotalTasks, p.NotStarted, p.InProgress,
			p.Completed, p.PercentComplete, p.StartDate, p.DueDate, strconv.FormatBool(p.IsOffTrack),
		})
	}

	agentSheet := ExportSheet{
		Name:    SheetAgentPayments,
		Headers: []string{"Agent", "Orders", "Total Commission"},
	}
	for _, a := range metrics.AgentPayments {
		agentSheet.Rows = append(agentSheet.Rows, []interface{}{
			a.Agent, a.OrderCount, a.TotalCommission.InexactFloat64(),
		})
	}

	return []ExportSheet{orderSheet, cashSheet, projectSheet, agentSheet}
}

// WriteWorkbook 生成xlsx并写入w，第一个工作表为活动表
func WriteWorkbook(w io.Writer, sheets []ExportSheet) error {
	if len(sheets) == 0 {
		return fmt.Errorf("没有可导出的工作表")
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("创建表头样式失败: %w", err)
	}

	for i, sheet := range sheets {
		index, err := f.NewSheet(sheet.Name)
		if err != nil {
			return fmt.Errorf("创建工作表 %s 失败: %w", sheet.Name, err)
		}
		if i == 0 {
			f.SetActiveSheet(index)
		}

		for col, header := range sheet.Headers {
			cell, err := excelize.CoordinatesToCellName(col+1, 1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet.Name, cell, header); err != nil {
				return err
			}
			if err := f.SetCellStyle(sheet.Name, cell, cell, headerStyle); err != nil {
				return err
			}
		}

		for rowIdx, row := range sheet.Rows {
			for colIdx, value := range row {
				cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
				if err != nil {
					return err
				}
				if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
					return err
				}
			}
		}

		if len(sheet.Headers) > 0 {
			last, _ := excelize.ColumnNumberToName(len(sheet.Headers))
			if err := f.SetColWidth(sheet.Name, "A", last, 16); err != nil {
				return err
			}
		}
	}

	f.DeleteSheet("Sheet1")

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("写入Excel失败: %w", err)
	}
	return nil
}
