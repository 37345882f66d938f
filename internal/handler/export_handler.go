package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/bitfantasy/unbox/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// ExportHandler 表导出接口
// CSV 导出与外部试算表的列契约保持一致，旧客户端按列位置解析。
type ExportHandler struct {
	lookup    *service.LookupService
	receiving *service.ReceivingService
}

func NewExportHandler(lookup *service.LookupService, receiving *service.ReceivingService) *ExportHandler {
	return &ExportHandler{lookup: lookup, receiving: receiving}
}

// 到货确认表的 A-I 栏标题
var receivingHeaders = []string{
	"採購單號", "開箱人員", "開箱日期", "商品批號", "商品分類", "商品名稱", "商品序號", "數量", "備註",
}

// Table 按表名导出 CSV
// GET /api/v1/export/:table
func (h *ExportHandler) Table(c *gin.Context) {
	var rows [][]string
	switch table := c.Param("table"); table {
	case "employees":
		rows = append(rows, []string{"員工編號", "姓名", "電話", "Email", "註冊日期", "狀態"})
		for _, e := range h.lookup.AllEmployees() {
			rows = append(rows, []string{e.EmployeeID, e.Name, e.Phone, e.Email, e.RegisterDate, e.Status})
		}

	case "po_header":
		rows = append(rows, poHeaderRow("採購單號", "採購日期", "採購對象", "進貨總數"))
		for _, po := range h.lookup.PurchaseOrders() {
			rows = append(rows, poHeaderRow(po.PONumber, po.PurchaseDate, po.Supplier, strconv.Itoa(po.ExpectedQuantity)))
		}

	case "supplier_contacts":
		rows = append(rows, []string{"供應商代碼", "供應商名稱"})
		for _, s := range h.lookup.SupplierContacts() {
			rows = append(rows, []string{s.Code, s.Name})
		}

	case "receiving_confirm":
		records, err := h.receiving.Records(c.Request.Context())
		if err != nil {
			Fail(c, http.StatusOK, service.ErrKindProcessingError, "读取到货记录失败")
			return
		}
		rows = append(rows, receivingHeaders)
		for i := range records {
			r := &records[i]
			rows = append(rows, []string{
				r.PONumber, r.EmployeeName, r.ReceivedAt.Format("2006-01-02"),
				r.BatchNumber, r.Category, r.ProductName, r.SerialNumber,
				strconv.Itoa(r.Quantity), r.Notes,
			})
		}

	default:
		Fail(c, http.StatusBadRequest, service.ErrKindBadRequest, "未知的表名："+table)
		return
	}

	c.Header("Content-Type", "text/csv; charset=utf-8")
	w := csv.NewWriter(c.Writer)
	for _, row := range rows {
		out := make([]string, len(row))
		for i := range row {
			out[i] = flattenField(row[i])
		}
		if err := w.Write(out); err != nil {
			return
		}
	}
	w.Flush()
}

var fieldFlattener = strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ")

// flattenField 把字段里的换行压成空格
// 导出按行解析（先切行再扫引号），字段内换行会让解析端丢行。
func flattenField(s string) string {
	return fieldFlattener.Replace(s)
}

// poHeaderRow 组装 po_header 的一行
// 该表固定 20 列，进货总数在第 T 栏（索引 19），中间列留空。
func poHeaderRow(number, date, supplier, quantity string) []string {
	row := make([]string, 20)
	row[0] = number
	row[1] = date
	row[2] = supplier
	row[19] = quantity
	return row
}

// ReceivingXLSX 导出到货确认表 xlsx
// GET /api/v1/export/receiving.xlsx
func (h *ExportHandler) ReceivingXLSX(c *gin.Context) {
	records, err := h.receiving.Records(c.Request.Context())
	if err != nil {
		Fail(c, http.StatusOK, service.ErrKindProcessingError, "读取到货记录失败")
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := "到貨確認"
	f.SetSheetName("Sheet1", sheet)

	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
	})
	for i, hdr := range receivingHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(sheet, cell, hdr)
		f.SetCellStyle(sheet, cell, cell, boldStyle)
	}

	for i := range records {
		r := &records[i]
		row := i + 2
		f.SetCellValue(sheet, fmt.Sprintf("A%d", row), r.PONumber)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", row), r.EmployeeName)
		f.SetCellValue(sheet, fmt.Sprintf("C%d", row), r.ReceivedAt.Format("2006-01-02"))
		f.SetCellValue(sheet, fmt.Sprintf("D%d", row), r.BatchNumber)
		f.SetCellValue(sheet, fmt.Sprintf("E%d", row), r.Category)
		f.SetCellValue(sheet, fmt.Sprintf("F%d", row), r.ProductName)
		f.SetCellValue(sheet, fmt.Sprintf("G%d", row), r.SerialNumber)
		f.SetCellValue(sheet, fmt.Sprintf("H%d", row), r.Quantity)
		f.SetCellValue(sheet, fmt.Sprintf("I%d", row), r.Notes)
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=\"receiving_confirm.xlsx\"")
	c.Header("Content-Transfer-Encoding", "binary")

	if err := f.Write(c.Writer); err != nil {
		_ = c.Error(err)
	}
}
