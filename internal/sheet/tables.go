package sheet

import (
	"strconv"

	"github.com/bitfantasy/unbox/internal/entity"
)

// 各表的列位置由外部试算表固定，不可调整。
const (
	poColNumber   = 0  // A 采购单号
	poColDate     = 1  // B 采购日期
	poColSupplier = 2  // C 采购对象
	poColQuantity = 19 // T 进货总数
	poMinColumns  = 20

	// po_header 里出现过的无效数据哨兵值
	poInvalidMarker = "無效資料"
)

// BuildPurchaseOrders 从 po_header 的 CSV 行构建采购单查询表
// 丢弃标题行；列数不足 20、单号缺失或为无效哨兵值的行静默跳过。
func BuildPurchaseOrders(rows [][]string) []entity.PurchaseOrder {
	var pos []entity.PurchaseOrder
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < poMinColumns {
			continue
		}
		num := field(row, poColNumber)
		if num == "" || num == poInvalidMarker || num == "0" {
			continue
		}
		pos = append(pos, entity.PurchaseOrder{
			PONumber:         num,
			PurchaseDate:     field(row, poColDate),
			Supplier:         field(row, poColSupplier),
			ExpectedQuantity: atoi(field(row, poColQuantity)),
		})
	}
	return pos
}

// BuildSupplierContacts 从 supplier_contacts 的 CSV 行构建供应商查询表
func BuildSupplierContacts(rows [][]string) []entity.SupplierContact {
	var contacts []entity.SupplierContact
	for i, row := range rows {
		if i == 0 {
			continue
		}
		code := field(row, 0)
		name := field(row, 1)
		if code == "" || name == "" {
			continue
		}
		contacts = append(contacts, entity.SupplierContact{Code: code, Name: name})
	}
	return contacts
}

// BuildEmployees 从员工名册的 CSV 行构建员工查询表
// 编号和姓名都存在才收录，状态缺省为 active。
func BuildEmployees(rows [][]string) []entity.Employee {
	var employees []entity.Employee
	for i, row := range rows {
		if i == 0 {
			continue
		}
		id := field(row, 0)
		name := field(row, 1)
		if id == "" || name == "" {
			continue
		}
		status := field(row, 5)
		if status == "" {
			status = entity.EmployeeStatusActive
		}
		employees = append(employees, entity.Employee{
			EmployeeID:   id,
			Name:         name,
			Phone:        field(row, 2),
			Email:        field(row, 3),
			RegisterDate: field(row, 4),
			Status:       status,
		})
	}
	return employees
}

// ReceivingRow 到货确认导出的一行（客户端统计已上传笔数用）
type ReceivingRow struct {
	PONumber     string
	EmployeeName string
	Date         string
	BatchNumber  string
	Category     string
	ProductName  string
	SerialNumber string
}

// BuildReceivingRows 从 receiving_confirm 的 CSV 行构建记录列表
func BuildReceivingRows(rows [][]string) []ReceivingRow {
	var records []ReceivingRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if len(row) < 7 {
			continue
		}
		num := field(row, 0)
		if num == "" {
			continue
		}
		records = append(records, ReceivingRow{
			PONumber:     num,
			EmployeeName: field(row, 1),
			Date:         field(row, 2),
			BatchNumber:  field(row, 3),
			Category:     field(row, 4),
			ProductName:  field(row, 5),
			SerialNumber: field(row, 6),
		})
	}
	return records
}

// 数字字段解析失败按 0 容错
func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}
