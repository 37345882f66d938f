package entity

// 只读查询表。三张表都从外部试算表的 CSV 导出加载，会话期间不可变，
// 不落库，字段名与既有前端约定保持一致。

// PurchaseOrder 采购单表头（po_header）
type PurchaseOrder struct {
	PONumber         string `json:"poNumber"`      // A 采购单号，11位数字或 PO+8位数字
	PurchaseDate     string `json:"purchaseDate"`  // B 采购日期
	Supplier         string `json:"supplier"`      // C 采购对象
	ExpectedQuantity int    `json:"totalQuantity"` // T 进货总数
}

// SupplierContact 供应商联络表（supplier_contacts），按名称查短代码
type SupplierContact struct {
	Code string `json:"code"` // A 供应商代码
	Name string `json:"name"` // B 供应商名称
}

// Employee 员工名册
type Employee struct {
	EmployeeID   string `json:"employeeId"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Email        string `json:"email"`
	RegisterDate string `json:"registerDate"`
	Status       string `json:"status"`
}

// 员工状态
const (
	EmployeeStatusActive = "active"
)
