package sheet

import "github.com/bitfantasy/unbox/internal/entity"

// 内置样例数据。远程表格拉取失败时回退使用，让操作员能继续走流程，
// 前端会收到降级警告。

func SamplePurchaseOrders() []entity.PurchaseOrder {
	return []entity.PurchaseOrder{
		{PONumber: "20250721001", PurchaseDate: "2025-07-21", Supplier: "員力科技股份有限公司", ExpectedQuantity: 100},
		{PONumber: "20250722001", PurchaseDate: "2025-07-22", Supplier: "宏碁股份有限公司", ExpectedQuantity: 50},
		{PONumber: "20250723001", PurchaseDate: "2025-07-23", Supplier: "華碩電腦股份有限公司", ExpectedQuantity: 75},
		{PONumber: "PO20250721", PurchaseDate: "2025-07-21", Supplier: "員力科技股份有限公司", ExpectedQuantity: 100},
	}
}

func SampleSupplierContacts() []entity.SupplierContact {
	return []entity.SupplierContact{
		{Code: "003", Name: "員力科技股份有限公司"},
		{Code: "001", Name: "宏碁股份有限公司"},
		{Code: "002", Name: "華碩電腦股份有限公司"},
	}
}

func SampleEmployees() []entity.Employee {
	return []entity.Employee{
		{EmployeeID: "E001", Name: "王小明", Phone: "0912-345-678", Email: "ming@example.com", RegisterDate: "2024-01-15", Status: entity.EmployeeStatusActive},
		{EmployeeID: "E002", Name: "李美華", Phone: "0923-456-789", Email: "mei@example.com", RegisterDate: "2024-03-02", Status: entity.EmployeeStatusActive},
		{EmployeeID: "E003", Name: "張大偉", Phone: "0934-567-890", Email: "wei@example.com", RegisterDate: "2024-06-20", Status: entity.EmployeeStatusActive},
	}
}
