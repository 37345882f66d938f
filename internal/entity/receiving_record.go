package entity

import "time"

// ReceivingRecord 到货确认记录
// 每扫描一件商品写入一行，列顺序与 receiving_confirm 工作表的 A-I 栏保持一致。
// 序号在整个存储范围内全局唯一（uniqueIndex 兜底并发写入）。
// 记录只追加，不更新、不删除，因此自增 ID 与工作表行号一一对应。
type ReceivingRecord struct {
	ID           uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	PONumber     string    `json:"poNumber" gorm:"size:32;not null;index"`      // A 采购单号
	EmployeeName string    `json:"employeeName" gorm:"size:100;not null"`       // B 开箱人员
	ReceivedAt   time.Time `json:"date"`                                        // C 开箱日期
	BatchNumber  string    `json:"batchNumber" gorm:"size:32;not null"`         // D 商品批号
	Category     string    `json:"productCategory" gorm:"size:50;not null"`     // E 商品分类
	ProductName  string    `json:"productName" gorm:"size:200;not null"`        // F 商品名称
	SerialNumber string    `json:"serialNumber" gorm:"size:100;uniqueIndex;not null"` // G 商品序号
	Quantity     int       `json:"quantity" gorm:"default:1"`                   // H 数量
	Notes        string    `json:"notes" gorm:"type:text"`                      // I 备注
	CreatedAt    time.Time `json:"created_at"`
}

func (ReceivingRecord) TableName() string {
	return "receiving_confirm"
}

// SheetRow 返回记录在工作表中的行号（第 1 行是标题行）
func (r *ReceivingRecord) SheetRow() int {
	return int(r.ID) + 1
}
