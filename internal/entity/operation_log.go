package entity

import "time"

// OperationLog 操作日志
// 每次成功写入到货记录追加一条，尽力而为：写日志失败不影响主流程。
type OperationLog struct {
	ID        string    `json:"id" gorm:"primaryKey;size:36"`
	Operation string    `json:"operation" gorm:"size:50;not null;index"`
	Operator  string    `json:"operator" gorm:"size:100"`
	Payload   string    `json:"payload" gorm:"type:text"`
	Caller    string    `json:"caller" gorm:"size:200"`
	CreatedAt time.Time `json:"created_at"`
}

func (OperationLog) TableName() string {
	return "operation_logs"
}

// 操作类型
const (
	OpReceivingConfirmAdd = "RECEIVING_CONFIRM_ADD"
)
