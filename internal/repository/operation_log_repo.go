package repository

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bitfantasy/unbox/internal/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OperationLogRepository 操作日志仓库
type OperationLogRepository struct {
	db *gorm.DB
}

func NewOperationLogRepository(db *gorm.DB) *OperationLogRepository {
	return &OperationLogRepository{db: db}
}

// Log 追加一条操作日志
// 调用方对返回的错误只做告警，不中断主流程。
func (r *OperationLogRepository) Log(ctx context.Context, operation, operator string, payload interface{}, caller string) error {
	data, err := json.Marshal(payload)
	if err != nil {
		data = []byte("{}")
	}
	log := &entity.OperationLog{
		ID:        uuid.New().String(),
		Operation: operation,
		Operator:  operator,
		Payload:   string(data),
		Caller:    caller,
		CreatedAt: time.Now(),
	}
	return r.db.WithContext(ctx).Create(log).Error
}

// ListByOperation 按操作类型查日志（运维排查用）
func (r *OperationLogRepository) ListByOperation(ctx context.Context, operation string, limit int) ([]entity.OperationLog, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	var logs []entity.OperationLog
	err := r.db.WithContext(ctx).
		Where("operation = ?", operation).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error
	return logs, err
}
