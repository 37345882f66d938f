package service

import (
	"context"
	"fmt"
	"time"
)

// BatchNumberStrategy 批号生成策略
// 历史上两条提交路径各用一种方案，这里统一成可配置的策略接口。
// 批号只是分组标签，不作为唯一键使用。
type BatchNumberStrategy interface {
	Generate(ctx context.Context, poNumber, supplierCode string) (string, error)
}

// TimestampStrategy 时间戳批号：B + 年月日时分
// 分钟粒度，同一分钟内的提交共用批号。
type TimestampStrategy struct {
	Now func() time.Time
}

func (s *TimestampStrategy) Generate(ctx context.Context, poNumber, supplierCode string) (string, error) {
	now := time.Now()
	if s.Now != nil {
		now = s.Now()
	}
	return "B" + now.Format("200601021504"), nil
}

// RecordCounter 按采购单统计已入库记录数
type RecordCounter interface {
	CountByPO(ctx context.Context, poNumber string) (int64, error)
}

// SequenceStrategy 流水号批号：供应商代码 + 6位零填充序号
// 序号以该采购单已入库笔数 + 1 为起点。
type SequenceStrategy struct {
	Counter RecordCounter
}

func (s *SequenceStrategy) Generate(ctx context.Context, poNumber, supplierCode string) (string, error) {
	count, err := s.Counter.CountByPO(ctx, poNumber)
	if err != nil {
		return "", fmt.Errorf("统计采购单记录数失败: %w", err)
	}
	return FormatSequence(supplierCode, int(count)+1), nil
}

// FormatSequence 组装流水号批号，客户端的会话计数器也用同一格式
func FormatSequence(supplierCode string, n int) string {
	return fmt.Sprintf("%s%06d", supplierCode, n)
}

// 批号策略名
const (
	BatchStrategyTimestamp = "timestamp"
	BatchStrategySequence  = "sequence"
)
