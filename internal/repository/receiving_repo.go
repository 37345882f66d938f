package repository

import (
	"context"
	"errors"

	"github.com/bitfantasy/unbox/internal/entity"
	"gorm.io/gorm"
)

// ReceivingRepository 到货确认记录仓库
// 存储只追加：记录不更新、不删除。
type ReceivingRepository struct {
	db *gorm.DB
}

func NewReceivingRepository(db *gorm.DB) *ReceivingRepository {
	return &ReceivingRepository{db: db}
}

// FindBySerial 按序号精确查找（区分大小写）
func (r *ReceivingRepository) FindBySerial(ctx context.Context, serialNumber string) (*entity.ReceivingRecord, error) {
	var rec entity.ReceivingRecord
	err := r.db.WithContext(ctx).
		Where("serial_number = ?", serialNumber).
		Order("id ASC").
		First(&rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// CountByPO 统计某采购单已入库的记录数
func (r *ReceivingRepository) CountByPO(ctx context.Context, poNumber string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&entity.ReceivingRecord{}).
		Where("po_number = ?", poNumber).
		Count(&count).Error
	return count, err
}

// Append 追加一条到货记录
// 事务内先复查序号再插入；serial_number 的唯一索引兜底并发写入，
// 两个会话同时提交同一序号时只有一个能成功。
func (r *ReceivingRepository) Append(ctx context.Context, rec *entity.ReceivingRecord) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&entity.ReceivingRecord{}).
			Where("serial_number = ?", rec.SerialNumber).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return ErrDuplicateSerial
		}
		return tx.Create(rec).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrDuplicateSerial
		}
		return err
	}
	return nil
}

// ListAll 按行序取全部记录（CSV 导出用）
func (r *ReceivingRepository) ListAll(ctx context.Context) ([]entity.ReceivingRecord, error) {
	var records []entity.ReceivingRecord
	err := r.db.WithContext(ctx).Order("id ASC").Find(&records).Error
	return records, err
}
