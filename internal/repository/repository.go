package repository

import (
	"errors"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateSerial = errors.New("serial number already exists")
)

// Repositories 仓库集合
type Repositories struct {
	Receiving    *ReceivingRepository
	OperationLog *OperationLogRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Receiving:    NewReceivingRepository(db),
		OperationLog: NewOperationLogRepository(db),
	}
}
