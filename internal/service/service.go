package service

import (
	"fmt"

	"github.com/bitfantasy/unbox/internal/config"
	"github.com/bitfantasy/unbox/internal/repository"
	"github.com/bitfantasy/unbox/internal/sheet"
	"go.uber.org/zap"
)

// Services 业务服务集合
type Services struct {
	Lookup    *LookupService
	Receiving *ReceivingService
}

// NewServices 创建全部业务服务
func NewServices(repos *repository.Repositories, source *sheet.Source, cfg *config.Config, logger *zap.Logger) (*Services, error) {
	lookup := NewLookupService(source, cfg.Tables, cfg.Batch, logger)

	var strategy BatchNumberStrategy
	switch cfg.Batch.Strategy {
	case BatchStrategySequence:
		strategy = &SequenceStrategy{Counter: repos.Receiving}
	case BatchStrategyTimestamp, "":
		strategy = &TimestampStrategy{}
	default:
		return nil, fmt.Errorf("未知的批号策略: %s", cfg.Batch.Strategy)
	}

	receiving, err := NewReceivingService(
		repos.Receiving,
		repos.OperationLog,
		lookup,
		strategy,
		cfg.Tables.PONumberPatterns,
		logger,
	)
	if err != nil {
		return nil, err
	}

	return &Services{
		Lookup:    lookup,
		Receiving: receiving,
	}, nil
}
