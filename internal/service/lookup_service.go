package service

import (
	"context"
	"sync"
	"time"

	"github.com/bitfantasy/unbox/internal/config"
	"github.com/bitfantasy/unbox/internal/entity"
	"github.com/bitfantasy/unbox/internal/sheet"
	"go.uber.org/zap"
)

// LookupService 只读查询表服务
// 从 CSV 数据源加载采购单、供应商、员工三张表到内存。三张表由外部
// 系统维护，超过 cache_ttl 后下一次查询会重新拉取，新增的采购单
// 不用重启服务就能查到。任一张表拉取失败时回退内置样例数据并标记
// 降级，操作员可以继续流程而不是被完全挡住。
//
// 查询都是顺序线性扫描，源表里出现重复键时首条命中（行序优先）。
type LookupService struct {
	source *sheet.Source
	cfg    config.TablesConfig
	defaultSupplierCode string
	ttl    time.Duration
	logger *zap.Logger

	reloadMu sync.Mutex

	mu        sync.RWMutex
	pos       []entity.PurchaseOrder
	suppliers []entity.SupplierContact
	employees []entity.Employee
	degraded  bool
	loadedAt  time.Time
}

// NewLookupService 创建查询表服务
func NewLookupService(source *sheet.Source, cfg config.TablesConfig, batchCfg config.BatchConfig, logger *zap.Logger) *LookupService {
	code := batchCfg.DefaultSupplierCode
	if code == "" {
		code = "000"
	}
	return &LookupService{
		source:              source,
		cfg:                 cfg,
		defaultSupplierCode: code,
		ttl:                 cfg.CacheTTL,
		logger:              logger,
	}
}

// LoadAll 加载全部查询表
// 单表失败不算错误：回退样例数据、记告警、置降级标记。
func (s *LookupService) LoadAll(ctx context.Context) {
	degraded := false

	pos := sheet.SamplePurchaseOrders()
	if text, err := s.source.Fetch(ctx, s.cfg.POHeaderSheet); err != nil {
		s.logger.Warn("加载采购单表失败，回退样例数据", zap.Error(err))
		degraded = true
	} else {
		pos = sheet.BuildPurchaseOrders(sheet.ParseTable(text))
		s.logger.Info("加载采购单表成功", zap.Int("count", len(pos)))
	}

	suppliers := sheet.SampleSupplierContacts()
	if text, err := s.source.Fetch(ctx, s.cfg.SupplierSheet); err != nil {
		s.logger.Warn("加载供应商表失败，回退样例数据", zap.Error(err))
		degraded = true
	} else {
		suppliers = sheet.BuildSupplierContacts(sheet.ParseTable(text))
		s.logger.Info("加载供应商表成功", zap.Int("count", len(suppliers)))
	}

	employees := sheet.SampleEmployees()
	if text, err := s.source.Fetch(ctx, s.cfg.EmployeeSheet); err != nil {
		s.logger.Warn("加载员工名册失败，回退样例数据", zap.Error(err))
		degraded = true
	} else {
		employees = sheet.BuildEmployees(sheet.ParseTable(text))
		s.logger.Info("加载员工名册成功", zap.Int("count", len(employees)))
	}

	s.mu.Lock()
	s.pos = pos
	s.suppliers = suppliers
	s.employees = employees
	s.degraded = degraded
	s.loadedAt = time.Now()
	s.mu.Unlock()
}

// maybeReload 内存表过期时同步重新加载
// 降级状态也随之重试。reloadMu 保证同一时刻只有一个请求在拉取，
// 其余请求等它拉完后直接用新表。ttl 为零时不自动刷新。
func (s *LookupService) maybeReload() {
	if s.ttl <= 0 {
		return
	}
	s.mu.RLock()
	fresh := time.Since(s.loadedAt) < s.ttl
	s.mu.RUnlock()
	if fresh {
		return
	}

	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()
	s.mu.RLock()
	fresh = time.Since(s.loadedAt) < s.ttl
	s.mu.RUnlock()
	if !fresh {
		s.LoadAll(context.Background())
	}
}

// Degraded 是否在使用样例数据
func (s *LookupService) Degraded() bool {
	s.maybeReload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.degraded
}

// FindPurchaseOrder 按单号查采购单，首条命中
func (s *LookupService) FindPurchaseOrder(poNumber string) (*entity.PurchaseOrder, bool) {
	s.maybeReload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.pos {
		if s.pos[i].PONumber == poNumber {
			po := s.pos[i]
			return &po, true
		}
	}
	return nil, false
}

// PurchaseOrders 返回全部采购单（导出用）
func (s *LookupService) PurchaseOrders() []entity.PurchaseOrder {
	s.maybeReload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.PurchaseOrder, len(s.pos))
	copy(out, s.pos)
	return out
}

// SupplierCodeByName 按供应商名称查短代码，查不到用默认代码
func (s *LookupService) SupplierCodeByName(name string) string {
	s.maybeReload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.suppliers {
		if s.suppliers[i].Name == name {
			return s.suppliers[i].Code
		}
	}
	return s.defaultSupplierCode
}

// SupplierCodeForPO 取采购单对应供应商的短代码
// 采购单或供应商查不到时用默认代码，不阻断提交。
func (s *LookupService) SupplierCodeForPO(poNumber string) string {
	po, ok := s.FindPurchaseOrder(poNumber)
	if !ok {
		return s.defaultSupplierCode
	}
	return s.SupplierCodeByName(po.Supplier)
}

// SupplierContacts 返回全部供应商（导出用）
func (s *LookupService) SupplierContacts() []entity.SupplierContact {
	s.maybeReload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.SupplierContact, len(s.suppliers))
	copy(out, s.suppliers)
	return out
}

// AllEmployees 返回全部员工
func (s *LookupService) AllEmployees() []entity.Employee {
	s.maybeReload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entity.Employee, len(s.employees))
	copy(out, s.employees)
	return out
}

// FindEmployeeByID 按员工编号查员工，首条命中
func (s *LookupService) FindEmployeeByID(employeeID string) (*entity.Employee, bool) {
	s.maybeReload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := range s.employees {
		if s.employees[i].EmployeeID == employeeID {
			emp := s.employees[i]
			return &emp, true
		}
	}
	return nil, false
}

// OpenerNames 开箱人员下拉选单数据（员工姓名列表）
func (s *LookupService) OpenerNames() []string {
	s.maybeReload()
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.employees))
	for i := range s.employees {
		if s.employees[i].Name != "" {
			names = append(names, s.employees[i].Name)
		}
	}
	return names
}
