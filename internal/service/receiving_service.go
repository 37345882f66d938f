package service

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/bitfantasy/unbox/internal/entity"
	"github.com/bitfantasy/unbox/internal/repository"
	"go.uber.org/zap"
)

// 对外协议的失败类型。业务失败作为 envelope 数据返回，不走 Go error。
const (
	ErrKindMissingFields    = "MISSING_FIELDS"
	ErrKindInvalidPONumber  = "INVALID_PO_NUMBER"
	ErrKindInvalidSerial    = "INVALID_SERIAL_NUMBER"
	ErrKindDuplicateSerial  = "DUPLICATE_SERIAL"
	ErrKindPONotFound       = "PO_NOT_FOUND"
	ErrKindEmployeeNotFound = "EMPLOYEE_NOT_FOUND"
	ErrKindNetworkError     = "NETWORK_ERROR"
	ErrKindProcessingError  = "PROCESSING_ERROR"
	ErrKindBadRequest       = "BAD_REQUEST"
	ErrKindUnknownAction    = "UNKNOWN_ACTION"
)

// 序号最短长度
const minSerialLength = 5

// SubmitRequest 到货确认提交请求，两条提交路径共用同一记录形状
type SubmitRequest struct {
	PONumber        string `json:"poNumber"`
	EmployeeName    string `json:"employeeName"`
	ProductCategory string `json:"productCategory"`
	ProductName     string `json:"productName"`
	SerialNumber    string `json:"serialNumber"`
	Quantity        int    `json:"quantity"`
	Notes           string `json:"notes"`
}

// ExistingRecord 序号冲突时回给操作员的既有记录信息
type ExistingRecord struct {
	Row          int    `json:"row"`
	PONumber     string `json:"poNumber"`
	EmployeeName string `json:"employeeName"`
	Date         string `json:"date"`
	ProductName  string `json:"productName"`
}

// SubmitResult 单条提交结果，字段名即对外 JSON 协议
type SubmitResult struct {
	Success      bool            `json:"success"`
	Error        string          `json:"error,omitempty"`
	Message      string          `json:"message,omitempty"`
	BatchNumber  string          `json:"batchNumber,omitempty"`
	Timestamp    string          `json:"timestamp,omitempty"`
	ExistingData *ExistingRecord `json:"existingData,omitempty"`
}

// BatchResult 批量提交结果
// 逐条独立过引擎，不提供整批原子性；部分成功时 Success 为 false，
// 已提交的记录保持已提交。
type BatchResult struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message"`
	UploadedCount int            `json:"uploadedCount"`
	Results       []SubmitResult `json:"results"`
}

// ReceivingService 校验与提交引擎
// 依序过五道闸门（必填、单号格式、序号格式、序号查重、批号分配），
// 任一失败立即短路；全部通过后追加入库并尽力记操作日志。
type ReceivingService struct {
	repo     *repository.ReceivingRepository
	logRepo  *repository.OperationLogRepository
	lookup   *LookupService
	strategy BatchNumberStrategy
	patterns []*regexp.Regexp
	logger   *zap.Logger
	now      func() time.Time
}

// NewReceivingService 创建提交引擎
// patterns 为空时采用两种历史格式（11位数字、PO+8位数字）。
func NewReceivingService(
	repo *repository.ReceivingRepository,
	logRepo *repository.OperationLogRepository,
	lookup *LookupService,
	strategy BatchNumberStrategy,
	patterns []string,
	logger *zap.Logger,
) (*ReceivingService, error) {
	if len(patterns) == 0 {
		patterns = []string{`^\d{11}$`, `^PO\d{8}$`}
	}
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("采购单号格式 %q 无效: %w", p, err)
		}
		compiled = append(compiled, re)
	}
	return &ReceivingService{
		repo:     repo,
		logRepo:  logRepo,
		lookup:   lookup,
		strategy: strategy,
		patterns: compiled,
		logger:   logger,
		now:      time.Now,
	}, nil
}

// Submit 校验并提交一条到货记录
// 返回的 error 只表示基础设施故障（数据库不可用等），
// 业务校验失败都编码在 SubmitResult 里，重复调用结果一致。
func (s *ReceivingService) Submit(ctx context.Context, req *SubmitRequest, caller string) (*SubmitResult, error) {
	// 1. 必填字段：一次列出全部缺失项，不只报第一个
	if missing := s.missingFields(req); len(missing) > 0 {
		return &SubmitResult{
			Success: false,
			Error:   ErrKindMissingFields,
			Message: "缺少必填栏位：" + strings.Join(missing, ", "),
		}, nil
	}

	// 2. 采购单号格式
	if !s.validPONumber(req.PONumber) {
		return &SubmitResult{
			Success: false,
			Error:   ErrKindInvalidPONumber,
			Message: "采购单号格式不正确，应为11位数字或PO+8位数字",
		}, nil
	}

	// 3. 序号格式
	if utf8.RuneCountInString(req.SerialNumber) < minSerialLength {
		return &SubmitResult{
			Success: false,
			Error:   ErrKindInvalidSerial,
			Message: fmt.Sprintf("序号长度不足，至少需要%d个字元", minSerialLength),
		}, nil
	}

	// 4. 序号查重（全局唯一，不限定采购单）
	if existing, err := s.repo.FindBySerial(ctx, req.SerialNumber); err == nil {
		return s.duplicateResult(req.SerialNumber, existing), nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("查重失败: %w", err)
	}

	// 5. 批号分配
	supplierCode := s.lookup.SupplierCodeForPO(req.PONumber)
	batchNumber, err := s.strategy.Generate(ctx, req.PONumber, supplierCode)
	if err != nil {
		return nil, fmt.Errorf("生成批号失败: %w", err)
	}

	// 6. 追加入库。数量缺省按 1 件。
	now := s.now()
	quantity := req.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	rec := &entity.ReceivingRecord{
		PONumber:     req.PONumber,
		EmployeeName: req.EmployeeName,
		ReceivedAt:   now,
		BatchNumber:  batchNumber,
		Category:     req.ProductCategory,
		ProductName:  req.ProductName,
		SerialNumber: req.SerialNumber,
		Quantity:     quantity,
		Notes:        req.Notes,
	}
	if err := s.repo.Append(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateSerial) {
			// 查重和插入之间有并发提交抢先，按重复处理
			existing, ferr := s.repo.FindBySerial(ctx, req.SerialNumber)
			if ferr == nil {
				return s.duplicateResult(req.SerialNumber, existing), nil
			}
			return s.duplicateResult(req.SerialNumber, nil), nil
		}
		return nil, fmt.Errorf("写入到货记录失败: %w", err)
	}

	// 操作日志尽力而为，失败只告警
	if s.logRepo != nil {
		if err := s.logRepo.Log(ctx, entity.OpReceivingConfirmAdd, req.EmployeeName, req, caller); err != nil {
			s.logger.Warn("记录操作日志失败", zap.Error(err))
		}
	}

	return &SubmitResult{
		Success:     true,
		Message:     "资料上传成功",
		BatchNumber: batchNumber,
		Timestamp:   now.Format(time.RFC3339),
	}, nil
}

// SubmitBatch 批量提交，逐条独立过引擎
func (s *ReceivingService) SubmitBatch(ctx context.Context, reqs []SubmitRequest, caller string) (*BatchResult, error) {
	results := make([]SubmitResult, 0, len(reqs))
	uploaded := 0
	for i := range reqs {
		res, err := s.Submit(ctx, &reqs[i], caller)
		if err != nil {
			return nil, err
		}
		results = append(results, *res)
		if res.Success {
			uploaded++
		}
	}
	return &BatchResult{
		Success:       uploaded == len(reqs),
		Message:       fmt.Sprintf("成功上传 %d/%d 笔资料", uploaded, len(reqs)),
		UploadedCount: uploaded,
		Results:       results,
	}, nil
}

// Records 按行序取全部到货记录（导出用）
func (s *ReceivingService) Records(ctx context.Context) ([]entity.ReceivingRecord, error) {
	return s.repo.ListAll(ctx)
}

// UploadedCount 某采购单已入库笔数
func (s *ReceivingService) UploadedCount(ctx context.Context, poNumber string) (int64, error) {
	return s.repo.CountByPO(ctx, poNumber)
}

func (s *ReceivingService) missingFields(req *SubmitRequest) []string {
	var missing []string
	for _, f := range []struct {
		name  string
		value string
	}{
		{"poNumber", req.PONumber},
		{"employeeName", req.EmployeeName},
		{"productCategory", req.ProductCategory},
		{"productName", req.ProductName},
		{"serialNumber", req.SerialNumber},
	} {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	return missing
}

func (s *ReceivingService) validPONumber(poNumber string) bool {
	for _, re := range s.patterns {
		if re.MatchString(poNumber) {
			return true
		}
	}
	return false
}

func (s *ReceivingService) duplicateResult(serialNumber string, existing *entity.ReceivingRecord) *SubmitResult {
	res := &SubmitResult{
		Success: false,
		Error:   ErrKindDuplicateSerial,
		Message: "序号已存在：" + serialNumber,
	}
	if existing != nil {
		res.ExistingData = &ExistingRecord{
			Row:          existing.SheetRow(),
			PONumber:     existing.PONumber,
			EmployeeName: existing.EmployeeName,
			Date:         existing.ReceivedAt.Format("2006-01-02"),
			ProductName:  existing.ProductName,
		}
	}
	return res
}
