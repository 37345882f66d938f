package client

import (
	"context"
	"fmt"

	"github.com/bitfantasy/unbox/internal/entity"
	"github.com/bitfantasy/unbox/internal/service"
)

// ScanEntry 本地待传队列里的一件商品
type ScanEntry struct {
	PONumber    string
	Category    string
	ProductName string
	Serial      string
	BatchNumber string
}

// ScanSession 现场扫描会话
// 维护当前采购单、本地待传队列和流水批号计数器。
// 计数器在查单时以服务端已入库笔数为起点，本地每扫一件加一，
// 最终批号仍由服务端策略定，这里的批号只作现场预览。
//
// 非并发安全，一台终端一个会话。
type ScanSession struct {
	client *Client

	CurrentPO    *entity.PurchaseOrder
	supplierCode string
	counter      int
	entries      []ScanEntry
	uploaded     int
}

// NewScanSession 创建扫描会话
func NewScanSession(client *Client) *ScanSession {
	return &ScanSession{client: client}
}

// SearchPO 查询并切换当前采购单
// 同时拉取供应商代码和已入库笔数，给批号计数器定起点。
func (s *ScanSession) SearchPO(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	po, err := s.client.QueryPurchaseOrder(ctx, poNumber)
	if err != nil {
		return nil, err
	}

	code, err := s.client.SupplierCode(ctx, po.Supplier)
	if err != nil {
		return nil, fmt.Errorf("查供应商代码失败: %w", err)
	}
	if code == "" {
		code = "000"
	}

	count, err := s.client.UploadedCount(ctx, poNumber)
	if err != nil {
		return nil, fmt.Errorf("查已上传笔数失败: %w", err)
	}

	s.CurrentPO = po
	s.supplierCode = code
	s.counter = count + 1
	s.entries = nil
	s.uploaded = 0
	return po, nil
}

// AddSerial 扫入一件商品
// 只在本地队列查重；服务端的全局查重在上传时兜底。
func (s *ScanSession) AddSerial(category, productName, serial string) (*ScanEntry, error) {
	if s.CurrentPO == nil {
		return nil, fmt.Errorf("请先查询采购单")
	}
	if category == "" || productName == "" || serial == "" {
		return nil, fmt.Errorf("商品分类、名称、序号都不能为空")
	}
	for i := range s.entries {
		if s.entries[i].Serial == serial {
			return nil, fmt.Errorf("序号 %s 已在待传清单中", serial)
		}
	}

	entry := ScanEntry{
		PONumber:    s.CurrentPO.PONumber,
		Category:    category,
		ProductName: productName,
		Serial:      serial,
		BatchNumber: service.FormatSequence(s.supplierCode, s.counter),
	}
	s.entries = append(s.entries, entry)
	s.counter++
	return &entry, nil
}

// Remove 从待传清单移除第 i 件
func (s *ScanSession) Remove(i int) error {
	if i < 0 || i >= len(s.entries) {
		return fmt.Errorf("清单序号 %d 超出范围", i)
	}
	s.entries = append(s.entries[:i], s.entries[i+1:]...)
	return nil
}

// Pending 待传清单快照
func (s *ScanSession) Pending() []ScanEntry {
	out := make([]ScanEntry, len(s.entries))
	copy(out, s.entries)
	return out
}

// UploadedCount 本会话已成功上传的件数
func (s *ScanSession) UploadedCount() int {
	return s.uploaded
}

// Upload 整批上传待传清单
// 按逐条结果清队列：服务端收下的条目移除，失败的留给操作员处理。
// 留下已提交的条目会让重传全部打在序号查重上，队列永远清不掉。
func (s *ScanSession) Upload(ctx context.Context, employeeName string) (*service.BatchResult, error) {
	if len(s.entries) == 0 {
		return nil, fmt.Errorf("待传清单为空")
	}
	if employeeName == "" {
		return nil, fmt.Errorf("请先选择开箱人员")
	}

	reqs := make([]service.SubmitRequest, 0, len(s.entries))
	for i := range s.entries {
		e := &s.entries[i]
		reqs = append(reqs, service.SubmitRequest{
			PONumber:        e.PONumber,
			EmployeeName:    employeeName,
			ProductCategory: e.Category,
			ProductName:     e.ProductName,
			SerialNumber:    e.Serial,
		})
	}

	res, err := s.client.UploadBatch(ctx, reqs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", service.ErrKindNetworkError, err)
	}

	s.uploaded += res.UploadedCount
	if res.Success {
		s.entries = nil
	} else if len(res.Results) == len(s.entries) {
		var remaining []ScanEntry
		for i := range res.Results {
			if !res.Results[i].Success {
				remaining = append(remaining, s.entries[i])
			}
		}
		s.entries = remaining
	}
	return res, nil
}
