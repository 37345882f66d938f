// Package client 扫描端 API 客户端
// 仓库现场的扫描流程（选人、查单、逐件扫码、整批上传）在这里封装，
// 供命令行工具或嵌入式终端调用。
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bitfantasy/unbox/internal/entity"
	"github.com/bitfantasy/unbox/internal/service"
	"github.com/bitfantasy/unbox/internal/sheet"
)

// Client 开箱服务 API 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建客户端实例
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// actionResponse 动作分发响应的通用外壳
type actionResponse struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Count   int             `json:"count"`
}

// GetAllEmployees 拉取员工名册
func (c *Client) GetAllEmployees(ctx context.Context) ([]entity.Employee, error) {
	res, err := c.postAction(ctx, map[string]string{"action": "getAllEmployees"})
	if err != nil {
		return nil, err
	}
	var employees []entity.Employee
	if err := json.Unmarshal(res.Data, &employees); err != nil {
		return nil, fmt.Errorf("解析员工名册失败: %w", err)
	}
	return employees, nil
}

// QueryEmployee 按编号查员工
func (c *Client) QueryEmployee(ctx context.Context, employeeID string) (*entity.Employee, error) {
	res, err := c.postAction(ctx, map[string]string{"action": "queryEmployee", "employeeId": employeeID})
	if err != nil {
		return nil, err
	}
	var emp entity.Employee
	if err := json.Unmarshal(res.Data, &emp); err != nil {
		return nil, fmt.Errorf("解析员工资料失败: %w", err)
	}
	return &emp, nil
}

// QueryPurchaseOrder 按单号查采购单
func (c *Client) QueryPurchaseOrder(ctx context.Context, poNumber string) (*entity.PurchaseOrder, error) {
	res, err := c.postAction(ctx, map[string]string{"action": "queryPurchaseOrder", "poNumber": poNumber})
	if err != nil {
		return nil, err
	}
	var po entity.PurchaseOrder
	if err := json.Unmarshal(res.Data, &po); err != nil {
		return nil, fmt.Errorf("解析采购单失败: %w", err)
	}
	return &po, nil
}

// SupplierCode 按供应商名称查短代码，查不到返回空串
func (c *Client) SupplierCode(ctx context.Context, name string) (string, error) {
	text, err := c.fetchCSV(ctx, "supplier_contacts")
	if err != nil {
		return "", err
	}
	for _, s := range sheet.BuildSupplierContacts(sheet.ParseTable(text)) {
		if s.Name == name {
			return s.Code, nil
		}
	}
	return "", nil
}

// UploadedCount 某采购单在服务端已入库的笔数
func (c *Client) UploadedCount(ctx context.Context, poNumber string) (int, error) {
	text, err := c.fetchCSV(ctx, "receiving_confirm")
	if err != nil {
		return 0, err
	}
	count := 0
	for _, r := range sheet.BuildReceivingRows(sheet.ParseTable(text)) {
		if r.PONumber == poNumber {
			count++
		}
	}
	return count, nil
}

// UploadBatch 整批上传到货记录
func (c *Client) UploadBatch(ctx context.Context, reqs []service.SubmitRequest) (*service.BatchResult, error) {
	body, err := json.Marshal(reqs)
	if err != nil {
		return nil, fmt.Errorf("序列化上传请求失败: %w", err)
	}
	data, err := c.post(ctx, "/api/v1/receiving/batch", body)
	if err != nil {
		return nil, err
	}
	var res service.BatchResult
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("解析上传结果失败: %w", err)
	}
	return &res, nil
}

func (c *Client) postAction(ctx context.Context, payload map[string]string) (*actionResponse, error) {
	body, _ := json.Marshal(payload)
	data, err := c.post(ctx, "/api/v1/actions", body)
	if err != nil {
		return nil, err
	}
	var res actionResponse
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("解析响应失败: %w", err)
	}
	if !res.Success {
		return nil, fmt.Errorf("%s: %s", res.Error, res.Message)
	}
	return &res, nil
}

func (c *Client) post(ctx context.Context, path string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (c *Client) fetchCSV(ctx context.Context, table string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET",
		c.baseURL+"/api/v1/export/"+url.PathEscape(table), nil)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("导出 %s 失败: HTTP %d", table, resp.StatusCode)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取响应失败: %w", err)
	}
	return string(data), nil
}
