package sheet

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/bitfantasy/unbox/internal/config"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Source 远程 CSV 数据源
// 按 gviz 风格的导出端点取表：<source_url>?tqx=out:csv&sheet=<工作表名>。
// 原始 CSV 文本可选地经 redis 缓存，rdb 为 nil 时直接穿透。
type Source struct {
	baseURL    string
	httpClient *http.Client
	rdb        *redis.Client
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewSource 创建 CSV 数据源
func NewSource(cfg config.TablesConfig, rdb *redis.Client, logger *zap.Logger) *Source {
	timeout := cfg.FetchTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Source{
		baseURL: cfg.SourceURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rdb:      rdb,
		cacheTTL: cfg.CacheTTL,
		logger:   logger,
	}
}

// Fetch 拉取指定工作表的 CSV 文本
func (s *Source) Fetch(ctx context.Context, sheetName string) (string, error) {
	if s.baseURL == "" {
		return "", fmt.Errorf("tables.source_url 未配置")
	}

	cacheKey := "sheet_csv:" + sheetName
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			return cached, nil
		}
	}

	reqURL := fmt.Sprintf("%s?tqx=out:csv&sheet=%s", s.baseURL, url.QueryEscape(sheetName))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return "", fmt.Errorf("创建请求失败: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("拉取工作表 %s 失败: %w", sheetName, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("拉取工作表 %s 失败: HTTP %d", sheetName, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("读取工作表 %s 响应失败: %w", sheetName, err)
	}

	text := string(body)
	if s.rdb != nil && s.cacheTTL > 0 {
		if err := s.rdb.Set(ctx, cacheKey, text, s.cacheTTL).Err(); err != nil {
			// 缓存失败不影响主流程
			s.logger.Warn("缓存工作表失败", zap.String("sheet", sheetName), zap.Error(err))
		}
	}

	return text, nil
}
