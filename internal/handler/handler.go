package handler

import (
	"net/http"

	"github.com/bitfantasy/unbox/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handlers HTTP 处理器集合
type Handlers struct {
	Receiving *ReceivingHandler
	Lookup    *LookupHandler
	Export    *ExportHandler
}

// NewHandlers 创建全部处理器
func NewHandlers(svcs *service.Services, logger *zap.Logger) *Handlers {
	return &Handlers{
		Receiving: NewReceivingHandler(svcs.Receiving, logger),
		Lookup:    NewLookupHandler(svcs.Lookup),
		Export:    NewExportHandler(svcs.Lookup, svcs.Receiving),
	}
}

// OK 成功响应，payload 字段平铺进 envelope
func OK(c *gin.Context, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// Fail 失败响应
// 对外沿用既有前端约定：业务失败也回 200，由 success 区分；
// 只有请求本身不合法（JSON 解析失败、未知 action）才回 400。
func Fail(c *gin.Context, status int, kind, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error":   kind,
		"message": message,
	})
}
