package handler

import (
	"net/http"

	"github.com/bitfantasy/unbox/internal/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReceivingHandler 到货确认提交接口
type ReceivingHandler struct {
	svc    *service.ReceivingService
	logger *zap.Logger
}

func NewReceivingHandler(svc *service.ReceivingService, logger *zap.Logger) *ReceivingHandler {
	return &ReceivingHandler{svc: svc, logger: logger}
}

// Submit 提交单条到货记录
// POST /api/v1/receiving
func (h *ReceivingHandler) Submit(c *gin.Context) {
	var req service.SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, service.ErrKindBadRequest, "请求格式错误: "+err.Error())
		return
	}

	res, err := h.svc.Submit(c.Request.Context(), &req, callerOf(c))
	if err != nil {
		h.logger.Warn("提交到货记录失败",
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err))
		Fail(c, http.StatusOK, service.ErrKindProcessingError, "系统处理失败，请稍后重试")
		return
	}
	c.JSON(http.StatusOK, res)
}

// SubmitBatch 批量提交到货记录
// POST /api/v1/receiving/batch
func (h *ReceivingHandler) SubmitBatch(c *gin.Context) {
	var reqs []service.SubmitRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		Fail(c, http.StatusBadRequest, service.ErrKindBadRequest, "请求格式错误: "+err.Error())
		return
	}

	res, err := h.svc.SubmitBatch(c.Request.Context(), reqs, callerOf(c))
	if err != nil {
		h.logger.Warn("批量提交到货记录失败",
			zap.String("request_id", c.GetString("request_id")),
			zap.Int("count", len(reqs)),
			zap.Error(err))
		Fail(c, http.StatusOK, service.ErrKindProcessingError, "系统处理失败，请稍后重试")
		return
	}
	c.JSON(http.StatusOK, res)
}

// callerOf 操作日志用的调用方标识
func callerOf(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return c.ClientIP() + "/" + id
	}
	return c.ClientIP()
}
