package handler

import (
	"net/http"

	"github.com/bitfantasy/unbox/internal/service"
	"github.com/gin-gonic/gin"
)

// LookupHandler 查询表接口
// POST 动作分发沿用既有前端的 action 协议，GET 版本给扫描页面轮询用。
type LookupHandler struct {
	svc *service.LookupService
}

func NewLookupHandler(svc *service.LookupService) *LookupHandler {
	return &LookupHandler{svc: svc}
}

// ActionRequest 动作分发请求
type ActionRequest struct {
	Action     string `json:"action"`
	EmployeeID string `json:"employeeId"`
	PONumber   string `json:"poNumber"`
}

// Dispatch 查询动作分发
// POST /api/v1/actions
func (h *LookupHandler) Dispatch(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		Fail(c, http.StatusBadRequest, service.ErrKindBadRequest, "请求格式错误: "+err.Error())
		return
	}

	switch req.Action {
	case "getAllEmployees":
		employees := h.svc.AllEmployees()
		h.respond(c, gin.H{"data": employees, "count": len(employees)})

	case "queryEmployee":
		emp, ok := h.svc.FindEmployeeByID(req.EmployeeID)
		if !ok {
			Fail(c, http.StatusOK, service.ErrKindEmployeeNotFound, "查无此员工编号："+req.EmployeeID)
			return
		}
		h.respond(c, gin.H{"data": emp})

	case "queryPurchaseOrder":
		po, ok := h.svc.FindPurchaseOrder(req.PONumber)
		if !ok {
			Fail(c, http.StatusOK, service.ErrKindPONotFound, "查无此采购单号："+req.PONumber)
			return
		}
		h.respond(c, gin.H{"data": po})

	default:
		Fail(c, http.StatusBadRequest, service.ErrKindUnknownAction, "未知的操作："+req.Action)
	}
}

// DispatchQuery GET 版查询分发
// GET /api/v1/actions?action=getOpeners|getPOHeaders|getPOInfo
func (h *LookupHandler) DispatchQuery(c *gin.Context) {
	switch action := c.Query("action"); action {
	case "getOpeners":
		h.respond(c, gin.H{"openers": h.svc.OpenerNames()})

	case "getPOHeaders":
		pos := h.svc.PurchaseOrders()
		items := make([]gin.H, 0, len(pos))
		for i := range pos {
			items = append(items, gin.H{
				"poNo":   pos[i].PONumber,
				"date":   pos[i].PurchaseDate,
				"vendor": pos[i].Supplier,
				"qty":    pos[i].ExpectedQuantity,
			})
		}
		h.respond(c, gin.H{"items": items})

	case "getPOInfo":
		po, ok := h.svc.FindPurchaseOrder(c.Query("po"))
		if !ok {
			Fail(c, http.StatusOK, service.ErrKindPONotFound, "查无此采购单号："+c.Query("po"))
			return
		}
		h.respond(c, gin.H{"data": po})

	default:
		Fail(c, http.StatusBadRequest, service.ErrKindUnknownAction, "未知的操作："+action)
	}
}

// respond 查询表降级时附带告警字段，提醒前端当前是样例数据
func (h *LookupHandler) respond(c *gin.Context, payload gin.H) {
	if h.svc.Degraded() {
		payload["warning"] = "查询表加载失败，当前为内置样例数据"
	}
	OK(c, payload)
}
