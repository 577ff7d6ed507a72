package handler

import (
	"github.com/DavidwithD/InventoryHub/internal/repository"
	"github.com/DavidwithD/InventoryHub/internal/service"
	"github.com/gin-gonic/gin"
)

// OrderHandler 订单处理器
type OrderHandler struct {
	svc *service.OrderService
}

func NewOrderHandler(svc *service.OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

// List 获取订单列表，支持成交时间范围过滤
func (h *OrderHandler) List(c *gin.Context) {
	params := repository.OrderListParams{
		StartDate: queryDate(c, "start_date"),
		EndDate:   queryDate(c, "end_date"),
	}
	orders, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, orders)
}

// Get 获取订单详情
func (h *OrderHandler) Get(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	order, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, order)
}

// Create 创建订单（可携带明细，明细同步扣减库存）
func (h *OrderHandler) Create(c *gin.Context) {
	var req service.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	order, err := h.svc.CreateWithDetails(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, order)
}

// Update 更新订单标量字段
func (h *OrderHandler) Update(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	var req service.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	order, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, order)
}

// Delete 删除订单并恢复明细占用的库存
func (h *OrderHandler) Delete(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}

// ListDetails 获取订单明细列表
func (h *OrderHandler) ListDetails(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	details, err := h.svc.ListDetails(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, details)
}

// CreateDetail 向订单追加明细
func (h *OrderHandler) CreateDetail(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	var req service.CreateOrderDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	req.OrderID = id
	detail, err := h.svc.CreateDetail(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, detail)
}

// UpdateDetail 修改订单明细
func (h *OrderHandler) UpdateDetail(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	var req service.CreateOrderDetailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	detail, err := h.svc.UpdateDetail(c.Request.Context(), id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, detail)
}

// DeleteDetail 删除订单明细并恢复库存
func (h *OrderHandler) DeleteDetail(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	if err := h.svc.DeleteDetail(c.Request.Context(), id); err != nil {
		HandleError(c, err)
		return
	}
	Success(c, nil)
}
