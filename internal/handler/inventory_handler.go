package handler

import (
	"fmt"
	"net/http"

	"github.com/DavidwithD/InventoryHub/internal/repository"
	"github.com/DavidwithD/InventoryHub/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
)

// InventoryHandler 库存批次处理器
type InventoryHandler struct {
	svc *service.InventoryService
}

func NewInventoryHandler(svc *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{svc: svc}
}

// List 获取库存批次列表，支持进货单/商品过滤
func (h *InventoryHandler) List(c *gin.Context) {
	params := repository.InventoryListParams{
		PurchaseID: QueryUint(c, "purchase_id"),
		ProductID:  QueryUint(c, "product_id"),
	}
	items, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, items)
}

// Get 获取库存批次详情
func (h *InventoryHandler) Get(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	item, err := h.svc.GetByID(c.Request.Context(), id)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, item)
}

// Create 创建库存批次
func (h *InventoryHandler) Create(c *gin.Context) {
	var req service.CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	item, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, item)
}

// BatchCreate 批量创建库存批次，全部成功或全部回滚
func (h *InventoryHandler) BatchCreate(c *gin.Context) {
	var reqs []service.CreateInventoryRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	items, err := h.svc.BatchCreate(c.Request.Context(), reqs)
	if err != nil {
		HandleError(c, err)
		return
	}
	Created(c, items)
}

// Update 更新库存批次
func (h *InventoryHandler) Update(c *gin.Context) {
	id, ok := ParseID(c)
	if !ok {
		return
	}
	var req service.CreateInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	item, err := h.svc.Update(c.Request.Context(), id, req)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, item)
}

// Delete 删除库存批次
func (h *InventoryHandler) Delete(c *gin.Context) {
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

// PurchaseAllocation 查询进货单的分摊情况：已分摊日元合计与期望总额
func (h *InventoryHandler) PurchaseAllocation(c *gin.Context) {
	purchaseID := QueryUint(c, "purchase_id")
	if purchaseID == 0 {
		BadRequest(c, "缺少 purchase_id")
		return
	}

	allocated, err := h.svc.GetPurchaseTotalAllocated(c.Request.Context(), purchaseID)
	if err != nil {
		HandleError(c, err)
		return
	}
	expected, err := h.svc.GetExpectedTotalJpy(c.Request.Context(), purchaseID)
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, gin.H{
		"purchase_id":     purchaseID,
		"total_allocated": allocated,
		"expected_total":  expected,
	})
}

// Export 导出库存台账为 xlsx
func (h *InventoryHandler) Export(c *gin.Context) {
	params := repository.InventoryListParams{
		PurchaseID: QueryUint(c, "purchase_id"),
		ProductID:  QueryUint(c, "product_id"),
	}
	items, err := h.svc.List(c.Request.Context(), params)
	if err != nil {
		HandleError(c, err)
		return
	}

	f := excelize.NewFile()
	sheet := "Sheet1"

	headers := []string{"ID", "商品", "分类", "进货单号", "进货金额(CNY)", "进货金额(JPY)", "进货数量", "单件成本(JPY)", "库存数量"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, title)
	}

	for row, item := range items {
		values := []interface{}{
			item.ID,
			item.ProductName,
			item.CategoryName,
			item.PurchaseNo,
			item.PurchaseAmountCny.InexactFloat64(),
			item.PurchaseAmount.InexactFloat64(),
			item.PurchaseQuantity,
			item.UnitCost.InexactFloat64(),
			item.StockQuantity,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=inventory.xlsx")
	if err := f.Write(c.Writer); err != nil {
		c.String(http.StatusInternalServerError, fmt.Sprintf("导出失败: %v", err))
	}
}
