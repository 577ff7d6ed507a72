package handler

import (
	"github.com/DavidwithD/InventoryHub/internal/service"
	"github.com/gin-gonic/gin"
)

// MercariHandler 订单导入处理器
type MercariHandler struct {
	svc *service.MercariService
}

func NewMercariHandler(svc *service.MercariService) *MercariHandler {
	return &MercariHandler{svc: svc}
}

// ImportFromCurl 从 cURL 命令批量导入已售订单。
// 导入过程中单条失败不中断，结果统计随响应返回
func (h *MercariHandler) ImportFromCurl(c *gin.Context) {
	var req service.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, "请求参数错误: "+err.Error())
		return
	}
	result := h.svc.ImportOrdersFromCurl(c.Request.Context(), req)
	Success(c, result)
}
