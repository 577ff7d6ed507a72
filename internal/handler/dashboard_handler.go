package handler

import (
	"github.com/DavidwithD/InventoryHub/internal/service"
	"github.com/gin-gonic/gin"
)

// DashboardHandler 经营看板处理器
type DashboardHandler struct {
	svc *service.DashboardService
}

func NewDashboardHandler(svc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{svc: svc}
}

// Stats 获取看板统计
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.svc.GetStats(c.Request.Context())
	if err != nil {
		HandleError(c, err)
		return
	}
	Success(c, stats)
}
