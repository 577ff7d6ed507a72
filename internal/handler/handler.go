package handler

import (
	"errors"
	"strconv"

	"github.com/DavidwithD/InventoryHub/internal/apperr"
	"github.com/DavidwithD/InventoryHub/internal/service"
	"github.com/gin-gonic/gin"
)

// Handlers 处理器集合
type Handlers struct {
	Supplier  *SupplierHandler
	Category  *CategoryHandler
	Product   *ProductHandler
	Purchase  *PurchaseHandler
	Inventory *InventoryHandler
	Order     *OrderHandler
	Dashboard *DashboardHandler
	Mercari   *MercariHandler
}

// NewHandlers 创建处理器集合
func NewHandlers(svc *service.Services) *Handlers {
	return &Handlers{
		Supplier:  NewSupplierHandler(svc.Supplier),
		Category:  NewCategoryHandler(svc.Category),
		Product:   NewProductHandler(svc.Product),
		Purchase:  NewPurchaseHandler(svc.Purchase),
		Inventory: NewInventoryHandler(svc.Inventory),
		Order:     NewOrderHandler(svc.Order),
		Dashboard: NewDashboardHandler(svc.Dashboard),
		Mercari:   NewMercariHandler(svc.Mercari),
	}
}

// Response 通用响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(200, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应
func Created(c *gin.Context, data interface{}) {
	c.JSON(201, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Error 错误响应，业务码前三位即 HTTP 状态码
func Error(c *gin.Context, code int, message string) {
	statusCode := code / 100
	if statusCode < 100 || statusCode > 599 {
		statusCode = 500
	}
	c.JSON(statusCode, Response{
		Code:    code,
		Message: message,
	})
}

// BadRequest 参数错误响应
func BadRequest(c *gin.Context, message string) {
	Error(c, 40000, message)
}

// HandleError 按错误类别映射 HTTP 状态码
func HandleError(c *gin.Context, err error) {
	var stockErr *apperr.InsufficientStockError
	switch {
	case errors.As(err, &stockErr):
		Error(c, 42200, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		Error(c, 40400, err.Error())
	case errors.Is(err, apperr.ErrAlreadyExists), errors.Is(err, apperr.ErrConflict):
		Error(c, 40900, err.Error())
	case errors.Is(err, apperr.ErrInvalidArgument):
		Error(c, 40000, err.Error())
	default:
		Error(c, 50000, err.Error())
	}
}

// ParseID 解析路径中的数字 ID
func ParseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		BadRequest(c, "无效的 ID")
		return 0, false
	}
	return uint(id), true
}

// QueryUint 解析查询参数中的数字，缺省或非法时返回 0
func QueryUint(c *gin.Context, key string) uint {
	v, err := strconv.ParseUint(c.Query(key), 10, 64)
	if err != nil {
		return 0
	}
	return uint(v)
}
