// Package apperr 定义核心业务错误分类。
// 服务层用 fmt.Errorf("...: %w", 哨兵) 包装带上下文的消息，
// HTTP 层通过 errors.Is / errors.As 映射到状态码。
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound 引用的实体不存在或已被软删除
	ErrNotFound = errors.New("not found")

	// ErrAlreadyExists 名称/单号在未删除记录中已存在
	ErrAlreadyExists = errors.New("already exists")

	// ErrInvalidArgument 非法入参（非正数量、负库存等）
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrConflict 目标记录被未删除的订单明细引用，禁止修改/删除
	ErrConflict = errors.New("conflict")
)

// InsufficientStockError 库存不足，携带批次可用量与请求量
type InsufficientStockError struct {
	InventoryID uint
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("库存不足：库存记录 ID %d，可用库存 %d，需要 %d",
		e.InventoryID, e.Available, e.Requested)
}

// Is 让 errors.Is(err, ErrInvalidArgument) 对库存不足也成立（属于无效操作的子类）
func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInvalidArgument
}
