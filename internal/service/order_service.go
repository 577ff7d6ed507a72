package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DavidwithD/InventoryHub/internal/apperr"
	"github.com/DavidwithD/InventoryHub/internal/entity"
	"github.com/DavidwithD/InventoryHub/internal/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OrderService 订单履约引擎：订单与明细的全部变更在单个事务内完成，
// 明细的创建/修改/删除同步扣减或恢复所引用批次的库存
type OrderService struct {
	orderRepo     *repository.OrderRepository
	inventoryRepo *repository.InventoryRepository
	db            *gorm.DB
}

func NewOrderService(or *repository.OrderRepository, ir *repository.InventoryRepository, db *gorm.DB) *OrderService {
	return &OrderService{orderRepo: or, inventoryRepo: ir, db: db}
}

// OrderView 订单视图，TotalCost 由未删除明细汇总得出
type OrderView struct {
	entity.Order
	TotalCost decimal.Decimal `json:"total_cost"`
}

func newOrderView(o entity.Order) OrderView {
	total := decimal.Zero
	for _, d := range o.OrderDetails {
		total = total.Add(d.SubtotalCost)
	}
	view := OrderView{Order: o, TotalCost: total}
	view.OrderDetails = nil
	return view
}

func (s *OrderService) List(ctx context.Context, params repository.OrderListParams) ([]OrderView, error) {
	orders, err := s.orderRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, newOrderView(o))
	}
	return views, nil
}

func (s *OrderService) GetByID(ctx context.Context, id uint) (*OrderView, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("订单 ID %d 不存在: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	view := newOrderView(*order)
	return &view, nil
}

type CreateOrderDetailRequest struct {
	OrderID       uint            `json:"order_id"`
	InventoryID   uint            `json:"inventory_id" binding:"required"`
	ProductID     uint            `json:"product_id" binding:"required"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Quantity      int             `json:"quantity" binding:"required"`
	PackagingCost decimal.Decimal `json:"packaging_cost"`
	OtherCost     decimal.Decimal `json:"other_cost"`
	Notes         *string         `json:"notes"`
}

type CreateOrderRequest struct {
	OrderNo         string                     `json:"order_no" binding:"required"`
	Name            string                     `json:"name"`
	ImageURL        *string                    `json:"image_url"`
	Revenue         decimal.Decimal            `json:"revenue"`
	ShippingFee     decimal.Decimal            `json:"shipping_fee"`
	TransactionTime time.Time                  `json:"transaction_time" binding:"required"`
	Details         []CreateOrderDetailRequest `json:"details"`
}

// applyDetail 在事务内对单条明细执行库存校验与扣减，返回构建好的明细。
// 批次行在事务内加锁读取，保证并发下 stock_quantity 的读改写串行化
func applyDetail(tx *gorm.DB, orderID uint, req CreateOrderDetailRequest) (*entity.OrderDetail, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("订单数量必须大于 0: %w", apperr.ErrInvalidArgument)
	}

	inv, err := repository.GetInventoryForUpdate(tx, req.InventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("库存记录 ID %d 不存在: %w", req.InventoryID, apperr.ErrNotFound)
		}
		return nil, err
	}
	if inv.ProductID != req.ProductID {
		return nil, fmt.Errorf("商品 ID %d 与库存批次的商品不一致: %w", req.ProductID, apperr.ErrInvalidArgument)
	}
	if inv.StockQuantity < req.Quantity {
		return nil, &apperr.InsufficientStockError{
			InventoryID: inv.ID,
			Available:   inv.StockQuantity,
			Requested:   req.Quantity,
		}
	}

	// 小计成本 = 批次单件成本 × 数量 + 包装成本 + 其他成本，创建时固定
	subtotal := inv.UnitCost.Mul(decimal.NewFromInt(int64(req.Quantity))).
		Add(req.PackagingCost).Add(req.OtherCost).Round(2)

	detail := &entity.OrderDetail{
		OrderID:       orderID,
		InventoryID:   req.InventoryID,
		ProductID:     req.ProductID,
		UnitPrice:     req.UnitPrice.Round(2),
		Quantity:      req.Quantity,
		PackagingCost: req.PackagingCost.Round(2),
		OtherCost:     req.OtherCost.Round(2),
		SubtotalCost:  subtotal,
		Notes:         req.Notes,
	}
	if err := tx.Create(detail).Error; err != nil {
		return nil, fmt.Errorf("创建订单明细失败: %w", err)
	}

	inv.StockQuantity -= req.Quantity
	if err := tx.Save(inv).Error; err != nil {
		return nil, fmt.Errorf("扣减库存失败: %w", err)
	}
	return detail, nil
}

// restoreStock 在事务内恢复明细所引用批次的库存。
// 被引用的批次不可删除，批次缺失只可能来自历史脏数据，此时跳过恢复
func restoreStock(tx *gorm.DB, detail *entity.OrderDetail) error {
	inv, err := repository.GetInventoryForUpdate(tx, detail.InventoryID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}
	inv.StockQuantity += detail.Quantity
	if err := tx.Save(inv).Error; err != nil {
		return fmt.Errorf("恢复库存失败: %w", err)
	}
	return nil
}

// CreateWithDetails 创建订单及其明细。任意一行校验失败则整单回滚，
// 不会留下部分扣减的库存
func (s *OrderService) CreateWithDetails(ctx context.Context, req CreateOrderRequest) (*OrderView, error) {
	exists, err := s.orderRepo.NoExists(ctx, req.OrderNo, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("订单编号 '%s' 已存在: %w", req.OrderNo, apperr.ErrAlreadyExists)
	}

	order := &entity.Order{
		OrderNo:         req.OrderNo,
		Name:            req.Name,
		ImageURL:        req.ImageURL,
		Revenue:         req.Revenue.Round(2),
		ShippingFee:     req.ShippingFee.Round(2),
		TransactionTime: req.TransactionTime,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("创建订单失败: %w", err)
		}
		for _, detailReq := range req.Details {
			if _, err := applyDetail(tx, order.ID, detailReq); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetByID(ctx, order.ID)
}

// CreateBare 创建无明细订单（外部导入用），成本后续通过明细补充
func (s *OrderService) CreateBare(ctx context.Context, req CreateOrderRequest) (*OrderView, error) {
	req.Details = nil
	return s.CreateWithDetails(ctx, req)
}

type UpdateOrderRequest struct {
	OrderNo         string          `json:"order_no" binding:"required"`
	Name            string          `json:"name"`
	ImageURL        *string         `json:"image_url"`
	Revenue         decimal.Decimal `json:"revenue"`
	ShippingFee     decimal.Decimal `json:"shipping_fee"`
	TransactionTime time.Time       `json:"transaction_time" binding:"required"`
}

// Update 只更新订单标量字段，不触碰明细与库存
func (s *OrderService) Update(ctx context.Context, id uint, req UpdateOrderRequest) (*OrderView, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("订单 ID %d 不存在: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}

	exists, err := s.orderRepo.NoExists(ctx, req.OrderNo, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("订单编号 '%s' 已存在: %w", req.OrderNo, apperr.ErrAlreadyExists)
	}

	order.OrderNo = req.OrderNo
	order.Name = req.Name
	order.ImageURL = req.ImageURL
	order.Revenue = req.Revenue.Round(2)
	order.ShippingFee = req.ShippingFee.Round(2)
	order.TransactionTime = req.TransactionTime
	order.UpdatedAt = time.Now()
	order.OrderDetails = nil

	if err := s.orderRepo.Update(ctx, order); err != nil {
		return nil, fmt.Errorf("更新订单失败: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete 删除订单：恢复所有未删除明细的库存并软删除明细与订单，单事务
func (s *OrderService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var order entity.Order
		if err := tx.Preload("OrderDetails", "deleted = false").
			Where("id = ? AND deleted = false", id).First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("订单 ID %d 不存在: %w", id, apperr.ErrNotFound)
			}
			return err
		}

		for i := range order.OrderDetails {
			detail := &order.OrderDetails[i]
			if err := restoreStock(tx, detail); err != nil {
				return err
			}
			if err := tx.Model(&entity.OrderDetail{}).
				Where("id = ?", detail.ID).Update("deleted", true).Error; err != nil {
				return fmt.Errorf("删除订单明细失败: %w", err)
			}
		}

		if err := tx.Model(&entity.Order{}).
			Where("id = ?", order.ID).Update("deleted", true).Error; err != nil {
			return fmt.Errorf("删除订单失败: %w", err)
		}
		return nil
	})
}

// --- 订单明细 ---

func (s *OrderService) ListDetails(ctx context.Context, orderID uint) ([]entity.OrderDetail, error) {
	return s.orderRepo.ListDetails(ctx, orderID)
}

func (s *OrderService) GetDetailByID(ctx context.Context, id uint) (*entity.OrderDetail, error) {
	detail, err := s.orderRepo.GetDetailByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("订单明细 ID %d 不存在: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return detail, nil
}

// CreateDetail 向已有订单追加一条明细并扣减库存
func (s *OrderService) CreateDetail(ctx context.Context, req CreateOrderDetailRequest) (*entity.OrderDetail, error) {
	if _, err := s.orderRepo.GetByID(ctx, req.OrderID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("订单 ID %d 不存在: %w", req.OrderID, apperr.ErrNotFound)
		}
		return nil, err
	}

	var detailID uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		detail, err := applyDetail(tx, req.OrderID, req)
		if err != nil {
			return err
		}
		detailID = detail.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetDetailByID(ctx, detailID)
}

// UpdateDetail 修改明细：先恢复旧批次库存，再对新批次（可能相同）校验并扣减，
// 小计成本按新批次当前单件成本重算。新批次库存不足时整个操作回滚，
// 旧批次的恢复也不会落库
func (s *OrderService) UpdateDetail(ctx context.Context, id uint, req CreateOrderDetailRequest) (*entity.OrderDetail, error) {
	if req.Quantity <= 0 {
		return nil, fmt.Errorf("订单数量必须大于 0: %w", apperr.ErrInvalidArgument)
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var detail entity.OrderDetail
		if err := tx.Where("id = ? AND deleted = false", id).First(&detail).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("订单明细 ID %d 不存在: %w", id, apperr.ErrNotFound)
			}
			return err
		}

		// 恢复旧批次库存
		oldInv, err := repository.GetInventoryForUpdate(tx, detail.InventoryID)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}
		if oldInv != nil {
			oldInv.StockQuantity += detail.Quantity
			if err := tx.Save(oldInv).Error; err != nil {
				return fmt.Errorf("恢复库存失败: %w", err)
			}
		}

		// 扣减新批次库存（与旧批次相同时复用已锁定的行）
		newInv := oldInv
		if oldInv == nil || oldInv.ID != req.InventoryID {
			newInv, err = repository.GetInventoryForUpdate(tx, req.InventoryID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return fmt.Errorf("库存记录 ID %d 不存在: %w", req.InventoryID, apperr.ErrNotFound)
				}
				return err
			}
		}
		if newInv.ProductID != req.ProductID {
			return fmt.Errorf("商品 ID %d 与库存批次的商品不一致: %w", req.ProductID, apperr.ErrInvalidArgument)
		}
		if newInv.StockQuantity < req.Quantity {
			return &apperr.InsufficientStockError{
				InventoryID: newInv.ID,
				Available:   newInv.StockQuantity,
				Requested:   req.Quantity,
			}
		}
		newInv.StockQuantity -= req.Quantity
		if err := tx.Save(newInv).Error; err != nil {
			return fmt.Errorf("扣减库存失败: %w", err)
		}

		// 按新批次当前单件成本重算小计
		subtotal := newInv.UnitCost.Mul(decimal.NewFromInt(int64(req.Quantity))).
			Add(req.PackagingCost).Add(req.OtherCost).Round(2)

		detail.InventoryID = req.InventoryID
		detail.ProductID = req.ProductID
		detail.UnitPrice = req.UnitPrice.Round(2)
		detail.Quantity = req.Quantity
		detail.PackagingCost = req.PackagingCost.Round(2)
		detail.OtherCost = req.OtherCost.Round(2)
		detail.SubtotalCost = subtotal
		detail.Notes = req.Notes
		detail.UpdatedAt = time.Now()
		if err := tx.Save(&detail).Error; err != nil {
			return fmt.Errorf("更新订单明细失败: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetDetailByID(ctx, id)
}

// DeleteDetail 删除明细并恢复其批次库存，单事务
func (s *OrderService) DeleteDetail(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var detail entity.OrderDetail
		if err := tx.Where("id = ? AND deleted = false", id).First(&detail).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("订单明细 ID %d 不存在: %w", id, apperr.ErrNotFound)
			}
			return err
		}

		if err := restoreStock(tx, &detail); err != nil {
			return err
		}
		if err := tx.Model(&entity.OrderDetail{}).
			Where("id = ?", detail.ID).Update("deleted", true).Error; err != nil {
			return fmt.Errorf("删除订单明细失败: %w", err)
		}
		return nil
	})
}
