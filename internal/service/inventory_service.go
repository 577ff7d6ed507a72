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

// InventoryService 库存分配引擎：负责进货金额在批次上的分摊、
// 单件成本计算，以及被订单引用批次的修改/删除保护
type InventoryService struct {
	inventoryRepo *repository.InventoryRepository
	productRepo   *repository.ProductRepository
	purchaseRepo  *repository.PurchaseRepository
	db            *gorm.DB
}

func NewInventoryService(ir *repository.InventoryRepository, pr *repository.ProductRepository,
	pur *repository.PurchaseRepository, db *gorm.DB) *InventoryService {
	return &InventoryService{inventoryRepo: ir, productRepo: pr, purchaseRepo: pur, db: db}
}

// InventoryView 批次视图，附带商品/进货单信息与引用状态
type InventoryView struct {
	entity.Inventory
	ProductName  string `json:"product_name"`
	CategoryID   uint   `json:"category_id"`
	CategoryName string `json:"category_name"`
	PurchaseNo   string `json:"purchase_no"`
	IsReferenced bool   `json:"is_referenced"`
}

func newInventoryView(inv entity.Inventory, referenced bool) InventoryView {
	view := InventoryView{Inventory: inv, IsReferenced: referenced}
	if inv.Product != nil {
		view.ProductName = inv.Product.Name
		view.CategoryID = inv.Product.CategoryID
		if inv.Product.Category != nil {
			view.CategoryName = inv.Product.Category.Name
		}
	}
	if inv.Purchase != nil {
		view.PurchaseNo = inv.Purchase.PurchaseNo
	}
	view.Product = nil
	view.Purchase = nil
	view.OrderDetails = nil
	return view
}

func (s *InventoryService) List(ctx context.Context, params repository.InventoryListParams) ([]InventoryView, error) {
	items, err := s.inventoryRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	ids := make([]uint, 0, len(items))
	for _, inv := range items {
		ids = append(ids, inv.ID)
	}
	referenced, err := s.inventoryRepo.ReferencedIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	views := make([]InventoryView, 0, len(items))
	for _, inv := range items {
		views = append(views, newInventoryView(inv, referenced[inv.ID]))
	}
	return views, nil
}

func (s *InventoryService) GetByID(ctx context.Context, id uint) (*InventoryView, error) {
	inv, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("库存记录 ID %d 不存在: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	referenced, err := s.inventoryRepo.IsReferenced(ctx, id)
	if err != nil {
		return nil, err
	}
	view := newInventoryView(*inv, referenced)
	return &view, nil
}

type CreateInventoryRequest struct {
	ProductID         uint            `json:"product_id" binding:"required"`
	PurchaseID        uint            `json:"purchase_id" binding:"required"`
	PurchaseAmountCny decimal.Decimal `json:"purchase_amount_cny"`
	PurchaseQuantity  int             `json:"purchase_quantity" binding:"required"`
	StockQuantity     int             `json:"stock_quantity"`
}

// validate 校验商品/进货单存在及数量合法，返回进货单（含汇率）
func (s *InventoryService) validate(ctx context.Context, req CreateInventoryRequest) (*entity.Purchase, error) {
	exists, err := s.productRepo.Exists(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, fmt.Errorf("商品 ID %d 不存在: %w", req.ProductID, apperr.ErrNotFound)
	}

	purchase, err := s.purchaseRepo.GetByID(ctx, req.PurchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("进货单 ID %d 不存在: %w", req.PurchaseID, apperr.ErrNotFound)
		}
		return nil, err
	}

	if req.PurchaseQuantity <= 0 {
		return nil, fmt.Errorf("进货数量必须大于 0: %w", apperr.ErrInvalidArgument)
	}
	if req.StockQuantity < 0 {
		return nil, fmt.Errorf("库存数量不能为负数: %w", apperr.ErrInvalidArgument)
	}
	return purchase, nil
}

// buildLot 按进货单汇率折算日元金额并计算单件成本
func buildLot(req CreateInventoryRequest, purchase *entity.Purchase) (*entity.Inventory, error) {
	amountJpy := ConvertToJpy(req.PurchaseAmountCny, purchase.ExchangeRate)
	unitCost, err := UnitCostJpy(amountJpy, req.PurchaseQuantity)
	if err != nil {
		return nil, err
	}
	return &entity.Inventory{
		ProductID:         req.ProductID,
		PurchaseID:        req.PurchaseID,
		PurchaseAmountCny: req.PurchaseAmountCny.Round(2),
		PurchaseAmount:    amountJpy,
		PurchaseQuantity:  req.PurchaseQuantity,
		UnitCost:          unitCost,
		StockQuantity:     req.StockQuantity,
	}, nil
}

func (s *InventoryService) Create(ctx context.Context, req CreateInventoryRequest) (*InventoryView, error) {
	purchase, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}
	inv, err := buildLot(req, purchase)
	if err != nil {
		return nil, err
	}
	if err := s.inventoryRepo.Create(ctx, inv); err != nil {
		return nil, fmt.Errorf("创建库存记录失败: %w", err)
	}
	return s.GetByID(ctx, inv.ID)
}

// BatchCreate 批量创建批次。整批在一个事务内执行，
// 任意一条校验失败则全部回滚，避免进货单被部分分摊
func (s *InventoryService) BatchCreate(ctx context.Context, reqs []CreateInventoryRequest) ([]InventoryView, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("批量创建列表不能为空: %w", apperr.ErrInvalidArgument)
	}

	var created []uint
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, req := range reqs {
			purchase, err := s.validate(ctx, req)
			if err != nil {
				return err
			}
			inv, err := buildLot(req, purchase)
			if err != nil {
				return err
			}
			if err := tx.Create(inv).Error; err != nil {
				return fmt.Errorf("创建库存记录失败: %w", err)
			}
			created = append(created, inv.ID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	views := make([]InventoryView, 0, len(created))
	for _, id := range created {
		view, err := s.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

func (s *InventoryService) Update(ctx context.Context, id uint, req CreateInventoryRequest) (*InventoryView, error) {
	inv, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("库存记录 ID %d 不存在: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}

	referenced, err := s.inventoryRepo.IsReferenced(ctx, id)
	if err != nil {
		return nil, err
	}
	if referenced {
		return nil, fmt.Errorf("该库存已被订单引用，无法修改: %w", apperr.ErrConflict)
	}

	purchase, err := s.validate(ctx, req)
	if err != nil {
		return nil, err
	}
	rebuilt, err := buildLot(req, purchase)
	if err != nil {
		return nil, err
	}

	inv.ProductID = rebuilt.ProductID
	inv.PurchaseID = rebuilt.PurchaseID
	inv.PurchaseAmountCny = rebuilt.PurchaseAmountCny
	inv.PurchaseAmount = rebuilt.PurchaseAmount
	inv.PurchaseQuantity = rebuilt.PurchaseQuantity
	inv.UnitCost = rebuilt.UnitCost
	inv.StockQuantity = rebuilt.StockQuantity
	inv.UpdatedAt = time.Now()
	inv.Product = nil
	inv.Purchase = nil

	if err := s.inventoryRepo.Update(ctx, inv); err != nil {
		return nil, fmt.Errorf("更新库存记录失败: %w", err)
	}
	return s.GetByID(ctx, id)
}

func (s *InventoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.inventoryRepo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("库存记录 ID %d 不存在: %w", id, apperr.ErrNotFound)
		}
		return err
	}

	referenced, err := s.inventoryRepo.IsReferenced(ctx, id)
	if err != nil {
		return err
	}
	if referenced {
		return fmt.Errorf("该库存已被订单引用，无法删除: %w", apperr.ErrConflict)
	}
	return s.inventoryRepo.SoftDelete(ctx, id)
}

// GetPurchaseTotalAllocated 进货单下已分摊的日元金额合计
func (s *InventoryService) GetPurchaseTotalAllocated(ctx context.Context, purchaseID uint) (decimal.Decimal, error) {
	return s.inventoryRepo.TotalAllocatedJpy(ctx, purchaseID)
}

// GetExpectedTotalJpy 进货单期望日元总额（源币种总额 × 汇率），与批次无关
func (s *InventoryService) GetExpectedTotalJpy(ctx context.Context, purchaseID uint) (decimal.Decimal, error) {
	purchase, err := s.purchaseRepo.GetByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, fmt.Errorf("进货单 ID %d 不存在: %w", purchaseID, apperr.ErrNotFound)
		}
		return decimal.Zero, err
	}
	return purchase.ExpectedTotalJpy(), nil
}
