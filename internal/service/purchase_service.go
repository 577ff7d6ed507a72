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

// PurchaseService 进货单管理。进货单记录源币种总额与兑日元汇率，
// 实际入库金额由库存批次分摊
type PurchaseService struct {
	repo         *repository.PurchaseRepository
	supplierRepo *repository.SupplierRepository
}

func NewPurchaseService(repo *repository.PurchaseRepository, sr *repository.SupplierRepository) *PurchaseService {
	return &PurchaseService{repo: repo, supplierRepo: sr}
}

type PurchaseRequest struct {
	SupplierID   uint            `json:"supplier_id" binding:"required"`
	PurchaseNo   string          `json:"purchase_no" binding:"required"`
	PurchaseDate time.Time       `json:"purchase_date" binding:"required"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	CurrencyType string          `json:"currency_type"`
	ExchangeRate decimal.Decimal `json:"exchange_rate"`
}

func (s *PurchaseService) List(ctx context.Context, params repository.PurchaseListParams) ([]entity.Purchase, error) {
	return s.repo.List(ctx, params)
}

func (s *PurchaseService) GetByID(ctx context.Context, id uint) (*entity.Purchase, error) {
	purchase, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("进货单 ID %d 不存在: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return purchase, nil
}

// validate 校验供应商存在、单号唯一以及币种/汇率/金额的合法性
func (s *PurchaseService) validate(ctx context.Context, req *PurchaseRequest, excludeID uint) error {
	if _, err := s.supplierRepo.GetByID(ctx, req.SupplierID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("供应商 ID %d 不存在: %w", req.SupplierID, apperr.ErrNotFound)
		}
		return err
	}

	exists, err := s.repo.NoExists(ctx, req.PurchaseNo, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("进货单号 '%s' 已存在: %w", req.PurchaseNo, apperr.ErrAlreadyExists)
	}

	if req.CurrencyType == "" {
		req.CurrencyType = entity.CurrencyJPY
	}
	if req.CurrencyType != entity.CurrencyCNY && req.CurrencyType != entity.CurrencyJPY {
		return fmt.Errorf("不支持的币种 '%s': %w", req.CurrencyType, apperr.ErrInvalidArgument)
	}
	// 日元计价时汇率恒为 1
	if req.CurrencyType == entity.CurrencyJPY {
		req.ExchangeRate = decimal.NewFromInt(1)
	}
	if req.ExchangeRate.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("汇率必须大于 0: %w", apperr.ErrInvalidArgument)
	}
	if req.TotalAmount.IsNegative() {
		return fmt.Errorf("进货总额不能为负数: %w", apperr.ErrInvalidArgument)
	}
	return nil
}

func (s *PurchaseService) Create(ctx context.Context, req PurchaseRequest) (*entity.Purchase, error) {
	if err := s.validate(ctx, &req, 0); err != nil {
		return nil, err
	}

	purchase := &entity.Purchase{
		SupplierID:   req.SupplierID,
		PurchaseNo:   req.PurchaseNo,
		PurchaseDate: req.PurchaseDate,
		TotalAmount:  req.TotalAmount.Round(2),
		CurrencyType: req.CurrencyType,
		ExchangeRate: req.ExchangeRate,
	}
	if err := s.repo.Create(ctx, purchase); err != nil {
		return nil, fmt.Errorf("创建进货单失败: %w", err)
	}
	return s.GetByID(ctx, purchase.ID)
}

func (s *PurchaseService) Update(ctx context.Context, id uint, req PurchaseRequest) (*entity.Purchase, error) {
	purchase, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, &req, id); err != nil {
		return nil, err
	}

	purchase.SupplierID = req.SupplierID
	purchase.PurchaseNo = req.PurchaseNo
	purchase.PurchaseDate = req.PurchaseDate
	purchase.TotalAmount = req.TotalAmount.Round(2)
	purchase.CurrencyType = req.CurrencyType
	purchase.ExchangeRate = req.ExchangeRate
	purchase.UpdatedAt = time.Now()
	purchase.Supplier = nil

	if err := s.repo.Update(ctx, purchase); err != nil {
		return nil, fmt.Errorf("更新进货单失败: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete 软删除进货单，名下存在库存批次时拒绝
func (s *PurchaseService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	hasInventory, err := s.repo.HasInventory(ctx, id)
	if err != nil {
		return err
	}
	if hasInventory {
		return fmt.Errorf("该进货单下存在库存批次，无法删除: %w", apperr.ErrConflict)
	}
	return s.repo.SoftDelete(ctx, id)
}
