package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/DavidwithD/InventoryHub/internal/apperr"
	"github.com/DavidwithD/InventoryHub/internal/entity"
	"github.com/DavidwithD/InventoryHub/internal/repository"
	"gorm.io/gorm"
)

// SupplierService 供应商管理
type SupplierService struct {
	repo *repository.SupplierRepository
}

func NewSupplierService(repo *repository.SupplierRepository) *SupplierService {
	return &SupplierService{repo: repo}
}

type SupplierRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *SupplierService) List(ctx context.Context, keyword string) ([]entity.Supplier, error) {
	return s.repo.List(ctx, keyword)
}

func (s *SupplierService) GetByID(ctx context.Context, id uint) (*entity.Supplier, error) {
	supplier, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("供应商 ID %d 不存在: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return supplier, nil
}

func (s *SupplierService) Create(ctx context.Context, req SupplierRequest) (*entity.Supplier, error) {
	exists, err := s.repo.NameExists(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("供应商名称 '%s' 已存在: %w", req.Name, apperr.ErrAlreadyExists)
	}

	supplier := &entity.Supplier{Name: req.Name}
	if err := s.repo.Create(ctx, supplier); err != nil {
		return nil, fmt.Errorf("创建供应商失败: %w", err)
	}
	return supplier, nil
}

func (s *SupplierService) Update(ctx context.Context, id uint, req SupplierRequest) (*entity.Supplier, error) {
	supplier, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.NameExists(ctx, req.Name, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("供应商名称 '%s' 已存在: %w", req.Name, apperr.ErrAlreadyExists)
	}

	supplier.Name = req.Name
	supplier.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, supplier); err != nil {
		return nil, fmt.Errorf("更新供应商失败: %w", err)
	}
	return supplier, nil
}

// Delete 软删除供应商，名下存在进货单时拒绝
func (s *SupplierService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	hasPurchases, err := s.repo.HasPurchases(ctx, id)
	if err != nil {
		return err
	}
	if hasPurchases {
		return fmt.Errorf("该供应商下存在进货单，无法删除: %w", apperr.ErrConflict)
	}
	return s.repo.SoftDelete(ctx, id)
}
