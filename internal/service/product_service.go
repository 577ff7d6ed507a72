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

// ProductService 商品管理，商品必须隶属于一个已存在的分类
type ProductService struct {
	repo         *repository.ProductRepository
	categoryRepo *repository.CategoryRepository
}

func NewProductService(repo *repository.ProductRepository, cr *repository.CategoryRepository) *ProductService {
	return &ProductService{repo: repo, categoryRepo: cr}
}

type ProductRequest struct {
	Name       string `json:"name" binding:"required"`
	CategoryID uint   `json:"category_id" binding:"required"`
}

func (s *ProductService) List(ctx context.Context, params repository.ProductListParams) ([]entity.Product, error) {
	return s.repo.List(ctx, params)
}

func (s *ProductService) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("商品 ID %d 不存在: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return product, nil
}

func (s *ProductService) validate(ctx context.Context, req ProductRequest, excludeID uint) error {
	if _, err := s.categoryRepo.GetByID(ctx, req.CategoryID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("分类 ID %d 不存在: %w", req.CategoryID, apperr.ErrNotFound)
		}
		return err
	}

	exists, err := s.repo.NameExists(ctx, req.Name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("商品名称 '%s' 已存在: %w", req.Name, apperr.ErrAlreadyExists)
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, req ProductRequest) (*entity.Product, error) {
	if err := s.validate(ctx, req, 0); err != nil {
		return nil, err
	}

	product := &entity.Product{
		Name:       req.Name,
		CategoryID: req.CategoryID,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("创建商品失败: %w", err)
	}
	return s.GetByID(ctx, product.ID)
}

func (s *ProductService) Update(ctx context.Context, id uint, req ProductRequest) (*entity.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.validate(ctx, req, id); err != nil {
		return nil, err
	}

	product.Name = req.Name
	product.CategoryID = req.CategoryID
	product.UpdatedAt = time.Now()
	product.Category = nil

	if err := s.repo.Update(ctx, product); err != nil {
		return nil, fmt.Errorf("更新商品失败: %w", err)
	}
	return s.GetByID(ctx, id)
}

// Delete 软删除商品，名下存在库存批次时拒绝
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	hasInventory, err := s.repo.HasInventory(ctx, id)
	if err != nil {
		return err
	}
	if hasInventory {
		return fmt.Errorf("该商品下存在库存批次，无法删除: %w", apperr.ErrConflict)
	}
	return s.repo.SoftDelete(ctx, id)
}
