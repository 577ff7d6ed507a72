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

// CategoryService 商品分类管理
type CategoryService struct {
	repo *repository.CategoryRepository
}

func NewCategoryService(repo *repository.CategoryRepository) *CategoryService {
	return &CategoryService{repo: repo}
}

type CategoryRequest struct {
	Name string `json:"name" binding:"required"`
}

func (s *CategoryService) List(ctx context.Context, keyword string) ([]entity.Category, error) {
	return s.repo.List(ctx)
}

func (s *CategoryService) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("分类 ID %d 不存在: %w", id, apperr.ErrNotFound)
		}
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, req CategoryRequest) (*entity.Category, error) {
	exists, err := s.repo.NameExists(ctx, req.Name, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("分类名称 '%s' 已存在: %w", req.Name, apperr.ErrAlreadyExists)
	}

	category := &entity.Category{Name: req.Name}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("创建分类失败: %w", err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, req CategoryRequest) (*entity.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.NameExists(ctx, req.Name, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("分类名称 '%s' 已存在: %w", req.Name, apperr.ErrAlreadyExists)
	}

	category.Name = req.Name
	category.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, category); err != nil {
		return nil, fmt.Errorf("更新分类失败: %w", err)
	}
	return category, nil
}

// Delete 软删除分类，名下存在商品时拒绝
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	hasProducts, err := s.repo.HasProducts(ctx, id)
	if err != nil {
		return err
	}
	if hasProducts {
		return fmt.Errorf("该分类下存在商品，无法删除: %w", apperr.ErrConflict)
	}
	return s.repo.SoftDelete(ctx, id)
}
