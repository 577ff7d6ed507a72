package repository

import (
	"context"

	"github.com/DavidwithD/InventoryHub/internal/entity"
	"gorm.io/gorm"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) Create(ctx context.Context, c *entity.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CategoryRepository) GetByID(ctx context.Context, id uint) (*entity.Category, error) {
	var c entity.Category
	err := r.db.WithContext(ctx).Where("id = ? AND deleted = false", id).First(&c).Error
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *CategoryRepository) Update(ctx context.Context, c *entity.Category) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CategoryRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.Category{}).
		Where("id = ?", id).Update("deleted", true).Error
}

func (r *CategoryRepository) List(ctx context.Context) ([]entity.Category, error) {
	var categories []entity.Category
	err := r.db.WithContext(ctx).Where("deleted = false").
		Order("created_at DESC").Find(&categories).Error
	return categories, err
}

func (r *CategoryRepository) NameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entity.Category{}).
		Where("name = ? AND deleted = false", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// HasProducts 是否存在未删除的商品属于该分类
func (r *CategoryRepository) HasProducts(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("category_id = ? AND deleted = false", id).Count(&count).Error
	return count > 0, err
}
