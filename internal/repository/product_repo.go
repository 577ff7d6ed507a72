package repository

import (
	"context"

	"github.com/DavidwithD/InventoryHub/internal/entity"
	"gorm.io/gorm"
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*entity.Product, error) {
	var p entity.Product
	err := r.db.WithContext(ctx).Preload("Category").
		Where("id = ? AND deleted = false", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *entity.Product) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *ProductRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ?", id).Update("deleted", true).Error
}

type ProductListParams struct {
	CategoryID uint
	Keyword    string
}

func (r *ProductRepository) List(ctx context.Context, params ProductListParams) ([]entity.Product, error) {
	query := r.db.WithContext(ctx).Model(&entity.Product{}).Where("deleted = false")
	if params.CategoryID > 0 {
		query = query.Where("category_id = ?", params.CategoryID)
	}
	if params.Keyword != "" {
		query = query.Where("name ILIKE ?", "%"+params.Keyword+"%")
	}
	var products []entity.Product
	err := query.Preload("Category").Order("created_at DESC").Find(&products).Error
	return products, err
}

// Exists 商品是否存在且未删除
func (r *ProductRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("id = ? AND deleted = false", id).Count(&count).Error
	return count > 0, err
}

func (r *ProductRepository) NameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entity.Product{}).
		Where("name = ? AND deleted = false", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// HasInventory 是否存在未删除的库存批次引用该商品
func (r *ProductRepository) HasInventory(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Inventory{}).
		Where("product_id = ? AND deleted = false", id).Count(&count).Error
	return count > 0, err
}
