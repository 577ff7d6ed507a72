package repository

import (
	"context"

	"github.com/DavidwithD/InventoryHub/internal/entity"
	"gorm.io/gorm"
)

type SupplierRepository struct {
	db *gorm.DB
}

func NewSupplierRepository(db *gorm.DB) *SupplierRepository {
	return &SupplierRepository{db: db}
}

func (r *SupplierRepository) Create(ctx context.Context, s *entity.Supplier) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SupplierRepository) GetByID(ctx context.Context, id uint) (*entity.Supplier, error) {
	var s entity.Supplier
	err := r.db.WithContext(ctx).Where("id = ? AND deleted = false", id).First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SupplierRepository) Update(ctx context.Context, s *entity.Supplier) error {
	return r.db.WithContext(ctx).Save(s).Error
}

// SoftDelete 打墓碑标记，记录保留用于历史引用
func (r *SupplierRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.Supplier{}).
		Where("id = ?", id).Update("deleted", true).Error
}

func (r *SupplierRepository) List(ctx context.Context, keyword string) ([]entity.Supplier, error) {
	query := r.db.WithContext(ctx).Model(&entity.Supplier{}).Where("deleted = false")
	if keyword != "" {
		query = query.Where("name ILIKE ?", "%"+keyword+"%")
	}
	var suppliers []entity.Supplier
	err := query.Order("created_at DESC").Find(&suppliers).Error
	return suppliers, err
}

// NameExists 检查名称在未删除记录中是否已存在（excludeID 用于更新时排除自身）
func (r *SupplierRepository) NameExists(ctx context.Context, name string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entity.Supplier{}).
		Where("name = ? AND deleted = false", name)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// HasPurchases 是否存在未删除的进货单引用该供应商
func (r *SupplierRepository) HasPurchases(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Purchase{}).
		Where("supplier_id = ? AND deleted = false", id).Count(&count).Error
	return count > 0, err
}
