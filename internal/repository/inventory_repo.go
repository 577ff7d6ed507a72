package repository

import (
	"context"

	"github.com/DavidwithD/InventoryHub/internal/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(ctx context.Context, inv *entity.Inventory) error {
	return r.db.WithContext(ctx).Create(inv).Error
}

func (r *InventoryRepository) GetByID(ctx context.Context, id uint) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := r.db.WithContext(ctx).
		Preload("Product").Preload("Product.Category").Preload("Purchase").
		Where("id = ? AND deleted = false", id).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

func (r *InventoryRepository) Update(ctx context.Context, inv *entity.Inventory) error {
	return r.db.WithContext(ctx).Save(inv).Error
}

func (r *InventoryRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.Inventory{}).
		Where("id = ?", id).Update("deleted", true).Error
}

type InventoryListParams struct {
	PurchaseID uint
	ProductID  uint
}

func (r *InventoryRepository) List(ctx context.Context, params InventoryListParams) ([]entity.Inventory, error) {
	query := r.db.WithContext(ctx).Model(&entity.Inventory{}).Where("deleted = false")
	if params.PurchaseID > 0 {
		query = query.Where("purchase_id = ?", params.PurchaseID)
	}
	if params.ProductID > 0 {
		query = query.Where("product_id = ?", params.ProductID)
	}
	var items []entity.Inventory
	err := query.
		Preload("Product").Preload("Product.Category").Preload("Purchase").
		Order("created_at DESC").Find(&items).Error
	return items, err
}

// IsReferenced 批次是否被未删除的订单明细引用
func (r *InventoryRepository) IsReferenced(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.OrderDetail{}).
		Where("inventory_id = ? AND deleted = false", id).Count(&count).Error
	return count > 0, err
}

// ReferencedIDs 返回给定批次中被未删除订单明细引用的 ID 集合
func (r *InventoryRepository) ReferencedIDs(ctx context.Context, ids []uint) (map[uint]bool, error) {
	referenced := make(map[uint]bool)
	if len(ids) == 0 {
		return referenced, nil
	}
	var refIDs []uint
	err := r.db.WithContext(ctx).Model(&entity.OrderDetail{}).
		Where("inventory_id IN ? AND deleted = false", ids).
		Distinct("inventory_id").Pluck("inventory_id", &refIDs).Error
	if err != nil {
		return nil, err
	}
	for _, id := range refIDs {
		referenced[id] = true
	}
	return referenced, nil
}

// TotalAllocatedJpy 进货单下未删除批次的日元金额合计（用于对账展示）
func (r *InventoryRepository) TotalAllocatedJpy(ctx context.Context, purchaseID uint) (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(purchase_amount), 0) AS total
		FROM inventory
		WHERE purchase_id = ? AND deleted = false
	`, purchaseID).Scan(&result).Error
	return result.Total, err
}

// GetForUpdate 在事务内按行锁读取批次，锁保持到事务结束，
// 避免并发订单操作交错读改写 stock_quantity
func GetInventoryForUpdate(tx *gorm.DB, id uint) (*entity.Inventory, error) {
	var inv entity.Inventory
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ? AND deleted = false", id).First(&inv).Error
	if err != nil {
		return nil, err
	}
	return &inv, nil
}
