package repository

import (
	"context"
	"time"

	"github.com/DavidwithD/InventoryHub/internal/entity"
	"gorm.io/gorm"
)

type PurchaseRepository struct {
	db *gorm.DB
}

func NewPurchaseRepository(db *gorm.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

func (r *PurchaseRepository) Create(ctx context.Context, p *entity.Purchase) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PurchaseRepository) GetByID(ctx context.Context, id uint) (*entity.Purchase, error) {
	var p entity.Purchase
	err := r.db.WithContext(ctx).Preload("Supplier").
		Where("id = ? AND deleted = false", id).First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PurchaseRepository) Update(ctx context.Context, p *entity.Purchase) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *PurchaseRepository) SoftDelete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Model(&entity.Purchase{}).
		Where("id = ?", id).Update("deleted", true).Error
}

type PurchaseListParams struct {
	PurchaseNo string
	SupplierID uint
	StartDate  *time.Time
	EndDate    *time.Time
	SortBy     string // purchase_date / purchase_no / total_amount
	SortOrder  string // asc / desc
}

func (r *PurchaseRepository) List(ctx context.Context, params PurchaseListParams) ([]entity.Purchase, error) {
	query := r.db.WithContext(ctx).Model(&entity.Purchase{}).Where("deleted = false")
	if params.PurchaseNo != "" {
		query = query.Where("purchase_no ILIKE ?", "%"+params.PurchaseNo+"%")
	}
	if params.SupplierID > 0 {
		query = query.Where("supplier_id = ?", params.SupplierID)
	}
	if params.StartDate != nil {
		query = query.Where("purchase_date >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("purchase_date <= ?", *params.EndDate)
	}

	dir := "DESC"
	if params.SortOrder == "asc" {
		dir = "ASC"
	}
	switch params.SortBy {
	case "purchase_no":
		query = query.Order("purchase_no " + dir)
	case "total_amount":
		query = query.Order("total_amount " + dir)
	default:
		query = query.Order("purchase_date " + dir).Order("id " + dir)
	}

	var purchases []entity.Purchase
	err := query.Preload("Supplier").Find(&purchases).Error
	return purchases, err
}

// Exists 进货单是否存在且未删除
func (r *PurchaseRepository) Exists(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Purchase{}).
		Where("id = ? AND deleted = false", id).Count(&count).Error
	return count > 0, err
}

func (r *PurchaseRepository) NoExists(ctx context.Context, purchaseNo string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entity.Purchase{}).
		Where("purchase_no = ? AND deleted = false", purchaseNo)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// HasInventory 是否存在未删除的库存批次挂在该进货单下
func (r *PurchaseRepository) HasInventory(ctx context.Context, id uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&entity.Inventory{}).
		Where("purchase_id = ? AND deleted = false", id).Count(&count).Error
	return count > 0, err
}
