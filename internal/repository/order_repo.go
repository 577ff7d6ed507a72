package repository

import (
	"context"
	"time"

	"github.com/DavidwithD/InventoryHub/internal/entity"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*entity.Order, error) {
	var o entity.Order
	err := r.db.WithContext(ctx).
		Preload("OrderDetails", "deleted = false").
		Where("id = ? AND deleted = false", id).First(&o).Error
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) Update(ctx context.Context, o *entity.Order) error {
	return r.db.WithContext(ctx).Save(o).Error
}

type OrderListParams struct {
	StartDate *time.Time
	EndDate   *time.Time
}

func (r *OrderRepository) List(ctx context.Context, params OrderListParams) ([]entity.Order, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{}).Where("deleted = false")
	if params.StartDate != nil {
		query = query.Where("transaction_time >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("transaction_time <= ?", *params.EndDate)
	}
	var orders []entity.Order
	err := query.Preload("OrderDetails", "deleted = false").
		Order("transaction_time DESC").Find(&orders).Error
	return orders, err
}

func (r *OrderRepository) NoExists(ctx context.Context, orderNo string, excludeID uint) (bool, error) {
	query := r.db.WithContext(ctx).Model(&entity.Order{}).
		Where("order_no = ? AND deleted = false", orderNo)
	if excludeID > 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	err := query.Count(&count).Error
	return count > 0, err
}

// TotalCost 订单成本：未删除明细 SubtotalCost 的合计（不落库，读取时计算）
func (r *OrderRepository) TotalCost(ctx context.Context, orderID uint) (decimal.Decimal, error) {
	var result struct{ Total decimal.Decimal }
	err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(SUM(subtotal_cost), 0) AS total
		FROM order_details
		WHERE order_id = ? AND deleted = false
	`, orderID).Scan(&result).Error
	return result.Total, err
}

// --- Order Detail ---

func (r *OrderRepository) GetDetailByID(ctx context.Context, id uint) (*entity.OrderDetail, error) {
	var d entity.OrderDetail
	err := r.db.WithContext(ctx).Preload("Product").
		Where("id = ? AND deleted = false", id).First(&d).Error
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r *OrderRepository) ListDetails(ctx context.Context, orderID uint) ([]entity.OrderDetail, error) {
	var details []entity.OrderDetail
	err := r.db.WithContext(ctx).Preload("Product").
		Where("order_id = ? AND deleted = false", orderID).
		Order("id ASC").Find(&details).Error
	return details, err
}
