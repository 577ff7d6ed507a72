package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order 销售订单
// TotalCost 不落库，读取时由未删除明细的 SubtotalCost 汇总得出
type Order struct {
	ID              uint            `json:"id" gorm:"primaryKey"`
	OrderNo         string          `json:"order_no" gorm:"size:100;not null;index:idx_orders_no,unique,where:deleted = false"`
	Name            string          `json:"name" gorm:"size:500"`
	ImageURL        *string         `json:"image_url" gorm:"size:1000"`
	Revenue         decimal.Decimal `json:"revenue" gorm:"type:decimal(12,2);not null;default:0"`
	ShippingFee     decimal.Decimal `json:"shipping_fee" gorm:"type:decimal(12,2);not null;default:0"`
	TransactionTime time.Time       `json:"transaction_time" gorm:"not null;index"`
	Deleted         bool            `json:"-" gorm:"not null;default:false;index"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`

	OrderDetails []OrderDetail `json:"order_details,omitempty" gorm:"foreignKey:OrderID"`
}

func (Order) TableName() string {
	return "orders"
}

// OrderDetail 订单明细（一行引用一个库存批次）
// SubtotalCost 在创建/更新时按当时批次单件成本固定，不随批次后续变化
type OrderDetail struct {
	ID            uint            `json:"id" gorm:"primaryKey"`
	OrderID       uint            `json:"order_id" gorm:"not null;index"`
	InventoryID   uint            `json:"inventory_id" gorm:"not null;index"`
	ProductID     uint            `json:"product_id" gorm:"not null;index"`
	UnitPrice     decimal.Decimal `json:"unit_price" gorm:"type:decimal(12,2);not null;default:0"`
	Quantity      int             `json:"quantity" gorm:"not null"`
	PackagingCost decimal.Decimal `json:"packaging_cost" gorm:"type:decimal(12,2);not null;default:0"`
	OtherCost     decimal.Decimal `json:"other_cost" gorm:"type:decimal(12,2);not null;default:0"`
	SubtotalCost  decimal.Decimal `json:"subtotal_cost" gorm:"type:decimal(12,2);not null;default:0"`
	Notes         *string         `json:"notes" gorm:"type:text"`
	Deleted       bool            `json:"-" gorm:"not null;default:false;index"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`

	Order     *Order     `json:"order,omitempty" gorm:"foreignKey:OrderID"`
	Inventory *Inventory `json:"inventory,omitempty" gorm:"foreignKey:InventoryID"`
	Product   *Product   `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

func (OrderDetail) TableName() string {
	return "order_details"
}
