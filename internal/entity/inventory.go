package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Inventory 库存批次（一次进货入库的一批商品）
// PurchaseAmount 为日元金额（= PurchaseAmountCny × 进货单汇率），
// UnitCost 为日元单件成本，StockQuantity 随订单明细扣减/恢复
type Inventory struct {
	ID                uint            `json:"id" gorm:"primaryKey"`
	ProductID         uint            `json:"product_id" gorm:"not null;index"`
	PurchaseID        uint            `json:"purchase_id" gorm:"not null;index"`
	PurchaseAmount    decimal.Decimal `json:"purchase_amount" gorm:"type:decimal(12,2);not null;default:0"`
	PurchaseAmountCny decimal.Decimal `json:"purchase_amount_cny" gorm:"type:decimal(12,2);not null;default:0"`
	PurchaseQuantity  int             `json:"purchase_quantity" gorm:"not null"`
	UnitCost          decimal.Decimal `json:"unit_cost" gorm:"type:decimal(12,2);not null;default:0"`
	StockQuantity     int             `json:"stock_quantity" gorm:"not null;default:0"`
	Deleted           bool            `json:"-" gorm:"not null;default:false;index"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`

	Product      *Product      `json:"product,omitempty" gorm:"foreignKey:ProductID"`
	Purchase     *Purchase     `json:"purchase,omitempty" gorm:"foreignKey:PurchaseID"`
	OrderDetails []OrderDetail `json:"order_details,omitempty" gorm:"foreignKey:InventoryID"`
}

func (Inventory) TableName() string {
	return "inventory"
}
