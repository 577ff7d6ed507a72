package entity

import (
	"time"
)

// Product 商品实体
type Product struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	CategoryID uint      `json:"category_id" gorm:"not null;index"`
	Name       string    `json:"name" gorm:"size:200;not null;index:idx_products_name,unique,where:deleted = false"`
	Deleted    bool      `json:"-" gorm:"not null;default:false;index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`

	Category     *Category     `json:"category,omitempty" gorm:"foreignKey:CategoryID"`
	Inventories  []Inventory   `json:"inventories,omitempty" gorm:"foreignKey:ProductID"`
	OrderDetails []OrderDetail `json:"order_details,omitempty" gorm:"foreignKey:ProductID"`
}

func (Product) TableName() string {
	return "products"
}
