package entity

import (
	"time"
)

// Supplier 供应商实体
type Supplier struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"size:200;not null;index:idx_suppliers_name,unique,where:deleted = false"`
	Deleted   bool      `json:"-" gorm:"not null;default:false;index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Purchases []Purchase `json:"purchases,omitempty" gorm:"foreignKey:SupplierID"`
}

func (Supplier) TableName() string {
	return "suppliers"
}
