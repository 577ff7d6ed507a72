package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// CurrencyType 进货单币种
const (
	CurrencyCNY = "CNY"
	CurrencyJPY = "JPY"
)

// Purchase 进货单
// TotalAmount 以 CurrencyType 计价，ExchangeRate 为源币种兑日元汇率
type Purchase struct {
	ID           uint            `json:"id" gorm:"primaryKey"`
	SupplierID   uint            `json:"supplier_id" gorm:"not null;index"`
	PurchaseNo   string          `json:"purchase_no" gorm:"size:50;not null;index:idx_purchases_no,unique,where:deleted = false"`
	PurchaseDate time.Time       `json:"purchase_date" gorm:"not null"`
	TotalAmount  decimal.Decimal `json:"total_amount" gorm:"type:decimal(12,2);not null;default:0"`
	CurrencyType string          `json:"currency_type" gorm:"size:10;not null;default:JPY"`
	ExchangeRate decimal.Decimal `json:"exchange_rate" gorm:"type:decimal(12,4);not null;default:1"`
	Deleted      bool            `json:"-" gorm:"not null;default:false;index"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Supplier       *Supplier   `json:"supplier,omitempty" gorm:"foreignKey:SupplierID"`
	InventoryItems []Inventory `json:"inventory_items,omitempty" gorm:"foreignKey:PurchaseID"`
}

func (Purchase) TableName() string {
	return "purchases"
}

// ExpectedTotalJpy 期望日元总额：源币种总额 × 汇率
func (p *Purchase) ExpectedTotalJpy() decimal.Decimal {
	return p.TotalAmount.Mul(p.ExchangeRate).Round(2)
}
