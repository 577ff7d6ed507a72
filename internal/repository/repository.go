package repository

import "gorm.io/gorm"

// Repositories 核心仓库集合
type Repositories struct {
	Supplier  *SupplierRepository
	Category  *CategoryRepository
	Product   *ProductRepository
	Purchase  *PurchaseRepository
	Inventory *InventoryRepository
	Order     *OrderRepository
}

func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		Supplier:  NewSupplierRepository(db),
		Category:  NewCategoryRepository(db),
		Product:   NewProductRepository(db),
		Purchase:  NewPurchaseRepository(db),
		Inventory: NewInventoryRepository(db),
		Order:     NewOrderRepository(db),
	}
}
