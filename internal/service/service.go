package service

import (
	"github.com/DavidwithD/InventoryHub/internal/repository"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Services 服务集合
type Services struct {
	Supplier  *SupplierService
	Category  *CategoryService
	Product   *ProductService
	Purchase  *PurchaseService
	Inventory *InventoryService
	Order     *OrderService
	Dashboard *DashboardService
	Mercari   *MercariService
}

// NewServices 创建服务集合
func NewServices(repos *repository.Repositories, db *gorm.DB, rdb *redis.Client, logger *zap.Logger) *Services {
	orderSvc := NewOrderService(repos.Order, repos.Inventory, db)
	return &Services{
		Supplier:  NewSupplierService(repos.Supplier),
		Category:  NewCategoryService(repos.Category),
		Product:   NewProductService(repos.Product, repos.Category),
		Purchase:  NewPurchaseService(repos.Purchase, repos.Supplier),
		Inventory: NewInventoryService(repos.Inventory, repos.Product, repos.Purchase, db),
		Order:     orderSvc,
		Dashboard: NewDashboardService(db, rdb),
		Mercari:   NewMercariService(orderSvc, repos.Order, logger),
	}
}
