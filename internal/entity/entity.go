package entity

import "gorm.io/gorm"

// AutoMigrate 自动迁移所有核心表
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// 基础数据
		&Supplier{},
		&Category{},
		&Product{},

		// 进货
		&Purchase{},

		// 库存
		&Inventory{},

		// 订单
		&Order{},
		&OrderDetail{},
	)
}
