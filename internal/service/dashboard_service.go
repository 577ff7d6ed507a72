package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/DavidwithD/InventoryHub/internal/entity"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	dashboardStatsCacheKey = "dashboard:stats"
	dashboardStatsCacheTTL = 5 * time.Minute
)

// DashboardService 经营看板统计。统计为派生视图，
// 结果走 redis 旁路缓存，短暂过期读可接受
type DashboardService struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewDashboardService(db *gorm.DB, rdb *redis.Client) *DashboardService {
	return &DashboardService{db: db, rdb: rdb}
}

// DashboardStats 看板统计结果
type DashboardStats struct {
	// 总库存价值（日元）= Σ 库存数量 × 单件成本
	TotalInventoryValue decimal.Decimal `json:"total_inventory_value"`
	// 本月利润（日元）= Σ(营业额 - 成本)，只统计有明细的本月订单
	MonthlyProfit decimal.Decimal `json:"monthly_profit"`
	// 订单总数
	TotalOrders int `json:"total_orders"`
	// 待补充成本的订单数（没有明细的订单）
	OrdersWithoutCost int `json:"orders_without_cost"`
	// 当前月份
	CurrentMonth string `json:"current_month"`
	// 低库存批次数量（0 < 库存 < 5）
	LowStockProductsCount int `json:"low_stock_products_count"`
	// 本月订单数
	MonthlyOrders int `json:"monthly_orders"`
}

func (s *DashboardService) GetStats(ctx context.Context) (*DashboardStats, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, dashboardStatsCacheKey).Result(); err == nil {
			var stats DashboardStats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	stats, err := s.computeStats(ctx)
	if err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			s.rdb.Set(ctx, dashboardStatsCacheKey, payload, dashboardStatsCacheTTL)
		}
	}
	return stats, nil
}

func (s *DashboardService) computeStats(ctx context.Context) (*DashboardStats, error) {
	now := time.Now()
	startOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	endOfMonth := startOfMonth.AddDate(0, 1, 0)

	db := s.db.WithContext(ctx)

	var totalInventoryValue decimal.Decimal
	err := db.Model(&entity.Inventory{}).
		Where("deleted = false").
		Select("COALESCE(SUM(stock_quantity * unit_cost), 0)").
		Scan(&totalInventoryValue).Error
	if err != nil {
		return nil, err
	}

	var monthlyOrders []entity.Order
	err = db.Preload("OrderDetails", "deleted = false").
		Where("deleted = false AND transaction_time >= ? AND transaction_time < ?", startOfMonth, endOfMonth).
		Find(&monthlyOrders).Error
	if err != nil {
		return nil, err
	}

	monthlyProfit := decimal.Zero
	for _, o := range monthlyOrders {
		if len(o.OrderDetails) == 0 {
			continue
		}
		cost := decimal.Zero
		for _, d := range o.OrderDetails {
			cost = cost.Add(d.SubtotalCost)
		}
		monthlyProfit = monthlyProfit.Add(o.Revenue.Sub(cost))
	}

	var totalOrders int64
	err = db.Model(&entity.Order{}).Where("deleted = false").Count(&totalOrders).Error
	if err != nil {
		return nil, err
	}

	var ordersWithoutCost int64
	err = db.Model(&entity.Order{}).
		Where("deleted = false").
		Where("NOT EXISTS (SELECT 1 FROM order_details d WHERE d.order_id = orders.id AND d.deleted = false)").
		Count(&ordersWithoutCost).Error
	if err != nil {
		return nil, err
	}

	var lowStock int64
	err = db.Model(&entity.Inventory{}).
		Where("deleted = false AND stock_quantity > 0 AND stock_quantity < 5").
		Count(&lowStock).Error
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		TotalInventoryValue:   totalInventoryValue,
		MonthlyProfit:         monthlyProfit,
		TotalOrders:           int(totalOrders),
		OrdersWithoutCost:     int(ordersWithoutCost),
		CurrentMonth:          now.Format("2006年01月"),
		LowStockProductsCount: int(lowStock),
		MonthlyOrders:         len(monthlyOrders),
	}, nil
}
