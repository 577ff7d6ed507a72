package service

import (
	"context"
	"testing"
	"time"

	"github.com/DavidwithD/InventoryHub/internal/entity"
	"github.com/DavidwithD/InventoryHub/internal/repository"
	"github.com/DavidwithD/InventoryHub/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestDashboardStats(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	ctx := context.Background()

	supplier := testutil.SeedSupplier(t, db, "供应商")
	category := testutil.SeedCategory(t, db, "分类")
	product := testutil.SeedProduct(t, db, category.ID, "商品")
	purchase := testutil.SeedPurchase(t, db, supplier.ID, "CG-001",
		decimal.RequireFromString("1000"), decimal.NewFromInt(20), entity.CurrencyCNY)

	invSvc := NewInventoryService(repos.Inventory, repos.Product, repos.Purchase, db)
	orderSvc := NewOrderService(repos.Order, repos.Inventory, db)

	// 100 CNY × 20 = 2000 JPY，10 件 ⇒ 单件成本 200
	lot, err := invSvc.Create(ctx, CreateInventoryRequest{
		ProductID:         product.ID,
		PurchaseID:        purchase.ID,
		PurchaseAmountCny: decimal.RequireFromString("100"),
		PurchaseQuantity:  10,
		StockQuantity:     10,
	})
	if err != nil {
		t.Fatalf("create lot: %v", err)
	}

	// 低库存批次：库存 3（0 < 3 < 5）
	if _, err := invSvc.Create(ctx, CreateInventoryRequest{
		ProductID:         product.ID,
		PurchaseID:        purchase.ID,
		PurchaseAmountCny: decimal.RequireFromString("30"),
		PurchaseQuantity:  3,
		StockQuantity:     3,
	}); err != nil {
		t.Fatalf("create low-stock lot: %v", err)
	}

	// 本月订单，带明细：成本 200 × 2 = 400，利润 1000 - 400 = 600
	if _, err := orderSvc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-001",
		Revenue:         decimal.RequireFromString("1000"),
		TransactionTime: time.Now(),
		Details: []CreateOrderDetailRequest{
			{InventoryID: lot.ID, ProductID: product.ID, Quantity: 2},
		},
	}); err != nil {
		t.Fatalf("create order: %v", err)
	}

	// 本月无明细订单：计入待补充成本，不计入利润
	if _, err := orderSvc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-002",
		Revenue:         decimal.RequireFromString("500"),
		TransactionTime: time.Now(),
	}); err != nil {
		t.Fatalf("create bare order: %v", err)
	}

	svc := NewDashboardService(db, nil)
	stats, err := svc.GetStats(ctx)
	if err != nil {
		t.Fatalf("GetStats: %v", err)
	}

	// 总库存价值 = 8×200 + 3×200 = 2200
	if !stats.TotalInventoryValue.Equal(decimal.RequireFromString("2200")) {
		t.Errorf("TotalInventoryValue = %s, want 2200", stats.TotalInventoryValue)
	}
	if !stats.MonthlyProfit.Equal(decimal.RequireFromString("600")) {
		t.Errorf("MonthlyProfit = %s, want 600", stats.MonthlyProfit)
	}
	if stats.TotalOrders != 2 {
		t.Errorf("TotalOrders = %d, want 2", stats.TotalOrders)
	}
	if stats.MonthlyOrders != 2 {
		t.Errorf("MonthlyOrders = %d, want 2", stats.MonthlyOrders)
	}
	if stats.OrdersWithoutCost != 1 {
		t.Errorf("OrdersWithoutCost = %d, want 1", stats.OrdersWithoutCost)
	}
	if stats.LowStockProductsCount != 1 {
		t.Errorf("LowStockProductsCount = %d, want 1", stats.LowStockProductsCount)
	}
	if stats.CurrentMonth != time.Now().Format("2006年01月") {
		t.Errorf("CurrentMonth = %q", stats.CurrentMonth)
	}
}
