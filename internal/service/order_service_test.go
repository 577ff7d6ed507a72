package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DavidwithD/InventoryHub/internal/apperr"
	"github.com/DavidwithD/InventoryHub/internal/entity"
	"github.com/DavidwithD/InventoryHub/internal/repository"
	"github.com/DavidwithD/InventoryHub/internal/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type orderTestEnv struct {
	db      *gorm.DB
	svc     *OrderService
	invSvc  *InventoryService
	product *entity.Product
}

func setupOrderTest(t *testing.T) *orderTestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	supplier := testutil.SeedSupplier(t, db, "测试供应商")
	category := testutil.SeedCategory(t, db, "测试分类")
	product := testutil.SeedProduct(t, db, category.ID, "测试商品")
	testutil.SeedPurchase(t, db, supplier.ID, "CG-001",
		decimal.RequireFromString("1000"), decimal.RequireFromString("20"), entity.CurrencyCNY)

	return &orderTestEnv{
		db:      db,
		svc:     NewOrderService(repos.Order, repos.Inventory, db),
		invSvc:  NewInventoryService(repos.Inventory, repos.Product, repos.Purchase, db),
		product: product,
	}
}

// seedLot 创建一个批次：金额 amountCny（CNY），数量与库存均为 qty
func (env *orderTestEnv) seedLot(t *testing.T, amountCny string, qty int) *InventoryView {
	t.Helper()
	var purchase entity.Purchase
	if err := env.db.Where("deleted = false").First(&purchase).Error; err != nil {
		t.Fatalf("load purchase: %v", err)
	}
	lot, err := env.invSvc.Create(context.Background(), CreateInventoryRequest{
		ProductID:         env.product.ID,
		PurchaseID:        purchase.ID,
		PurchaseAmountCny: decimal.RequireFromString(amountCny),
		PurchaseQuantity:  qty,
		StockQuantity:     qty,
	})
	if err != nil {
		t.Fatalf("seed lot: %v", err)
	}
	return lot
}

func (env *orderTestEnv) stockOf(t *testing.T, lotID uint) int {
	t.Helper()
	var inv entity.Inventory
	if err := env.db.Where("id = ?", lotID).First(&inv).Error; err != nil {
		t.Fatalf("load lot %d: %v", lotID, err)
	}
	return inv.StockQuantity
}

func TestOrderLifecycle(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	// 1000 CNY × 20 = 20000 JPY，50 件 ⇒ 单件成本 400
	lot := env.seedLot(t, "1000", 50)
	if !lot.UnitCost.Equal(decimal.RequireFromString("400")) {
		t.Fatalf("UnitCost = %s, want 400", lot.UnitCost)
	}

	order, err := env.svc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-001",
		Name:            "测试订单",
		Revenue:         decimal.RequireFromString("5000"),
		TransactionTime: time.Now(),
		Details: []CreateOrderDetailRequest{
			{InventoryID: lot.ID, ProductID: env.product.ID, Quantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("CreateWithDetails: %v", err)
	}

	// 库存 50 - 5 = 45，总成本 400 × 5 = 2000
	if got := env.stockOf(t, lot.ID); got != 45 {
		t.Errorf("stock after order = %d, want 45", got)
	}
	if !order.TotalCost.Equal(decimal.RequireFromString("2000")) {
		t.Errorf("TotalCost = %s, want 2000", order.TotalCost)
	}

	// 删除订单后库存恢复
	if err := env.svc.Delete(ctx, order.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if got := env.stockOf(t, lot.ID); got != 50 {
		t.Errorf("stock after delete = %d, want 50", got)
	}
	if _, err := env.svc.GetByID(ctx, order.ID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("deleted order should be invisible, got %v", err)
	}
}

func TestOrderCreateInsufficientStock(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	lot := env.seedLot(t, "100", 3)

	_, err := env.svc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-002",
		TransactionTime: time.Now(),
		Details: []CreateOrderDetailRequest{
			{InventoryID: lot.ID, ProductID: env.product.ID, Quantity: 5},
		},
	})

	var stockErr *apperr.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}
	if stockErr.Available != 3 || stockErr.Requested != 5 {
		t.Errorf("stockErr = %+v, want Available=3 Requested=5", stockErr)
	}
	// 库存不足也是无效操作的一种
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Error("InsufficientStockError should match ErrInvalidArgument")
	}

	// 整单回滚：订单与明细都不应存在，库存不变
	var orders int64
	env.db.Model(&entity.Order{}).Where("deleted = false").Count(&orders)
	if orders != 0 {
		t.Errorf("expected 0 orders after rollback, got %d", orders)
	}
	if got := env.stockOf(t, lot.ID); got != 3 {
		t.Errorf("stock = %d, want 3", got)
	}
}

func TestOrderDetailSubtotal(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	// 50 CNY × 20 = 1000 JPY，10 件 ⇒ 单件成本 100
	lot := env.seedLot(t, "50", 10)

	order, err := env.svc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-003",
		TransactionTime: time.Now(),
		Details: []CreateOrderDetailRequest{
			{
				InventoryID:   lot.ID,
				ProductID:     env.product.ID,
				Quantity:      2,
				PackagingCost: decimal.RequireFromString("10"),
				OtherCost:     decimal.RequireFromString("5"),
			},
		},
	})
	if err != nil {
		t.Fatalf("CreateWithDetails: %v", err)
	}

	details, err := env.svc.ListDetails(ctx, order.ID)
	if err != nil {
		t.Fatalf("ListDetails: %v", err)
	}
	if len(details) != 1 {
		t.Fatalf("expected 1 detail, got %d", len(details))
	}
	// 100 × 2 + 10 + 5 = 215
	if !details[0].SubtotalCost.Equal(decimal.RequireFromString("215")) {
		t.Errorf("SubtotalCost = %s, want 215", details[0].SubtotalCost)
	}
}

func TestOrderDetailUpdateMovesStock(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	lotA := env.seedLot(t, "100", 10)
	lotB := env.seedLot(t, "200", 10)

	order, err := env.svc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-004",
		TransactionTime: time.Now(),
		Details: []CreateOrderDetailRequest{
			{InventoryID: lotA.ID, ProductID: env.product.ID, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("CreateWithDetails: %v", err)
	}
	details, _ := env.svc.ListDetails(ctx, order.ID)

	// 明细从批次 A 改到批次 B：A 恢复，B 扣减，小计按 B 的单件成本重算
	updated, err := env.svc.UpdateDetail(ctx, details[0].ID, CreateOrderDetailRequest{
		InventoryID: lotB.ID,
		ProductID:   env.product.ID,
		Quantity:    4,
	})
	if err != nil {
		t.Fatalf("UpdateDetail: %v", err)
	}

	if got := env.stockOf(t, lotA.ID); got != 10 {
		t.Errorf("lot A stock = %d, want 10", got)
	}
	if got := env.stockOf(t, lotB.ID); got != 6 {
		t.Errorf("lot B stock = %d, want 6", got)
	}
	// 批次 B 单件成本 = 200×20/10 = 400，小计 = 400 × 4 = 1600
	if !updated.SubtotalCost.Equal(decimal.RequireFromString("1600")) {
		t.Errorf("SubtotalCost = %s, want 1600", updated.SubtotalCost)
	}
}

func TestOrderDetailUpdateAtomicOnFailure(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	lotA := env.seedLot(t, "100", 10)
	lotB := env.seedLot(t, "200", 2)

	order, err := env.svc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-005",
		TransactionTime: time.Now(),
		Details: []CreateOrderDetailRequest{
			{InventoryID: lotA.ID, ProductID: env.product.ID, Quantity: 3},
		},
	})
	if err != nil {
		t.Fatalf("CreateWithDetails: %v", err)
	}
	details, _ := env.svc.ListDetails(ctx, order.ID)

	// 改到库存不足的批次 B：整个操作回滚，A 的恢复也不落库
	_, err = env.svc.UpdateDetail(ctx, details[0].ID, CreateOrderDetailRequest{
		InventoryID: lotB.ID,
		ProductID:   env.product.ID,
		Quantity:    5,
	})
	var stockErr *apperr.InsufficientStockError
	if !errors.As(err, &stockErr) {
		t.Fatalf("expected InsufficientStockError, got %v", err)
	}

	if got := env.stockOf(t, lotA.ID); got != 7 {
		t.Errorf("lot A stock = %d, want 7 (unchanged)", got)
	}
	if got := env.stockOf(t, lotB.ID); got != 2 {
		t.Errorf("lot B stock = %d, want 2 (unchanged)", got)
	}

	after, _ := env.svc.GetDetailByID(ctx, details[0].ID)
	if after.InventoryID != lotA.ID || after.Quantity != 3 {
		t.Errorf("detail changed despite rollback: %+v", after)
	}
}

func TestOrderDetailProductMismatch(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	lot := env.seedLot(t, "100", 10)
	other := testutil.SeedProduct(t, env.db, env.product.CategoryID, "另一个商品")

	_, err := env.svc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-006",
		TransactionTime: time.Now(),
		Details: []CreateOrderDetailRequest{
			{InventoryID: lot.ID, ProductID: other.ID, Quantity: 1},
		},
	})
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("expected ErrInvalidArgument on product mismatch, got %v", err)
	}
}

func TestOrderNoUniqueness(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	order, err := env.svc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-007",
		TransactionTime: time.Now(),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	_, err = env.svc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-007",
		TransactionTime: time.Now(),
	})
	if !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Fatalf("expected ErrAlreadyExists, got %v", err)
	}

	// 软删除后单号可以复用
	if err := env.svc.Delete(ctx, order.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.svc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-007",
		TransactionTime: time.Now(),
	}); err != nil {
		t.Errorf("reuse of soft-deleted order no should succeed, got %v", err)
	}
}

func TestOrderDetailDeleteRestoresStock(t *testing.T) {
	env := setupOrderTest(t)
	ctx := context.Background()

	lot := env.seedLot(t, "100", 10)
	order, err := env.svc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-008",
		TransactionTime: time.Now(),
		Details: []CreateOrderDetailRequest{
			{InventoryID: lot.ID, ProductID: env.product.ID, Quantity: 4},
		},
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	details, _ := env.svc.ListDetails(ctx, order.ID)

	if err := env.svc.DeleteDetail(ctx, details[0].ID); err != nil {
		t.Fatalf("DeleteDetail: %v", err)
	}
	if got := env.stockOf(t, lot.ID); got != 10 {
		t.Errorf("stock after detail delete = %d, want 10", got)
	}

	// 明细删光后订单总成本归零
	reloaded, err := env.svc.GetByID(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if !reloaded.TotalCost.IsZero() {
		t.Errorf("TotalCost = %s, want 0", reloaded.TotalCost)
	}
}
