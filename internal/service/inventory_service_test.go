package service

import (
	"context"
	"errors"
	"testing"

	"github.com/DavidwithD/InventoryHub/internal/apperr"
	"github.com/DavidwithD/InventoryHub/internal/entity"
	"github.com/DavidwithD/InventoryHub/internal/repository"
	"github.com/DavidwithD/InventoryHub/internal/testutil"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type inventoryTestEnv struct {
	db       *gorm.DB
	svc      *InventoryService
	orderSvc *OrderService
	product  *entity.Product
	purchase *entity.Purchase
}

func setupInventoryTest(t *testing.T) *inventoryTestEnv {
	t.Helper()
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)

	supplier := testutil.SeedSupplier(t, db, "测试供应商")
	category := testutil.SeedCategory(t, db, "测试分类")
	product := testutil.SeedProduct(t, db, category.ID, "测试商品")
	purchase := testutil.SeedPurchase(t, db, supplier.ID, "CG-001",
		decimal.RequireFromString("1000"), decimal.RequireFromString("20"), entity.CurrencyCNY)

	return &inventoryTestEnv{
		db:       db,
		svc:      NewInventoryService(repos.Inventory, repos.Product, repos.Purchase, db),
		orderSvc: NewOrderService(repos.Order, repos.Inventory, db),
		product:  product,
		purchase: purchase,
	}
}

func TestInventoryCreateComputesCost(t *testing.T) {
	env := setupInventoryTest(t)
	ctx := context.Background()

	lot, err := env.svc.Create(ctx, CreateInventoryRequest{
		ProductID:         env.product.ID,
		PurchaseID:        env.purchase.ID,
		PurchaseAmountCny: decimal.RequireFromString("100"),
		PurchaseQuantity:  10,
		StockQuantity:     10,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 100 CNY × 20 = 2000 JPY，单件成本 2000 / 10 = 200
	if !lot.PurchaseAmount.Equal(decimal.RequireFromString("2000")) {
		t.Errorf("PurchaseAmount = %s, want 2000", lot.PurchaseAmount)
	}
	if !lot.UnitCost.Equal(decimal.RequireFromString("200")) {
		t.Errorf("UnitCost = %s, want 200", lot.UnitCost)
	}
	if lot.ProductName != "测试商品" {
		t.Errorf("ProductName = %q, want 测试商品", lot.ProductName)
	}
	if lot.PurchaseNo != "CG-001" {
		t.Errorf("PurchaseNo = %q, want CG-001", lot.PurchaseNo)
	}
	if lot.IsReferenced {
		t.Error("new lot should not be referenced")
	}
}

func TestInventoryCreateValidation(t *testing.T) {
	env := setupInventoryTest(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateInventoryRequest
		want error
	}{
		{"商品不存在", CreateInventoryRequest{ProductID: 9999, PurchaseID: env.purchase.ID, PurchaseQuantity: 1}, apperr.ErrNotFound},
		{"进货单不存在", CreateInventoryRequest{ProductID: env.product.ID, PurchaseID: 9999, PurchaseQuantity: 1}, apperr.ErrNotFound},
		{"数量为零", CreateInventoryRequest{ProductID: env.product.ID, PurchaseID: env.purchase.ID, PurchaseQuantity: 0}, apperr.ErrInvalidArgument},
		{"负库存", CreateInventoryRequest{ProductID: env.product.ID, PurchaseID: env.purchase.ID, PurchaseQuantity: 1, StockQuantity: -1}, apperr.ErrInvalidArgument},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := env.svc.Create(ctx, tc.req); !errors.Is(err, tc.want) {
				t.Errorf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestInventoryBatchCreateRollsBack(t *testing.T) {
	env := setupInventoryTest(t)
	ctx := context.Background()

	_, err := env.svc.BatchCreate(ctx, []CreateInventoryRequest{
		{ProductID: env.product.ID, PurchaseID: env.purchase.ID, PurchaseAmountCny: decimal.RequireFromString("100"), PurchaseQuantity: 5, StockQuantity: 5},
		{ProductID: 9999, PurchaseID: env.purchase.ID, PurchaseAmountCny: decimal.RequireFromString("100"), PurchaseQuantity: 5, StockQuantity: 5},
	})
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	// 第一条也不应落库
	var count int64
	env.db.Model(&entity.Inventory{}).Where("deleted = false").Count(&count)
	if count != 0 {
		t.Errorf("expected 0 lots after rollback, got %d", count)
	}
}

func TestInventoryAllocationTotals(t *testing.T) {
	env := setupInventoryTest(t)
	ctx := context.Background()

	_, err := env.svc.BatchCreate(ctx, []CreateInventoryRequest{
		{ProductID: env.product.ID, PurchaseID: env.purchase.ID, PurchaseAmountCny: decimal.RequireFromString("300"), PurchaseQuantity: 3, StockQuantity: 3},
		{ProductID: env.product.ID, PurchaseID: env.purchase.ID, PurchaseAmountCny: decimal.RequireFromString("700"), PurchaseQuantity: 7, StockQuantity: 7},
	})
	if err != nil {
		t.Fatalf("BatchCreate: %v", err)
	}

	allocated, err := env.svc.GetPurchaseTotalAllocated(ctx, env.purchase.ID)
	if err != nil {
		t.Fatalf("GetPurchaseTotalAllocated: %v", err)
	}
	// (300 + 700) CNY × 20 = 20000 JPY
	if !allocated.Equal(decimal.RequireFromString("20000")) {
		t.Errorf("allocated = %s, want 20000", allocated)
	}

	expected, err := env.svc.GetExpectedTotalJpy(ctx, env.purchase.ID)
	if err != nil {
		t.Fatalf("GetExpectedTotalJpy: %v", err)
	}
	// 进货单总额 1000 CNY × 20 = 20000 JPY
	if !expected.Equal(decimal.RequireFromString("20000")) {
		t.Errorf("expected total = %s, want 20000", expected)
	}
}

func TestReferencedLotImmutable(t *testing.T) {
	env := setupInventoryTest(t)
	ctx := context.Background()

	lot, err := env.svc.Create(ctx, CreateInventoryRequest{
		ProductID:         env.product.ID,
		PurchaseID:        env.purchase.ID,
		PurchaseAmountCny: decimal.RequireFromString("100"),
		PurchaseQuantity:  10,
		StockQuantity:     10,
	})
	if err != nil {
		t.Fatalf("Create lot: %v", err)
	}

	order, err := env.orderSvc.CreateWithDetails(ctx, CreateOrderRequest{
		OrderNo:         "DD-001",
		TransactionTime: env.purchase.PurchaseDate,
		Details: []CreateOrderDetailRequest{
			{InventoryID: lot.ID, ProductID: env.product.ID, Quantity: 2},
		},
	})
	if err != nil {
		t.Fatalf("CreateWithDetails: %v", err)
	}

	// 被引用的批次禁止修改与删除
	req := CreateInventoryRequest{
		ProductID:         env.product.ID,
		PurchaseID:        env.purchase.ID,
		PurchaseAmountCny: decimal.RequireFromString("200"),
		PurchaseQuantity:  10,
		StockQuantity:     10,
	}
	if _, err := env.svc.Update(ctx, lot.ID, req); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("Update referenced lot: expected ErrConflict, got %v", err)
	}
	if err := env.svc.Delete(ctx, lot.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("Delete referenced lot: expected ErrConflict, got %v", err)
	}

	// 删除订单后引用解除，批次即可删除
	if err := env.orderSvc.Delete(ctx, order.ID); err != nil {
		t.Fatalf("Delete order: %v", err)
	}
	if err := env.svc.Delete(ctx, lot.ID); err != nil {
		t.Errorf("Delete lot after order removed: %v", err)
	}
}
