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
)

func TestProductRequiresCategory(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewProductService(repos.Product, repos.Category)
	ctx := context.Background()

	if _, err := svc.Create(ctx, ProductRequest{Name: "商品A", CategoryID: 9999}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("create with missing category: expected ErrNotFound, got %v", err)
	}

	category := testutil.SeedCategory(t, db, "分类A")
	product, err := svc.Create(ctx, ProductRequest{Name: "商品A", CategoryID: category.ID})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if product.Category == nil || product.Category.Name != "分类A" {
		t.Errorf("expected category preloaded, got %+v", product.Category)
	}
}

func TestProductDeleteGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repos := repository.NewRepositories(db)
	svc := NewProductService(repos.Product, repos.Category)
	ctx := context.Background()

	supplier := testutil.SeedSupplier(t, db, "供应商")
	category := testutil.SeedCategory(t, db, "分类B")
	product := testutil.SeedProduct(t, db, category.ID, "商品B")
	purchase := testutil.SeedPurchase(t, db, supplier.ID, "CG-200",
		decimal.RequireFromString("100"), decimal.NewFromInt(20), entity.CurrencyCNY)

	invSvc := NewInventoryService(repos.Inventory, repos.Product, repos.Purchase, db)
	if _, err := invSvc.Create(ctx, CreateInventoryRequest{
		ProductID:         product.ID,
		PurchaseID:        purchase.ID,
		PurchaseAmountCny: decimal.RequireFromString("100"),
		PurchaseQuantity:  1,
		StockQuantity:     1,
	}); err != nil {
		t.Fatalf("create lot: %v", err)
	}

	if err := svc.Delete(ctx, product.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("delete product with lots: expected ErrConflict, got %v", err)
	}

	// 分类下有商品同样禁止删除
	catSvc := NewCategoryService(repos.Category)
	if err := catSvc.Delete(ctx, category.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("delete category with products: expected ErrConflict, got %v", err)
	}
}
