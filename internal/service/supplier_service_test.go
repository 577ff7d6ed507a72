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

func TestSupplierNameUniqueness(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewSupplierService(repository.NewSupplierRepository(db))
	ctx := context.Background()

	supplier, err := svc.Create(ctx, SupplierRequest{Name: "供应商A"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Create(ctx, SupplierRequest{Name: "供应商A"}); !errors.Is(err, apperr.ErrAlreadyExists) {
		t.Errorf("duplicate name: expected ErrAlreadyExists, got %v", err)
	}

	// 改名时排除自身
	if _, err := svc.Update(ctx, supplier.ID, SupplierRequest{Name: "供应商A"}); err != nil {
		t.Errorf("update with own name: %v", err)
	}

	// 软删除后名称可复用
	if err := svc.Delete(ctx, supplier.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Create(ctx, SupplierRequest{Name: "供应商A"}); err != nil {
		t.Errorf("reuse of soft-deleted name should succeed, got %v", err)
	}
}

func TestSupplierDeleteGuard(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewSupplierService(repository.NewSupplierRepository(db))
	ctx := context.Background()

	supplier := testutil.SeedSupplier(t, db, "供应商B")
	testutil.SeedPurchase(t, db, supplier.ID, "CG-100",
		decimal.RequireFromString("100"), decimal.NewFromInt(1), entity.CurrencyJPY)

	if err := svc.Delete(ctx, supplier.ID); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("delete supplier with purchases: expected ErrConflict, got %v", err)
	}
}

func TestSupplierGetNotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := NewSupplierService(repository.NewSupplierRepository(db))

	if _, err := svc.GetByID(context.Background(), 9999); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}
