package service

import (
	"errors"
	"testing"

	"github.com/DavidwithD/InventoryHub/internal/apperr"
	"github.com/shopspring/decimal"
)

func TestConvertToJpy(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		rate   string
		want   string
	}{
		{"整数汇率", "100", "20", "2000"},
		{"小数汇率", "100", "20.5", "2050"},
		{"汇率为一", "1234.56", "1", "1234.56"},
		{"四位小数汇率取整到两位", "33.33", "20.1234", "670.71"},
		{"零金额", "0", "20", "0"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, _ := decimal.NewFromString(tc.amount)
			rate, _ := decimal.NewFromString(tc.rate)
			got := ConvertToJpy(amount, rate)
			if !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("ConvertToJpy(%s, %s) = %s, want %s", tc.amount, tc.rate, got, tc.want)
			}
		})
	}
}

func TestUnitCostJpy(t *testing.T) {
	amount := decimal.RequireFromString("2000")
	got, err := UnitCostJpy(amount, 10)
	if err != nil {
		t.Fatalf("UnitCostJpy: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("200")) {
		t.Errorf("UnitCostJpy(2000, 10) = %s, want 200", got)
	}

	// 除不尽时保留两位小数
	got, err = UnitCostJpy(decimal.RequireFromString("1000"), 3)
	if err != nil {
		t.Fatalf("UnitCostJpy: %v", err)
	}
	if !got.Equal(decimal.RequireFromString("333.33")) {
		t.Errorf("UnitCostJpy(1000, 3) = %s, want 333.33", got)
	}
}

func TestUnitCostJpyInvalidQuantity(t *testing.T) {
	for _, qty := range []int{0, -1} {
		if _, err := UnitCostJpy(decimal.RequireFromString("100"), qty); !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Errorf("UnitCostJpy(100, %d): expected ErrInvalidArgument, got %v", qty, err)
		}
	}
}
