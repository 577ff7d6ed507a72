package service

import (
	"fmt"

	"github.com/DavidwithD/InventoryHub/internal/apperr"
	"github.com/shopspring/decimal"
)

// ConvertToJpy 源币种金额按汇率折算为日元，保留两位小数
func ConvertToJpy(sourceAmount, exchangeRate decimal.Decimal) decimal.Decimal {
	return sourceAmount.Mul(exchangeRate).Round(2)
}

// UnitCostJpy 日元金额除以数量得到单件成本，保留两位小数。
// 数量必须为正，调用方应在入库前拒绝零/负数量。
func UnitCostJpy(amountJpy decimal.Decimal, quantity int) (decimal.Decimal, error) {
	if quantity <= 0 {
		return decimal.Zero, fmt.Errorf("进货数量必须大于 0: %w", apperr.ErrInvalidArgument)
	}
	return amountJpy.Div(decimal.NewFromInt(int64(quantity))).Round(2), nil
}
