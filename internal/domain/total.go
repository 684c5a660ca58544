package domain

import "github.com/shopspring/decimal"

// CalculateTotal sums unitPrice × quantity. No rounding is applied; currency
// precision belongs to the storage layer.
func CalculateTotal(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.UnitPrice.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}
