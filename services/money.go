package services

import "github.com/shopspring/decimal"

// LineAmount is price × quantity, unrounded.
func LineAmount(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// RoundAmount rounds half away from zero to cents.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// FormatAmount renders d as a fixed-point string with two decimals.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}
