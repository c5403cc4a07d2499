package model

import "github.com/shopspring/decimal"

// FormatMinor renders an amount in minor units as a two-decimal major-unit string
func FormatMinor(amount int64) string {
	return decimal.New(amount, -2).StringFixed(2)
}
