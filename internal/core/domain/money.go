package domain

import "github.com/shopspring/decimal"

// Round2 rounds a monetary value to 2 decimal places using half-up rounding.
// Every derived monetary field (line amounts summed into subtotal, tax,
// total, balance) passes through this exactly once per recomputation.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
