package order

import "github.com/shopspring/decimal"

// taxRate is the flat sales tax applied to every order
var taxRate = decimal.NewFromFloat(0.08)

// Subtotal sums price times quantity over the order items
func Subtotal(items []Item) decimal.Decimal {
	sum := decimal.Zero
	for _, it := range items {
		sum = sum.Add(it.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return sum
}

// Total applies the 8% tax to a subtotal, rounded to two decimal places
func Total(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(1).Add(taxRate)).Round(2)
}
