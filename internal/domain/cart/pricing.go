package cart

import "github.com/shopspring/decimal"

// TaxRate is the fixed combined sales tax rate applied to every order.
var TaxRate = decimal.RequireFromString("0.08875")

// Subtotal is the sum of all line-item subtotals, unrounded.
func (c *Cart) Subtotal() decimal.Decimal {
	sum := decimal.Zero
	for _, it := range c.items {
		sum = sum.Add(it.Subtotal())
	}
	return sum
}

// Tax is the subtotal times TaxRate, unrounded.
func (c *Cart) Tax() decimal.Decimal {
	return c.Subtotal().Mul(TaxRate)
}

// GrandTotal is subtotal plus tax, unrounded.
func (c *Cart) GrandTotal() decimal.Decimal {
	return c.Subtotal().Add(c.Tax())
}

// FormatAmount renders a stored amount for display with banker's rounding to
// two decimal places. Rounding happens only here so repeated sums never
// compound rounding error.
func FormatAmount(d decimal.Decimal) string {
	return d.StringFixedBank(2)
}
