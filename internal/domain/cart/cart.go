package cart

import (
	"github.com/freshmart/pos-core/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// Item pairs a product with the quantity selected for purchase.
type Item struct {
	Product  catalog.Product
	Quantity int
}

// Subtotal is price times quantity, unrounded.
func (i Item) Subtotal() decimal.Decimal {
	return i.Product.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an insertion-ordered line-item list holding at most one Item per
// product id. The zero value is an empty cart ready for use.
type Cart struct {
	items []Item
}

// Quantity returns the quantity held for the product, or 0 when absent.
func (c *Cart) Quantity(productID int) int {
	for _, it := range c.items {
		if it.Product.ID == productID {
			return it.Quantity
		}
	}
	return 0
}

// Add puts one more unit of p in the cart. The call is a no-op when the cart
// already holds p at its stock ceiling; it reports whether the cart changed.
// Existing entries keep their position, new entries append at the end.
func (c *Cart) Add(p catalog.Product) bool {
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			if c.items[i].Quantity >= p.Stock {
				return false
			}
			c.items[i].Quantity++
			return true
		}
	}
	if p.Stock < 1 {
		return false
	}
	c.items = append(c.items, Item{Product: p, Quantity: 1})
	return true
}

// SetQuantity sets the quantity for the product. Quantities at or below zero
// remove the entry. stockFor resolves the current stock ceiling; when it
// reports the product as unknown the quantity is unbounded. Entry order is
// preserved.
func (c *Cart) SetQuantity(productID, quantity int, stockFor func(productID int) (int, bool)) {
	if quantity <= 0 {
		c.remove(productID)
		return
	}
	if stockFor != nil {
		if stock, ok := stockFor(productID); ok && quantity > stock {
			quantity = stock
		}
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

func (c *Cart) remove(productID int) {
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

// Items returns a value copy of the line items in insertion order.
func (c *Cart) Items() []Item {
	return append([]Item(nil), c.items...)
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// Clear drops every line item.
func (c *Cart) Clear() { c.items = nil }

// Clone returns an independent copy of the cart.
func (c *Cart) Clone() *Cart {
	return &Cart{items: append([]Item(nil), c.items...)}
}
