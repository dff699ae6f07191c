package catalog

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("catalog: product not found")

// AllCategories is the sentinel that selects the unfiltered catalog view.
const AllCategories = "All"

// Product is a purchasable catalog entry. Products are created once at load
// time and never mutated; Stock is a purchase ceiling, not a live count.
type Product struct {
	ID          int
	Name        string
	Category    string
	Description string
	Emoji       string
	Price       decimal.Decimal
	Stock       int
}

// Categories returns the distinct categories present in products, in
// first-occurrence order.
func Categories(products []Product) []string {
	seen := make(map[string]struct{}, len(products))
	out := make([]string, 0, len(products))
	for _, p := range products {
		if _, ok := seen[p.Category]; ok {
			continue
		}
		seen[p.Category] = struct{}{}
		out = append(out, p.Category)
	}
	return out
}

// Filter returns the products whose category equals the selection. The
// AllCategories sentinel returns the full input.
func Filter(products []Product, category string) []Product {
	if category == AllCategories {
		return append([]Product(nil), products...)
	}
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Category == category {
			out = append(out, p)
		}
	}
	return out
}
