package simulated

import (
	"github.com/freshmart/pos-core/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// defaultProducts is the static mock catalog: 20 products over 6 categories.
// Category first-occurrence order is Fruits, Vegetables, Dairy, Bakery,
// Beverages, Snacks.
func defaultProducts() []catalog.Product {
	return []catalog.Product{
		{ID: 1, Name: "Bananas", Category: "Fruits", Description: "Fresh ripe bananas, sold per bunch", Emoji: "🍌", Price: price("2.99"), Stock: 40},
		{ID: 2, Name: "Gala Apples", Category: "Fruits", Description: "Crisp and sweet, per pound", Emoji: "🍎", Price: price("1.89"), Stock: 35},
		{ID: 3, Name: "Strawberries", Category: "Fruits", Description: "1 lb clamshell", Emoji: "🍓", Price: price("4.49"), Stock: 18},
		{ID: 4, Name: "Avocados", Category: "Fruits", Description: "Hass avocados, each", Emoji: "🥑", Price: price("1.49"), Stock: 25},
		{ID: 5, Name: "Roma Tomatoes", Category: "Vegetables", Description: "Per pound", Emoji: "🍅", Price: price("1.29"), Stock: 30},
		{ID: 6, Name: "Baby Spinach", Category: "Vegetables", Description: "5 oz bag, pre-washed", Emoji: "🥬", Price: price("3.29"), Stock: 22},
		{ID: 7, Name: "Carrots", Category: "Vegetables", Description: "2 lb bag", Emoji: "🥕", Price: price("1.99"), Stock: 28},
		{ID: 8, Name: "Broccoli Crowns", Category: "Vegetables", Description: "Per pound", Emoji: "🥦", Price: price("2.49"), Stock: 20},
		{ID: 9, Name: "Whole Milk", Category: "Dairy", Description: "1 gallon", Emoji: "🥛", Price: price("4.29"), Stock: 15},
		{ID: 10, Name: "Large Eggs", Category: "Dairy", Description: "Dozen, grade A", Emoji: "🥚", Price: price("3.99"), Stock: 24},
		{ID: 11, Name: "Sharp Cheddar", Category: "Dairy", Description: "8 oz block", Emoji: "🧀", Price: price("4.79"), Stock: 16},
		{ID: 12, Name: "Greek Yogurt", Category: "Dairy", Description: "32 oz plain", Emoji: "🫙", Price: price("5.49"), Stock: 12},
		{ID: 13, Name: "Sourdough Loaf", Category: "Bakery", Description: "Baked daily", Emoji: "🍞", Price: price("4.99"), Stock: 10},
		{ID: 14, Name: "Croissants", Category: "Bakery", Description: "Pack of 4, all butter", Emoji: "🥐", Price: price("5.99"), Stock: 8},
		{ID: 15, Name: "Bagels", Category: "Bakery", Description: "Pack of 6, plain", Emoji: "🥯", Price: price("3.49"), Stock: 14},
		{ID: 16, Name: "Orange Juice", Category: "Beverages", Description: "52 fl oz, no pulp", Emoji: "🧃", Price: price("4.99"), Stock: 20},
		{ID: 17, Name: "Cold Brew Coffee", Category: "Beverages", Description: "32 fl oz bottle", Emoji: "☕", Price: price("5.99"), Stock: 12},
		{ID: 18, Name: "Sparkling Water", Category: "Beverages", Description: "12-pack, lime", Emoji: "🫧", Price: price("6.49"), Stock: 18},
		{ID: 19, Name: "Tortilla Chips", Category: "Snacks", Description: "13 oz bag, restaurant style", Emoji: "🌽", Price: price("3.79"), Stock: 26},
		{ID: 20, Name: "Trail Mix", Category: "Snacks", Description: "16 oz resealable bag", Emoji: "🥜", Price: price("7.29"), Stock: 15},
	}
}
