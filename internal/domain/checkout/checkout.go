package checkout

import (
	"context"
	"errors"
	"time"

	"github.com/freshmart/pos-core/internal/domain/cart"
	"github.com/shopspring/decimal"
)

var (
	// ErrRejected marks a business rejection reported by the order backend.
	// The cart is kept so the user can retry.
	ErrRejected   = errors.New("checkout: order rejected")
	ErrEmptyOrder = errors.New("checkout: order has no items")
)

// Receipt confirms an accepted order.
type Receipt struct {
	OrderID   string
	Total     decimal.Decimal
	ItemCount int
	PlacedAt  time.Time
}

// Placer submits a cart snapshot to the order backend. Implementations return
// ErrRejected for business failure and any other error for transport failure.
type Placer interface {
	PlaceOrder(ctx context.Context, items []cart.Item) (*Receipt, error)
}
