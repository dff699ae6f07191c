package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrConflict = errors.New("order archive: id already recorded")
	ErrNotFound = errors.New("order archive: not found")
)

// ArchivedOrder is the session-scoped record of an accepted order. It is a
// receipt log, not persistence; it dies with the process.
type ArchivedOrder struct {
	ID        string
	Total     decimal.Decimal
	ItemCount int
	PlacedAt  time.Time
}

type OrderArchive struct {
	mu     sync.RWMutex
	orders map[string]*ArchivedOrder
	ids    []string
}

func NewOrderArchive() *OrderArchive {
	return &OrderArchive{
		orders: make(map[string]*ArchivedOrder),
	}
}

func (a *OrderArchive) Record(ctx context.Context, order *ArchivedOrder) error {
	_ = ctx
	if order == nil || order.ID == "" {
		return fmt.Errorf("order archive: id is required")
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, exists := a.orders[order.ID]; exists {
		return ErrConflict
	}

	a.orders[order.ID] = cloneArchived(order)
	a.ids = append(a.ids, order.ID)
	return nil
}

func (a *OrderArchive) Get(ctx context.Context, id string) (*ArchivedOrder, error) {
	_ = ctx

	a.mu.RLock()
	defer a.mu.RUnlock()

	order, ok := a.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return cloneArchived(order), nil
}

// List returns every recorded order in acceptance order.
func (a *OrderArchive) List(ctx context.Context) []*ArchivedOrder {
	_ = ctx

	a.mu.RLock()
	defer a.mu.RUnlock()

	out := make([]*ArchivedOrder, 0, len(a.ids))
	for _, id := range a.ids {
		out = append(out, cloneArchived(a.orders[id]))
	}
	return out
}

func (a *OrderArchive) Len() int {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return len(a.ids)
}

func cloneArchived(order *ArchivedOrder) *ArchivedOrder {
	if order == nil {
		return nil
	}
	clone := *order
	return &clone
}
