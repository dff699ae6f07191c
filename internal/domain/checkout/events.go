package checkout

import "time"

// OrderPlacedEvent is emitted after the order backend accepts a submission.
type OrderPlacedEvent struct {
	OrderID    string
	Total      string
	ItemCount  int
	OccurredAt time.Time
}

func (OrderPlacedEvent) EventName() string { return "order.placed" }

func NewOrderPlacedEvent(r *Receipt) OrderPlacedEvent {
	return OrderPlacedEvent{
		OrderID:    r.OrderID,
		Total:      r.Total.String(),
		ItemCount:  r.ItemCount,
		OccurredAt: time.Now().UTC(),
	}
}

// OrderRejectedEvent is emitted when the order backend reports a business
// rejection.
type OrderRejectedEvent struct {
	ItemCount  int
	OccurredAt time.Time
}

func (OrderRejectedEvent) EventName() string { return "order.rejected" }

func NewOrderRejectedEvent(itemCount int) OrderRejectedEvent {
	return OrderRejectedEvent{
		ItemCount:  itemCount,
		OccurredAt: time.Now().UTC(),
	}
}
