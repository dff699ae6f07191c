package cart

import "time"

// ChangedEvent is emitted whenever cart contents change, so observers can
// re-render without polling.
type ChangedEvent struct {
	ProductID  int
	Quantity   int
	Lines      int
	OccurredAt time.Time
}

func (ChangedEvent) EventName() string { return "cart.changed" }

func NewChangedEvent(productID, quantity, lines int) ChangedEvent {
	return ChangedEvent{
		ProductID:  productID,
		Quantity:   quantity,
		Lines:      lines,
		OccurredAt: time.Now().UTC(),
	}
}
