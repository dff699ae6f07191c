package catalog

import "time"

// LoadedEvent is emitted after a successful catalog load.
type LoadedEvent struct {
	ProductCount  int
	CategoryCount int
	OccurredAt    time.Time
}

func (LoadedEvent) EventName() string { return "catalog.loaded" }

func NewLoadedEvent(products, categories int) LoadedEvent {
	return LoadedEvent{
		ProductCount:  products,
		CategoryCount: categories,
		OccurredAt:    time.Now().UTC(),
	}
}
