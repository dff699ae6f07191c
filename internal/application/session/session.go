package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/freshmart/pos-core/internal/domain/bus"
	"github.com/freshmart/pos-core/internal/domain/cart"
	"github.com/freshmart/pos-core/internal/domain/catalog"
	"github.com/freshmart/pos-core/internal/domain/checkout"
	"github.com/freshmart/pos-core/internal/observability"
	"github.com/shopspring/decimal"
)

const (
	serviceName = "pos-session"
	spanPrefix  = "UC."

	useCaseCatalogLoad = "session.catalog_load"
	useCaseOrderSubmit = "session.order_submit"

	peerCatalog = "catalog-service"
	peerOrders  = "order-service"

	publishPeer    = "bus"
	publishTimeout = 300 * time.Millisecond
)

// User-facing status strings. The status message is the only failure channel
// the presentation layer sees; errors never propagate to it as faults.
const (
	StatusLoadFailed    = "Error loading data. Please check your connection and try again."
	StatusOrderPlaced   = "Order submitted successfully!"
	StatusOrderRejected = "Failed to submit order. Please try again."
)

// ErrBusy is returned when a load or submit is invoked while another
// asynchronous operation still holds the loading flag.
var ErrBusy = errors.New("session: operation already in flight")

// Session is the single-owner state machine behind one point-of-sale screen.
// All state lives here; every mutation is serialized on one mutex so the
// invariants hold even on a multi-threaded runtime. State is session-scoped
// and discarded when the process exits.
type Session struct {
	catalogSvc catalog.Service
	placer     checkout.Placer
	publisher  bus.Publisher

	log    observability.Logger
	tracer observability.Tracer

	reqCounter   observability.Counter   // usecase_requests_total{use_case,outcome}
	durHistogram observability.Histogram // usecase_duration_seconds{use_case}
	extCounter   observability.Counter   // external_requests_total{peer,endpoint,outcome}
	extHistogram observability.Histogram // external_request_duration_seconds{peer,endpoint}

	mu            sync.Mutex
	products      []catalog.Product
	categories    []string
	selected      string
	cart          cart.Cart
	loading       bool
	status        string
	panelExpanded bool
}

// New wires a session to its collaborators. publisher may be nil when no
// observer needs change notifications.
func New(catalogSvc catalog.Service, placer checkout.Placer, publisher bus.Publisher, tel observability.Observability) *Session {
	if tel == nil {
		tel = observability.Nop()
	}
	metrics := tel.Metrics()
	return &Session{
		catalogSvc:   catalogSvc,
		placer:       placer,
		publisher:    publisher,
		log:          tel.Logger().With(observability.F("service", serviceName)),
		tracer:       tel.Tracer(),
		reqCounter:   metrics.Counter(observability.MUsecaseRequests),
		durHistogram: metrics.Histogram(observability.MUsecaseDuration),
		extCounter:   metrics.Counter(observability.MExternalRequests),
		extHistogram: metrics.Histogram(observability.MExternalRequestDuration),
		selected:     catalog.AllCategories,
	}
}

// Snapshot is the read model handed to the presentation layer. It shares no
// memory with the session; observers may keep it across mutations.
type Snapshot struct {
	Products          []catalog.Product
	Categories        []string
	SelectedCategory  string
	Items             []cart.Item
	Loading           bool
	StatusMessage     string
	CartPanelExpanded bool
	Subtotal          decimal.Decimal
	Tax               decimal.Decimal
	GrandTotal        decimal.Decimal
}

// Snapshot returns a deep copy of the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		Products:          append([]catalog.Product(nil), s.products...),
		Categories:        append([]string(nil), s.categories...),
		SelectedCategory:  s.selected,
		Items:             s.cart.Items(),
		Loading:           s.loading,
		StatusMessage:     s.status,
		CartPanelExpanded: s.panelExpanded,
		Subtotal:          s.cart.Subtotal(),
		Tax:               s.cart.Tax(),
		GrandTotal:        s.cart.GrandTotal(),
	}
}

// SelectCategory sets the active filter unconditionally; the category picker
// only offers known values.
func (s *Session) SelectCategory(category string) {
	s.mu.Lock()
	s.selected = category
	s.mu.Unlock()
}

// SelectedCategory returns the active filter.
func (s *Session) SelectedCategory() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected
}

// VisibleProducts returns the catalog filtered by the selected category.
func (s *Session) VisibleProducts() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.Filter(s.products, s.selected)
}

// Product looks the product up in the loaded catalog.
func (s *Session) Product(productID int) (catalog.Product, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range s.products {
		if p.ID == productID {
			return p, true
		}
	}
	return catalog.Product{}, false
}

// ToggleCartPanel flips the expanded flag.
func (s *Session) ToggleCartPanel() {
	s.mu.Lock()
	s.panelExpanded = !s.panelExpanded
	s.mu.Unlock()
}

// CartQuantity returns the quantity in the cart for the product, or 0.
func (s *Session) CartQuantity(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Quantity(productID)
}

// AddToCart puts one more unit of p in the cart, bounded by p.Stock. It
// reports whether the cart changed.
func (s *Session) AddToCart(p catalog.Product) bool {
	s.mu.Lock()
	changed := s.cart.Add(p)
	qty := s.cart.Quantity(p.ID)
	lines := s.cart.Len()
	s.mu.Unlock()

	if changed {
		s.publishEvent(cart.NewChangedEvent(p.ID, qty, lines), "cart.changed")
	}
	return changed
}

// UpdateQuantity sets the cart quantity for the product. Values at or below
// zero remove the line; values above the catalog stock are clamped. Products
// no longer in the catalog are treated as unbounded.
func (s *Session) UpdateQuantity(productID, quantity int) {
	s.mu.Lock()
	before := s.cart.Quantity(productID)
	s.cart.SetQuantity(productID, quantity, func(id int) (int, bool) {
		for _, p := range s.products {
			if p.ID == id {
				return p.Stock, true
			}
		}
		return 0, false
	})
	after := s.cart.Quantity(productID)
	lines := s.cart.Len()
	s.mu.Unlock()

	if after != before {
		s.publishEvent(cart.NewChangedEvent(productID, after, lines), "cart.changed")
	}
}

// Subtotal is the sum of all cart line subtotals.
func (s *Session) Subtotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Subtotal()
}

// Tax is the subtotal times cart.TaxRate.
func (s *Session) Tax() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.Tax()
}

// GrandTotal is subtotal plus tax.
func (s *Session) GrandTotal() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cart.GrandTotal()
}

// StatusMessage returns the current status message; empty means none.
func (s *Session) StatusMessage() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// DismissStatus clears the status message. Safe to call repeatedly.
func (s *Session) DismissStatus() {
	s.mu.Lock()
	s.status = ""
	s.mu.Unlock()
}

// Loading reports whether a load or submit is in flight.
func (s *Session) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

func (s *Session) beginAsync() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loading {
		return ErrBusy
	}
	s.loading = true
	return nil
}

func (s *Session) endAsync() {
	s.mu.Lock()
	s.loading = false
	s.mu.Unlock()
}

// publishEvent pushes a domain event to the bus with a bounded wait, recording
// the publish as an external request.
func (s *Session) publishEvent(event bus.Event, endpoint string) {
	if s.publisher == nil || event == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	start := time.Now()
	err := s.publisher.Publish(ctx, event)
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	cancel()

	if s.extCounter != nil {
		s.extCounter.Add(1,
			observability.L("peer", publishPeer),
			observability.L("endpoint", endpoint),
			observability.L("outcome", outcome),
		)
	}
	if s.extHistogram != nil {
		s.extHistogram.Observe(time.Since(start).Seconds(),
			observability.L("peer", publishPeer),
			observability.L("endpoint", endpoint),
		)
	}
	if err != nil {
		s.log.Warn("event_publish_failed",
			observability.F("event", event.EventName()),
			observability.F("error", err.Error()),
		)
	}
}
