package simulated

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/freshmart/pos-core/internal/domain/cart"
	"github.com/freshmart/pos-core/internal/domain/checkout"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	defaultOrderDelay = 1200 * time.Millisecond
	defaultAcceptRate = 0.85
)

// OrderService simulates the backend order endpoint: latency plus a uniform
// random draw that accepts with a fixed probability. A real implementation
// would replace the draw with a transactional order-placement call and
// distinguish business failure from transport failure.
type OrderService struct {
	delay      time.Duration
	acceptRate float64

	mu  sync.Mutex
	rng *rand.Rand
}

type OrderOption func(*OrderService)

// WithOrderDelay overrides the simulated submission latency.
func WithOrderDelay(d time.Duration) OrderOption {
	return func(s *OrderService) { s.delay = d }
}

// WithAcceptRate overrides the acceptance probability (0 rejects everything,
// 1 accepts everything).
func WithAcceptRate(rate float64) OrderOption {
	return func(s *OrderService) { s.acceptRate = rate }
}

// WithRand injects the randomness source so tests get deterministic outcomes.
func WithRand(rng *rand.Rand) OrderOption {
	return func(s *OrderService) { s.rng = rng }
}

func NewOrderService(opts ...OrderOption) *OrderService {
	s := &OrderService{
		delay:      defaultOrderDelay,
		acceptRate: defaultAcceptRate,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.rng == nil {
		s.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return s
}

func (s *OrderService) PlaceOrder(ctx context.Context, items []cart.Item) (*checkout.Receipt, error) {
	if len(items) == 0 {
		return nil, checkout.ErrEmptyOrder
	}
	if err := wait(ctx, s.delay); err != nil {
		return nil, err
	}
	if s.draw() >= s.acceptRate {
		return nil, checkout.ErrRejected
	}

	total := decimal.Zero
	units := 0
	for _, it := range items {
		total = total.Add(it.Subtotal())
		units += it.Quantity
	}
	return &checkout.Receipt{
		OrderID:   uuid.NewString(),
		Total:     total.Add(total.Mul(cart.TaxRate)),
		ItemCount: units,
		PlacedAt:  time.Now().UTC(),
	}, nil
}

func (s *OrderService) draw() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Float64()
}
