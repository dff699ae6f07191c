package simulated

import (
	"context"
	"time"

	"github.com/freshmart/pos-core/internal/domain/catalog"
)

const (
	defaultProductDelay  = 800 * time.Millisecond
	defaultCategoryDelay = 300 * time.Millisecond
)

// CatalogService simulates the backend catalog endpoint: a static product
// list behind an artificial delay. It never fails; a real implementation
// would surface transient errors.
type CatalogService struct {
	productDelay  time.Duration
	categoryDelay time.Duration
	products      []catalog.Product
}

type CatalogOption func(*CatalogService)

// WithProductDelay overrides the simulated product-fetch latency.
func WithProductDelay(d time.Duration) CatalogOption {
	return func(s *CatalogService) { s.productDelay = d }
}

// WithCategoryDelay overrides the simulated category-fetch latency.
func WithCategoryDelay(d time.Duration) CatalogOption {
	return func(s *CatalogService) { s.categoryDelay = d }
}

// WithProducts replaces the static catalog.
func WithProducts(products []catalog.Product) CatalogOption {
	return func(s *CatalogService) { s.products = append([]catalog.Product(nil), products...) }
}

func NewCatalogService(opts ...CatalogOption) *CatalogService {
	s := &CatalogService{
		productDelay:  defaultProductDelay,
		categoryDelay: defaultCategoryDelay,
		products:      defaultProducts(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *CatalogService) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	if err := wait(ctx, s.productDelay); err != nil {
		return nil, err
	}
	return append([]catalog.Product(nil), s.products...), nil
}

func (s *CatalogService) FetchCategories(ctx context.Context) ([]string, error) {
	if err := wait(ctx, s.categoryDelay); err != nil {
		return nil, err
	}
	return catalog.Categories(s.products), nil
}

// wait sleeps for the simulated latency but aborts when ctx is cancelled.
func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
