package catalog

import "context"

// Service supplies the product list and category list. Implementations are
// expected to be slow (a backend call); both methods honour ctx cancellation.
type Service interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	FetchCategories(ctx context.Context) ([]string, error)
}
