package session

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/freshmart/pos-core/internal/domain/cart"
	"github.com/freshmart/pos-core/internal/domain/catalog"
	"github.com/freshmart/pos-core/internal/domain/checkout"
	"github.com/shopspring/decimal"
)

type stubCatalog struct {
	products []catalog.Product
	err      error
}

func (s *stubCatalog) FetchProducts(ctx context.Context) ([]catalog.Product, error) {
	if s.err != nil {
		return nil, s.err
	}
	return append([]catalog.Product(nil), s.products...), nil
}

func (s *stubCatalog) FetchCategories(ctx context.Context) ([]string, error) {
	if s.err != nil {
		return nil, s.err
	}
	return catalog.Categories(s.products), nil
}

type stubPlacer struct {
	receipt *checkout.Receipt
	err     error
	calls   int
	got     []cart.Item
}

func (s *stubPlacer) PlaceOrder(ctx context.Context, items []cart.Item) (*checkout.Receipt, error) {
	s.calls++
	s.got = append([]cart.Item(nil), items...)
	if s.err != nil {
		return nil, s.err
	}
	return s.receipt, nil
}

func fixedProduct(id int, name, category, priceStr string, stock int) catalog.Product {
	return catalog.Product{
		ID:       id,
		Name:     name,
		Category: category,
		Price:    decimal.RequireFromString(priceStr),
		Stock:    stock,
	}
}

// twentyProducts spans exactly six categories in first-occurrence order.
func twentyProducts() []catalog.Product {
	categories := []string{"Fruits", "Vegetables", "Dairy", "Bakery", "Beverages", "Snacks"}
	products := make([]catalog.Product, 0, 20)
	for i := 0; i < 20; i++ {
		products = append(products, fixedProduct(
			i+1,
			fmt.Sprintf("Product %d", i+1),
			categories[i%len(categories)],
			"1.99",
			10,
		))
	}
	return products
}

func loadedSession(t *testing.T, products []catalog.Product) *Session {
	t.Helper()
	s := New(&stubCatalog{products: products}, &stubPlacer{}, nil, nil)
	if err := s.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return s
}

func TestLoadCatalogScenario(t *testing.T) {
	s := loadedSession(t, twentyProducts())

	snap := s.Snapshot()
	if len(snap.Products) != 20 {
		t.Fatalf("expected 20 products, got %d", len(snap.Products))
	}
	wantCategories := []string{"All", "Fruits", "Vegetables", "Dairy", "Bakery", "Beverages", "Snacks"}
	if len(snap.Categories) != len(wantCategories) {
		t.Fatalf("expected %d categories, got %v", len(wantCategories), snap.Categories)
	}
	for i, c := range wantCategories {
		if snap.Categories[i] != c {
			t.Fatalf("category %d: expected %q, got %q", i, c, snap.Categories[i])
		}
	}
	if snap.Loading {
		t.Fatalf("loading flag must be cleared after load")
	}
	if snap.StatusMessage != "" {
		t.Fatalf("unexpected status message %q", snap.StatusMessage)
	}
}

func TestLoadCatalogFailureSetsStatus(t *testing.T) {
	svc := &stubCatalog{err: errors.New("connection refused")}
	s := New(svc, &stubPlacer{}, nil, nil)

	err := s.LoadCatalog(context.Background())
	if err == nil {
		t.Fatalf("expected an error")
	}

	snap := s.Snapshot()
	if snap.StatusMessage != StatusLoadFailed {
		t.Fatalf("expected load-failed status, got %q", snap.StatusMessage)
	}
	if len(snap.Products) != 0 {
		t.Fatalf("catalog must be left as-is on failure")
	}
	if snap.Loading {
		t.Fatalf("loading flag must be cleared on failure")
	}
}

func TestLoadCatalogRetryAfterFailure(t *testing.T) {
	svc := &stubCatalog{err: errors.New("connection refused")}
	s := New(svc, &stubPlacer{}, nil, nil)

	if err := s.LoadCatalog(context.Background()); err == nil {
		t.Fatalf("expected first load to fail")
	}

	svc.err = nil
	svc.products = twentyProducts()
	if err := s.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("retry failed: %v", err)
	}
	if got := len(s.Snapshot().Products); got != 20 {
		t.Fatalf("expected 20 products after retry, got %d", got)
	}
}

func TestVisibleProductsFilter(t *testing.T) {
	products := twentyProducts()
	s := loadedSession(t, products)

	s.SelectCategory("Dairy")
	visible := s.VisibleProducts()
	if len(visible) == 0 {
		t.Fatalf("expected dairy products")
	}
	for _, p := range visible {
		if p.Category != "Dairy" {
			t.Fatalf("visible product %d has category %q", p.ID, p.Category)
		}
	}

	s.SelectCategory(catalog.AllCategories)
	if got := len(s.VisibleProducts()); got != len(products) {
		t.Fatalf("expected full catalog under All, got %d", got)
	}
}

func TestSelectedCategoryResetOnReload(t *testing.T) {
	s := loadedSession(t, twentyProducts())
	s.SelectCategory("Snacks")

	// Reload with a catalog that no longer contains Snacks.
	s2 := []catalog.Product{fixedProduct(1, "Bananas", "Fruits", "2.99", 5)}
	svc := &stubCatalog{products: s2}
	sess := New(svc, &stubPlacer{}, nil, nil)
	sess.SelectCategory("Snacks")
	if err := sess.LoadCatalog(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := sess.SelectedCategory(); got != catalog.AllCategories {
		t.Fatalf("expected selection reset to All, got %q", got)
	}
}

func TestAddToCartStockGuard(t *testing.T) {
	bananas := fixedProduct(1, "Bananas", "Fruits", "2.99", 3)
	s := loadedSession(t, []catalog.Product{bananas})

	for i := 0; i < 8; i++ {
		s.AddToCart(bananas)
	}
	if got := s.CartQuantity(1); got != 3 {
		t.Fatalf("expected quantity capped at 3, got %d", got)
	}
}

func TestUpdateQuantityClampAndRemove(t *testing.T) {
	bananas := fixedProduct(1, "Bananas", "Fruits", "2.99", 4)
	s := loadedSession(t, []catalog.Product{bananas})
	s.AddToCart(bananas)

	s.UpdateQuantity(1, 99)
	if got := s.CartQuantity(1); got != 4 {
		t.Fatalf("expected clamp to stock 4, got %d", got)
	}

	s.UpdateQuantity(1, -1)
	if got := s.CartQuantity(1); got != 0 {
		t.Fatalf("expected removal, got %d", got)
	}
	if got := len(s.Snapshot().Items); got != 0 {
		t.Fatalf("expected empty cart, got %d lines", got)
	}
}

func TestToggleCartPanel(t *testing.T) {
	s := New(&stubCatalog{}, &stubPlacer{}, nil, nil)
	if s.Snapshot().CartPanelExpanded {
		t.Fatalf("panel should start collapsed")
	}
	s.ToggleCartPanel()
	if !s.Snapshot().CartPanelExpanded {
		t.Fatalf("panel should be expanded after toggle")
	}
	s.ToggleCartPanel()
	if s.Snapshot().CartPanelExpanded {
		t.Fatalf("panel should collapse after second toggle")
	}
}

func TestDismissStatusIdempotent(t *testing.T) {
	svc := &stubCatalog{err: errors.New("down")}
	s := New(svc, &stubPlacer{}, nil, nil)
	_ = s.LoadCatalog(context.Background())
	if s.StatusMessage() == "" {
		t.Fatalf("expected a status message to dismiss")
	}

	s.DismissStatus()
	if got := s.StatusMessage(); got != "" {
		t.Fatalf("expected empty status, got %q", got)
	}
	s.DismissStatus()
	if got := s.StatusMessage(); got != "" {
		t.Fatalf("second dismiss changed status to %q", got)
	}
}

func TestSnapshotIsIsolated(t *testing.T) {
	bananas := fixedProduct(1, "Bananas", "Fruits", "2.99", 5)
	s := loadedSession(t, []catalog.Product{bananas})
	s.AddToCart(bananas)

	snap := s.Snapshot()
	s.AddToCart(bananas)
	s.SelectCategory("Fruits")

	if len(snap.Items) != 1 || snap.Items[0].Quantity != 1 {
		t.Fatalf("snapshot observed later mutations: %+v", snap.Items)
	}
	if snap.SelectedCategory != catalog.AllCategories {
		t.Fatalf("snapshot selection changed to %q", snap.SelectedCategory)
	}
}
