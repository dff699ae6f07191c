package httppresentation

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/freshmart/pos-core/internal/application/session"
	"github.com/freshmart/pos-core/internal/infrastructure/simulated"
)

func newTestServer(t *testing.T, acceptRate float64) *httptest.Server {
	t.Helper()
	catalogSvc := simulated.NewCatalogService(
		simulated.WithProductDelay(0),
		simulated.WithCategoryDelay(0),
	)
	orderSvc := simulated.NewOrderService(
		simulated.WithOrderDelay(0),
		simulated.WithAcceptRate(acceptRate),
	)
	sess := session.New(catalogSvc, orderSvc, nil, nil)
	srv := httptest.NewServer(NewHandler(sess, nil).Router())
	t.Cleanup(srv.Close)
	return srv
}

func post(t *testing.T, url string, body any) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}
	resp, err := http.Post(url, "application/json", &buf)
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	return resp
}

func decodeState(t *testing.T, resp *http.Response) stateResponse {
	t.Helper()
	defer resp.Body.Close()
	var state stateResponse
	if err := json.NewDecoder(resp.Body).Decode(&state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func TestLoadCatalogAndState(t *testing.T) {
	srv := newTestServer(t, 1)

	resp := post(t, srv.URL+"/catalog/load", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("load status %d", resp.StatusCode)
	}
	state := decodeState(t, resp)
	if len(state.Products) != 20 {
		t.Fatalf("expected 20 products, got %d", len(state.Products))
	}
	if len(state.Categories) != 7 || state.Categories[0] != "All" {
		t.Fatalf("unexpected categories %v", state.Categories)
	}
	if state.Loading {
		t.Fatalf("loading must be false after load resolves")
	}
}

func TestAddToCartAndTotals(t *testing.T) {
	srv := newTestServer(t, 1)
	post(t, srv.URL+"/catalog/load", nil).Body.Close()

	// Bananas are product 1 at 2.99.
	post(t, srv.URL+"/cart/add", map[string]any{"product_id": 1}).Body.Close()
	resp := post(t, srv.URL+"/cart/add", map[string]any{"product_id": 1})
	state := decodeState(t, resp)

	if len(state.Cart) != 1 || state.Cart[0].Quantity != 2 {
		t.Fatalf("unexpected cart %+v", state.Cart)
	}
	if state.Subtotal != "5.98" {
		t.Fatalf("expected subtotal 5.98, got %s", state.Subtotal)
	}
	if state.Tax != "0.53" { // 5.98 * 0.08875 = 0.530725
		t.Fatalf("expected tax 0.53, got %s", state.Tax)
	}
	if state.GrandTotal != "6.51" {
		t.Fatalf("expected grand total 6.51, got %s", state.GrandTotal)
	}
}

func TestAddUnknownProduct(t *testing.T) {
	srv := newTestServer(t, 1)
	post(t, srv.URL+"/catalog/load", nil).Body.Close()

	resp := post(t, srv.URL+"/cart/add", map[string]any{"product_id": 999})
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.StatusCode)
	}
}

func TestUpdateQuantityClamp(t *testing.T) {
	srv := newTestServer(t, 1)
	post(t, srv.URL+"/catalog/load", nil).Body.Close()
	post(t, srv.URL+"/cart/add", map[string]any{"product_id": 14}).Body.Close() // Croissants, stock 8

	resp := post(t, srv.URL+"/cart/quantity", map[string]any{"product_id": 14, "quantity": 50})
	state := decodeState(t, resp)
	if len(state.Cart) != 1 || state.Cart[0].Quantity != 8 {
		t.Fatalf("expected clamp to stock 8, got %+v", state.Cart)
	}
}

func TestCategorySelectionFiltersProducts(t *testing.T) {
	srv := newTestServer(t, 1)
	post(t, srv.URL+"/catalog/load", nil).Body.Close()
	post(t, srv.URL+"/category/select", map[string]any{"category": "Dairy"}).Body.Close()

	resp, err := http.Get(srv.URL + "/products")
	if err != nil {
		t.Fatalf("get products: %v", err)
	}
	defer resp.Body.Close()

	var body struct {
		SelectedCategory string       `json:"selected_category"`
		Products         []productDTO `json:"products"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.SelectedCategory != "Dairy" {
		t.Fatalf("expected Dairy selected, got %q", body.SelectedCategory)
	}
	if len(body.Products) == 0 {
		t.Fatalf("expected dairy products")
	}
	for _, p := range body.Products {
		if p.Category != "Dairy" {
			t.Fatalf("product %d leaked through filter: %q", p.ID, p.Category)
		}
	}
}

func TestSubmitOrderRoundTrip(t *testing.T) {
	srv := newTestServer(t, 1)
	post(t, srv.URL+"/catalog/load", nil).Body.Close()
	post(t, srv.URL+"/cart/add", map[string]any{"product_id": 1}).Body.Close()

	resp := post(t, srv.URL+"/order/submit", nil)
	state := decodeState(t, resp)
	if len(state.Cart) != 0 {
		t.Fatalf("cart should be empty after accepted order")
	}
	if state.StatusMessage != session.StatusOrderPlaced {
		t.Fatalf("expected success status, got %q", state.StatusMessage)
	}

	resp = post(t, srv.URL+"/status/dismiss", nil)
	state = decodeState(t, resp)
	if state.StatusMessage != "" {
		t.Fatalf("status should be dismissed, got %q", state.StatusMessage)
	}
}

func TestSubmitRejectedKeepsCart(t *testing.T) {
	srv := newTestServer(t, 0)
	post(t, srv.URL+"/catalog/load", nil).Body.Close()
	post(t, srv.URL+"/cart/add", map[string]any{"product_id": 1}).Body.Close()

	resp := post(t, srv.URL+"/order/submit", nil)
	state := decodeState(t, resp)
	if len(state.Cart) != 1 {
		t.Fatalf("cart must survive a rejected order")
	}
	if state.StatusMessage != session.StatusOrderRejected {
		t.Fatalf("expected rejection status, got %q", state.StatusMessage)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, 1)
	resp, err := http.Get(srv.URL + "/cart/add")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", resp.StatusCode)
	}
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t, 1)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
}
