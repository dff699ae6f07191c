package httppresentation

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/freshmart/pos-core/internal/application/session"
	"github.com/freshmart/pos-core/internal/domain/cart"
	"github.com/freshmart/pos-core/internal/domain/catalog"
	"github.com/freshmart/pos-core/internal/observability"
)

const componentHTTPHandler = "http_server"

// Handler is the intent/read-model surface for the POS screen. It only reads
// snapshots and dispatches intents; all state lives in the session.
type Handler struct {
	session *session.Session
	log     observability.Logger
}

func NewHandler(sess *session.Session, logger observability.Logger) *Handler {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &Handler{
		session: sess,
		log:     logger.With(observability.F("component", componentHTTPHandler)),
	}
}

func (h *Handler) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/state", h.method(http.MethodGet, h.handleState))
	mux.HandleFunc("/products", h.method(http.MethodGet, h.handleProducts))
	mux.HandleFunc("/catalog/load", h.method(http.MethodPost, h.handleLoadCatalog))
	mux.HandleFunc("/category/select", h.method(http.MethodPost, h.handleSelectCategory))
	mux.HandleFunc("/cart/add", h.method(http.MethodPost, h.handleAddToCart))
	mux.HandleFunc("/cart/quantity", h.method(http.MethodPost, h.handleUpdateQuantity))
	mux.HandleFunc("/cart/toggle", h.method(http.MethodPost, h.handleToggleCartPanel))
	mux.HandleFunc("/order/submit", h.method(http.MethodPost, h.handleSubmitOrder))
	mux.HandleFunc("/status/dismiss", h.method(http.MethodPost, h.handleDismissStatus))
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	return mux
}

type productDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`
	Emoji       string `json:"emoji,omitempty"`
	Price       string `json:"price"`
	Stock       int    `json:"stock"`
}

type cartItemDTO struct {
	Product  productDTO `json:"product"`
	Quantity int        `json:"quantity"`
	Subtotal string     `json:"subtotal"`
}

type stateResponse struct {
	Products          []productDTO  `json:"products"`
	Categories        []string      `json:"categories"`
	SelectedCategory  string        `json:"selected_category"`
	Cart              []cartItemDTO `json:"cart"`
	Loading           bool          `json:"loading"`
	StatusMessage     string        `json:"status_message,omitempty"`
	CartPanelExpanded bool          `json:"cart_panel_expanded"`
	Subtotal          string        `json:"subtotal"`
	Tax               string        `json:"tax"`
	GrandTotal        string        `json:"grand_total"`
}

func toProductDTO(p catalog.Product) productDTO {
	return productDTO{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Description: p.Description,
		Emoji:       p.Emoji,
		Price:       cart.FormatAmount(p.Price),
		Stock:       p.Stock,
	}
}

func toStateResponse(snap session.Snapshot) stateResponse {
	products := make([]productDTO, 0, len(snap.Products))
	for _, p := range snap.Products {
		products = append(products, toProductDTO(p))
	}
	items := make([]cartItemDTO, 0, len(snap.Items))
	for _, it := range snap.Items {
		items = append(items, cartItemDTO{
			Product:  toProductDTO(it.Product),
			Quantity: it.Quantity,
			Subtotal: cart.FormatAmount(it.Subtotal()),
		})
	}
	return stateResponse{
		Products:          products,
		Categories:        snap.Categories,
		SelectedCategory:  snap.SelectedCategory,
		Cart:              items,
		Loading:           snap.Loading,
		StatusMessage:     snap.StatusMessage,
		CartPanelExpanded: snap.CartPanelExpanded,
		Subtotal:          cart.FormatAmount(snap.Subtotal),
		Tax:               cart.FormatAmount(snap.Tax),
		GrandTotal:        cart.FormatAmount(snap.GrandTotal),
	}
}

func (h *Handler) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, toStateResponse(h.session.Snapshot()))
}

func (h *Handler) handleProducts(w http.ResponseWriter, r *http.Request) {
	visible := h.session.VisibleProducts()
	products := make([]productDTO, 0, len(visible))
	for _, p := range visible {
		products = append(products, toProductDTO(p))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"selected_category": h.session.SelectedCategory(),
		"products":          products,
	})
}

// handleLoadCatalog triggers the load and replies with the resulting state.
// Fetch failures surface only through the status message; a concurrent
// operation in flight is the one transport-level error.
func (h *Handler) handleLoadCatalog(w http.ResponseWriter, r *http.Request) {
	if err := h.session.LoadCatalog(r.Context()); errors.Is(err, session.ErrBusy) {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(h.session.Snapshot()))
}

type selectCategoryRequest struct {
	Category string `json:"category"`
}

func (h *Handler) handleSelectCategory(w http.ResponseWriter, r *http.Request) {
	var req selectCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.session.SelectCategory(req.Category)
	writeJSON(w, http.StatusOK, toStateResponse(h.session.Snapshot()))
}

type addToCartRequest struct {
	ProductID int `json:"product_id"`
}

func (h *Handler) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	var req addToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	product, ok := h.session.Product(req.ProductID)
	if !ok {
		writeError(w, http.StatusNotFound, catalog.ErrNotFound)
		return
	}
	h.session.AddToCart(product)
	writeJSON(w, http.StatusOK, toStateResponse(h.session.Snapshot()))
}

type updateQuantityRequest struct {
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

func (h *Handler) handleUpdateQuantity(w http.ResponseWriter, r *http.Request) {
	var req updateQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	h.session.UpdateQuantity(req.ProductID, req.Quantity)
	writeJSON(w, http.StatusOK, toStateResponse(h.session.Snapshot()))
}

func (h *Handler) handleToggleCartPanel(w http.ResponseWriter, r *http.Request) {
	h.session.ToggleCartPanel()
	writeJSON(w, http.StatusOK, toStateResponse(h.session.Snapshot()))
}

func (h *Handler) handleSubmitOrder(w http.ResponseWriter, r *http.Request) {
	if err := h.session.SubmitOrder(r.Context()); errors.Is(err, session.ErrBusy) {
		writeError(w, http.StatusConflict, err)
		return
	}
	writeJSON(w, http.StatusOK, toStateResponse(h.session.Snapshot()))
}

func (h *Handler) handleDismissStatus(w http.ResponseWriter, r *http.Request) {
	h.session.DismissStatus()
	writeJSON(w, http.StatusOK, toStateResponse(h.session.Snapshot()))
}

func (h *Handler) method(method string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != method {
			writeError(w, http.StatusMethodNotAllowed, errors.New("method not allowed"))
			return
		}
		handler(w, r)
	}
}

func decodeJSON(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
