package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/server/auth"
	"github.com/example/storefront/internal/server/store"
)

// Handlers serves the commerce API against the in-memory store.
type Handlers struct {
	store *store.Memory
	jwt   *auth.JWTService
	log   logging.Logger
}

func NewHandlers(st *store.Memory, jwtService *auth.JWTService, log logging.Logger) *Handlers {
	return &Handlers{store: st, jwt: jwtService, log: log}
}

func pathID(r *http.Request) (int64, error) {
	return strconv.ParseInt(r.PathValue("id"), 10, 64)
}

// ListProducts returns the catalog, filtered when ?search= is present.
func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.store.Products(r.URL.Query().Get("search"))
	if products == nil {
		products = []models.Product{}
	}
	respondJSON(w, http.StatusOK, products)
}

// GetProduct returns one catalog entry.
func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		respondError(w, "invalid product id", http.StatusBadRequest)
		return
	}

	product, err := h.store.Product(id)
	if err != nil {
		respondError(w, "product not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, product)
}

// Register creates an account and issues a credential pair, so a new
// account is logged in immediately.
func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var data models.RegisterData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if data.Username == "" || data.Email == "" {
		respondError(w, "username and email are required", http.StatusBadRequest)
		return
	}

	hash, err := auth.HashPassword(data.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			respondError(w, err.Error(), http.StatusBadRequest)
			return
		}
		respondError(w, "registration failed", http.StatusInternalServerError)
		return
	}

	acc, err := h.store.CreateAccount(data, hash)
	if err != nil {
		if errors.Is(err, store.ErrUsernameTaken) {
			respondError(w, "username already taken", http.StatusBadRequest)
			return
		}
		respondError(w, "registration failed", http.StatusInternalServerError)
		return
	}

	pair, err := h.jwt.GeneratePair(acc.ID, acc.Username)
	if err != nil {
		respondError(w, "token generation failed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusCreated, pair)
}

// Login verifies credentials and issues a credential pair.
func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var creds models.LoginCredentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	acc, err := h.store.AccountByUsername(creds.Username)
	if err != nil || !auth.CheckPassword(creds.Password, acc.PasswordHash) {
		respondError(w, "invalid username or password", http.StatusUnauthorized)
		return
	}

	pair, err := h.jwt.GeneratePair(acc.ID, acc.Username)
	if err != nil {
		respondError(w, "token generation failed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, pair)
}

// Refresh exchanges a refresh token for a fresh credential pair.
func (h *Handlers) Refresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Refresh string `json:"refresh"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	userID, err := h.jwt.ValidateRefreshToken(req.Refresh)
	if err != nil {
		respondError(w, "invalid refresh token", http.StatusUnauthorized)
		return
	}

	acc, err := h.store.Account(userID)
	if err != nil {
		respondError(w, "unknown user", http.StatusUnauthorized)
		return
	}

	pair, err := h.jwt.GeneratePair(acc.ID, acc.Username)
	if err != nil {
		respondError(w, "token generation failed", http.StatusInternalServerError)
		return
	}
	respondJSON(w, http.StatusOK, pair)
}

// Profile returns the authenticated user.
func (h *Handlers) Profile(w http.ResponseWriter, r *http.Request) {
	claims, ok := userFromContext(r.Context())
	if !ok {
		respondError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	acc, err := h.store.Account(claims.UserID)
	if err != nil {
		respondError(w, "unknown user", http.StatusUnauthorized)
		return
	}
	respondJSON(w, http.StatusOK, acc.User)
}

// GetCart returns the user's cart lines.
func (h *Handlers) GetCart(w http.ResponseWriter, r *http.Request) {
	claims, _ := userFromContext(r.Context())
	items := h.store.Cart(claims.UserID)
	if items == nil {
		items = []models.CartItem{}
	}
	respondJSON(w, http.StatusOK, items)
}

// AddCartItem adds a product to the cart, merging duplicate lines.
func (h *Handlers) AddCartItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := userFromContext(r.Context())

	var req struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	line, err := h.store.AddCartItem(claims.UserID, req.ProductID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			respondError(w, "product not found", http.StatusNotFound)
		case errors.Is(err, store.ErrOutOfStock):
			respondError(w, "insufficient stock", http.StatusBadRequest)
		default:
			respondError(w, "add to cart failed", http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusCreated, line)
}

// UpdateCartItem sets a line's quantity.
func (h *Handlers) UpdateCartItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, "invalid item id", http.StatusBadRequest)
		return
	}

	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	line, err := h.store.UpdateCartItem(claims.UserID, id, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			respondError(w, "cart item not found", http.StatusNotFound)
		case errors.Is(err, store.ErrOutOfStock):
			respondError(w, "insufficient stock", http.StatusBadRequest)
		default:
			respondError(w, "update cart item failed", http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusOK, line)
}

// DeleteCartItem removes a line from the cart.
func (h *Handlers) DeleteCartItem(w http.ResponseWriter, r *http.Request) {
	claims, _ := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, "invalid item id", http.StatusBadRequest)
		return
	}

	if err := h.store.DeleteCartItem(claims.UserID, id); err != nil {
		respondError(w, "cart item not found", http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// CreateOrder places an order from the submitted payload and empties
// the user's server-side cart.
func (h *Handlers) CreateOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := userFromContext(r.Context())

	var payload models.OrderPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	order, err := h.store.CreateOrder(claims.UserID, payload)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrEmptyOrder):
			respondError(w, "order has no items", http.StatusBadRequest)
		case errors.Is(err, store.ErrNotFound):
			respondError(w, "product not found", http.StatusBadRequest)
		default:
			respondError(w, "order creation failed", http.StatusInternalServerError)
		}
		return
	}
	respondJSON(w, http.StatusCreated, order)
}

// ListOrders returns the user's order history.
func (h *Handlers) ListOrders(w http.ResponseWriter, r *http.Request) {
	claims, _ := userFromContext(r.Context())
	orders := h.store.Orders(claims.UserID)
	if orders == nil {
		orders = []models.Order{}
	}
	respondJSON(w, http.StatusOK, orders)
}

// GetOrder returns one of the user's orders.
func (h *Handlers) GetOrder(w http.ResponseWriter, r *http.Request) {
	claims, _ := userFromContext(r.Context())

	id, err := pathID(r)
	if err != nil {
		respondError(w, "invalid order id", http.StatusBadRequest)
		return
	}

	order, err := h.store.Order(claims.UserID, id)
	if err != nil {
		respondError(w, "order not found", http.StatusNotFound)
		return
	}
	respondJSON(w, http.StatusOK, order)
}
