package api

import (
	"net/http"

	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/server/auth"
)

// NewRouter wires the commerce API routes. Paths keep the trailing
// slash the client's gateway uses.
func NewRouter(h *Handlers, jwtService *auth.JWTService, log logging.Logger) http.Handler {
	mux := http.NewServeMux()

	// Catalog, no auth.
	mux.HandleFunc("GET /api/products/{$}", h.ListProducts)
	mux.HandleFunc("GET /api/products/{id}/{$}", h.GetProduct)

	// Auth.
	mux.HandleFunc("POST /api/register/{$}", h.Register)
	mux.HandleFunc("POST /api/login/{$}", h.Login)
	mux.HandleFunc("POST /api/token/refresh/{$}", h.Refresh)
	mux.HandleFunc("GET /api/profile/{$}", requireAuth(jwtService, h.Profile))

	// Cart.
	mux.HandleFunc("GET /api/cart/{$}", requireAuth(jwtService, h.GetCart))
	mux.HandleFunc("POST /api/cart/{$}", requireAuth(jwtService, h.AddCartItem))
	mux.HandleFunc("PUT /api/cart/{id}/{$}", requireAuth(jwtService, h.UpdateCartItem))
	mux.HandleFunc("DELETE /api/cart/{id}/{$}", requireAuth(jwtService, h.DeleteCartItem))

	// Orders.
	mux.HandleFunc("POST /api/orders/{$}", requireAuth(jwtService, h.CreateOrder))
	mux.HandleFunc("GET /api/orders/{$}", requireAuth(jwtService, h.ListOrders))
	mux.HandleFunc("GET /api/orders/{id}/{$}", requireAuth(jwtService, h.GetOrder))

	return withRequestLogging(log, mux)
}
