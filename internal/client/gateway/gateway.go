// Package gateway talks to the remote commerce API. The Gateway
// interface is the only surface the stores depend on; HTTPGateway is
// the production implementation.
package gateway

import (
	"context"

	"github.com/example/storefront/internal/models"
)

// Gateway is the remote commerce API: catalog, cart, auth and orders.
//
// Operations that act on a user's data take the access token
// explicitly; the caller (session store) owns the credential pair.
// All methods honor context cancellation and map transport failures
// to the sentinel errors in this package.
type Gateway interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	SearchProducts(ctx context.Context, query string) ([]models.Product, error)
	GetProduct(ctx context.Context, id int64) (models.Product, error)

	GetCart(ctx context.Context, accessToken string) ([]models.CartItem, error)
	AddCartItem(ctx context.Context, accessToken string, productID int64, quantity int) (models.CartItem, error)
	UpdateCartItem(ctx context.Context, accessToken string, itemID int64, quantity int) (models.CartItem, error)
	DeleteCartItem(ctx context.Context, accessToken string, itemID int64) error

	Login(ctx context.Context, creds models.LoginCredentials) (models.TokenPair, error)
	Register(ctx context.Context, data models.RegisterData) (models.TokenPair, error)
	GetProfile(ctx context.Context, accessToken string) (models.User, error)
	RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error)

	CreateOrder(ctx context.Context, accessToken string, payload models.OrderPayload) (models.Order, error)
	ListOrders(ctx context.Context, accessToken string) ([]models.Order, error)
	GetOrder(ctx context.Context, accessToken string, orderID int64) (models.Order, error)
}
