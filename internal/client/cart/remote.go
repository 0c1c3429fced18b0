package cart

import (
	"context"

	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/models"
)

// TokenSource yields the access token for gateway calls. The session
// store satisfies it.
type TokenSource interface {
	AccessToken() string
}

// remoteBackend delegates to the gateway's persisted cart. The server
// is authoritative for merging duplicate-product adds, so add and
// update end in a full reload rather than an optimistic local edit.
type remoteBackend struct {
	gw    gateway.Gateway
	token TokenSource
}

func newRemoteBackend(gw gateway.Gateway, token TokenSource) *remoteBackend {
	return &remoteBackend{gw: gw, token: token}
}

func (b *remoteBackend) Load(ctx context.Context) ([]models.CartItem, error) {
	return b.gw.GetCart(ctx, b.token.AccessToken())
}

func (b *remoteBackend) Add(ctx context.Context, current []models.CartItem, product models.Product, quantity int) ([]models.CartItem, error) {
	for _, item := range current {
		if item.Product.ID == product.ID && item.Quantity+quantity > item.Product.InventoryCount {
			return nil, ErrInsufficientStock
		}
	}
	if quantity > product.InventoryCount {
		return nil, ErrInsufficientStock
	}

	token := b.token.AccessToken()
	if _, err := b.gw.AddCartItem(ctx, token, product.ID, quantity); err != nil {
		return nil, err
	}
	// Resynchronize with the server-computed state.
	return b.gw.GetCart(ctx, token)
}

func (b *remoteBackend) Update(ctx context.Context, current []models.CartItem, itemID int64, quantity int) ([]models.CartItem, error) {
	var line *models.CartItem
	for i := range current {
		if current[i].ID == itemID {
			line = &current[i]
			break
		}
	}
	// Precondition: the line must exist in the local view. No gateway
	// call is made otherwise.
	if line == nil {
		return nil, gateway.ErrItemNotFound
	}
	if quantity > line.Product.InventoryCount {
		return nil, ErrInsufficientStock
	}

	token := b.token.AccessToken()
	if _, err := b.gw.UpdateCartItem(ctx, token, itemID, quantity); err != nil {
		return nil, err
	}
	return b.gw.GetCart(ctx, token)
}

func (b *remoteBackend) Remove(ctx context.Context, current []models.CartItem, itemID int64) ([]models.CartItem, error) {
	if err := b.gw.DeleteCartItem(ctx, b.token.AccessToken(), itemID); err != nil {
		return nil, err
	}

	// Delete is authoritative once acknowledged; filter locally
	// instead of reloading.
	next := make([]models.CartItem, 0, len(current))
	for _, item := range current {
		if item.ID != itemID {
			next = append(next, item)
		}
	}
	return next, nil
}
