package cart

import (
	"context"

	"github.com/example/storefront/internal/models"
)

// backend is the storage strategy behind the cart store. The store
// selects one implementation per authentication mode and every
// mutation delegates to it; no operation branches on mode itself.
//
// Mutations receive the current view, never mutate it in place, and
// return the full next view. A failed call must leave no partial
// effect visible to the store.
type backend interface {
	// Load produces the authoritative item list for this mode.
	Load(ctx context.Context) ([]models.CartItem, error)
	Add(ctx context.Context, current []models.CartItem, product models.Product, quantity int) ([]models.CartItem, error)
	Update(ctx context.Context, current []models.CartItem, itemID int64, quantity int) ([]models.CartItem, error)
	Remove(ctx context.Context, current []models.CartItem, itemID int64) ([]models.CartItem, error)
}
