package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/client/storage"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/models"
)

// localBackend keeps the anonymous cart in the durable local store
// under storage.KeyCart. Every mutation persists the full cart.
type localBackend struct {
	repo storage.Repository
	log  logging.Logger

	idMu   sync.Mutex
	lastID int64
}

func newLocalBackend(repo storage.Repository, log logging.Logger) *localBackend {
	return &localBackend{repo: repo, log: log}
}

// nextID mints a process-local surrogate line id. Millisecond time
// keeps ids roughly sortable; the counter guards same-millisecond adds.
func (b *localBackend) nextID() int64 {
	b.idMu.Lock()
	defer b.idMu.Unlock()
	id := time.Now().UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return id
}

func (b *localBackend) Load(ctx context.Context) ([]models.CartItem, error) {
	var items []models.CartItem
	ok, err := storage.LoadJSON(ctx, b.repo, storage.KeyCart, &items)
	if err != nil {
		if errors.Is(err, storage.ErrStorageCorrupt) {
			// Pruned already; an unreadable cart is an empty cart.
			b.log.Warn(ctx, "stored cart unreadable, dropped", "error", err)
			return nil, nil
		}
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return items, nil
}

func (b *localBackend) Add(ctx context.Context, current []models.CartItem, product models.Product, quantity int) ([]models.CartItem, error) {
	next := make([]models.CartItem, len(current))
	copy(next, current)

	merged := false
	for i := range next {
		if next[i].Product.ID == product.ID {
			if next[i].Quantity+quantity > next[i].Product.InventoryCount {
				return nil, ErrInsufficientStock
			}
			next[i].Quantity += quantity
			merged = true
			break
		}
	}
	if !merged {
		if quantity > product.InventoryCount {
			return nil, ErrInsufficientStock
		}
		next = append(next, models.CartItem{
			ID:       b.nextID(),
			UserID:   0,
			Product:  product,
			Quantity: quantity,
		})
	}

	if err := storage.SaveJSON(ctx, b.repo, storage.KeyCart, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (b *localBackend) Update(ctx context.Context, current []models.CartItem, itemID int64, quantity int) ([]models.CartItem, error) {
	next := make([]models.CartItem, len(current))
	copy(next, current)

	found := false
	for i := range next {
		if next[i].ID == itemID {
			if quantity > next[i].Product.InventoryCount {
				return nil, ErrInsufficientStock
			}
			next[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		return nil, gateway.ErrItemNotFound
	}

	if err := storage.SaveJSON(ctx, b.repo, storage.KeyCart, next); err != nil {
		return nil, err
	}
	return next, nil
}

func (b *localBackend) Remove(ctx context.Context, current []models.CartItem, itemID int64) ([]models.CartItem, error) {
	next := make([]models.CartItem, 0, len(current))
	for _, item := range current {
		if item.ID != itemID {
			next = append(next, item)
		}
	}

	if err := storage.SaveJSON(ctx, b.repo, storage.KeyCart, next); err != nil {
		return nil, err
	}
	return next, nil
}
