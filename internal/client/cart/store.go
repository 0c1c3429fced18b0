// Package cart holds the live shopping cart. The cart is backed either
// by the durable local store (anonymous sessions) or by the gateway's
// persisted cart (authenticated sessions); a strategy backend is
// selected once per authentication transition and every mutation
// delegates to it.
package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/client/storage"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/models"
)

// ErrInsufficientStock reports a quantity exceeding the product
// snapshot's inventory count at mutation time.
var ErrInsufficientStock = errors.New("insufficient stock")

// Status is the load state of the cart view. A Loaded cart with zero
// items is distinct from a cart that was never loaded.
type Status int

const (
	StatusNotLoaded Status = iota
	StatusLoaded
)

// Store is the process-wide cart store.
//
// Mutations are serialized; each one leaves the cart consistent on
// both success and failure paths, and releases the in-flight flag
// unconditionally. A generation counter fences reloads: a result that
// arrives after the backing mode changed is discarded.
type Store struct {
	gw   gateway.Gateway
	repo storage.Repository
	log  logging.Logger

	local  *localBackend
	remote *remoteBackend

	// opMu serializes mutations against each other. Mode switches
	// deliberately do not take it: a transition mid-mutation bumps the
	// generation instead, and the stale result is discarded.
	opMu sync.Mutex

	mu       sync.RWMutex
	items    []models.CartItem
	status   Status
	backend  backend
	gen      uint64
	inFlight bool
	loadErr  error

	subMu sync.Mutex
	subs  map[int]func()
	subID int
}

// NewStore builds a cart store in local mode. Call Load (or let an
// authentication transition do it) to populate the view.
func NewStore(gw gateway.Gateway, repo storage.Repository, token TokenSource, log logging.Logger) *Store {
	s := &Store{
		gw:     gw,
		repo:   repo,
		log:    log,
		local:  newLocalBackend(repo, log),
		remote: newRemoteBackend(gw, token),
		subs:   make(map[int]func()),
	}
	s.backend = s.local
	return s
}

// HandleAuthChange switches the backing mode and reloads the view.
// Wire it to the session store's Subscribe so it runs exactly once per
// Authenticated transition: true discards the local view in favor of
// the gateway's cart (the durable local entry is kept, not deleted);
// false falls back to whatever the durable local store holds.
func (s *Store) HandleAuthChange(ctx context.Context, authenticated bool) {
	s.mu.Lock()
	s.gen++
	if authenticated {
		s.backend = s.remote
	} else {
		s.backend = s.local
	}
	gen := s.gen
	b := s.backend
	s.mu.Unlock()

	s.reload(ctx, gen, b)
}

// Load populates the view from the active backend.
func (s *Store) Load(ctx context.Context) error {
	s.mu.RLock()
	gen, b := s.gen, s.backend
	s.mu.RUnlock()

	return s.reload(ctx, gen, b)
}

// reload fetches the backend's view and commits it unless the mode
// changed while the fetch was in flight. Read failures become
// store-level error state rather than panics or partial views.
func (s *Store) reload(ctx context.Context, gen uint64, b backend) error {
	items, err := b.Load(ctx)

	s.mu.Lock()
	if gen != s.gen {
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		s.loadErr = err
		s.mu.Unlock()
		s.log.Warn(ctx, "cart load failed", "error", err)
		return err
	}
	s.items = items
	s.status = StatusLoaded
	s.loadErr = nil
	s.mu.Unlock()

	s.notify()
	return nil
}

// AddToCart adds quantity units of product, merging into an existing
// line for the same product. quantity < 1 is treated as 1.
func (s *Store) AddToCart(ctx context.Context, product models.Product, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	return s.mutate(ctx, func(ctx context.Context, b backend, current []models.CartItem) ([]models.CartItem, error) {
		return b.Add(ctx, current, product, quantity)
	})
}

// UpdateQuantity sets the quantity of the line identified by itemID.
// A quantity of zero or less removes the line; no zero-quantity state
// is ever kept.
func (s *Store) UpdateQuantity(ctx context.Context, itemID int64, quantity int) error {
	if quantity <= 0 {
		return s.RemoveFromCart(ctx, itemID)
	}
	return s.mutate(ctx, func(ctx context.Context, b backend, current []models.CartItem) ([]models.CartItem, error) {
		return b.Update(ctx, current, itemID, quantity)
	})
}

// RemoveFromCart deletes the line identified by itemID.
func (s *Store) RemoveFromCart(ctx context.Context, itemID int64) error {
	return s.mutate(ctx, func(ctx context.Context, b backend, current []models.CartItem) ([]models.CartItem, error) {
		return b.Remove(ctx, current, itemID)
	})
}

// ClearCart empties the view and removes the durable local entry. The
// gateway is not contacted; checkout completes the remote order before
// calling this.
func (s *Store) ClearCart(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.repo.Delete(ctx, storage.KeyCart); err != nil {
		s.log.Warn(ctx, "failed to remove stored cart", "error", err)
	}

	s.mu.Lock()
	s.items = nil
	s.status = StatusLoaded
	s.mu.Unlock()

	s.notify()
}

// mutate runs one mutation against the active backend. The backend
// works on a copy of the view; the result is committed only when the
// mode generation is unchanged, so late responses for a stale mode are
// dropped. The in-flight flag is released on every path.
func (s *Store) mutate(ctx context.Context, op func(context.Context, backend, []models.CartItem) ([]models.CartItem, error)) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	s.mu.Lock()
	s.inFlight = true
	gen := s.gen
	b := s.backend
	current := make([]models.CartItem, len(s.items))
	copy(current, s.items)
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.inFlight = false
		s.mu.Unlock()
	}()

	next, err := op(ctx, b, current)
	if err != nil {
		return err
	}

	s.mu.Lock()
	stale := gen != s.gen
	if !stale {
		s.items = next
		s.status = StatusLoaded
	}
	s.mu.Unlock()

	if !stale {
		s.notify()
	}
	return nil
}

// Items returns a copy of the current view.
func (s *Store) Items() []models.CartItem {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]models.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// Status reports whether the view has been loaded at all.
func (s *Store) Status() Status {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.status
}

// LoadErr returns the last read failure, if the current view is stale
// because of one.
func (s *Store) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// InFlight reports whether a mutation is currently outstanding.
func (s *Store) InFlight() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.inFlight
}

// TotalItems is the sum of line quantities.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0
	for _, item := range s.items {
		total += item.Quantity
	}
	return total
}

// TotalPrice sums unit price times quantity over all lines, using each
// line's product snapshot price.
func (s *Store) TotalPrice() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := 0.0
	for _, item := range s.items {
		total += item.Product.Price * float64(item.Quantity)
	}
	return total
}

// Subscribe registers fn to run after every committed change to the
// view. The returned function removes the subscription.
func (s *Store) Subscribe(fn func()) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.subID
	s.subID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) notify() {
	s.subMu.Lock()
	fns := make([]func(), 0, len(s.subs))
	for _, fn := range s.subs {
		fns = append(fns, fn)
	}
	s.subMu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// FindItem returns the line with the given id, if present.
func (s *Store) FindItem(itemID int64) (models.CartItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.ID == itemID {
			return item, true
		}
	}
	return models.CartItem{}, false
}

// ErrItemNotFound is re-exported for callers that only import the cart
// package.
var ErrItemNotFound = gateway.ErrItemNotFound
