// Package checkout implements the order-submission flow: a short-lived
// state machine that snapshots the cart, submits an order to the
// gateway, and clears the cart on success.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/example/storefront/internal/client/cart"
	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/client/session"
	"github.com/example/storefront/internal/models"
)

// TaxRate is the flat rate applied to the cart subtotal. No
// jurisdictional variation.
const TaxRate = 0.08

var (
	ErrNotAuthenticated = errors.New("checkout requires authentication")
	ErrEmptyCart        = errors.New("cart is empty")
	ErrSubmitInFlight   = errors.New("submission already in progress")
)

// State of the flow. Terminal states return control to the caller.
type State int

const (
	StateIdle State = iota
	StateSubmitting
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PaymentProcessor authorizes payment for an amount before the order
// is created. The production storefront has no real payment
// integration; SimulatedPayment stands in for one.
type PaymentProcessor interface {
	Authorize(ctx context.Context, amount float64) error
}

// SimulatedPayment approves every payment.
type SimulatedPayment struct{}

func (SimulatedPayment) Authorize(ctx context.Context, amount float64) error { return nil }

// Flow is one checkout attempt's state machine. Build a fresh Flow per
// checkout; terminal states are not re-entered.
type Flow struct {
	gw      gateway.Gateway
	sess    *session.Store
	cart    *cart.Store
	payment PaymentProcessor

	mu    sync.Mutex
	state State
	order *models.Order
	err   error
}

func NewFlow(gw gateway.Gateway, sess *session.Store, cartStore *cart.Store, payment PaymentProcessor) *Flow {
	if payment == nil {
		payment = SimulatedPayment{}
	}
	return &Flow{gw: gw, sess: sess, cart: cartStore, payment: payment}
}

// CheckPreconditions reports whether the flow may be entered:
// authenticated and a non-empty cart. Callers redirect away (to login
// or to the cart view) on failure instead of allowing submission.
func (f *Flow) CheckPreconditions() error {
	if !f.sess.Authenticated() {
		return ErrNotAuthenticated
	}
	if f.cart.TotalItems() == 0 {
		return ErrEmptyCart
	}
	return nil
}

// Totals returns (subtotal, tax, total) for the current cart.
func (f *Flow) Totals() (float64, float64, float64) {
	subtotal := f.cart.TotalPrice()
	tax := round2(subtotal * TaxRate)
	return subtotal, tax, round2(subtotal + tax)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Submit snapshots the cart, authorizes payment, and creates the
// order. On success the cart is cleared and the flow reaches
// StateSucceeded. On failure the cart is untouched, the flow reaches
// StateFailed, and the error is returned; there is no automatic retry.
// A second call while one is in flight fails with ErrSubmitInFlight —
// this flag is the only double-submission guard, the gateway is not
// assumed to deduplicate.
func (f *Flow) Submit(ctx context.Context) (models.Order, error) {
	f.mu.Lock()
	if f.state == StateSubmitting {
		f.mu.Unlock()
		return models.Order{}, ErrSubmitInFlight
	}
	f.state = StateSubmitting
	f.mu.Unlock()

	order, err := f.submit(ctx)

	f.mu.Lock()
	if err != nil {
		f.state = StateFailed
		f.err = err
	} else {
		f.state = StateSucceeded
		f.order = &order
	}
	f.mu.Unlock()

	return order, err
}

func (f *Flow) submit(ctx context.Context) (models.Order, error) {
	if err := f.CheckPreconditions(); err != nil {
		return models.Order{}, err
	}

	items := f.cart.Items()
	payload := models.OrderPayload{
		Items: make([]models.OrderPayloadItem, 0, len(items)),
	}
	for _, item := range items {
		payload.Items = append(payload.Items, models.OrderPayloadItem{
			ProductID: item.Product.ID,
			Quantity:  item.Quantity,
			UnitPrice: item.Product.Price,
		})
	}
	_, _, total := f.Totals()
	payload.TotalAmount = total

	if err := f.payment.Authorize(ctx, total); err != nil {
		return models.Order{}, fmt.Errorf("payment: %w", err)
	}

	order, err := f.gw.CreateOrder(ctx, f.sess.AccessToken(), payload)
	if err != nil {
		return models.Order{}, err
	}

	f.cart.ClearCart(ctx)
	return order, nil
}

// State returns the flow's current state.
func (f *Flow) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Order returns the created order once the flow has succeeded.
func (f *Flow) Order() (models.Order, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.order == nil {
		return models.Order{}, false
	}
	return *f.order, true
}

// Err returns the failure once the flow has failed.
func (f *Flow) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}
