package checkout

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/client/cart"
	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/client/session"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/models"
)

// ---- fakes ----

type memRepo struct {
	data map[string][]byte
}

func newMemRepo() *memRepo { return &memRepo{data: make(map[string][]byte)} }

func (m *memRepo) Get(_ context.Context, key string) ([]byte, error) { return m.data[key], nil }
func (m *memRepo) Set(_ context.Context, key string, value []byte) error {
	m.data[key] = value
	return nil
}
func (m *memRepo) Delete(_ context.Context, key string) error {
	delete(m.data, key)
	return nil
}
func (m *memRepo) Clear(_ context.Context) error {
	m.data = make(map[string][]byte)
	return nil
}

// fakeGateway supports login and order creation; cart traffic is not
// expected because the cart store stays in local mode.
type fakeGateway struct {
	CreateOrderRet     models.Order
	CreateOrderErr     error
	CreateOrderCalls   int
	CreateOrderPayload models.OrderPayload
	CreateOrderToken   string
}

func (f *fakeGateway) ListProducts(context.Context) ([]models.Product, error) { return nil, nil }
func (f *fakeGateway) SearchProducts(context.Context, string) ([]models.Product, error) {
	return nil, nil
}
func (f *fakeGateway) GetProduct(context.Context, int64) (models.Product, error) {
	return models.Product{}, nil
}
func (f *fakeGateway) GetCart(context.Context, string) ([]models.CartItem, error) { return nil, nil }
func (f *fakeGateway) AddCartItem(context.Context, string, int64, int) (models.CartItem, error) {
	return models.CartItem{}, nil
}
func (f *fakeGateway) UpdateCartItem(context.Context, string, int64, int) (models.CartItem, error) {
	return models.CartItem{}, nil
}
func (f *fakeGateway) DeleteCartItem(context.Context, string, int64) error { return nil }
func (f *fakeGateway) Login(context.Context, models.LoginCredentials) (models.TokenPair, error) {
	return models.TokenPair{Access: "a", Refresh: "r"}, nil
}
func (f *fakeGateway) Register(context.Context, models.RegisterData) (models.TokenPair, error) {
	return models.TokenPair{}, nil
}
func (f *fakeGateway) GetProfile(context.Context, string) (models.User, error) {
	return models.User{ID: 1, Username: "alice"}, nil
}
func (f *fakeGateway) RefreshToken(context.Context, string) (models.TokenPair, error) {
	return models.TokenPair{}, nil
}
func (f *fakeGateway) CreateOrder(_ context.Context, token string, payload models.OrderPayload) (models.Order, error) {
	f.CreateOrderCalls++
	f.CreateOrderToken = token
	f.CreateOrderPayload = payload
	return f.CreateOrderRet, f.CreateOrderErr
}
func (f *fakeGateway) ListOrders(context.Context, string) ([]models.Order, error) { return nil, nil }
func (f *fakeGateway) GetOrder(context.Context, string, int64) (models.Order, error) {
	return models.Order{}, nil
}

type failingPayment struct{ err error }

func (p failingPayment) Authorize(context.Context, float64) error { return p.err }

// setup builds an authenticated session and a local-mode cart over the
// same fake gateway.
func setup(t *testing.T, gw *fakeGateway) (*session.Store, *cart.Store) {
	t.Helper()
	ctx := context.Background()
	log := logging.NewDefault()

	sess := session.New(gw, newMemRepo(), log)
	require.NoError(t, sess.Login(ctx, models.LoginCredentials{Username: "alice", Password: "pw"}))

	cartStore := cart.NewStore(gw, newMemRepo(), sess, log)
	require.NoError(t, cartStore.Load(ctx))
	return sess, cartStore
}

func addItem(t *testing.T, cartStore *cart.Store, id int64, price float64, quantity int) {
	t.Helper()
	p := models.Product{ID: id, Name: "p", Price: price, InventoryCount: 100}
	require.NoError(t, cartStore.AddToCart(context.Background(), p, quantity))
}

// ---- tests ----

func TestCheckPreconditions(t *testing.T) {
	gw := &fakeGateway{}
	sess, cartStore := setup(t, gw)
	flow := NewFlow(gw, sess, cartStore, nil)

	// Authenticated but empty cart.
	require.ErrorIs(t, flow.CheckPreconditions(), ErrEmptyCart)

	addItem(t, cartStore, 1, 10, 1)
	require.NoError(t, flow.CheckPreconditions())

	// Logged out.
	sess.Logout(context.Background())
	require.ErrorIs(t, flow.CheckPreconditions(), ErrNotAuthenticated)
}

func TestTotals(t *testing.T) {
	gw := &fakeGateway{}
	sess, cartStore := setup(t, gw)
	addItem(t, cartStore, 1, 40, 2) // 80.00
	addItem(t, cartStore, 2, 20, 1) // 20.00

	flow := NewFlow(gw, sess, cartStore, nil)
	subtotal, tax, total := flow.Totals()

	require.InDelta(t, 100.00, subtotal, 1e-9)
	require.InDelta(t, 8.00, tax, 1e-9)
	require.InDelta(t, 108.00, total, 1e-9)
}

func TestSubmit_Success(t *testing.T) {
	gw := &fakeGateway{
		CreateOrderRet: models.Order{ID: 5, Status: models.OrderPending, TotalAmount: 108},
	}
	sess, cartStore := setup(t, gw)
	addItem(t, cartStore, 1, 40, 2)
	addItem(t, cartStore, 2, 20, 1)

	flow := NewFlow(gw, sess, cartStore, nil)
	order, err := flow.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, int64(5), order.ID)

	require.Equal(t, StateSucceeded, flow.State())
	got, ok := flow.Order()
	require.True(t, ok)
	require.Equal(t, int64(5), got.ID)

	// Payload carried snapshot prices and the taxed total.
	require.Equal(t, "a", gw.CreateOrderToken)
	require.Len(t, gw.CreateOrderPayload.Items, 2)
	require.InDelta(t, 108.00, gw.CreateOrderPayload.TotalAmount, 1e-9)
	require.Equal(t, int64(1), gw.CreateOrderPayload.Items[0].ProductID)
	require.InDelta(t, 40.0, gw.CreateOrderPayload.Items[0].UnitPrice, 1e-9)

	// The cart is empty only after success.
	require.Zero(t, cartStore.TotalItems())
}

func TestSubmit_GatewayFailureKeepsCart(t *testing.T) {
	gw := &fakeGateway{CreateOrderErr: gateway.ErrOrderCreationFailed}
	sess, cartStore := setup(t, gw)
	addItem(t, cartStore, 1, 10, 2)

	flow := NewFlow(gw, sess, cartStore, nil)
	_, err := flow.Submit(context.Background())
	require.ErrorIs(t, err, gateway.ErrOrderCreationFailed)

	require.Equal(t, StateFailed, flow.State())
	require.ErrorIs(t, flow.Err(), gateway.ErrOrderCreationFailed)
	_, ok := flow.Order()
	require.False(t, ok)

	// Failure leaves the cart for a retry.
	require.Equal(t, 2, cartStore.TotalItems())
}

func TestSubmit_PaymentFailure(t *testing.T) {
	gw := &fakeGateway{}
	sess, cartStore := setup(t, gw)
	addItem(t, cartStore, 1, 10, 1)

	boom := errors.New("card declined")
	flow := NewFlow(gw, sess, cartStore, failingPayment{err: boom})

	_, err := flow.Submit(context.Background())
	require.ErrorIs(t, err, boom)

	// No order was attempted after the payment failed.
	require.Zero(t, gw.CreateOrderCalls)
	require.Equal(t, 1, cartStore.TotalItems())
}

func TestSubmit_PreconditionFailure(t *testing.T) {
	gw := &fakeGateway{}
	sess, cartStore := setup(t, gw)

	flow := NewFlow(gw, sess, cartStore, nil)
	_, err := flow.Submit(context.Background())
	require.ErrorIs(t, err, ErrEmptyCart)
	require.Equal(t, StateFailed, flow.State())
	require.Zero(t, gw.CreateOrderCalls)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "submitting", StateSubmitting.String())
	require.Equal(t, "succeeded", StateSucceeded.String())
	require.Equal(t, "failed", StateFailed.String())
}
