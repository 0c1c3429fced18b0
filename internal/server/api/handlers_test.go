package api

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/logging"
	"github.com/example/storefront/internal/models"
	"github.com/example/storefront/internal/server/auth"
	"github.com/example/storefront/internal/server/store"
)

// newTestServer runs the full router and returns the client-side
// gateway pointed at it, so these tests double as a contract check
// between the two halves.
func newTestServer(t *testing.T) *gateway.HTTPGateway {
	t.Helper()

	log := logging.NewDefault()
	jwtService := auth.NewJWTService("test-secret", time.Minute, time.Hour)
	handlers := NewHandlers(store.NewMemory(), jwtService, log)

	srv := httptest.NewServer(NewRouter(handlers, jwtService, log))
	t.Cleanup(srv.Close)

	return gateway.NewHTTPGateway(srv.URL+"/api", 5*time.Second)
}

func registerUser(t *testing.T, gw *gateway.HTTPGateway, username string) models.TokenPair {
	t.Helper()
	pair, err := gw.Register(context.Background(), models.RegisterData{
		Username:  username,
		Email:     username + "@example.com",
		Password:  "password123",
		FirstName: "Test",
		LastName:  "User",
	})
	require.NoError(t, err)
	return pair
}

func TestProducts(t *testing.T) {
	gw := newTestServer(t)
	ctx := context.Background()

	products, err := gw.ListProducts(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, products)

	hits, err := gw.SearchProducts(ctx, "keyboard")
	require.NoError(t, err)
	require.Len(t, hits, 1)

	product, err := gw.GetProduct(ctx, products[0].ID)
	require.NoError(t, err)
	require.Equal(t, products[0].Name, product.Name)

	_, err = gw.GetProduct(ctx, 9999)
	require.ErrorIs(t, err, gateway.ErrProductNotFound)
}

func TestRegisterAndLogin(t *testing.T) {
	gw := newTestServer(t)
	ctx := context.Background()

	pair := registerUser(t, gw, "alice")
	require.NotEmpty(t, pair.Access)
	require.NotEmpty(t, pair.Refresh)

	// The fresh pair resolves a profile.
	user, err := gw.GetProfile(ctx, pair.Access)
	require.NoError(t, err)
	require.Equal(t, "alice", user.Username)
	require.Equal(t, "alice@example.com", user.Email)

	// Duplicate username is rejected.
	_, err = gw.Register(ctx, models.RegisterData{
		Username: "alice", Email: "other@example.com", Password: "password123",
	})
	require.ErrorIs(t, err, gateway.ErrRegistrationFailed)

	// Login round trip.
	pair, err = gw.Login(ctx, models.LoginCredentials{Username: "alice", Password: "password123"})
	require.NoError(t, err)
	require.NotEmpty(t, pair.Access)

	_, err = gw.Login(ctx, models.LoginCredentials{Username: "alice", Password: "wrong-pass"})
	require.ErrorIs(t, err, gateway.ErrInvalidCredentials)
}

func TestRegister_ShortPassword(t *testing.T) {
	gw := newTestServer(t)

	_, err := gw.Register(context.Background(), models.RegisterData{
		Username: "bob", Email: "bob@example.com", Password: "short",
	})
	require.ErrorIs(t, err, gateway.ErrRegistrationFailed)
}

func TestRefreshToken(t *testing.T) {
	gw := newTestServer(t)
	ctx := context.Background()

	pair := registerUser(t, gw, "alice")

	fresh, err := gw.RefreshToken(ctx, pair.Refresh)
	require.NoError(t, err)
	require.NotEmpty(t, fresh.Access)

	_, err = gw.GetProfile(ctx, fresh.Access)
	require.NoError(t, err)

	_, err = gw.RefreshToken(ctx, "garbage")
	require.ErrorIs(t, err, gateway.ErrSessionExpired)
}

func TestProfile_RequiresToken(t *testing.T) {
	gw := newTestServer(t)

	_, err := gw.GetProfile(context.Background(), "")
	require.ErrorIs(t, err, gateway.ErrSessionExpired)

	_, err = gw.GetProfile(context.Background(), "bogus")
	require.ErrorIs(t, err, gateway.ErrSessionExpired)
}

func TestCartFlow(t *testing.T) {
	gw := newTestServer(t)
	ctx := context.Background()
	pair := registerUser(t, gw, "alice")

	// Empty to start.
	items, err := gw.GetCart(ctx, pair.Access)
	require.NoError(t, err)
	require.Empty(t, items)

	// Add, then add the same product again: one merged line.
	line, err := gw.AddCartItem(ctx, pair.Access, 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), line.Product.ID)

	merged, err := gw.AddCartItem(ctx, pair.Access, 1, 3)
	require.NoError(t, err)
	require.Equal(t, line.ID, merged.ID)
	require.Equal(t, 5, merged.Quantity)

	items, err = gw.GetCart(ctx, pair.Access)
	require.NoError(t, err)
	require.Len(t, items, 1)

	// Update and delete.
	updated, err := gw.UpdateCartItem(ctx, pair.Access, line.ID, 1)
	require.NoError(t, err)
	require.Equal(t, 1, updated.Quantity)

	require.NoError(t, gw.DeleteCartItem(ctx, pair.Access, line.ID))

	items, err = gw.GetCart(ctx, pair.Access)
	require.NoError(t, err)
	require.Empty(t, items)

	// Gone lines 404.
	_, err = gw.UpdateCartItem(ctx, pair.Access, line.ID, 1)
	require.ErrorIs(t, err, gateway.ErrItemNotFound)
}

func TestCart_RequiresAuth(t *testing.T) {
	gw := newTestServer(t)

	_, err := gw.GetCart(context.Background(), "")
	require.ErrorIs(t, err, gateway.ErrSessionExpired)

	_, err = gw.AddCartItem(context.Background(), "bogus", 1, 1)
	require.ErrorIs(t, err, gateway.ErrSessionExpired)
}

func TestOrderFlow(t *testing.T) {
	gw := newTestServer(t)
	ctx := context.Background()
	pair := registerUser(t, gw, "alice")

	_, err := gw.AddCartItem(ctx, pair.Access, 1, 2)
	require.NoError(t, err)

	payload := models.OrderPayload{
		TotalAmount: 431.98,
		Items: []models.OrderPayloadItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 199.99},
		},
	}
	order, err := gw.CreateOrder(ctx, pair.Access, payload)
	require.NoError(t, err)
	require.Equal(t, models.OrderPending, order.Status)
	require.Len(t, order.Items, 1)

	// The server-side cart was emptied by the order.
	items, err := gw.GetCart(ctx, pair.Access)
	require.NoError(t, err)
	require.Empty(t, items)

	orders, err := gw.ListOrders(ctx, pair.Access)
	require.NoError(t, err)
	require.Len(t, orders, 1)

	got, err := gw.GetOrder(ctx, pair.Access, order.ID)
	require.NoError(t, err)
	require.Equal(t, order.ID, got.ID)

	_, err = gw.GetOrder(ctx, pair.Access, 9999)
	require.Error(t, err)
}

func TestCreateOrder_Empty(t *testing.T) {
	gw := newTestServer(t)
	pair := registerUser(t, gw, "alice")

	_, err := gw.CreateOrder(context.Background(), pair.Access, models.OrderPayload{})
	require.ErrorIs(t, err, gateway.ErrOrderCreationFailed)
}
