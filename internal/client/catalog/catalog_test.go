package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/models"
)

type fakeGateway struct {
	ListRet   []models.Product
	ListErr   error
	SearchRet []models.Product
	SearchErr error
	GetRet    models.Product
	GetErr    error

	LastQuery string
}

func (f *fakeGateway) ListProducts(context.Context) ([]models.Product, error) {
	return f.ListRet, f.ListErr
}
func (f *fakeGateway) SearchProducts(_ context.Context, query string) ([]models.Product, error) {
	f.LastQuery = query
	return f.SearchRet, f.SearchErr
}
func (f *fakeGateway) GetProduct(context.Context, int64) (models.Product, error) {
	return f.GetRet, f.GetErr
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
	return models.TokenPair{}, nil
}
func (f *fakeGateway) Register(context.Context, models.RegisterData) (models.TokenPair, error) {
	return models.TokenPair{}, nil
}
func (f *fakeGateway) GetProfile(context.Context, string) (models.User, error) {
	return models.User{}, nil
}
func (f *fakeGateway) RefreshToken(context.Context, string) (models.TokenPair, error) {
	return models.TokenPair{}, nil
}
func (f *fakeGateway) CreateOrder(context.Context, string, models.OrderPayload) (models.Order, error) {
	return models.Order{}, nil
}
func (f *fakeGateway) ListOrders(context.Context, string) ([]models.Order, error) { return nil, nil }
func (f *fakeGateway) GetOrder(context.Context, string, int64) (models.Order, error) {
	return models.Order{}, nil
}

func TestRefresh(t *testing.T) {
	gw := &fakeGateway{ListRet: []models.Product{{ID: 1, Name: "Webcam"}}}
	svc := NewService(gw)

	products, status := svc.Products()
	require.Empty(t, products)
	require.Equal(t, StatusNotLoaded, status)

	got, err := svc.Refresh(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 1)

	products, status = svc.Products()
	require.Equal(t, StatusLoaded, status)
	require.Equal(t, "Webcam", products[0].Name)
	require.NoError(t, svc.LoadErr())
}

func TestRefresh_FailureKeepsPreviousList(t *testing.T) {
	gw := &fakeGateway{ListRet: []models.Product{{ID: 1, Name: "Webcam"}}}
	svc := NewService(gw)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	gw.ListErr = gateway.ErrCatalogUnavailable
	_, err = svc.Refresh(context.Background())
	require.ErrorIs(t, err, gateway.ErrCatalogUnavailable)

	// The stale list stays visible alongside the error.
	products, status := svc.Products()
	require.Len(t, products, 1)
	require.Equal(t, StatusLoaded, status)
	require.ErrorIs(t, svc.LoadErr(), gateway.ErrCatalogUnavailable)

	// A later success clears the error.
	gw.ListErr = nil
	_, err = svc.Refresh(context.Background())
	require.NoError(t, err)
	require.NoError(t, svc.LoadErr())
}

func TestSearch_ReplacesCache(t *testing.T) {
	gw := &fakeGateway{
		ListRet:   []models.Product{{ID: 1}, {ID: 2}},
		SearchRet: []models.Product{{ID: 2, Name: "Desk Mat"}},
	}
	svc := NewService(gw)

	_, err := svc.Refresh(context.Background())
	require.NoError(t, err)

	got, err := svc.Search(context.Background(), "desk")
	require.NoError(t, err)
	require.Equal(t, "desk", gw.LastQuery)
	require.Len(t, got, 1)

	products, _ := svc.Products()
	require.Len(t, products, 1)
	require.Equal(t, "Desk Mat", products[0].Name)
}

func TestGet(t *testing.T) {
	gw := &fakeGateway{GetErr: gateway.ErrProductNotFound}
	svc := NewService(gw)

	_, err := svc.Get(context.Background(), 42)
	require.ErrorIs(t, err, gateway.ErrProductNotFound)
}
