package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/example/storefront/internal/models"
)

func register(t *testing.T, m *Memory, username string) Account {
	t.Helper()
	acc, err := m.CreateAccount(models.RegisterData{
		Username: username,
		Email:    username + "@example.com",
	}, "hash")
	require.NoError(t, err)
	return acc
}

func TestProducts_Seeded(t *testing.T) {
	m := NewMemory()

	all := m.Products("")
	require.NotEmpty(t, all)
	for _, p := range all {
		require.NotZero(t, p.ID)
		require.NotEmpty(t, p.Name)
		require.Positive(t, p.Price)
	}
}

func TestProducts_Search(t *testing.T) {
	m := NewMemory()

	hits := m.Products("keyboard")
	require.Len(t, hits, 1)
	require.Equal(t, "Mechanical Keyboard", hits[0].Name)

	require.Empty(t, m.Products("no such thing"))
}

func TestProduct_NotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Product(9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestCreateAccount_DuplicateUsername(t *testing.T) {
	m := NewMemory()
	register(t, m, "alice")

	_, err := m.CreateAccount(models.RegisterData{Username: "alice"}, "hash")
	require.ErrorIs(t, err, ErrUsernameTaken)
}

func TestAccountLookups(t *testing.T) {
	m := NewMemory()
	acc := register(t, m, "alice")

	byName, err := m.AccountByUsername("alice")
	require.NoError(t, err)
	require.Equal(t, acc.ID, byName.ID)

	byID, err := m.Account(acc.ID)
	require.NoError(t, err)
	require.Equal(t, "alice", byID.Username)

	_, err = m.AccountByUsername("nobody")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAddCartItem_MergesDuplicates(t *testing.T) {
	m := NewMemory()
	acc := register(t, m, "alice")

	first, err := m.AddCartItem(acc.ID, 1, 2)
	require.NoError(t, err)

	second, err := m.AddCartItem(acc.ID, 1, 3)
	require.NoError(t, err)

	// Same line, merged quantity.
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 5, second.Quantity)
	require.Len(t, m.Cart(acc.ID), 1)
}

func TestAddCartItem_Stock(t *testing.T) {
	m := NewMemory()
	acc := register(t, m, "alice")

	// Product 5 is seeded with 15 in stock.
	_, err := m.AddCartItem(acc.ID, 5, 16)
	require.ErrorIs(t, err, ErrOutOfStock)

	_, err = m.AddCartItem(acc.ID, 5, 10)
	require.NoError(t, err)
	_, err = m.AddCartItem(acc.ID, 5, 6)
	require.ErrorIs(t, err, ErrOutOfStock)
}

func TestAddCartItem_UnknownProduct(t *testing.T) {
	m := NewMemory()
	acc := register(t, m, "alice")

	_, err := m.AddCartItem(acc.ID, 9999, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateCartItem(t *testing.T) {
	m := NewMemory()
	acc := register(t, m, "alice")

	line, err := m.AddCartItem(acc.ID, 1, 1)
	require.NoError(t, err)

	updated, err := m.UpdateCartItem(acc.ID, line.ID, 4)
	require.NoError(t, err)
	require.Equal(t, 4, updated.Quantity)

	_, err = m.UpdateCartItem(acc.ID, 9999, 1)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteCartItem(t *testing.T) {
	m := NewMemory()
	acc := register(t, m, "alice")

	line, err := m.AddCartItem(acc.ID, 1, 1)
	require.NoError(t, err)

	require.NoError(t, m.DeleteCartItem(acc.ID, line.ID))
	require.Empty(t, m.Cart(acc.ID))
	require.ErrorIs(t, m.DeleteCartItem(acc.ID, line.ID), ErrNotFound)
}

func TestCartsAreIsolatedByUser(t *testing.T) {
	m := NewMemory()
	alice := register(t, m, "alice")
	bob := register(t, m, "bob")

	_, err := m.AddCartItem(alice.ID, 1, 1)
	require.NoError(t, err)

	require.Len(t, m.Cart(alice.ID), 1)
	require.Empty(t, m.Cart(bob.ID))
}

func TestCreateOrder(t *testing.T) {
	m := NewMemory()
	acc := register(t, m, "alice")

	_, err := m.AddCartItem(acc.ID, 1, 2)
	require.NoError(t, err)

	payload := models.OrderPayload{
		TotalAmount: 431.98,
		Items: []models.OrderPayloadItem{
			{ProductID: 1, Quantity: 2, UnitPrice: 199.99},
		},
	}

	order, err := m.CreateOrder(acc.ID, payload)
	require.NoError(t, err)
	require.Equal(t, models.OrderPending, order.Status)
	require.Equal(t, acc.ID, order.UserID)
	require.Len(t, order.Items, 1)
	require.InDelta(t, 199.99, order.Items[0].UnitPrice, 1e-9)

	// Placing the order emptied the server-side cart.
	require.Empty(t, m.Cart(acc.ID))
}

func TestCreateOrder_Empty(t *testing.T) {
	m := NewMemory()
	acc := register(t, m, "alice")

	_, err := m.CreateOrder(acc.ID, models.OrderPayload{})
	require.ErrorIs(t, err, ErrEmptyOrder)
}

func TestOrders_MostRecentFirst(t *testing.T) {
	m := NewMemory()
	acc := register(t, m, "alice")

	mk := func() models.Order {
		order, err := m.CreateOrder(acc.ID, models.OrderPayload{
			Items: []models.OrderPayloadItem{{ProductID: 1, Quantity: 1, UnitPrice: 199.99}},
		})
		require.NoError(t, err)
		return order
	}
	first := mk()
	second := mk()

	orders := m.Orders(acc.ID)
	require.Len(t, orders, 2)
	require.Equal(t, second.ID, orders[0].ID)
	require.Equal(t, first.ID, orders[1].ID)

	got, err := m.Order(acc.ID, first.ID)
	require.NoError(t, err)
	require.Equal(t, first.ID, got.ID)

	// Orders are scoped to their owner.
	bob := register(t, m, "bob")
	_, err = m.Order(bob.ID, first.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
