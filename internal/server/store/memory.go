// Package store is the dev gateway's in-memory data layer: a seeded
// product catalog plus per-user accounts, carts, and orders. Everything
// is lost on restart; the dev gateway exists so the storefront client
// can be exercised without the production commerce API.
package store

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/example/storefront/internal/models"
)

var (
	ErrNotFound      = errors.New("not found")
	ErrUsernameTaken = errors.New("username already taken")
	ErrOutOfStock    = errors.New("insufficient stock")
	ErrEmptyOrder    = errors.New("order has no items")
)

// Account is a registered user plus its password hash. The hash never
// leaves the store; handlers expose only the embedded User.
type Account struct {
	models.User
	PasswordHash string
}

// Memory holds all dev gateway state behind one mutex. Request volume
// is a single developer's client; contention is not a concern.
type Memory struct {
	mu sync.Mutex

	products []models.Product

	accounts   map[int64]*Account
	byUsername map[string]int64
	nextUserID int64

	carts      map[int64][]models.CartItem
	nextLineID int64

	orders      map[int64][]models.Order
	nextOrderID int64
	nextItemID  int64
}

// NewMemory returns a store seeded with the demo catalog.
func NewMemory() *Memory {
	m := &Memory{
		accounts:    make(map[int64]*Account),
		byUsername:  make(map[string]int64),
		nextUserID:  1,
		carts:       make(map[int64][]models.CartItem),
		nextLineID:  1,
		orders:      make(map[int64][]models.Order),
		nextOrderID: 1,
		nextItemID:  1,
	}
	m.products = seedProducts()
	return m
}

func seedProducts() []models.Product {
	now := time.Now().UTC().Format(time.RFC3339)
	mk := func(id int64, name, desc string, price float64, stock int) models.Product {
		return models.Product{
			ID:             id,
			Name:           name,
			Description:    desc,
			Price:          price,
			InventoryCount: stock,
			ImageURL:       "https://picsum.photos/seed/" + strings.ReplaceAll(strings.ToLower(name), " ", "-") + "/400/300",
			CreatedAt:      now,
			UpdatedAt:      now,
		}
	}
	return []models.Product{
		mk(1, "Wireless Headphones", "Over-ear Bluetooth headphones with active noise cancelling.", 199.99, 25),
		mk(2, "Mechanical Keyboard", "Tenkeyless board with hot-swappable switches.", 129.50, 40),
		mk(3, "USB-C Hub", "7-in-1 hub with HDMI, card reader and 100W pass-through.", 49.95, 120),
		mk(4, "Laptop Stand", "Adjustable aluminium stand for 13-16 inch laptops.", 38.00, 60),
		mk(5, "Webcam", "1080p webcam with built-in privacy shutter.", 74.99, 15),
		mk(6, "Desk Mat", "900x400mm stitched-edge desk mat.", 24.00, 200),
		mk(7, "Portable SSD", "1TB external NVMe drive, USB 3.2 Gen 2.", 109.00, 35),
		mk(8, "Monitor Light Bar", "Screen-mounted bar with auto-dimming.", 89.90, 18),
	}
}

// Products returns the catalog, optionally filtered by a case-insensitive
// substring match on name and description.
func (m *Memory) Products(search string) []models.Product {
	m.mu.Lock()
	defer m.mu.Unlock()

	if search == "" {
		out := make([]models.Product, len(m.products))
		copy(out, m.products)
		return out
	}

	q := strings.ToLower(search)
	var out []models.Product
	for _, p := range m.products {
		if strings.Contains(strings.ToLower(p.Name), q) || strings.Contains(strings.ToLower(p.Description), q) {
			out = append(out, p)
		}
	}
	return out
}

// Product looks up one catalog entry by id.
func (m *Memory) Product(id int64) (models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.productLocked(id)
}

func (m *Memory) productLocked(id int64) (models.Product, error) {
	for _, p := range m.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrNotFound
}

// CreateAccount registers a user. Usernames are unique.
func (m *Memory) CreateAccount(data models.RegisterData, passwordHash string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, taken := m.byUsername[data.Username]; taken {
		return Account{}, ErrUsernameTaken
	}

	acc := &Account{
		User: models.User{
			ID:        m.nextUserID,
			Username:  data.Username,
			Email:     data.Email,
			FirstName: data.FirstName,
			LastName:  data.LastName,
		},
		PasswordHash: passwordHash,
	}
	m.nextUserID++
	m.accounts[acc.ID] = acc
	m.byUsername[acc.Username] = acc.ID
	return *acc, nil
}

// AccountByUsername resolves a login attempt's username.
func (m *Memory) AccountByUsername(username string) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id, ok := m.byUsername[username]
	if !ok {
		return Account{}, ErrNotFound
	}
	return *m.accounts[id], nil
}

// Account returns the account for a validated token's user id.
func (m *Memory) Account(userID int64) (Account, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	acc, ok := m.accounts[userID]
	if !ok {
		return Account{}, ErrNotFound
	}
	return *acc, nil
}

// Cart returns the user's cart lines.
func (m *Memory) Cart(userID int64) []models.CartItem {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.carts[userID]
	out := make([]models.CartItem, len(items))
	copy(out, items)
	return out
}

// AddCartItem adds quantity units of a product to the user's cart. An
// existing line for the same product is merged rather than duplicated,
// matching the client's local-mode behavior.
func (m *Memory) AddCartItem(userID, productID int64, quantity int) (models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	product, err := m.productLocked(productID)
	if err != nil {
		return models.CartItem{}, err
	}
	if quantity < 1 {
		quantity = 1
	}

	items := m.carts[userID]
	for i := range items {
		if items[i].Product.ID == productID {
			if items[i].Quantity+quantity > product.InventoryCount {
				return models.CartItem{}, ErrOutOfStock
			}
			items[i].Quantity += quantity
			return items[i], nil
		}
	}

	if quantity > product.InventoryCount {
		return models.CartItem{}, ErrOutOfStock
	}

	line := models.CartItem{
		ID:       m.nextLineID,
		UserID:   userID,
		Product:  product,
		Quantity: quantity,
	}
	m.nextLineID++
	m.carts[userID] = append(items, line)
	return line, nil
}

// UpdateCartItem sets a line's quantity.
func (m *Memory) UpdateCartItem(userID, lineID int64, quantity int) (models.CartItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.carts[userID]
	for i := range items {
		if items[i].ID != lineID {
			continue
		}
		if quantity > items[i].Product.InventoryCount {
			return models.CartItem{}, ErrOutOfStock
		}
		items[i].Quantity = quantity
		return items[i], nil
	}
	return models.CartItem{}, ErrNotFound
}

// DeleteCartItem removes a line from the user's cart.
func (m *Memory) DeleteCartItem(userID, lineID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.carts[userID]
	for i := range items {
		if items[i].ID == lineID {
			m.carts[userID] = append(items[:i], items[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// CreateOrder turns an order payload into a pending order and empties
// the user's cart so the next cart fetch starts clean.
func (m *Memory) CreateOrder(userID int64, payload models.OrderPayload) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(payload.Items) == 0 {
		return models.Order{}, ErrEmptyOrder
	}

	now := time.Now().UTC()
	order := models.Order{
		ID:          m.nextOrderID,
		UserID:      userID,
		TotalAmount: payload.TotalAmount,
		Status:      models.OrderPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.nextOrderID++

	for _, line := range payload.Items {
		product, err := m.productLocked(line.ProductID)
		if err != nil {
			return models.Order{}, err
		}
		order.Items = append(order.Items, models.OrderItem{
			ID:        m.nextItemID,
			OrderID:   order.ID,
			Product:   product,
			Quantity:  line.Quantity,
			UnitPrice: line.UnitPrice,
		})
		m.nextItemID++
	}

	m.orders[userID] = append(m.orders[userID], order)
	delete(m.carts, userID)
	return order, nil
}

// Orders returns the user's order history, most recent first.
func (m *Memory) Orders(userID int64) []models.Order {
	m.mu.Lock()
	defer m.mu.Unlock()

	orders := m.orders[userID]
	out := make([]models.Order, len(orders))
	for i, o := range orders {
		out[len(orders)-1-i] = o
	}
	return out
}

// Order returns one of the user's orders by id.
func (m *Memory) Order(userID, orderID int64) (models.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, o := range m.orders[userID] {
		if o.ID == orderID {
			return o, nil
		}
	}
	return models.Order{}, ErrNotFound
}
