// Package models defines the wire types exchanged with the commerce
// gateway. Field names and JSON tags follow the gateway's contract.
package models

import "time"

// Product is a read-only catalog snapshot. Cart items embed the
// snapshot taken at add time; prices and inventory are not re-fetched.
type Product struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	InventoryCount int     `json:"inventory_count"`
	ImageURL       string  `json:"image_url"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}

// CartItem is one product+quantity line within a cart.
//
// ID is server-assigned when the cart is remote-backed. In local mode
// the client mints a process-local surrogate id and UserID is 0.
type CartItem struct {
	ID       int64   `json:"id"`
	UserID   int64   `json:"user"`
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// OrderStatus enumerates the lifecycle states a placed order moves
// through. The client observes status changes, it never drives them.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Order is a create-once record returned by the gateway.
type Order struct {
	ID          int64       `json:"id"`
	UserID      int64       `json:"user"`
	TotalAmount float64     `json:"total_amount"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
	Items       []OrderItem `json:"items"`
}

// OrderItem is one line of a placed order, priced at order time.
type OrderItem struct {
	ID        int64   `json:"id"`
	OrderID   int64   `json:"order"`
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

// User is the resolved profile of an authenticated session.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// TokenPair is the credential pair issued by the gateway. Both tokens
// are opaque to the client.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// LoginCredentials are the inputs to the login endpoint.
type LoginCredentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// RegisterData are the inputs to the registration endpoint.
type RegisterData struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// OrderPayload is the order-creation request body. Lines carry the
// unit price from the cart's product snapshot.
type OrderPayload struct {
	TotalAmount float64            `json:"total_amount"`
	Items       []OrderPayloadItem `json:"items"`
}

type OrderPayloadItem struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}
