package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/example/storefront/internal/models"
)

// HTTPGateway implements Gateway over the commerce API's JSON contract.
type HTTPGateway struct {
	baseURL string
	http    *http.Client
}

// NewHTTPGateway returns a gateway rooted at baseURL, e.g.
// "http://localhost:8000/api". timeout bounds every request.
func NewHTTPGateway(baseURL string, timeout time.Duration) *HTTPGateway {
	return &HTTPGateway{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// do performs one request. A non-empty token is sent as a bearer
// header. The response body is decoded into out when out is non-nil;
// non-2xx statuses are returned as statusError for the callers to map.
func (g *HTTPGateway) do(ctx context.Context, method, path, token string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := g.http.Do(req)
	if err != nil {
		return fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, resp.Body)
		return &statusError{Method: method, Path: path, Code: resp.StatusCode}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response %s %s: %w", method, path, err)
	}
	return nil
}

// statusError carries a non-2xx HTTP status until an operation-specific
// sentinel is chosen.
type statusError struct {
	Method string
	Path   string
	Code   int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d", e.Method, e.Path, e.Code)
}

// mapStatus converts a statusError into the operation's sentinel.
// unauthorized is the error for 401/403; notFound for 404 (optional);
// fallback covers everything else, including transport failures.
func mapStatus(err error, unauthorized, notFound, fallback error) error {
	se, ok := err.(*statusError)
	if !ok {
		return fmt.Errorf("%w: %w", fallback, err)
	}
	switch {
	case (se.Code == http.StatusUnauthorized || se.Code == http.StatusForbidden) && unauthorized != nil:
		return unauthorized
	case se.Code == http.StatusNotFound && notFound != nil:
		return notFound
	default:
		return fmt.Errorf("%w: status %d", fallback, se.Code)
	}
}

func (g *HTTPGateway) ListProducts(ctx context.Context) ([]models.Product, error) {
	var products []models.Product
	if err := g.do(ctx, http.MethodGet, "/products/", "", nil, &products); err != nil {
		return nil, mapStatus(err, nil, nil, ErrCatalogUnavailable)
	}
	return products, nil
}

func (g *HTTPGateway) SearchProducts(ctx context.Context, query string) ([]models.Product, error) {
	var products []models.Product
	path := "/products/?search=" + url.QueryEscape(query)
	if err := g.do(ctx, http.MethodGet, path, "", nil, &products); err != nil {
		return nil, mapStatus(err, nil, nil, ErrCatalogUnavailable)
	}
	return products, nil
}

func (g *HTTPGateway) GetProduct(ctx context.Context, id int64) (models.Product, error) {
	var product models.Product
	path := fmt.Sprintf("/products/%d/", id)
	if err := g.do(ctx, http.MethodGet, path, "", nil, &product); err != nil {
		return models.Product{}, mapStatus(err, nil, ErrProductNotFound, ErrCatalogUnavailable)
	}
	return product, nil
}

func (g *HTTPGateway) GetCart(ctx context.Context, accessToken string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := g.do(ctx, http.MethodGet, "/cart/", accessToken, nil, &items); err != nil {
		return nil, mapStatus(err, ErrSessionExpired, nil, errors.New("fetch cart"))
	}
	return items, nil
}

func (g *HTTPGateway) AddCartItem(ctx context.Context, accessToken string, productID int64, quantity int) (models.CartItem, error) {
	req := struct {
		ProductID int64 `json:"product_id"`
		Quantity  int   `json:"quantity"`
	}{ProductID: productID, Quantity: quantity}

	var item models.CartItem
	if err := g.do(ctx, http.MethodPost, "/cart/", accessToken, req, &item); err != nil {
		return models.CartItem{}, mapStatus(err, ErrSessionExpired, ErrProductNotFound, errors.New("add cart item"))
	}
	return item, nil
}

func (g *HTTPGateway) UpdateCartItem(ctx context.Context, accessToken string, itemID int64, quantity int) (models.CartItem, error) {
	req := struct {
		Quantity int `json:"quantity"`
	}{Quantity: quantity}

	var item models.CartItem
	path := fmt.Sprintf("/cart/%d/", itemID)
	if err := g.do(ctx, http.MethodPut, path, accessToken, req, &item); err != nil {
		return models.CartItem{}, mapStatus(err, ErrSessionExpired, ErrItemNotFound, errors.New("update cart item"))
	}
	return item, nil
}

func (g *HTTPGateway) DeleteCartItem(ctx context.Context, accessToken string, itemID int64) error {
	path := fmt.Sprintf("/cart/%d/", itemID)
	if err := g.do(ctx, http.MethodDelete, path, accessToken, nil, nil); err != nil {
		return mapStatus(err, ErrSessionExpired, ErrItemNotFound, errors.New("delete cart item"))
	}
	return nil
}

func (g *HTTPGateway) Login(ctx context.Context, creds models.LoginCredentials) (models.TokenPair, error) {
	var pair models.TokenPair
	if err := g.do(ctx, http.MethodPost, "/login/", "", creds, &pair); err != nil {
		return models.TokenPair{}, mapStatus(err, ErrInvalidCredentials, nil, ErrInvalidCredentials)
	}
	return pair, nil
}

func (g *HTTPGateway) Register(ctx context.Context, data models.RegisterData) (models.TokenPair, error) {
	var pair models.TokenPair
	if err := g.do(ctx, http.MethodPost, "/register/", "", data, &pair); err != nil {
		return models.TokenPair{}, mapStatus(err, ErrRegistrationFailed, nil, ErrRegistrationFailed)
	}
	return pair, nil
}

func (g *HTTPGateway) GetProfile(ctx context.Context, accessToken string) (models.User, error) {
	var user models.User
	if err := g.do(ctx, http.MethodGet, "/profile/", accessToken, nil, &user); err != nil {
		return models.User{}, mapStatus(err, ErrSessionExpired, nil, ErrSessionExpired)
	}
	return user, nil
}

func (g *HTTPGateway) RefreshToken(ctx context.Context, refreshToken string) (models.TokenPair, error) {
	req := struct {
		Refresh string `json:"refresh"`
	}{Refresh: refreshToken}

	var pair models.TokenPair
	if err := g.do(ctx, http.MethodPost, "/token/refresh/", "", req, &pair); err != nil {
		return models.TokenPair{}, mapStatus(err, ErrSessionExpired, nil, ErrSessionExpired)
	}
	return pair, nil
}

func (g *HTTPGateway) CreateOrder(ctx context.Context, accessToken string, payload models.OrderPayload) (models.Order, error) {
	var order models.Order
	if err := g.do(ctx, http.MethodPost, "/orders/", accessToken, payload, &order); err != nil {
		return models.Order{}, mapStatus(err, ErrSessionExpired, nil, ErrOrderCreationFailed)
	}
	return order, nil
}

func (g *HTTPGateway) ListOrders(ctx context.Context, accessToken string) ([]models.Order, error) {
	var orders []models.Order
	if err := g.do(ctx, http.MethodGet, "/orders/", accessToken, nil, &orders); err != nil {
		return nil, mapStatus(err, ErrSessionExpired, nil, errors.New("fetch orders"))
	}
	return orders, nil
}

func (g *HTTPGateway) GetOrder(ctx context.Context, accessToken string, orderID int64) (models.Order, error) {
	var order models.Order
	path := fmt.Sprintf("/orders/%d/", orderID)
	if err := g.do(ctx, http.MethodGet, path, accessToken, nil, &order); err != nil {
		return models.Order{}, mapStatus(err, ErrSessionExpired, nil, errors.New("fetch order"))
	}
	return order, nil
}
