// Package orders exposes the authenticated user's order history.
package orders

import (
	"context"

	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/models"
)

// TokenSource yields the access token for gateway calls.
type TokenSource interface {
	AccessToken() string
}

// Service reads placed orders. The client only observes order status;
// it never mutates an order after creation.
type Service struct {
	gw    gateway.Gateway
	token TokenSource
}

func NewService(gw gateway.Gateway, token TokenSource) *Service {
	return &Service{gw: gw, token: token}
}

func (s *Service) List(ctx context.Context) ([]models.Order, error) {
	return s.gw.ListOrders(ctx, s.token.AccessToken())
}

func (s *Service) Get(ctx context.Context, orderID int64) (models.Order, error) {
	return s.gw.GetOrder(ctx, s.token.AccessToken(), orderID)
}
