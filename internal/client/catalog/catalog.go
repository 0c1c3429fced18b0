// Package catalog is a pull-based read service over the gateway's
// product endpoints, with a cached last-known list for the
// presentation layer.
package catalog

import (
	"context"
	"sync"

	"github.com/example/storefront/internal/client/gateway"
	"github.com/example/storefront/internal/models"
)

// Status is the load state of the cached product list.
type Status int

const (
	StatusNotLoaded Status = iota
	StatusLoaded
)

// Service caches the most recent product listing. Read failures are
// kept as service-level error state so a view can render them; the
// previous list stays visible.
type Service struct {
	gw gateway.Gateway

	mu       sync.RWMutex
	products []models.Product
	status   Status
	loadErr  error
}

func NewService(gw gateway.Gateway) *Service {
	return &Service{gw: gw}
}

// Refresh fetches the full product list.
func (s *Service) Refresh(ctx context.Context) ([]models.Product, error) {
	products, err := s.gw.ListProducts(ctx)
	s.commit(products, err)
	return products, err
}

// Search fetches products matching query. The result replaces the
// cached list so the view and the cache agree.
func (s *Service) Search(ctx context.Context, query string) ([]models.Product, error) {
	products, err := s.gw.SearchProducts(ctx, query)
	s.commit(products, err)
	return products, err
}

func (s *Service) commit(products []models.Product, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.loadErr = err
		return
	}
	s.products = products
	s.status = StatusLoaded
	s.loadErr = nil
}

// Get fetches a single product by id.
func (s *Service) Get(ctx context.Context, id int64) (models.Product, error) {
	return s.gw.GetProduct(ctx, id)
}

// Products returns the cached list and its load status.
func (s *Service) Products() ([]models.Product, Status) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	products := make([]models.Product, len(s.products))
	copy(products, s.products)
	return products, s.status
}

// LoadErr returns the last read failure, if any.
func (s *Service) LoadErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}
