package gateway

import "errors"

var (
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrRegistrationFailed  = errors.New("registration failed")
	ErrSessionExpired      = errors.New("session expired")
	ErrProductNotFound     = errors.New("product not found")
	ErrCatalogUnavailable  = errors.New("catalog unavailable")
	ErrOrderCreationFailed = errors.New("order creation failed")
	ErrItemNotFound        = errors.New("cart item not found")
)
