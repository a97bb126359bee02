package domain

import "errors"

var (
	// ErrProductNotFound is returned when no product has the requested ID
	ErrProductNotFound = errors.New("product not found")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrCatalogUnavailable is returned when the catalog source cannot be read
	ErrCatalogUnavailable = errors.New("catalog source unavailable")

	// ErrInvalidProduct is returned when a catalog record fails validation
	ErrInvalidProduct = errors.New("invalid product record")
)
