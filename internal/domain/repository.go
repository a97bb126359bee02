package domain

import (
	"context"
	"time"
)

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) (interface{}, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// CatalogSource fetches the raw product list from wherever it lives
// (static file, upstream API, database).
type CatalogSource interface {
	Fetch(ctx context.Context) ([]Product, error)
}

// CatalogRepository gives read access to the loaded catalog snapshot
type CatalogRepository interface {
	All(ctx context.Context) ([]Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
}
