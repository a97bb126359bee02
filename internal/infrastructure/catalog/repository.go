package catalog

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/ceylonhoney/storefront/internal/domain"
)

// snapshot is one immutable load of the catalog
type snapshot struct {
	products []domain.Product
	byID     map[string]int
	version  uint64
}

// Repository serves the catalog from memory. The product slice handed out
// by All is shared between callers and must be treated as read-only.
type Repository struct {
	source domain.CatalogSource
	mu     sync.RWMutex
	snap   *snapshot
}

// NewRepository creates an empty repository backed by source. Call Reload
// before serving requests.
func NewRepository(source domain.CatalogSource) *Repository {
	return &Repository{
		source: source,
		snap:   &snapshot{byID: map[string]int{}},
	}
}

// Reload fetches the catalog from the source, normalizes it and swaps it in.
// On failure the previous snapshot stays in place.
func (r *Repository) Reload(ctx context.Context) (int, error) {
	raw, err := r.source.Fetch(ctx)
	if err != nil {
		return 0, fmt.Errorf("reload catalog: %w", err)
	}

	products, rejected := Normalize(raw)
	for _, rej := range rejected {
		log.Printf("[CATALOG] Skipping record %d: %v", rej.Index, rej.Err)
	}

	byID := make(map[string]int, len(products))
	for i, p := range products {
		byID[p.ID] = i
	}

	r.mu.Lock()
	r.snap = &snapshot{products: products, byID: byID, version: r.snap.version + 1}
	r.mu.Unlock()

	log.Printf("[CATALOG] Loaded %d products (%d rejected)", len(products), len(rejected))
	return len(products), nil
}

// All returns every product in catalog order
func (r *Repository) All(ctx context.Context) ([]domain.Product, error) {
	return r.current().products, nil
}

// GetByID returns a copy of the product with the given ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	snap := r.current()
	i, ok := snap.byID[id]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	p := snap.products[i]
	return &p, nil
}

// Version increases by one on every successful Reload
func (r *Repository) Version() uint64 {
	return r.current().version
}

func (r *Repository) current() *snapshot {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snap
}
